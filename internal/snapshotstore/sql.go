package snapshotstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"stockalert/internal/components/assert"
	"stockalert/internal/components/chrono"
	"stockalert/internal/components/telemetry"
	"stockalert/internal/product"
	"stockalert/internal/snapshotstore/db"

	"github.com/shopspring/decimal"
)

const (
	report_db_query      = "db.query"
	report_decode_record = "sql-store.decode"
)

// SQLStore is a Store backed by the stock table, see db/schema.sql.
type SQLStore struct {
	qry  *db.Queries
	time chrono.API
	tel  telemetry.API
}

func NewSQLStore(database *sql.DB, time chrono.API, tel telemetry.API) SQLStore {
	assert.NotNil(database)
	assert.NotNil(time)
	assert.NotNil(tel)

	return SQLStore{
		qry:  db.New(database),
		time: time,
		tel:  telemetry.NewScopedAPI("snapshotstore", tel),
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

func (s SQLStore) Get(ctx context.Context, key product.Key) (product.Snapshot, bool, error) {
	param := db.GetStockParams{
		PartID:  key.ProductID,
		StoreID: key.Store.String(),
	}
	row, err := s.qry.GetStock(ctx, param)
	if errors.Is(err, sql.ErrNoRows) {
		return product.Snapshot{}, false, nil
	}
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetStock", param)
		return product.Snapshot{}, false, unavailable("get", err)
	}

	snapshot, err := decode(row)
	if err != nil {
		s.tel.ReportBroken(report_decode_record, err, param)
		return product.Snapshot{}, false, unavailable("get", err)
	}
	return snapshot, true, nil
}

func (s SQLStore) Put(ctx context.Context, snapshot product.Snapshot) error {
	param := encode(snapshot)
	param.UpdatedAt = s.time.Now().Unix()

	err := s.qry.UpsertStock(ctx, param)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "UpsertStock", snapshot.Key().String())
		return unavailable("put", err)
	}
	return nil
}

func (s SQLStore) List(ctx context.Context) ([]product.Snapshot, error) {
	rows, err := s.qry.ListStock(ctx)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "ListStock")
		return nil, unavailable("list", err)
	}

	out := make([]product.Snapshot, 0, len(rows))
	for _, r := range rows {
		snapshot, err := decode(r)
		if err != nil {
			// a single unreadable row should not hide the rest of the table
			s.tel.ReportWarning(report_decode_record, err, r.PartID, r.StoreID)
			continue
		}
		out = append(out, snapshot)
	}
	return out, nil
}

func encode(snapshot product.Snapshot) db.UpsertStockParams {
	record := snapshot.Record()

	var price sql.NullString
	if record.Price.Valid {
		price = sql.NullString{String: record.Price.Decimal.String(), Valid: true}
	}
	var inStock int64
	if record.InStock {
		inStock = 1
	}

	return db.UpsertStockParams{
		PartID:  record.PartId,
		StoreID: record.StoreId,
		Name:    record.Name,
		Price:   price,
		Url:     record.Url,
		InStock: inStock,
	}
}

func decode(row db.Stock) (product.Snapshot, error) {
	record := product.Record{
		PartId:  row.PartID,
		StoreId: row.StoreID,
		Name:    row.Name,
		Url:     row.Url,
		InStock: row.InStock != 0,
	}
	if row.Price.Valid {
		price, err := decimal.NewFromString(row.Price.String)
		if err != nil {
			return product.Snapshot{}, fmt.Errorf("parse price '%s': %w", row.Price.String, err)
		}
		record.Price = decimal.NewNullDecimal(price)
	}
	return product.FromRecord(record)
}

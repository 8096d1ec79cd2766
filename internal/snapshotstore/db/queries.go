package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Stock struct {
	PartID    string
	StoreID   string
	Name      string
	Price     sql.NullString
	Url       string
	InStock   int64
	UpdatedAt int64
}

const getStock = `-- name: GetStock :one
select part_id, store_id, name, price, url, in_stock, updated_at from stock
where part_id = ? and store_id = ?
`

type GetStockParams struct {
	PartID  string
	StoreID string
}

func (q *Queries) GetStock(ctx context.Context, arg GetStockParams) (Stock, error) {
	row := q.db.QueryRowContext(ctx, getStock, arg.PartID, arg.StoreID)
	var i Stock
	err := row.Scan(
		&i.PartID,
		&i.StoreID,
		&i.Name,
		&i.Price,
		&i.Url,
		&i.InStock,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertStock = `-- name: UpsertStock :exec
insert into stock (part_id, store_id, name, price, url, in_stock, updated_at)
values (?, ?, ?, ?, ?, ?, ?)
on conflict (part_id, store_id) do update set
    name = excluded.name,
    price = excluded.price,
    url = excluded.url,
    in_stock = excluded.in_stock,
    updated_at = excluded.updated_at
`

type UpsertStockParams struct {
	PartID    string
	StoreID   string
	Name      string
	Price     sql.NullString
	Url       string
	InStock   int64
	UpdatedAt int64
}

func (q *Queries) UpsertStock(ctx context.Context, arg UpsertStockParams) error {
	_, err := q.db.ExecContext(ctx, upsertStock,
		arg.PartID,
		arg.StoreID,
		arg.Name,
		arg.Price,
		arg.Url,
		arg.InStock,
		arg.UpdatedAt,
	)
	return err
}

const listStock = `-- name: ListStock :many
select part_id, store_id, name, price, url, in_stock, updated_at from stock
order by store_id, part_id
`

func (q *Queries) ListStock(ctx context.Context) ([]Stock, error) {
	rows, err := q.db.QueryContext(ctx, listStock)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Stock
	for rows.Next() {
		var i Stock
		if err := rows.Scan(
			&i.PartID,
			&i.StoreID,
			&i.Name,
			&i.Price,
			&i.Url,
			&i.InStock,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

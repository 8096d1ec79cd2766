package product

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Key is the identity of a tracked product at a single store.
type Key struct {
	ProductID string
	Store     StoreID
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%s", k.ProductID, k.Store)
}

// Target is a tracked (product, store) pair, it comes from static configuration.
type Target struct {
	ProductID string  `json:"id"`
	Store     StoreID `json:"store"`
	URL       string  `json:"url"`
	Title     string  `json:"title"`
}

func (t Target) Key() Key {
	return Key{ProductID: t.ProductID, Store: t.Store}
}

// Snapshot is a single observation of a product at a store. It cannot be
// modified after construction, a new observation is always a new Snapshot.
type Snapshot struct {
	key     Key
	title   string
	price   decimal.NullDecimal
	url     string
	inStock bool
}

// New creates a snapshot, the price is informational only.
func New(key Key, title, url string, price decimal.NullDecimal, inStock bool) Snapshot {
	return Snapshot{
		key:     key,
		title:   title,
		price:   price,
		url:     url,
		inStock: inStock,
	}
}

// Fallback is the snapshot produced when resolving target failed: out of stock
// with no price.
func Fallback(target Target) Snapshot {
	return New(target.Key(), target.Title, target.URL, decimal.NullDecimal{}, false)
}

func (s Snapshot) Key() Key                   { return s.key }
func (s Snapshot) ProductID() string          { return s.key.ProductID }
func (s Snapshot) Store() StoreID             { return s.key.Store }
func (s Snapshot) Title() string              { return s.title }
func (s Snapshot) Price() decimal.NullDecimal { return s.price }
func (s Snapshot) URL() string                { return s.url }
func (s Snapshot) InStock() bool              { return s.inStock }

// FormatPrice renders the price as "$1999.99", or "price unavailable" when absent.
func (s Snapshot) FormatPrice() string {
	if !s.price.Valid {
		return "price unavailable"
	}
	return "$" + s.price.Decimal.StringFixed(2)
}

func (s Snapshot) String() string {
	availability := "is in stock"
	if !s.inStock {
		availability = "is out of stock"
	}
	if !s.price.Valid {
		return fmt.Sprintf("%s %s at %s (%s)", s.title, availability, s.key.Store.DisplayName(), s.FormatPrice())
	}
	return fmt.Sprintf("%s %s at %s for %s", s.title, availability, s.key.Store.DisplayName(), s.FormatPrice())
}

// Record is the persisted representation of a snapshot.
type Record struct {
	PartId  string              `json:"PartId"`
	StoreId string              `json:"StoreId"`
	Name    string              `json:"Name"`
	Price   decimal.NullDecimal `json:"Price"`
	Url     string              `json:"Url"`
	InStock bool                `json:"InStock"`
}

func (s Snapshot) Record() Record {
	return Record{
		PartId:  s.key.ProductID,
		StoreId: s.key.Store.String(),
		Name:    s.title,
		Price:   s.price,
		Url:     s.url,
		InStock: s.inStock,
	}
}

// FromRecord converts a persisted record back into a snapshot, it fails if
// the record does not name a known store.
func FromRecord(r Record) (Snapshot, error) {
	store, err := ParseStoreID(r.StoreId)
	if err != nil {
		return Snapshot{}, err
	}
	if r.PartId == "" {
		return Snapshot{}, fmt.Errorf("record has an empty PartId")
	}
	return New(
		Key{ProductID: r.PartId, Store: store},
		r.Name,
		r.Url,
		r.Price,
		r.InStock,
	), nil
}

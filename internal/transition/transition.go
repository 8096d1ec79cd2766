// Package transition decides what to do with a fresh observation of a product
// given the last persisted one. It holds no state and does no I/O.
package transition

import (
	"fmt"
	"stockalert/internal/product"
)

// Case names the row of the decision table that produced a Directive.
type Case int

const (
	FirstSeenOutOfStock Case = iota
	FirstSeenInStock
	SteadyInStock
	WentOutOfStock
	SteadyOutOfStock
	BackInStock
)

func (c Case) String() string {
	switch c {
	case FirstSeenOutOfStock:
		return "first-seen-out-of-stock"
	case FirstSeenInStock:
		return "first-seen-in-stock"
	case SteadyInStock:
		return "steady-in-stock"
	case WentOutOfStock:
		return "went-out-of-stock"
	case SteadyOutOfStock:
		return "steady-out-of-stock"
	case BackInStock:
		return "back-in-stock"
	}
	return fmt.Sprintf("Case(%d)", int(c))
}

// Directive tells the caller whether to persist the current snapshot and
// whether to notify about it. Notify is never set without Persist.
type Directive struct {
	Persist bool
	Notify  bool
	Case    Case
}

type previousState int

const (
	absent previousState = iota
	wasOutOfStock
	wasInStock
)

const (
	nowOutOfStock = 0
	nowInStock    = 1
)

// table is indexed by [previous state][current stock status].
var table = [3][2]Directive{
	absent: {
		nowOutOfStock: {Persist: true, Notify: false, Case: FirstSeenOutOfStock},
		nowInStock:    {Persist: true, Notify: true, Case: FirstSeenInStock},
	},
	wasInStock: {
		nowInStock:    {Persist: false, Notify: false, Case: SteadyInStock},
		nowOutOfStock: {Persist: true, Notify: false, Case: WentOutOfStock},
	},
	wasOutOfStock: {
		nowOutOfStock: {Persist: false, Notify: false, Case: SteadyOutOfStock},
		nowInStock:    {Persist: true, Notify: true, Case: BackInStock},
	},
}

// Decide maps the previously persisted snapshot (nil when there is none) and
// the current snapshot to a Directive. Only stock status is considered, price
// changes on their own never persist or notify.
func Decide(previous *product.Snapshot, current product.Snapshot) Directive {
	prev := absent
	if previous != nil {
		prev = wasOutOfStock
		if previous.InStock() {
			prev = wasInStock
		}
	}
	now := nowOutOfStock
	if current.InStock() {
		now = nowInStock
	}
	return table[prev][now]
}

package resolver

import (
	"stockalert/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

type canadaComputersExtractor struct{}

func (canadaComputersExtractor) price(doc *goquery.Document) decimal.NullDecimal {
	return firstPrice(doc, ".current-price-value")
}

// The buy button reads "Buy Now" only when the item can be ordered online.
// Without the button the price is still kept and the item is out of stock.
func (canadaComputersExtractor) availability(doc *goquery.Document) availability {
	button := doc.Find("button.buy-now").First()
	if button.Length() == 0 {
		if exists(doc, ".current-price-value") {
			return outOfStock
		}
		return unknown
	}
	if htmlutil.Text(button) == "Buy Now" {
		return inStock
	}
	return outOfStock
}

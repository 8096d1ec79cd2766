package resolver

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

type neweggExtractor struct{}

func (neweggExtractor) price(doc *goquery.Document) decimal.NullDecimal {
	strong := doc.Find(".price-current strong").First()
	if strong.Length() > 0 {
		text := strong.Text() + strong.NextFiltered("sup").Text()
		if price, ok := parsePrice(text); ok {
			return decimal.NewNullDecimal(price)
		}
	}
	if price := firstPrice(doc, ".price-main-product"); price.Valid {
		return price
	}
	if value, ok := doc.Find("[data-price]").First().Attr("data-price"); ok {
		if price, ok := parsePrice(value); ok {
			return decimal.NewNullDecimal(price)
		}
	}
	return firstPrice(doc, "[data-price]")
}

func (neweggExtractor) availability(doc *goquery.Document) availability {
	if hasText(doc, ".product-inventory", "OUT OF STOCK") ||
		hasText(doc, ".message-error", "This item is currently out of stock") ||
		hasText(doc, "button.btn-message", "AUTO NOTIFY") {
		return outOfStock
	}
	if hasText(doc, ".btn-primary", "Add to Cart") {
		return inStock
	}
	return unknown
}

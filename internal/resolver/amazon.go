package resolver

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

type amazonExtractor struct{}

func (amazonExtractor) price(doc *goquery.Document) decimal.NullDecimal {
	// the whole and fractional parts of the buy box price are separate spans
	whole := doc.Find("span.a-price-whole").First()
	if whole.Length() > 0 {
		text := whole.Text() + whole.NextFiltered("span.a-price-fraction").Text()
		if price, ok := parsePrice(text); ok {
			return decimal.NewNullDecimal(price)
		}
	}
	return firstPrice(
		doc,
		"#priceblock_ourprice",
		"#price_inside_buybox",
		"#newBuyBoxPrice",
	)
}

func (amazonExtractor) availability(doc *goquery.Document) availability {
	if exists(doc, "#outOfStock") ||
		hasText(doc, "#availabilityInsideBuyBox_feature_div", "Currently unavailable") ||
		hasText(doc, "#buybox-see-all-buying-choices", "See All Buying Options") {
		return outOfStock
	}
	if exists(doc, "#add-to-cart-button") {
		return inStock
	}
	return unknown
}

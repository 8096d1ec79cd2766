package resolver

import (
	"regexp"
	"stockalert/lib/htmlutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

var priceNoise = regexp.MustCompile(`[^\d.]`)

// parsePrice turns text like " $1,999.99 " or "CAD 24." into a decimal.
func parsePrice(text string) (decimal.Decimal, bool) {
	cleaned := priceNoise.ReplaceAllString(text, "")
	cleaned = strings.TrimSuffix(cleaned, ".")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return price, true
}

// firstPrice returns the first selector in order whose text parses as a price.
func firstPrice(doc *goquery.Document, selectors ...string) decimal.NullDecimal {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if price, ok := parsePrice(sel.Text()); ok {
			return decimal.NewNullDecimal(price)
		}
	}
	return decimal.NullDecimal{}
}

// hasText reports whether any element matching selector contains text, it
// is the equivalent of the `:has-text()` pseudo selector.
func hasText(doc *goquery.Document, selector, text string) bool {
	found := false
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(htmlutil.Text(s)), strings.ToLower(text)) {
			found = true
			return false
		}
		return true
	})
	return found
}

func exists(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// availability is the stock status read from a page, known is false when
// the page had none of the markers the store uses.
type availability struct {
	inStock bool
	known   bool
}

var (
	outOfStock = availability{inStock: false, known: true}
	inStock    = availability{inStock: true, known: true}
	unknown    = availability{}
)

// extractor reads price and availability from a store's product page.
type extractor interface {
	price(doc *goquery.Document) decimal.NullDecimal
	availability(doc *goquery.Document) availability
}

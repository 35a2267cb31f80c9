package aggregate

import (
	"sort"
	"strconv"

	"pricescout/models"
	"pricescout/normalize"
)

// Assemble converts ranked records into response entries sorted by
// ascending numeric price. Records whose price fails re-validation are
// dropped rather than sorted to an arbitrary position; missing currencies
// fall back to the market default.
func Assemble(records []models.ScrapedProduct, market models.Market) []models.ProductResult {
	type entry struct {
		result models.ProductResult
		value  float64
	}

	entries := make([]entry, 0, len(records))
	for _, rec := range records {
		value, ok := normalize.ParsePrice(rec.Price)
		if !ok || value <= 0 {
			continue
		}
		currency := rec.Currency
		if currency == "" {
			currency = normalize.CurrencyForMarket(market)
		}
		entries = append(entries, entry{
			result: models.ProductResult{
				Link:        rec.URL,
				Price:       strconv.Itoa(int(value)),
				Currency:    currency,
				ProductName: rec.Title,
				SourceName:  rec.Source,
			},
			value: value,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].value < entries[j].value
	})

	results := make([]models.ProductResult, len(entries))
	for i, e := range entries {
		results[i] = e.result
	}
	return results
}

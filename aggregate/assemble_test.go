package aggregate

import (
	"testing"

	"pricescout/models"
)

func record(title, price, currency, url, source string) models.ScrapedProduct {
	return models.ScrapedProduct{Title: title, Price: price, Currency: currency, URL: url, Source: source}
}

func TestAssembleSortsByAscendingPrice(t *testing.T) {
	records := []models.ScrapedProduct{
		record("Wireless Mouse Pro", "$45.00", "USD", "https://a.test/p/1", "Alpha US"),
		record("Wireless Mouse Lite", "$19.99", "USD", "https://b.test/p/2", "Beta US"),
		record("Wireless Mouse Max", "$25.00", "USD", "https://a.test/p/3", "Alpha US"),
	}

	results := Assemble(records, models.MarketUS)
	if len(results) != 3 {
		t.Fatalf("assembled %d results, want 3", len(results))
	}
	expected := []string{"19", "25", "45"}
	for i, r := range results {
		if r.Price != expected[i] {
			t.Fatalf("results[%d].Price = %q, want %q", i, r.Price, expected[i])
		}
	}
}

func TestAssembleTruncatesPrices(t *testing.T) {
	results := Assemble([]models.ScrapedProduct{
		record("Wireless Mouse", "$19.99", "USD", "https://a.test/p/1", "Alpha US"),
		record("Cotton Kurta", "₹1,299", "INR", "https://b.test/p/2", "Beta IN"),
	}, models.MarketUS)

	if len(results) != 2 {
		t.Fatalf("assembled %d results, want 2", len(results))
	}
	if results[0].Price != "19" {
		t.Errorf("results[0].Price = %q, want 19", results[0].Price)
	}
	if results[1].Price != "1299" {
		t.Errorf("results[1].Price = %q, want 1299", results[1].Price)
	}
}

func TestAssembleDropsUnparseablePrices(t *testing.T) {
	results := Assemble([]models.ScrapedProduct{
		record("Wireless Mouse", "$19.99", "USD", "https://a.test/p/1", "Alpha US"),
		record("Mystery Listing", "call for price", "", "https://a.test/p/2", "Alpha US"),
		record("Overpriced Listing", "$99,999", "USD", "https://a.test/p/3", "Alpha US"),
	}, models.MarketUS)

	if len(results) != 1 {
		t.Fatalf("assembled %d results, want 1", len(results))
	}
	if results[0].ProductName != "Wireless Mouse" {
		t.Fatalf("surviving result = %+v", results[0])
	}
}

func TestAssembleDefaultsCurrencyToMarket(t *testing.T) {
	tests := []struct {
		market   models.Market
		expected string
	}{
		{market: models.MarketUS, expected: "USD"},
		{market: models.MarketIN, expected: "INR"},
	}

	for _, tt := range tests {
		t.Run(string(tt.market), func(t *testing.T) {
			results := Assemble([]models.ScrapedProduct{
				record("Wireless Mouse", "1299", "", "https://a.test/p/1", "Alpha"),
			}, tt.market)
			if len(results) != 1 {
				t.Fatalf("assembled %d results, want 1", len(results))
			}
			if results[0].Currency != tt.expected {
				t.Fatalf("currency = %q, want %q", results[0].Currency, tt.expected)
			}
		})
	}
}

func TestAssembleKeepsExplicitCurrency(t *testing.T) {
	results := Assemble([]models.ScrapedProduct{
		record("Cotton Kurta", "₹1,299", "INR", "https://a.test/p/1", "Alpha IN"),
	}, models.MarketUS)
	if len(results) != 1 || results[0].Currency != "INR" {
		t.Fatalf("results = %+v, want the record's own currency kept", results)
	}
}

func TestAssembleStableForEqualPrices(t *testing.T) {
	records := []models.ScrapedProduct{
		record("Wireless Mouse A", "$20.00", "USD", "https://a.test/p/1", "Alpha US"),
		record("Wireless Mouse B", "$20.00", "USD", "https://b.test/p/2", "Beta US"),
	}

	results := Assemble(records, models.MarketUS)
	if len(results) != 2 {
		t.Fatalf("assembled %d results, want 2", len(results))
	}
	if results[0].ProductName != "Wireless Mouse A" || results[1].ProductName != "Wireless Mouse B" {
		t.Fatalf("equal prices reordered: %+v", results)
	}
}

func TestAssembleIdempotentOrdering(t *testing.T) {
	records := []models.ScrapedProduct{
		record("Wireless Mouse Lite", "$19.99", "USD", "https://a.test/p/1", "Alpha US"),
		record("Wireless Mouse Max", "$25.00", "USD", "https://b.test/p/2", "Beta US"),
	}

	first := Assemble(records, models.MarketUS)
	second := Assemble(records, models.MarketUS)
	if len(first) != len(second) {
		t.Fatalf("result sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("result %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	results := Assemble(nil, models.MarketUS)
	if results == nil {
		t.Fatal("Assemble returned nil, want an empty slice")
	}
	if len(results) != 0 {
		t.Fatalf("assembled %d results from no records", len(results))
	}
}

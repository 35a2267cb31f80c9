package normalize

import (
	"testing"

	"pricescout/models"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{name: "dollar with cents", input: "$49.99", expected: 49.99, ok: true},
		{name: "dollar with thousands", input: "$1,234.56", expected: 1234.56, ok: true},
		{name: "rupee with thousands", input: "₹1,299", expected: 1299, ok: true},
		{name: "rupee token", input: "Rs. 2,499", expected: 2499, ok: true},
		{name: "rupee token with space", input: "rs 899", expected: 899, ok: true},
		{name: "bare numeric", input: "1299", expected: 1299, ok: true},
		{name: "currency code prefix", input: "USD 499", expected: 499, ok: true},
		{name: "suffix symbol", input: "1234.56$", expected: 1234.56, ok: true},
		{name: "embedded in text", input: "Price: $19.99 (limited offer)", expected: 19.99, ok: true},
		{name: "lower bound", input: "1", expected: 1, ok: true},
		{name: "upper bound", input: "50000", expected: 50000, ok: true},
		{name: "below range", input: "$0.99", ok: false},
		{name: "above range", input: "60000", ok: false},
		{name: "above range with symbol", input: "$99,999", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "whitespace", input: "   ", ok: false},
		{name: "no digits", input: "out of stock", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParsePrice(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Fatalf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractCurrency(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "₹1,299", expected: "INR"},
		{input: "Rs. 999", expected: "INR"},
		{input: "rs 450", expected: "INR"},
		{input: "2,499 INR", expected: "INR"},
		{input: "$49.99", expected: "USD"},
		{input: "USD 12", expected: "USD"},
		{input: "1299", expected: "INR"},
		{input: "", expected: "INR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExtractCurrency(tt.input); got != tt.expected {
				t.Fatalf("ExtractCurrency(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanProductName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "collapses whitespace",
			input:    "  Apple   iPhone 15  ",
			expected: "Apple iPhone 15",
		},
		{
			name:     "strips markup tags",
			input:    "<b>Apple iPhone</b> 15",
			expected: "Apple iPhone 15",
		},
		{
			name:     "strips punctuation tail",
			input:    "Wireless Mouse!!!",
			expected: "Wireless Mouse",
		},
		{
			name:     "keeps trailing parenthesis",
			input:    "Laptop Stand (Aluminium)",
			expected: "Laptop Stand (Aluminium)",
		},
		{
			name:     "keeps interior hyphens",
			input:    "USB-C Hub - 7-in-1...",
			expected: "USB-C Hub - 7-in-1",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanProductName(tt.input); got != tt.expected {
				t.Fatalf("CleanProductName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{input: "https://www.example.com/p/123", valid: true},
		{input: "http://example.com", valid: true},
		{input: "http://localhost:8080/search?q=mouse", valid: true},
		{input: "https://192.168.0.1/p", valid: true},
		{input: "HTTPS://WWW.EXAMPLE.COM/P/1", valid: true},
		{input: "ftp://x", valid: false},
		{input: "not a url", valid: false},
		{input: "https://", valid: false},
		{input: "https://example", valid: false},
		{input: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidURL(tt.input); got != tt.valid {
				t.Fatalf("IsValidURL(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestCurrencyForMarket(t *testing.T) {
	if got := CurrencyForMarket(models.MarketUS); got != "USD" {
		t.Fatalf("US currency = %q, want USD", got)
	}
	if got := CurrencyForMarket(models.MarketIN); got != "INR" {
		t.Fatalf("IN currency = %q, want INR", got)
	}
	if got := CurrencyForMarket(models.Market("ZZ")); got != "INR" {
		t.Fatalf("fallback currency = %q, want INR", got)
	}
}

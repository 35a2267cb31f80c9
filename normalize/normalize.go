// Package normalize turns messy storefront text into comparable values.
// Everything here is a pure function; failures are reported as ok=false or
// a documented default, never as an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"pricescout/models"
)

// Prices outside this range are treated as misextracted page noise (page
// counts, review totals) rather than listing prices.
const (
	minPrice = 1
	maxPrice = 50000
)

// amountPattern picks the first numeric amount out of text once currency
// markers have been stripped. Thousands separators are tolerated.
var amountPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// pricePatterns are fallbacks applied to the raw text, in priority order:
// symbol-prefixed, symbol-suffixed, bare numeric.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[$₹]\s*(\d[\d,]*(?:\.\d+)?)`),
	regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*[$₹]`),
	regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)`),
}

var currencyTokens = []string{"₹", "$", "rs.", "rs ", "inr", "usd"}

// ParsePrice extracts a numeric price from raw listing text. It first tries
// a structured parse with currency markers stripped, then falls back to the
// ordered regex patterns. Only values in [1, 50000] are accepted.
func ParsePrice(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	if v, ok := structuredParse(text); ok {
		return v, true
	}

	for _, pattern := range pricePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if v >= minPrice && v <= maxPrice {
			return v, true
		}
	}
	return 0, false
}

func structuredParse(text string) (float64, bool) {
	lower := strings.ToLower(text)
	for _, token := range currencyTokens {
		lower = strings.ReplaceAll(lower, token, " ")
	}

	amount := amountPattern.FindString(lower)
	if amount == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(amount, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if v < minPrice || v > maxPrice {
		return 0, false
	}
	return v, true
}

// ExtractCurrency infers a currency code from raw price text. INR markers
// win over USD markers; text with no marker defaults to INR. The default is
// a convention only: callers apply the market default during assembly.
func ExtractCurrency(text string) string {
	if text == "" {
		return "INR"
	}
	lower := strings.ToLower(text)
	if strings.Contains(text, "₹") || strings.Contains(lower, "rs.") ||
		strings.Contains(lower, "rs ") || strings.Contains(lower, "inr") {
		return "INR"
	}
	if strings.Contains(text, "$") || strings.Contains(lower, "usd") {
		return "USD"
	}
	return "INR"
}

var (
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
	tailPattern = regexp.MustCompile(`[^\w\s\-()]+$`)
)

// CleanProductName collapses whitespace runs, strips markup tags, and drops
// punctuation-only tails while keeping interior hyphens and parentheses.
func CleanProductName(name string) string {
	if name == "" {
		return ""
	}
	name = strings.Join(strings.Fields(name), " ")
	name = tagPattern.ReplaceAllString(name, "")
	name = tailPattern.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

var urlPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,6}\.?|localhost|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// IsValidURL reports whether raw looks like a fetchable product link:
// http/https scheme, a plausible host, optional port and path.
func IsValidURL(raw string) bool {
	return raw != "" && urlPattern.MatchString(raw)
}

// CurrencyForMarket returns the default currency applied when a record
// carries no inferred currency.
func CurrencyForMarket(m models.Market) string {
	switch m {
	case models.MarketUS:
		return "USD"
	case models.MarketIN:
		return "INR"
	}
	return "INR"
}

// Package rank reduces a merged candidate set to a bounded, diverse,
// authentic subset. A ranker returns candidate indices, never records: the
// engine re-resolves indices against its own slice, so a misbehaving
// backend can at worst select nothing.
package rank

import (
	"context"
	"strconv"
	"strings"

	"pricescout/models"
)

// Ranker selects the candidate indices worth returning for a query.
type Ranker interface {
	Rank(ctx context.Context, query string, candidates []models.ScrapedProduct) ([]int, error)
}

// Policy holds the ranking knobs that are deployment tuning rather than
// invariants: how many records one source may contribute, and which source
// is demoted unless it clearly wins on price.
type Policy struct {
	PerSourceCap        int
	DeprioritizedSource string // matched as a source-name prefix, e.g. "eBay"
	Model               string
}

// DefaultPolicy mirrors the tuning the service ships with.
func DefaultPolicy() Policy {
	return Policy{
		PerSourceCap:        2,
		DeprioritizedSource: "eBay",
		Model:               "gpt-4o",
	}
}

// ParseIndices reads a comma-separated index list from ranker output.
// Backends return plain text and are not trusted: non-numeric tokens and
// indices outside [0, n) are dropped, never fatal.
func ParseIndices(raw string, n int) []int {
	var indices []int
	for _, token := range strings.Split(raw, ",") {
		token = strings.Trim(strings.TrimSpace(token), `"'.`)
		idx, err := strconv.Atoi(token)
		if err != nil || idx < 0 || idx >= n {
			continue
		}
		indices = append(indices, idx)
	}
	return indices
}

package rank

import (
	"context"
	"math"
	"sort"
	"strings"

	"pricescout/models"
	"pricescout/normalize"
)

// accessoryTokens flag listings that are add-ons rather than the product
// itself. They are excluded unless the query asks for them.
var accessoryTokens = []string{
	"case", "cover", "charger", "cable", "adapter", "protector", "sleeve", "strap",
}

// counterfeitTokens flag listings that are excluded unconditionally.
var counterfeitTokens = []string{
	"fake", "replica", "clone", "knockoff",
}

// HeuristicRanker applies the ranking contract without a hosted model:
// token-overlap relevance, accessory and counterfeit exclusion, a per-source
// cap, and source diversity via round-robin selection. It is deterministic:
// the same candidates in the same order always yield the same indices.
type HeuristicRanker struct {
	policy Policy
}

// NewHeuristicRanker builds a deterministic ranker for the given policy.
func NewHeuristicRanker(policy Policy) *HeuristicRanker {
	return &HeuristicRanker{policy: policy}
}

type scoredCandidate struct {
	idx      int
	score    int
	price    float64
	hasPrice bool
	demoted  bool
	source   string
}

// Rank scores candidates against the query and selects a diverse subset.
func (r *HeuristicRanker) Rank(_ context.Context, query string, candidates []models.ScrapedProduct) ([]int, error) {
	queryLower := strings.ToLower(query)
	tokens := strings.Fields(queryLower)
	wantAccessory := containsAnyToken(queryLower, accessoryTokens)

	var eligible []scoredCandidate
	cheapestRegular := math.MaxFloat64
	for i, c := range candidates {
		titleLower := strings.ToLower(c.Title)

		if containsAnyToken(titleLower, counterfeitTokens) {
			continue
		}
		if !wantAccessory && containsAnyToken(titleLower, accessoryTokens) {
			continue
		}

		score := 0
		for _, token := range tokens {
			if strings.Contains(titleLower, token) {
				score++
			}
		}
		if score == 0 {
			continue
		}

		sc := scoredCandidate{idx: i, score: score, source: c.Source}
		if value, ok := normalize.ParsePrice(c.Price); ok {
			sc.price = value
			sc.hasPrice = true
		}
		eligible = append(eligible, sc)

		if !r.deprioritized(c.Source) && sc.hasPrice && sc.price < cheapestRegular {
			cheapestRegular = sc.price
		}
	}

	// The deprioritized source stays in the running only when it beats the
	// cheapest regular offer outright.
	for i := range eligible {
		sc := &eligible[i]
		if r.deprioritized(sc.source) && !(sc.hasPrice && sc.price < cheapestRegular) {
			sc.demoted = true
		}
	}

	sort.SliceStable(eligible, func(a, b int) bool {
		ca, cb := eligible[a], eligible[b]
		if ca.demoted != cb.demoted {
			return !ca.demoted
		}
		if ca.score != cb.score {
			return ca.score > cb.score
		}
		if ca.hasPrice && cb.hasPrice && ca.price != cb.price {
			return ca.price < cb.price
		}
		return ca.idx < cb.idx
	})

	return r.selectDiverse(eligible), nil
}

// selectDiverse walks the ranked candidates round-robin by source, so more
// distinct sources are covered before any source contributes a second
// record, and no source exceeds the per-source cap.
func (r *HeuristicRanker) selectDiverse(ranked []scoredCandidate) []int {
	perSource := make(map[string][]int)
	var sourceOrder []string
	for _, sc := range ranked {
		if _, ok := perSource[sc.source]; !ok {
			sourceOrder = append(sourceOrder, sc.source)
		}
		perSource[sc.source] = append(perSource[sc.source], sc.idx)
	}

	limit := r.policy.PerSourceCap
	if limit <= 0 {
		limit = len(ranked)
	}

	var indices []int
	for round := 0; round < limit; round++ {
		picked := false
		for _, source := range sourceOrder {
			group := perSource[source]
			if round < len(group) {
				indices = append(indices, group[round])
				picked = true
			}
		}
		if !picked {
			break
		}
	}
	return indices
}

func (r *HeuristicRanker) deprioritized(source string) bool {
	return r.policy.DeprioritizedSource != "" &&
		strings.HasPrefix(source, r.policy.DeprioritizedSource)
}

func containsAnyToken(text string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}

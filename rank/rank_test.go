package rank

import (
	"strings"
	"testing"

	"pricescout/models"
)

func TestParseIndices(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		n        int
		expected []int
	}{
		{name: "plain list", raw: "0,2,5", n: 6, expected: []int{0, 2, 5}},
		{name: "spaces tolerated", raw: "0, 2 , 5", n: 6, expected: []int{0, 2, 5}},
		{name: "quoted tokens", raw: `"0",'3'`, n: 4, expected: []int{0, 3}},
		{name: "trailing period", raw: "0,1.", n: 3, expected: []int{0, 1}},
		{name: "out of range dropped", raw: "0,7,2", n: 3, expected: []int{0, 2}},
		{name: "negative dropped", raw: "-1,1", n: 3, expected: []int{1}},
		{name: "prose reply", raw: "none of these are relevant", n: 5, expected: nil},
		{name: "empty reply", raw: "", n: 5, expected: nil},
		{name: "single index", raw: "4", n: 5, expected: []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIndices(tt.raw, tt.n)
			if len(got) != len(tt.expected) {
				t.Fatalf("ParseIndices(%q, %d) = %v, want %v", tt.raw, tt.n, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Fatalf("ParseIndices(%q, %d) = %v, want %v", tt.raw, tt.n, got, tt.expected)
				}
			}
		})
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.PerSourceCap != 2 {
		t.Errorf("PerSourceCap = %d, want 2", p.PerSourceCap)
	}
	if p.DeprioritizedSource != "eBay" {
		t.Errorf("DeprioritizedSource = %q, want eBay", p.DeprioritizedSource)
	}
	if p.Model == "" {
		t.Error("Model is empty")
	}
}

func TestBuildPrompt(t *testing.T) {
	candidates := []models.ScrapedProduct{
		{Title: "Logitech Wireless Mouse", Price: "$19.99", Source: "Amazon US"},
		{Title: "HP Wireless Mouse", Price: "$15.99", Source: "Walmart US"},
	}
	prompt := buildPrompt("wireless mouse", candidates, DefaultPolicy())

	for _, want := range []string{
		`"wireless mouse"`,
		"Have eBay products on low priority",
		"Select at max top 2 most relevant products total from each website",
		"0: Logitech Wireless Mouse - $19.99 - Amazon US",
		"1: HP Wireless Mouse - $15.99 - Walmart US",
		"comma-separated list",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptWithoutDeprioritizedSource(t *testing.T) {
	policy := Policy{PerSourceCap: 3}
	prompt := buildPrompt("laptop", []models.ScrapedProduct{{Title: "Laptop", Price: "$500", Source: "Amazon US"}}, policy)
	if strings.Contains(prompt, "low priority") {
		t.Error("prompt mentions deprioritization with no source configured")
	}
}

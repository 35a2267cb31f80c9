package models

import (
	"strings"
	"testing"
)

func TestParseMarket(t *testing.T) {
	tests := []struct {
		input    string
		expected Market
		wantErr  bool
	}{
		{input: "US", expected: MarketUS},
		{input: "IN", expected: MarketIN},
		{input: "us", expected: MarketUS},
		{input: " in ", expected: MarketIN},
		{input: "UK", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseMarket(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMarket(%q) accepted an unsupported market", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMarket(%q) returned error: %v", tt.input, err)
			}
			if m != tt.expected {
				t.Fatalf("ParseMarket(%q) = %q, want %q", tt.input, m, tt.expected)
			}
		})
	}
}

func TestNewCompareRequest(t *testing.T) {
	tests := []struct {
		name    string
		market  string
		query   string
		want    CompareRequest
		wantErr bool
	}{
		{
			name:   "valid request",
			market: "US",
			query:  "wireless mouse",
			want:   CompareRequest{Market: MarketUS, Query: "wireless mouse"},
		},
		{
			name:   "query trimmed",
			market: "IN",
			query:  "  iphone 15  ",
			want:   CompareRequest{Market: MarketIN, Query: "iphone 15"},
		},
		{
			name:    "empty query",
			market:  "US",
			query:   "",
			wantErr: true,
		},
		{
			name:    "whitespace query",
			market:  "US",
			query:   "   ",
			wantErr: true,
		},
		{
			name:    "query too long",
			market:  "US",
			query:   strings.Repeat("x", 501),
			wantErr: true,
		},
		{
			name:    "unsupported market",
			market:  "UK",
			query:   "wireless mouse",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewCompareRequest(tt.market, tt.query)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewCompareRequest accepted an invalid request")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCompareRequest returned error: %v", err)
			}
			if req != tt.want {
				t.Fatalf("NewCompareRequest = %+v, want %+v", req, tt.want)
			}
		})
	}
}

func TestNewCompareRequestBoundaryLength(t *testing.T) {
	query := strings.Repeat("x", 500)
	req, err := NewCompareRequest("US", query)
	if err != nil {
		t.Fatalf("500-character query rejected: %v", err)
	}
	if req.Query != query {
		t.Fatal("query modified on the boundary length")
	}
}

// Package models defines data structures shared across the service.
package models

import (
	"fmt"
	"strings"
)

// Market is a supported storefront region. The set is closed: adding a
// market means registering sources for it as well.
type Market string

const (
	MarketUS Market = "US"
	MarketIN Market = "IN"
)

// Markets lists the supported markets in a stable order.
func Markets() []Market {
	return []Market{MarketUS, MarketIN}
}

// ParseMarket validates a raw market code.
func ParseMarket(raw string) (Market, error) {
	switch Market(strings.ToUpper(strings.TrimSpace(raw))) {
	case MarketUS:
		return MarketUS, nil
	case MarketIN:
		return MarketIN, nil
	}
	return "", fmt.Errorf("unsupported market %q", raw)
}

// ScrapedProduct is one listing captured from a source, prior to ranking.
// Price keeps the raw text as seen on the page; it is parsed to a number
// only at validation and assembly time.
type ScrapedProduct struct {
	Title    string
	Price    string
	Currency string
	URL      string
	Source   string
}

const maxQueryLen = 500

// CompareRequest is a validated comparison request. Build it through
// NewCompareRequest; the zero value is not meaningful.
type CompareRequest struct {
	Market Market
	Query  string
}

// NewCompareRequest trims and validates the query and market. Rejection is
// the caller's problem to surface; an invalid request is never coerced into
// an empty result.
func NewCompareRequest(market, query string) (CompareRequest, error) {
	m, err := ParseMarket(market)
	if err != nil {
		return CompareRequest{}, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return CompareRequest{}, fmt.Errorf("query cannot be empty")
	}
	if len(query) > maxQueryLen {
		return CompareRequest{}, fmt.Errorf("query exceeds %d characters", maxQueryLen)
	}
	return CompareRequest{Market: m, Query: query}, nil
}

// ProductResult is one entry of the price-sorted response. Price is the
// integer-truncated string form of the parsed numeric price.
type ProductResult struct {
	Link        string `json:"link"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	ProductName string `json:"productName"`
	SourceName  string `json:"sourceName"`
}

// CompareResponse is the HTTP response envelope for /compare.
type CompareResponse struct {
	Results      []ProductResult `json:"results"`
	Query        string          `json:"query"`
	Market       string          `json:"market"`
	TotalResults int             `json:"total_results"`
}

// HealthStatus reports service readiness and the registered source set.
type HealthStatus struct {
	Status        string   `json:"status"`
	RankerEnabled bool     `json:"ranker_enabled"`
	Markets       []string `json:"markets"`
	Sources       []string `json:"sources"`
}

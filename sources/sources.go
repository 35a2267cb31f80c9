// Package sources holds the per-storefront extraction descriptors.
//
// Each storefront is data, not code: a Source carries its base URL, search
// template, and ordered selector fallback lists, and the extract package
// runs one generic routine over them. Storefronts redesign their markup
// over time, so every selector list is ordered newest-first and the first
// selector that matches wins. Adding a storefront means adding a
// constructor here and registering it in ForMarket.
package sources

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricescout/models"
)

// Hooks customise the generic extraction flow where a storefront deviates
// from the plain selector-list shape.
type Hooks struct {
	// Title assembles a title from container nodes when a single selector
	// cannot (e.g. brand and product name split across elements). The
	// selector list is still tried when the hook returns "".
	Title func(container *goquery.Selection) string
	// CleanPrice rewrites raw price text before it is stored.
	CleanPrice func(text string) string
	// RewriteURL adjusts an already-absolute product URL.
	RewriteURL func(raw string) string
}

// Source describes one storefront in one market.
type Source struct {
	Name         string // e.g. "Amazon US"
	BaseURL      string
	SearchFormat string // fmt template; %s receives the URL-encoded query

	ContainerSelectors []string
	TitleSelectors     []string
	PriceSelectors     []string
	URLSelectors       []string

	// MinTitleLen guards against picking up incidental short text; a title
	// must be strictly longer to be accepted.
	MinTitleLen int

	// RenderJS marks storefronts that serve empty shells to plain HTTP
	// clients and need a rendering fetcher.
	RenderJS bool

	Hooks Hooks
}

// SearchTarget builds the search URL for a query.
func (s Source) SearchTarget(query string) string {
	return fmt.Sprintf(s.SearchFormat, url.QueryEscape(query))
}

// ForMarket returns the sources registered for a market, in the fixed
// registration order results are merged in. Unknown markets get nil.
func ForMarket(m models.Market) []Source {
	switch m {
	case models.MarketUS:
		return []Source{Amazon(m), Ebay(m), Walmart(m), BestBuy(m)}
	case models.MarketIN:
		return []Source{Amazon(m), Ebay(m), Myntra(m), Flipkart(m), TataCliq(m)}
	}
	return nil
}

// Names returns the distinct source names across all supported markets.
func Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range models.Markets() {
		for _, src := range ForMarket(m) {
			if _, ok := seen[src.Name]; ok {
				continue
			}
			seen[src.Name] = struct{}{}
			names = append(names, src.Name)
		}
	}
	return names
}

// Amazon serves amazon.com and amazon.in depending on market.
func Amazon(m models.Market) Source {
	domain := "amazon.com"
	if m == models.MarketIN {
		domain = "amazon.in"
	}
	base := "https://www." + domain
	return Source{
		Name:         fmt.Sprintf("Amazon %s", m),
		BaseURL:      base,
		SearchFormat: base + "/s?k=%s",
		ContainerSelectors: []string{
			`[data-component-type="s-search-result"]`,
			`.s-result-item`,
			`[data-asin]`,
		},
		TitleSelectors: []string{
			`h2.s-size-mini span`,
			`.s-product-title`,
			`h2 a span`,
			`.a-text-normal`,
		},
		PriceSelectors: []string{
			`.a-price-whole`,
			`.a-price .a-offscreen`,
			`.a-price-range`,
			`.s-price`,
		},
		URLSelectors: []string{
			`h2 a`,
			`.s-link-style a`,
			`[data-asin] a`,
		},
		MinTitleLen: 10,
		RenderJS:    true,
	}
}

// Ebay serves ebay.com and ebay.in; product links always point at the
// market's own domain even when the listing markup links cross-domain.
func Ebay(m models.Market) Source {
	domain := "ebay.com"
	if m == models.MarketIN {
		domain = "ebay.in"
	}
	base := "https://www." + domain
	return Source{
		Name:         fmt.Sprintf("eBay %s", m),
		BaseURL:      base,
		SearchFormat: base + "/sch/i.html?_nkw=%s&_sacat=0",
		ContainerSelectors: []string{
			`.s-item`,
			`[data-view="mi:1686|iid:1"]`,
			`.srp-results .s-item`,
		},
		TitleSelectors: []string{
			`h3.s-item__title`,
			`.s-item__title`,
			`a.s-item__link h3`,
		},
		PriceSelectors: []string{
			`.s-item__price`,
			`.notranslate`,
			`[data-testid="item-price"]`,
		},
		URLSelectors: []string{
			`a.s-item__link`,
			`.s-item__link`,
		},
		MinTitleLen: 10,
		Hooks: Hooks{
			RewriteURL: func(raw string) string {
				for _, other := range []string{"ebay.com", "ebay.in"} {
					if other != domain && strings.Contains(raw, other) {
						return strings.Replace(raw, other, domain, 1)
					}
				}
				return raw
			},
		},
	}
}

var walmartPricePattern = regexp.MustCompile(`\$[\d,]+\.?\d*`)

// Walmart serves the US market only.
func Walmart(m models.Market) Source {
	base := "https://www.walmart.com"
	return Source{
		Name:         fmt.Sprintf("Walmart %s", m),
		BaseURL:      base,
		SearchFormat: base + "/search?q=%s",
		ContainerSelectors: []string{
			`[data-item-id]`,
			`[data-automation-id="product-tile"]`,
			`.search-result-gridview-item`,
		},
		TitleSelectors: []string{
			`[data-automation-id="product-title"]`,
			`span.w_iUH7`,
			`.product-title-link`,
			`.normal.dark-gray`,
		},
		PriceSelectors: []string{
			`[data-automation-id="product-price"] span.w_iUH7`,
			`span.w_iUH7`,
			`[data-automation-id="product-price"]`,
			`.price-current`,
			`.price-group`,
		},
		URLSelectors: []string{
			`a.w-100.h-100`,
			`a[link-identifier]`,
			`a[href*="walmart.com"]`,
			`a`,
		},
		MinTitleLen: 5,
		RenderJS:    true,
		Hooks: Hooks{
			// Visible price text reads "current price $12.98"; keep the
			// dollar amount only when one is present.
			CleanPrice: func(text string) string {
				if m := walmartPricePattern.FindString(text); m != "" {
					return m
				}
				return text
			},
		},
	}
}

// BestBuy serves the US market only.
func BestBuy(m models.Market) Source {
	base := "https://www.bestbuy.com"
	return Source{
		Name:         fmt.Sprintf("Best Buy %s", m),
		BaseURL:      base,
		SearchFormat: base + "/site/searchpage.jsp?st=%s",
		ContainerSelectors: []string{
			`li.product-list-item`,
			`[data-testid]`,
			`.sku-item`,
			`.sr-item`,
		},
		TitleSelectors: []string{
			`h2.product-title`,
			`h4.sr-title`,
			`h3.sr-title`,
			`a.sr-title`,
			`.sku-title`,
		},
		PriceSelectors: []string{
			`div.customer-price`,
			`[data-testid="medium-customer-price"]`,
			`.sr-price`,
			`.pricing-price__range`,
			`.visuallyhidden`,
		},
		URLSelectors: []string{
			`a.product-list-item-link`,
			`a.sr-title`,
			`.sku-item a`,
		},
		MinTitleLen: 5,
		RenderJS:    true,
		Hooks: Hooks{
			CleanPrice: func(text string) string {
				lower := strings.ToLower(text)
				if idx := strings.Index(lower, "current price"); idx >= 0 {
					return strings.TrimSpace(text[:idx] + text[idx+len("current price"):])
				}
				return text
			},
		},
	}
}

// Flipkart serves the IN market only.
func Flipkart(m models.Market) Source {
	base := "https://www.flipkart.com"
	return Source{
		Name:         fmt.Sprintf("Flipkart %s", m),
		BaseURL:      base,
		SearchFormat: base + "/search?q=%s",
		ContainerSelectors: []string{
			`div._75nlfW`,
			`div.tUxRFH`,
			`._1AtVbE`,
			`._13oc-S`,
			`._2kHMtA`,
			`.s1Q9rs`,
			`.gqcAol`,
			`.DOjaWF`,
		},
		TitleSelectors: []string{
			`.KzDlHZ`,
			`.WKTcLC`,
			`._4rR01T`,
			`.s1Q9rs`,
			`.IRpwTa`,
			`._2WkVRV`,
		},
		PriceSelectors: []string{
			`.Nx9bqj`,
			`._30jeq3`,
			`._1_WHN1`,
			`._25b18c`,
			`._3I9_wc`,
		},
		URLSelectors: []string{
			`a.CGtC98`,
			`a.rPDeLR`,
			`a`,
		},
		MinTitleLen: 5,
		RenderJS:    true,
	}
}

// TataCliq serves the IN market only.
func TataCliq(m models.Market) Source {
	base := "https://www.tatacliq.com"
	return Source{
		Name:         fmt.Sprintf("Tata CLiQ %s", m),
		BaseURL:      base,
		SearchFormat: base + "/search/?text=%s",
		ContainerSelectors: []string{
			`div.Grid__element`,
			`[data-testid="product-tile"]`,
			`.ProductTileWrapper`,
			`.product-tile`,
		},
		TitleSelectors: []string{
			`h2.ProductDescription__description`,
			`.ProductName`,
			`.product-title`,
			`[data-testid="product-name"]`,
		},
		PriceSelectors: []string{
			`div.ProductDescription__discount h3.ProductDescription__boldText`,
			`.PriceHolder`,
			`.product-price`,
			`[data-testid="price"]`,
		},
		URLSelectors: []string{
			`a.ProductModule__base`,
			`a`,
		},
		MinTitleLen: 5,
		RenderJS:    true,
	}
}

// Myntra serves the IN market only. Titles are split across brand and
// product nodes, so a hook joins them before the selector fallbacks run.
func Myntra(m models.Market) Source {
	base := "https://www.myntra.com"
	return Source{
		Name:         fmt.Sprintf("Myntra %s", m),
		BaseURL:      base,
		SearchFormat: base + "/%s",
		ContainerSelectors: []string{
			`li.product-base`,
			`.product-base`,
			`li[id]`,
		},
		TitleSelectors: []string{
			`.product-productName`,
			`h3`,
			`h4`,
		},
		PriceSelectors: []string{
			`.product-discountedPrice`,
			`.product-price span`,
			`.product-strike`,
			`[class*="price"]`,
		},
		URLSelectors: []string{
			`a[href]`,
		},
		MinTitleLen: 5,
		RenderJS:    true,
		Hooks: Hooks{
			Title: func(container *goquery.Selection) string {
				brand := strings.TrimSpace(container.Find(".product-brand").First().Text())
				product := strings.TrimSpace(container.Find(".product-product").First().Text())
				switch {
				case brand != "" && product != "":
					return brand + " " + product
				case product != "":
					return product
				default:
					return brand
				}
			},
		},
	}
}

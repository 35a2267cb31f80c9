// Package extract runs the generic extraction routine over a source
// descriptor: discover candidate containers, pull fields with ordered
// selector fallbacks, validate, and drop bad candidates at the container
// level so one broken listing never poisons the rest of a page.
package extract

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	lru "github.com/hashicorp/golang-lru/v2"

	"pricescout/models"
	"pricescout/normalize"
	"pricescout/sources"
)

// maxContainers caps how many candidate containers a single page can
// contribute, regardless of how greedy a fallback selector turns out to be.
const maxContainers = 50

// selectorCache memoises compiled selector programs. The adapter registry
// reuses a small fixed pool of selector strings, so the cache stays hot
// across requests and sources.
var selectorCache, _ = lru.New[string, cascadia.Selector](256)

func compile(sel string) (cascadia.Selector, bool) {
	if matcher, ok := selectorCache.Get(sel); ok {
		return matcher, true
	}
	matcher, err := cascadia.Compile(sel)
	if err != nil {
		slog.Error("invalid selector", slog.String("selector", sel), slog.Any("error", err))
		return nil, false
	}
	selectorCache.Add(sel, matcher)
	return matcher, true
}

// Extract parses markup and returns the validated records one source
// produced for a single fetch. An empty result is not an error: a page with
// matching containers but zero valid records is logged as likely selector
// drift and still yields an empty slice.
func Extract(markup string, src sources.Source) []models.ScrapedProduct {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Error("parse markup", slog.String("source", src.Name), slog.Any("error", err))
		return nil
	}

	containers := findContainers(doc, src)

	var products []models.ScrapedProduct
	for _, container := range containers {
		product, ok := extractProduct(container, src)
		if !ok {
			continue
		}
		products = append(products, product)
	}

	if len(products) == 0 && len(containers) > 0 {
		slog.Warn("containers matched but no records extracted, selectors may have drifted",
			slog.String("source", src.Name),
			slog.Int("containers", len(containers)),
		)
	}
	return products
}

// findContainers tries the source's container selectors in priority order
// and returns the first selector's matches, capped at maxContainers. The
// match is first-selector-wins, not a union: later selectors are legacy
// fallbacks that would double-count on current markup.
func findContainers(doc *goquery.Document, src sources.Source) []*goquery.Selection {
	for _, sel := range src.ContainerSelectors {
		matcher, ok := compile(sel)
		if !ok {
			continue
		}
		found := doc.FindMatcher(matcher)
		if found.Length() == 0 {
			continue
		}
		slog.Debug("containers found",
			slog.String("source", src.Name),
			slog.String("selector", sel),
			slog.Int("count", found.Length()),
		)

		containers := make([]*goquery.Selection, 0, found.Length())
		found.EachWithBreak(func(i int, s *goquery.Selection) bool {
			if i >= maxContainers {
				return false
			}
			containers = append(containers, s)
			return true
		})
		return containers
	}
	return nil
}

func extractProduct(container *goquery.Selection, src sources.Source) (models.ScrapedProduct, bool) {
	title := extractTitle(container, src)
	if title == "" {
		return models.ScrapedProduct{}, false
	}

	price := extractPrice(container, src)
	if price == "" {
		return models.ScrapedProduct{}, false
	}

	rawURL := extractURL(container, src)
	if rawURL == "" {
		return models.ScrapedProduct{}, false
	}

	product := models.ScrapedProduct{
		Title:    normalize.CleanProductName(title),
		Price:    price,
		Currency: normalize.ExtractCurrency(price),
		URL:      rawURL,
		Source:   src.Name,
	}
	if !valid(product) {
		return models.ScrapedProduct{}, false
	}
	return product, true
}

func valid(p models.ScrapedProduct) bool {
	if p.Title == "" || p.Price == "" || p.URL == "" {
		return false
	}
	if !normalize.IsValidURL(p.URL) {
		return false
	}
	value, ok := normalize.ParsePrice(p.Price)
	return ok && value > 0
}

func extractTitle(container *goquery.Selection, src sources.Source) string {
	if src.Hooks.Title != nil {
		if title := src.Hooks.Title(container); title != "" {
			return title
		}
	}
	for _, sel := range src.TitleSelectors {
		matcher, ok := compile(sel)
		if !ok {
			continue
		}
		text := strings.TrimSpace(container.FindMatcher(matcher).First().Text())
		if len(text) > src.MinTitleLen {
			return text
		}
	}
	return ""
}

func extractPrice(container *goquery.Selection, src sources.Source) string {
	for _, sel := range src.PriceSelectors {
		matcher, ok := compile(sel)
		if !ok {
			continue
		}
		text := strings.TrimSpace(container.FindMatcher(matcher).First().Text())
		if text == "" || !strings.ContainsAny(text, "0123456789$₹") {
			continue
		}
		if src.Hooks.CleanPrice != nil {
			text = strings.TrimSpace(src.Hooks.CleanPrice(text))
		}
		if text != "" {
			return text
		}
	}
	return ""
}

func extractURL(container *goquery.Selection, src sources.Source) string {
	for _, sel := range src.URLSelectors {
		matcher, ok := compile(sel)
		if !ok {
			continue
		}
		href, exists := container.FindMatcher(matcher).First().Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" {
			continue
		}
		return resolveURL(src, href)
	}
	return ""
}

// resolveURL makes href absolute against the source's base URL and applies
// the source's rewrite hook, if any.
func resolveURL(src sources.Source, href string) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
	case strings.HasPrefix(href, "/"):
		href = src.BaseURL + href
	default:
		href = src.BaseURL + "/" + href
	}
	if src.Hooks.RewriteURL != nil {
		return src.Hooks.RewriteURL(href)
	}
	return href
}

// Package google collects candidate result links from Google web
// search, paginating until enough links are found or the results run
// out.
package google

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"leadscout-engine/internal/scrape/types"
)

const (
	searchBaseURL    = "https://www.google.com/search?q="
	nextPageSelector = "a#pnnext"
	consentSelector  = "#L2AGLb" // "I agree" control on the consent interstitial
)

// Search drives one browser page through a query's result pages.
type Search struct {
	Domains []string // a link must contain at least one of these
	Max     int
	Settle  time.Duration // wait after consent clicks and page flips
}

func SearchURL(query string) string {
	return searchBaseURL + url.QueryEscape(query)
}

// Collect navigates page to the results for query and harvests unique
// on-domain links in the order they appear. A failed initial
// navigation is fatal; everything after that degrades to "stop
// collecting" so a short result set still terminates cleanly.
func (s Search) Collect(ctx context.Context, page types.Page, query string) ([]string, error) {
	if err := page.Navigate(ctx, SearchURL(query)); err != nil {
		return nil, fmt.Errorf("search navigation: %w", err)
	}

	if err := s.dismissConsent(ctx, page); err != nil {
		// Best effort: absence of the control is not a barrier.
		log.Printf("[google] consent dismissal failed, continuing: %v", err)
	}

	var links []string
	seen := make(map[string]bool)

	for {
		html, err := page.Content(ctx)
		if err != nil {
			return nil, fmt.Errorf("read results page: %w", err)
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, fmt.Errorf("parse results page: %w", err)
		}

		// Organic results render as <a ...><h3>title</h3></a>.
		doc.Find("h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
			href, ok := h.Closest("a").Attr("href")
			if !ok {
				return true
			}
			link := unwrapRedirect(strings.TrimSpace(href))
			if link == "" || seen[link] || !s.onDomain(link) {
				return true
			}
			seen[link] = true
			links = append(links, link)
			return len(links) < s.Max
		})

		if len(links) >= s.Max {
			break
		}
		if doc.Find(nextPageSelector).Length() == 0 {
			break // last results page
		}
		if err := page.Click(ctx, nextPageSelector); err != nil {
			log.Printf("[google] next page click failed, stopping at %d links: %v", len(links), err)
			break
		}
		if err := page.Settle(ctx, s.Settle); err != nil {
			return nil, err
		}
	}

	return links, nil
}

func (s Search) onDomain(link string) bool {
	for _, d := range s.Domains {
		if d != "" && strings.Contains(link, d) {
			return true
		}
	}
	return false
}

// dismissConsent clicks through the cookie interstitial when one is
// showing. Detection is heuristic and deliberately contained here so
// orchestration code never sees it.
func (s Search) dismissConsent(ctx context.Context, page types.Page) error {
	html, err := page.Content(ctx)
	if err != nil {
		return err
	}
	loc, err := page.Location(ctx)
	if err != nil {
		return err
	}
	if !needsConsent(html, loc) {
		return nil
	}
	if err := page.Click(ctx, consentSelector); err != nil {
		return err
	}
	return page.Settle(ctx, s.Settle)
}

func needsConsent(html, location string) bool {
	return strings.Contains(html, "Before you continue") ||
		strings.Contains(location, "consent")
}

// unwrapRedirect resolves /url?q= wrappers to the underlying result
// link; absolute non-wrapper links pass through untouched. Relative
// internal links are never results.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasPrefix(u.Path, "/url") {
		if q := u.Query().Get("q"); q != "" {
			if uu, err := url.Parse(q); err == nil && uu.Host != "" {
				return uu.String()
			}
		}
	}
	if u.Host == "" {
		return ""
	}
	return href
}

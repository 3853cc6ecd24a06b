package scrape

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/scrape/contacts"
	"leadscout-engine/internal/scrape/google"
	"leadscout-engine/internal/scrape/types"
	"leadscout-engine/internal/scrape/util"
)

// Settings control pacing within a run; zero values get defaults.
type Settings struct {
	PageSettle    time.Duration // wait for dynamic content after each page load
	SearchSettle  time.Duration // wait after consent and pagination clicks
	HostRateLimit float64       // requests/sec per host
	HostBurst     int
}

func (s Settings) withDefaults() Settings {
	if s.PageSettle <= 0 {
		s.PageSettle = 3 * time.Second
	}
	if s.SearchSettle <= 0 {
		s.SearchSettle = 2 * time.Second
	}
	if s.HostRateLimit <= 0 {
		s.HostRateLimit = 1
	}
	if s.HostBurst <= 0 {
		s.HostBurst = 1
	}
	return s
}

// RunOnce executes one scraping run against a caller-owned browser
// session: discover candidate links for the keyword on the selected
// domains, then visit each link strictly in discovery order and
// extract contacts. A link that fails to load or capture is logged and
// skipped; only browser-launch and initial-search failures abort the
// run.
func RunOnce(ctx context.Context, b types.Browser, set Settings, opts types.Options) ([]domain.ContactRecord, error) {
	if strings.TrimSpace(opts.Keyword) == "" {
		return nil, errors.New("keyword is required")
	}
	if len(opts.Domains) == 0 {
		return nil, errors.New("no target domains selected")
	}
	if opts.MaxResults < 1 {
		return nil, errors.New("max results must be at least 1")
	}
	set = set.withDefaults()

	query := BuildQuery(opts.Keyword, opts.Domains)
	log.Printf("[scrape] query=%q max=%d", query, opts.MaxResults)

	links, err := collectLinks(ctx, b, set, opts, query)
	if err != nil {
		return nil, err
	}
	log.Printf("[scrape] collected %d candidate links", len(links))

	limiter := util.NewHostLimiter(set.HostRateLimit, set.HostBurst)

	records := make([]domain.ContactRecord, 0, len(links))
	for i, link := range links {
		rec, err := visitLink(ctx, b, set, limiter, opts.Keyword, link)
		switch {
		case err != nil && ctx.Err() != nil:
			return records, ctx.Err() // run abandoned
		case err != nil:
			log.Printf("[scrape] skip url=%s: %v", link, err)
		default:
			records = append(records, rec)
			if opts.OnRecord != nil {
				opts.OnRecord(rec)
			}
		}

		if opts.Progress != nil {
			opts.Progress(float64(i+1) / float64(len(links)))
		}
	}

	return records, nil
}

func collectLinks(ctx context.Context, b types.Browser, set Settings, opts types.Options, query string) ([]string, error) {
	page, err := b.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open search page: %w", err)
	}
	defer page.Close()

	search := google.Search{
		Domains: opts.Domains,
		Max:     opts.MaxResults,
		Settle:  set.SearchSettle,
	}
	return search.Collect(ctx, page, query)
}

// visitLink opens a fresh tab for one candidate link and turns its
// rendered markup into a record. The tab is closed whatever happens.
func visitLink(ctx context.Context, b types.Browser, set Settings, limiter *util.HostLimiter, keyword, link string) (domain.ContactRecord, error) {
	if err := limiter.WaitURL(ctx, link); err != nil {
		return domain.ContactRecord{}, err
	}

	page, err := b.NewPage(ctx)
	if err != nil {
		return domain.ContactRecord{}, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.Navigate(ctx, link); err != nil {
		return domain.ContactRecord{}, err
	}
	if err := page.Settle(ctx, set.PageSettle); err != nil {
		return domain.ContactRecord{}, err
	}
	html, err := page.Content(ctx)
	if err != nil {
		return domain.ContactRecord{}, err
	}

	emails, phones := contacts.Extract(html)
	return domain.ContactRecord{
		Keyword: keyword,
		URL:     link,
		Domain:  util.Host(link),
		Emails:  emails,
		Phones:  phones,
	}, nil
}

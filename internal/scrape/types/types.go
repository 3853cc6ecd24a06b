package types

import (
	"context"
	"time"

	"leadscout-engine/internal/domain"
)

// Browser is the headless-browser collaborator the pipeline drives.
// One Browser session belongs to a single scraping run; each page
// visit gets its own Page.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
}

// Page is a single browser tab. Every interaction is a suspension
// point that reports failure explicitly; the orchestrator decides
// which failures are link-local and which abort the run.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Location(ctx context.Context) (string, error)
	Content(ctx context.Context) (string, error)
	Click(ctx context.Context, selector string) error
	Settle(ctx context.Context, d time.Duration) error
	Close() error
}

// Options for one scraping run.
type Options struct {
	Keyword    string
	Domains    []string // domain suffixes a candidate link must contain
	MaxResults int

	// Progress, if set, receives processed/total after every visited
	// link, including links that produced no record.
	Progress func(fraction float64)

	// OnRecord, if set, receives each record as soon as its page
	// visit completes.
	OnRecord func(rec domain.ContactRecord)
}

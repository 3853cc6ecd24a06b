// Package browser implements the scrape Browser contract on chromedp.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"leadscout-engine/internal/scrape/types"
)

const defaultNavTimeout = 60 * time.Second

type Config struct {
	Headless   bool
	UserAgent  string
	NavTimeout time.Duration // per-navigation budget; fatal for that page only
}

// Session owns one Chrome process via its exec allocator. Tabs are
// cheap; the process itself starts lazily on the first tab action, so
// a failed launch surfaces from the first Navigate.
type Session struct {
	cfg      Config
	allocCtx context.Context
	cancel   context.CancelFunc
}

func NewSession(ctx context.Context, cfg Config) *Session {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = defaultNavTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	return &Session{cfg: cfg, allocCtx: allocCtx, cancel: cancel}
}

// Close tears down every tab and the Chrome process.
func (s *Session) Close() {
	s.cancel()
}

func (s *Session) NewPage(ctx context.Context) (types.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tabCtx, cancel := chromedp.NewContext(s.allocCtx)
	return &tab{ctx: tabCtx, cancel: cancel, navTimeout: s.cfg.NavTimeout}, nil
}

type tab struct {
	ctx        context.Context
	cancel     context.CancelFunc
	navTimeout time.Duration
}

func (t *tab) Navigate(ctx context.Context, url string) error {
	opCtx, cancel := t.bounded(ctx, t.navTimeout)
	defer cancel()
	if err := chromedp.Run(opCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (t *tab) Location(ctx context.Context) (string, error) {
	opCtx, cancel := t.bounded(ctx, 10*time.Second)
	defer cancel()
	var loc string
	if err := chromedp.Run(opCtx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return loc, nil
}

func (t *tab) Content(ctx context.Context) (string, error) {
	opCtx, cancel := t.bounded(ctx, 30*time.Second)
	defer cancel()
	var html string
	if err := chromedp.Run(opCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("capture markup: %w", err)
	}
	return html, nil
}

func (t *tab) Click(ctx context.Context, selector string) error {
	opCtx, cancel := t.bounded(ctx, 5*time.Second)
	defer cancel()
	if err := chromedp.Run(opCtx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (t *tab) Settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.ctx.Done():
		return t.ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (t *tab) Close() error {
	t.cancel()
	return nil
}

// bounded derives an op context from the tab, honoring both the
// caller's cancellation and the per-op budget.
func (t *tab) bounded(caller context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithTimeout(t.ctx, d)
	stop := context.AfterFunc(caller, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

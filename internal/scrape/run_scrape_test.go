package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/scrape/types"
)

// fakePage answers every interaction from canned values.
type fakePage struct {
	content   string
	navErr    error
	navigated []string
	closed    bool
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return p.navErr
}
func (p *fakePage) Location(context.Context) (string, error)    { return "https://example.com", nil }
func (p *fakePage) Content(context.Context) (string, error)     { return p.content, nil }
func (p *fakePage) Click(context.Context, string) error         { return errors.New("no such element") }
func (p *fakePage) Settle(context.Context, time.Duration) error { return nil }
func (p *fakePage) Close() error                                { p.closed = true; return nil }

// fakeBrowser hands out pages in the order they were scripted: the
// search page first, then one page per visited link.
type fakeBrowser struct {
	pages []*fakePage
	next  int
}

func (b *fakeBrowser) NewPage(context.Context) (types.Page, error) {
	if b.next >= len(b.pages) {
		return nil, errors.New("no page scripted")
	}
	p := b.pages[b.next]
	b.next++
	return p, nil
}

func searchHTML(links ...string) string {
	html := "<html><body>"
	for _, l := range links {
		html += `<a href="` + l + `"><h3>r</h3></a>`
	}
	return html + "</body></html>"
}

func fastSettings() Settings {
	return Settings{
		PageSettle:    time.Millisecond,
		SearchSettle:  time.Millisecond,
		HostRateLimit: 1000,
		HostBurst:     100,
	}
}

func TestRunOnceProducesRecordsInDiscoveryOrder(t *testing.T) {
	b := &fakeBrowser{pages: []*fakePage{
		{content: searchHTML("https://facebook.com/alpha", "https://www.linkedin.com/in/beta")},
		{content: "Email alpha@corp.in, call 9876543210"},
		{content: "beta@corp.in"},
	}}

	var fractions []float64
	var seen []string
	recs, err := RunOnce(context.Background(), b, fastSettings(), types.Options{
		Keyword:    "dental lab",
		Domains:    []string{"facebook.com", "linkedin.com"},
		MaxResults: 10,
		Progress:   func(f float64) { fractions = append(fractions, f) },
		OnRecord:   func(r domain.ContactRecord) { seen = append(seen, r.URL) },
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	require.Equal(t, "https://facebook.com/alpha", recs[0].URL)
	require.Equal(t, "facebook.com", recs[0].Domain)
	require.Equal(t, "dental lab", recs[0].Keyword)
	require.Equal(t, []string{"alpha@corp.in"}, recs[0].Emails)
	require.Equal(t, []string{"+919876543210"}, recs[0].Phones)

	require.Equal(t, "https://www.linkedin.com/in/beta", recs[1].URL)
	require.Equal(t, "www.linkedin.com", recs[1].Domain)
	require.Equal(t, []string{"beta@corp.in"}, recs[1].Emails)
	require.Empty(t, recs[1].Phones)

	require.Equal(t, []float64{0.5, 1}, fractions)
	require.Equal(t, []string{"https://facebook.com/alpha", "https://www.linkedin.com/in/beta"}, seen)

	for _, p := range b.pages {
		require.True(t, p.closed)
	}
}

func TestRunOnceSkipsFailedLinks(t *testing.T) {
	b := &fakeBrowser{pages: []*fakePage{
		{content: searchHTML("https://facebook.com/dead", "https://facebook.com/live")},
		{navErr: errors.New("net::ERR_CONNECTION_REFUSED")},
		{content: "live@corp.in"},
	}}

	var fractions []float64
	recs, err := RunOnce(context.Background(), b, fastSettings(), types.Options{
		Keyword:    "plumber",
		Domains:    []string{"facebook.com"},
		MaxResults: 10,
		Progress:   func(f float64) { fractions = append(fractions, f) },
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "https://facebook.com/live", recs[0].URL)

	// Progress still advances past the failed link.
	require.Equal(t, []float64{0.5, 1}, fractions)
}

func TestRunOnceValidatesOptions(t *testing.T) {
	b := &fakeBrowser{}

	_, err := RunOnce(context.Background(), b, Settings{}, types.Options{
		Keyword: "  ", Domains: []string{"x.com"}, MaxResults: 1,
	})
	require.ErrorContains(t, err, "keyword")

	_, err = RunOnce(context.Background(), b, Settings{}, types.Options{
		Keyword: "k", Domains: nil, MaxResults: 1,
	})
	require.ErrorContains(t, err, "domains")

	_, err = RunOnce(context.Background(), b, Settings{}, types.Options{
		Keyword: "k", Domains: []string{"x.com"}, MaxResults: 0,
	})
	require.ErrorContains(t, err, "max results")
}

func TestRunOnceFatalOnSearchFailure(t *testing.T) {
	b := &fakeBrowser{pages: []*fakePage{
		{navErr: errors.New("browser crashed")},
	}}

	_, err := RunOnce(context.Background(), b, fastSettings(), types.Options{
		Keyword: "k", Domains: []string{"facebook.com"}, MaxResults: 5,
	})
	require.ErrorContains(t, err, "search navigation")
}

func TestSettingsDefaults(t *testing.T) {
	s := Settings{}.withDefaults()
	require.Equal(t, 3*time.Second, s.PageSettle)
	require.Equal(t, 2*time.Second, s.SearchSettle)
	require.Equal(t, float64(1), s.HostRateLimit)
	require.Equal(t, 1, s.HostBurst)
}

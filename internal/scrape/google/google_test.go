package google

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stubPage serves a scripted sequence of result pages. Each Click on
// the pagination control advances to the next page.
type stubPage struct {
	pages    []string // Content() returns pages[cur]
	cur      int
	location string

	navigated []string
	clicked   []string

	navErr   error
	clickErr map[string]error // selector -> error
}

func (p *stubPage) Navigate(_ context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return p.navErr
}

func (p *stubPage) Location(context.Context) (string, error) {
	if p.location == "" {
		return "https://www.google.com/search?q=x", nil
	}
	return p.location, nil
}

func (p *stubPage) Content(context.Context) (string, error) {
	if p.cur >= len(p.pages) {
		return "", errors.New("no more pages scripted")
	}
	return p.pages[p.cur], nil
}

func (p *stubPage) Click(_ context.Context, selector string) error {
	p.clicked = append(p.clicked, selector)
	if err := p.clickErr[selector]; err != nil {
		return err
	}
	if selector == nextPageSelector {
		p.cur++
	}
	return nil
}

func (p *stubPage) Settle(context.Context, time.Duration) error { return nil }
func (p *stubPage) Close() error                                { return nil }

func resultPage(links []string, hasNext bool) string {
	html := "<html><body>"
	for _, l := range links {
		html += `<a href="` + l + `"><h3>Result</h3></a>`
	}
	if hasNext {
		html += `<a id="pnnext" href="/search?start=10">Next</a>`
	}
	return html + "</body></html>"
}

func TestCollectFiltersAndDedupes(t *testing.T) {
	page := &stubPage{pages: []string{resultPage([]string{
		"https://www.linkedin.com/in/alpha",
		"https://example.com/not-a-target",
		"https://www.linkedin.com/in/alpha", // duplicate
		"https://facebook.com/beta",
	}, false)}}

	s := Search{Domains: []string{"linkedin.com", "facebook.com"}, Max: 10}
	links, err := s.Collect(context.Background(), page, "q")
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://www.linkedin.com/in/alpha",
		"https://facebook.com/beta",
	}, links)
}

func TestCollectStopsAtMaxMidPage(t *testing.T) {
	page := &stubPage{pages: []string{resultPage([]string{
		"https://facebook.com/a",
		"https://facebook.com/b",
		"https://facebook.com/c",
	}, true)}}

	s := Search{Domains: []string{"facebook.com"}, Max: 2}
	links, err := s.Collect(context.Background(), page, "q")
	require.NoError(t, err)
	require.Len(t, links, 2)
	require.NotContains(t, page.clicked, nextPageSelector)
}

func TestCollectPaginates(t *testing.T) {
	page := &stubPage{pages: []string{
		resultPage([]string{"https://facebook.com/a"}, true),
		resultPage([]string{"https://facebook.com/b"}, false),
	}}

	s := Search{Domains: []string{"facebook.com"}, Max: 10}
	links, err := s.Collect(context.Background(), page, "q")
	require.NoError(t, err)
	require.Equal(t, []string{"https://facebook.com/a", "https://facebook.com/b"}, links)
	require.Contains(t, page.clicked, nextPageSelector)
}

func TestCollectUnwrapsRedirectLinks(t *testing.T) {
	page := &stubPage{pages: []string{resultPage([]string{
		"/url?q=https://www.instagram.com/acme&sa=U",
	}, false)}}

	s := Search{Domains: []string{"instagram.com"}, Max: 10}
	links, err := s.Collect(context.Background(), page, "q")
	require.NoError(t, err)
	require.Equal(t, []string{"https://www.instagram.com/acme"}, links)
}

func TestCollectDismissesConsent(t *testing.T) {
	consent := `<html><body><h1>Before you continue</h1>
	<button id="L2AGLb">I agree</button></body></html>`
	// After the consent click, the page is still on index 0 (Click on
	// the consent selector does not advance), so script both states in
	// a single page that also contains results.
	page := &stubPage{pages: []string{
		consent + resultPage([]string{"https://facebook.com/a"}, false),
	}}

	s := Search{Domains: []string{"facebook.com"}, Max: 10}
	links, err := s.Collect(context.Background(), page, "q")
	require.NoError(t, err)
	require.Equal(t, []string{"https://facebook.com/a"}, links)
	require.Contains(t, page.clicked, consentSelector)
}

func TestCollectToleratesConsentClickFailure(t *testing.T) {
	page := &stubPage{
		pages: []string{
			"<html><body>Before you continue</body></html>" +
				resultPage([]string{"https://facebook.com/a"}, false),
		},
		clickErr: map[string]error{consentSelector: errors.New("not visible")},
	}

	s := Search{Domains: []string{"facebook.com"}, Max: 10}
	links, err := s.Collect(context.Background(), page, "q")
	require.NoError(t, err)
	require.Equal(t, []string{"https://facebook.com/a"}, links)
}

func TestCollectToleratesNextClickFailure(t *testing.T) {
	page := &stubPage{
		pages:    []string{resultPage([]string{"https://facebook.com/a"}, true)},
		clickErr: map[string]error{nextPageSelector: errors.New("stale element")},
	}

	s := Search{Domains: []string{"facebook.com"}, Max: 10}
	links, err := s.Collect(context.Background(), page, "q")
	require.NoError(t, err)
	require.Equal(t, []string{"https://facebook.com/a"}, links)
}

func TestCollectFatalOnNavigationFailure(t *testing.T) {
	page := &stubPage{navErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}

	s := Search{Domains: []string{"facebook.com"}, Max: 10}
	_, err := s.Collect(context.Background(), page, "q")
	require.ErrorContains(t, err, "search navigation")
}

func TestSearchURLEscapesQuery(t *testing.T) {
	got := SearchURL(`(site:x.com) "dental lab"`)
	require.Equal(t,
		"https://www.google.com/search?q=%28site%3Ax.com%29+%22dental+lab%22",
		got)
}

func TestNeedsConsent(t *testing.T) {
	require.True(t, needsConsent("... Before you continue to Google ...", "https://www.google.com/search"))
	require.True(t, needsConsent("<html></html>", "https://consent.google.com/m?continue=x"))
	require.False(t, needsConsent("<html>results</html>", "https://www.google.com/search?q=x"))
}

func TestUnwrapRedirect(t *testing.T) {
	require.Equal(t, "https://facebook.com/x", unwrapRedirect("https://facebook.com/x"))
	require.Equal(t, "https://facebook.com/x", unwrapRedirect("/url?q=https://facebook.com/x&sa=U"))
	require.Equal(t, "", unwrapRedirect("/search?q=internal"))
	require.Equal(t, "", unwrapRedirect("#"))
}

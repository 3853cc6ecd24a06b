package scrape

import (
	"fmt"
	"strings"
)

// Region hints bias search results toward Indian businesses; the phone
// validator is pinned to the same numbering plan.
var regionHints = []string{
	"India", "Mumbai", "Delhi", "Bangalore", "Hyderabad", "Chennai",
	"Kolkata", "Ahmedabad", "Pune", "Jaipur", "Surat", "Lucknow",
}

const (
	contactHint = `(intext:"email" OR intext:"@" OR intext:"gmail.com" OR intext:"yahoo.com" OR intext:"outlook.com" OR intext:"contact")`
	phoneHint   = `(intext:"phone" OR intext:"mobile" OR intext:"WhatsApp" OR intext:"call")`
)

// BuildQuery assembles the search query: a site-restriction clause over
// the selected domains, the literal keyword, the region-hint clause,
// then the contact- and phone-intent clauses. Callers must not pass an
// empty domain list; RunOnce rejects that before getting here.
func BuildQuery(keyword string, domains []string) string {
	sites := make([]string, 0, len(domains))
	for _, d := range domains {
		sites = append(sites, "site:"+d)
	}

	hints := make([]string, 0, len(regionHints))
	for _, k := range regionHints {
		hints = append(hints, fmt.Sprintf("%q", k))
	}

	return fmt.Sprintf(`(%s) %q (%s) %s %s`,
		strings.Join(sites, " OR "),
		keyword,
		strings.Join(hints, " OR "),
		contactHint,
		phoneHint,
	)
}

package domain

// ContactRecord is one visited page's worth of extracted contact info.
// Emails and Phones are ordered-unique; every phone is plan-validated
// and carries the +91 international prefix.
type ContactRecord struct {
	Keyword string
	URL     string
	Domain  string // host component of URL
	Emails  []string
	Phones  []string
}

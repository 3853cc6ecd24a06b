// Package contacts pulls publicly listed emails and Indian mobile
// numbers out of raw page markup.
package contacts

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// 10-digit Indian mobile (first digit 6-9), optionally prefixed
	// with 91/+91 and a single separator. The word boundaries keep
	// longer digit runs from yielding false positives.
	phoneRe = regexp.MustCompile(`\b(?:\+?91[\s.\-]?)?[6-9]\d{9}\b`)

	nonDigitRe = regexp.MustCompile(`\D`)
)

// Extract scans markup for emails and Indian mobile numbers. Emails are
// syntax-checked only. Phone candidates are normalized to
// "+91XXXXXXXXXX" and kept only if the numbering plan confirms them as
// Indian; candidates that fail validation are silently dropped. Both
// outputs are deduplicated in first-seen order.
func Extract(markup string) (emails, phones []string) {
	seenEmail := make(map[string]bool)
	for _, m := range emailRe.FindAllString(markup, -1) {
		if seenEmail[m] {
			continue
		}
		seenEmail[m] = true
		emails = append(emails, m)
	}

	// Dedupe on the normalized form so "+91 98... " and "98..." cost
	// one validation and one output slot between them.
	seenPhone := make(map[string]bool)
	for _, raw := range phoneRe.FindAllString(markup, -1) {
		candidate := normalizePhone(raw)
		if seenPhone[candidate] {
			continue
		}
		seenPhone[candidate] = true
		if IsIndianMobile(candidate) {
			phones = append(phones, candidate)
		}
	}

	return emails, phones
}

// normalizePhone strips separators and forces the +91 international
// prefix onto bare 10-digit matches.
func normalizePhone(raw string) string {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if !strings.HasPrefix(digits, "91") && len(digits) == 10 {
		digits = "91" + digits
	}
	return "+" + digits
}

// IsIndianMobile reports whether s parses as a structurally valid
// number whose numbering-plan region resolves to India. A parse
// failure of any kind means false, never an error.
func IsIndianMobile(s string) bool {
	num, err := phonenumbers.Parse(s, "IN")
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num) &&
		phonenumbers.GetRegionCodeForNumber(num) == "IN"
}

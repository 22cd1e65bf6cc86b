package middleware

import (
	"regexp"
	"strings"
)

// Redactor scrubs customer identifiers from strings bound for logs.
// Ticket payloads carry contact emails, so query strings and header values
// are passed through it before the access log is written.
type Redactor struct {
	mask map[string]struct{}
}

var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Digits only, so the hex runs of a UUID never match.
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// NewRedactor masks Authorization, Cookie and Set-Cookie plus any extra
// header names given (case-insensitive).
func NewRedactor(extraHeaders ...string) *Redactor {
	r := &Redactor{mask: map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}}
	for _, h := range extraHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			r.mask[h] = struct{}{}
		}
	}
	return r
}

// String replaces UUIDs, emails and phone numbers in s. UUIDs go first so
// the looser phone pattern cannot eat their digit groups.
func (r *Redactor) String(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

// Header returns a loggable copy of a header's joined values.
func (r *Redactor) Header(name string, values []string) string {
	if _, ok := r.mask[strings.ToLower(name)]; ok {
		return "[REDACTED]"
	}
	return r.String(strings.Join(values, ", "))
}

package crawler

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// numericDateRe matches YYYY[./-]M[./-]D shaped substrings.
var numericDateRe = regexp.MustCompile(`20\d{2}[./-]\d{1,2}[./-]\d{1,2}`)

// yearTokenRe matches a standalone 4-digit year.
var yearTokenRe = regexp.MustCompile(`\b20\d{2}\b`)

var dateSeparatorRe = regexp.MustCompile(`\s*-\s*`)

// Korean year/month/day suffixes and the common dot/slash separators
// are rewritten to dashes before parsing.
var dateSuffixReplacer = strings.NewReplacer(
	"년", "-",
	"월", "-",
	"일", "",
	".", "-",
	"/", "-",
)

// ParseFlexibleDate attempts a year-first, month-before-day parse of a
// free-form date string. Returns nil when the text does not parse;
// this is deliberately lossy rather than strict.
func ParseFlexibleDate(s string) *time.Time {
	s = NormalizeText(s)
	if s == "" {
		return nil
	}

	s = dateSuffixReplacer.Replace(s)
	s = dateSeparatorRe.ReplaceAllString(s, "-")
	s = strings.Trim(NormalizeText(s), "-")
	if s == "" {
		return nil
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		// Label text around the date ("작성일 2025-08-12") defeats a
		// full-string parse; retry on the date-shaped substring.
		m := numericDateRe.FindString(s)
		if m == "" {
			return nil
		}
		t, err = dateparse.ParseAny(m)
		if err != nil {
			return nil
		}
	}
	return &t
}

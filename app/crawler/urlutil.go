package crawler

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
)

// Query parameters that do not affect page identity.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"gclid":        {},
	"fbclid":       {},
	"_hsenc":       {},
	"_hsmi":        {},
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeText collapses whitespace runs to single spaces and trims.
// Idempotent, used to stabilize text before hashing.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// NormalizeURL lowercases scheme and host, defaults the scheme to
// https, strips tracking parameters and the fragment, and sorts the
// remaining query parameters by key.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.Host = strings.ToLower(u.Host)

	q := u.Query()
	for key := range q {
		if _, ok := trackingParams[key]; ok {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode() // Encode sorts by key
	u.Fragment = ""
	u.RawFragment = ""

	return u.String()
}

// URLKey returns a 40-character hex digest of the normalized URL,
// used as a stable dedup/lookup aid.
func URLKey(raw string) string {
	sum := sha1.Sum([]byte(NormalizeURL(raw)))
	return hex.EncodeToString(sum[:])
}

// Checksum fingerprints normalized title+body for change detection.
func Checksum(title, body string) string {
	content := NormalizeText(title) + "\n" + NormalizeText(body)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// resolveURL resolves href against base, returning href untouched when
// resolution is impossible.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

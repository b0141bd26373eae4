package feed

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle applies NFKC folding and trims whitespace. Scraped Japanese
// pages mix full-width and half-width alphanumerics for the same article
// across visits; folding keeps titles stable as identity fallbacks.
func NormalizeTitle(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// ResolveURL resolves href against base, returning href unchanged when it is
// already absolute or when either side fails to parse.
func ResolveURL(base, href string) string {
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}

	b, err := url.Parse(base)
	if err != nil {
		return href
	}

	return b.ResolveReference(ref).String()
}

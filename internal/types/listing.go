// Package types provides the shared data definitions for the Easy Apply
// automation engine: discovered job listings and per-listing outcomes.
package types

import (
	"net/url"
	"strings"
)

// JobListing is one job posting discovered in search results. The URL is the
// unique key for the listing within a run; listings are read-only once built.
type JobListing struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	EasyApply bool   `json:"easy_apply"`
}

// NormalizeListingURL canonicalizes a listing link for de-duplication: it
// resolves relative links against the given base, strips query and fragment,
// and trims trailing slashes. Returns "" for unparseable links.
func NormalizeListingURL(base, link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if !u.IsAbs() && base != "" {
		b, err := url.Parse(base)
		if err != nil {
			return ""
		}
		u = b.ResolveReference(u)
	}
	u.RawQuery = ""
	u.Fragment = ""
	s := u.String()
	return strings.TrimRight(s, "/")
}

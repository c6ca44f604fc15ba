// Package url provides URL classification helpers for the zoom engine.
package url

import (
	"net/url"
	"strings"
)

// Zoomable reports whether a URL points at a page whose zoom the daemon may
// manage. Browser-internal and extension pages are never zoomable.
func Zoomable(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	switch {
	case strings.HasPrefix(rawURL, "http://"):
		return true
	case strings.HasPrefix(rawURL, "https://"):
		return true
	case strings.HasPrefix(rawURL, "file://"):
		return true
	}
	return false
}

// Hostname extracts the hostname from a URL string. Returns ok=false on
// parse failure or when the URL carries no host; callers must treat that as
// "cannot classify, skip".
func Hostname(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return "", false
	}
	return parsed.Hostname(), true
}

// RootDomain returns the last two dot-separated labels of a hostname, a
// naive eTLD+1 approximation that does not consult a public-suffix list.
// Returns ok=false for empty hostnames; single-label hosts are returned
// unchanged.
func RootDomain(hostname string) (string, bool) {
	if hostname == "" {
		return "", false
	}
	labels := strings.Split(hostname, ".")
	if len(labels) < 2 {
		return hostname, true
	}
	return strings.Join(labels[len(labels)-2:], "."), true
}

package entity

import "strings"

// ExclusionSet holds hostnames opted out of automatic zoom management:
// exact hostnames plus wildcard-domain patterns of the form "*.<domain>".
type ExclusionSet struct {
	Exact    []string `json:"exact"`
	Patterns []string `json:"patterns"`
}

// Matches reports whether hostname is excluded: present in the exact set, or
// equal to / a subdomain of some pattern's domain. A domain matches its own
// wildcard.
func (e ExclusionSet) Matches(hostname string) bool {
	if hostname == "" {
		return false
	}
	for _, h := range e.Exact {
		if h == hostname {
			return true
		}
	}
	for _, p := range e.Patterns {
		domain := strings.TrimPrefix(p, "*.")
		if domain == "" {
			continue
		}
		if hostname == domain || strings.HasSuffix(hostname, "."+domain) {
			return true
		}
	}
	return false
}

// MatchedPattern returns the first pattern covering hostname, or "".
func (e ExclusionSet) MatchedPattern(hostname string) string {
	for _, p := range e.Patterns {
		domain := strings.TrimPrefix(p, "*.")
		if domain == "" {
			continue
		}
		if hostname == domain || strings.HasSuffix(hostname, "."+domain) {
			return p
		}
	}
	return ""
}

// ContainsExact reports whether hostname is in the exact set.
func (e ExclusionSet) ContainsExact(hostname string) bool {
	for _, h := range e.Exact {
		if h == hostname {
			return true
		}
	}
	return false
}

// Merge unions other into e, deduplicated. Order is not significant.
func (e ExclusionSet) Merge(other ExclusionSet) ExclusionSet {
	return ExclusionSet{
		Exact:    unionStrings(e.Exact, other.Exact),
		Patterns: unionStrings(e.Patterns, other.Patterns),
	}
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range b {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

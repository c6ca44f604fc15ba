package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tabzoom/zoomd/internal/domain/entity"
)

func TestExclusionSetMatches(t *testing.T) {
	set := entity.ExclusionSet{
		Exact:    []string{"app.example.com"},
		Patterns: []string{"*.tracker.net"},
	}

	tests := []struct {
		hostname string
		want     bool
	}{
		{"app.example.com", true},       // exact hit
		{"example.com", false},          // exact entries do not cover parents
		{"sub.app.example.com", false},  // nor subdomains
		{"tracker.net", true},           // domain matches its own wildcard
		{"cdn.tracker.net", true},       // subdomain matches
		{"a.b.tracker.net", true},       // nested subdomain matches
		{"nottracker.net", false},       // suffix must align on a label boundary
		{"tracker.net.evil.com", false}, // pattern anchors at the end
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, set.Matches(tt.hostname), "hostname %q", tt.hostname)
	}
}

func TestExclusionSetMatchedPattern(t *testing.T) {
	set := entity.ExclusionSet{Patterns: []string{"*.example.com"}}

	assert.Equal(t, "*.example.com", set.MatchedPattern("a.b.example.com"))
	assert.Equal(t, "*.example.com", set.MatchedPattern("example.com"))
	assert.Equal(t, "", set.MatchedPattern("example.org"))
}

func TestExclusionSetContainsExact(t *testing.T) {
	set := entity.ExclusionSet{Exact: []string{"example.com"}}

	assert.True(t, set.ContainsExact("example.com"))
	assert.False(t, set.ContainsExact("www.example.com"))
}

func TestExclusionSetMerge(t *testing.T) {
	a := entity.ExclusionSet{
		Exact:    []string{"a.com", "b.com"},
		Patterns: []string{"*.x.net"},
	}
	b := entity.ExclusionSet{
		Exact:    []string{"b.com", "c.com"},
		Patterns: []string{"*.x.net", "*.y.net"},
	}

	merged := a.Merge(b)
	assert.ElementsMatch(t, []string{"a.com", "b.com", "c.com"}, merged.Exact)
	assert.ElementsMatch(t, []string{"*.x.net", "*.y.net"}, merged.Patterns)
}

package url_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	urlutil "github.com/tabzoom/zoomd/internal/domain/url"
)

func TestZoomable(t *testing.T) {
	tests := []struct {
		rawURL string
		want   bool
	}{
		{"https://example.com/page", true},
		{"http://example.com", true},
		{"file:///home/user/doc.html", true},
		{"chrome://settings", false},
		{"chrome-extension://abcdef/popup.html", false},
		{"about:blank", false},
		{"devtools://devtools/bundled/inspector.html", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, urlutil.Zoomable(tt.rawURL), "url %q", tt.rawURL)
	}
}

func TestHostname(t *testing.T) {
	host, ok := urlutil.Hostname("https://www.example.com:8080/path?q=1")
	assert.True(t, ok)
	assert.Equal(t, "www.example.com", host)

	_, ok = urlutil.Hostname("file:///home/user/doc.html")
	assert.False(t, ok)

	_, ok = urlutil.Hostname("")
	assert.False(t, ok)

	_, ok = urlutil.Hostname("://bad")
	assert.False(t, ok)
}

func TestRootDomain(t *testing.T) {
	tests := []struct {
		hostname string
		want     string
		ok       bool
	}{
		{"www.example.com", "example.com", true},
		{"a.b.c.example.com", "example.com", true},
		{"example.com", "example.com", true},
		{"localhost", "localhost", true},
		// Known simplification: multi-part public suffixes collapse wrong.
		{"www.example.co.uk", "co.uk", true},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := urlutil.RootDomain(tt.hostname)
		assert.Equal(t, tt.ok, ok, "hostname %q", tt.hostname)
		assert.Equal(t, tt.want, got, "hostname %q", tt.hostname)
	}
}

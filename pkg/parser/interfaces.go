package parser

import (
	"context"
	"io"
	"net/url"
)

// Entry is a single dataset homepage discovered in a catalog source,
// together with the source it came from.
type Entry struct {
	SitemapURL  string `json:"sitemap_url"`
	HomepageURL string `json:"homepage_url"`
	LastMod     string `json:"last_mod,omitempty"`
}

// SourceParser turns one catalog source into homepage entries. Sources
// may be local paths or http(s) URLs.
type SourceParser interface {
	Parse(ctx context.Context, source string) ([]Entry, error)
	SupportedFormats() []string
}

type ParserFactory interface {
	GetParser(format string) SourceParser
	RegisterParser(format string, parser SourceParser)
}

// Filter excludes homepages before they reach identifier extraction.
type Filter interface {
	ShouldExclude(u *url.URL) bool
	Name() string
}

// DownloadClient abstracts remote fetching so tests can inject fixtures.
type DownloadClient interface {
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

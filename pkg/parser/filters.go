package parser

import (
	"net/url"
	"strings"
)

// PathFilter excludes homepages whose path contains one of the
// configured fragments, for portals whose sitemaps mix dataset pages
// with browse or story pages.
type PathFilter struct {
	excludePaths []string
	name         string
}

func NewPathFilter(name string, excludePaths []string) *PathFilter {
	return &PathFilter{
		name:         name,
		excludePaths: excludePaths,
	}
}

func (f *PathFilter) ShouldExclude(u *url.URL) bool {
	path := strings.ToLower(u.Path)
	for _, excludePath := range f.excludePaths {
		if excludePath == "" {
			continue
		}
		if strings.Contains(path, strings.ToLower(excludePath)) {
			return true
		}
	}
	return false
}

func (f *PathFilter) Name() string {
	return f.name
}

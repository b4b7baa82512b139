package extractor

import (
	"net/url"
	"regexp"
	"strings"
)

// Dataset identifiers are two four-character alphanumeric groups joined
// by a hyphen, like "yt7u-eiyg".
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9]{4}-[a-zA-Z0-9]{4}$`)

// IsIdentifier reports whether s is a well-formed dataset identifier.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// IDExtractor reads the dataset identifier out of homepage URLs. The
// portals place it in the last path segment of every dataset homepage.
type IDExtractor struct{}

func NewIDExtractor() *IDExtractor {
	return &IDExtractor{}
}

// Extract returns the identifier and true when the URL's last non-empty
// path segment is one. Query string and fragment are ignored; a
// trailing slash is tolerated.
func (e *IDExtractor) Extract(homepageURL string) (string, bool) {
	parsed, err := url.Parse(homepageURL)
	if err != nil {
		return "", false
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return "", false
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	if !IsIdentifier(last) {
		return "", false
	}

	return last, true
}

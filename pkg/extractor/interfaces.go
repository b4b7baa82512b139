package extractor

// IdentifierExtractor derives a platform dataset identifier from a
// homepage URL. The second return is false when the URL carries none.
type IdentifierExtractor interface {
	Extract(homepageURL string) (string, bool)
}

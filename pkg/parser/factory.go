package parser

import (
	"fmt"
	"strings"
	"sync"
)

type parserFactory struct {
	parsers map[string]SourceParser
	mu      sync.RWMutex
}

var (
	factory     *parserFactory
	factoryOnce sync.Once
)

// GetParserFactory returns the singleton parser factory instance
func GetParserFactory() ParserFactory {
	factoryOnce.Do(func() {
		factory = &parserFactory{
			parsers: make(map[string]SourceParser),
		}
		// Register default parsers
		xmlParser := NewXMLParser()
		factory.RegisterParser("xml", xmlParser)
		factory.RegisterParser("xml.gz", xmlParser)
		factory.RegisterParser("csv", NewCSVParser())
	})
	return factory
}

func (f *parserFactory) GetParser(format string) SourceParser {
	f.mu.RLock()
	defer f.mu.RUnlock()

	parser, exists := f.parsers[format]
	if !exists {
		return nil
	}
	return parser
}

func (f *parserFactory) RegisterParser(format string, parser SourceParser) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if parser == nil {
		panic(fmt.Sprintf("cannot register nil parser for format %s", format))
	}

	f.parsers[format] = parser
}

// DetectFormat infers a source's format from its name. Anything that is
// not a CSV listing is treated as sitemap XML; portals often serve
// sitemaps without an extension.
func DetectFormat(source string) string {
	lower := strings.ToLower(source)
	if idx := strings.IndexAny(lower, "?#"); idx >= 0 {
		lower = lower[:idx]
	}

	switch {
	case strings.HasSuffix(lower, ".csv"):
		return "csv"
	case strings.HasSuffix(lower, ".gz"):
		return "xml.gz"
	default:
		return "xml"
	}
}

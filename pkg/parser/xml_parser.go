package parser

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"time"

	"datadoc-go/pkg/logger"
)

const maxIndexDepth = 3

type xmlURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type xmlURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []xmlURL `xml:"url"`
}

type xmlSitemapRef struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type xmlSitemapIndex struct {
	XMLName  xml.Name        `xml:"sitemapindex"`
	Sitemaps []xmlSitemapRef `xml:"sitemap"`
}

// XMLParser reads sitemap XML, both urlset and sitemapindex documents,
// from local files or URLs. Index entries are followed sequentially; a
// child that cannot be fetched fails the whole parse, since catalog
// sources are the operator's own inputs.
type XMLParser struct {
	client  DownloadClient
	filters []Filter
	log     *logger.Logger
}

func NewXMLParser() *XMLParser {
	return &XMLParser{
		client:  NewHTTPClient(30 * time.Second),
		filters: make([]Filter, 0),
		log:     logger.GetLogger().WithField("component", "xml_parser"),
	}
}

// SetDownloadClient injects a different fetcher, mainly for tests.
func (p *XMLParser) SetDownloadClient(client DownloadClient) {
	p.client = client
}

func (p *XMLParser) AddFilter(filter Filter) {
	p.filters = append(p.filters, filter)
}

func (p *XMLParser) Parse(ctx context.Context, source string) ([]Entry, error) {
	return p.parse(ctx, source, 0)
}

func (p *XMLParser) parse(ctx context.Context, source string, depth int) ([]Entry, error) {
	if depth > maxIndexDepth {
		return nil, fmt.Errorf("sitemap index nested deeper than %d: %s", maxIndexDepth, source)
	}

	content, err := openSource(ctx, p.client, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open sitemap: %w", err)
	}
	data, err := io.ReadAll(content)
	content.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read sitemap: %w", err)
	}

	data, err = decodeToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sitemap %s: %w", source, err)
	}

	var index xmlSitemapIndex
	if err := xml.Unmarshal(data, &index); err == nil && len(index.Sitemaps) > 0 {
		p.log.WithFields(map[string]interface{}{
			"source": source,
			"count":  len(index.Sitemaps),
		}).Info("Following sitemap index")
		return p.parseIndex(ctx, index, depth)
	}

	var urlset xmlURLSet
	if err := xml.Unmarshal(data, &urlset); err != nil {
		return nil, fmt.Errorf("failed to parse sitemap XML %s: %w", source, err)
	}

	entries := make([]Entry, 0, len(urlset.URLs))
	for _, u := range urlset.URLs {
		if u.Loc == "" {
			continue
		}

		parsed, err := url.Parse(u.Loc)
		if err != nil {
			p.log.WithField("loc", u.Loc).Debug("Skipping unparseable loc")
			continue
		}
		if p.shouldExclude(parsed) {
			continue
		}

		entries = append(entries, Entry{
			SitemapURL:  source,
			HomepageURL: u.Loc,
			LastMod:     u.LastMod,
		})
	}

	return entries, nil
}

func (p *XMLParser) parseIndex(ctx context.Context, index xmlSitemapIndex, depth int) ([]Entry, error) {
	var entries []Entry
	for _, ref := range index.Sitemaps {
		if ref.Loc == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		subEntries, err := p.parse(ctx, ref.Loc, depth+1)
		if err != nil {
			return nil, fmt.Errorf("sub-sitemap %s: %w", ref.Loc, err)
		}
		entries = append(entries, subEntries...)
	}
	return entries, nil
}

func (p *XMLParser) SupportedFormats() []string {
	return []string{"xml", "xml.gz"}
}

func (p *XMLParser) shouldExclude(u *url.URL) bool {
	for _, filter := range p.filters {
		if filter.ShouldExclude(u) {
			return true
		}
	}
	return false
}

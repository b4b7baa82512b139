package parser

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"datadoc-go/pkg/logger"
)

// CSVParser reads the pre-scraped homepage listing form: one
// sitemap_url,homepage_url pair per line, no header expected. A header
// row is tolerated because its second field is not a URL.
type CSVParser struct {
	client DownloadClient
	log    *logger.Logger
}

func NewCSVParser() *CSVParser {
	return &CSVParser{
		client: NewHTTPClient(30 * time.Second),
		log:    logger.GetLogger().WithField("component", "homepages_csv"),
	}
}

// SetDownloadClient injects a different fetcher, mainly for tests.
func (p *CSVParser) SetDownloadClient(client DownloadClient) {
	p.client = client
}

func (p *CSVParser) Parse(ctx context.Context, source string) ([]Entry, error) {
	content, err := openSource(ctx, p.client, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open homepages file: %w", err)
	}
	defer content.Close()

	reader := csv.NewReader(content)
	reader.FieldsPerRecord = -1

	var entries []Entry
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read homepages CSV %s: %w", source, err)
		}
		line++

		if len(record) < 2 {
			p.log.WithField("line", line).Warn("Skipping short homepages row")
			continue
		}

		sitemapURL := strings.TrimSpace(record[0])
		homepageURL := strings.TrimSpace(record[1])
		if homepageURL == "" {
			continue
		}
		if !strings.HasPrefix(homepageURL, "http://") && !strings.HasPrefix(homepageURL, "https://") {
			p.log.WithFields(map[string]interface{}{
				"line":  line,
				"value": homepageURL,
			}).Debug("Skipping non-URL homepages row")
			continue
		}

		entries = append(entries, Entry{
			SitemapURL:  sitemapURL,
			HomepageURL: homepageURL,
		})
	}

	return entries, nil
}

func (p *CSVParser) SupportedFormats() []string {
	return []string{"csv"}
}

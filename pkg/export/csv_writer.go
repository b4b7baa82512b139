package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"datadoc-go/pkg/documenter"
	"datadoc-go/pkg/socrata"
)

// Column order of the catalog CSV body.
var csvHeader = []string{
	"dataset name",
	"socrata id",
	"download filename",
	"downloaded ts",
	"dataset homepage",
	"description",
	"Internet Archive snapshots",
	"addtl socrata metadata",
}

// WriteCSV writes the catalog CSV: methodology preamble lines, the
// header row, then one row per record sorted by dataset name.
func WriteCSV(path string, records []documenter.Record, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV output: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	for _, line := range preambleLines(opts) {
		if err := writer.Write([]string{line}); err != nil {
			return fmt.Errorf("failed to write CSV preamble: %w", err)
		}
	}
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range SortRecords(records) {
		row := []string{
			record.DatasetName,
			record.Identifier,
			record.DownloadFilename,
			record.DownloadedAt,
			record.HomepageURL,
			record.Description,
			strings.Join(record.Snapshots, "; "),
			record.Additional,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}

// preambleLines renders the methodology notes recorded above the
// header: when and how the catalog was built.
func preambleLines(opts Options) []string {
	lines := []string{
		fmt.Sprintf("Dataset documentation generated %s (run %s)",
			opts.GeneratedAt.UTC().Format("2006-01-02 15:04:05")+" UTC", opts.RunID),
	}
	if len(opts.Sources) > 0 {
		lines = append(lines, "Catalog sources: "+strings.Join(opts.Sources, "; "))
	}
	if opts.APIEndpoint != "" {
		lines = append(lines, fmt.Sprintf("Dataset names and descriptions from GET %s?ids={socrata id}", opts.APIEndpoint))
	}
	if opts.TimemapBase != "" {
		lines = append(lines, fmt.Sprintf("Snapshot links from GET %s{dataset homepage}", opts.TimemapBase))
	}
	lines = append(lines, fmt.Sprintf("Datasets the API could not name are recorded as %s with an empty description", socrata.UnknownName))
	lines = append(lines, opts.Notes...)
	return lines
}

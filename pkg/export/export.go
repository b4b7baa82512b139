package export

import (
	"sort"
	"time"

	"datadoc-go/pkg/documenter"
)

// Options carries everything the artifact writers put in the
// methodology preamble.
type Options struct {
	RunID       string
	GeneratedAt time.Time
	Sources     []string
	APIEndpoint string
	TimemapBase string
	Notes       []string
}

// SortRecords orders records by dataset name, ties broken by identifier
// then download filename. The catalog is read by humans looking for a
// dataset they know by name.
func SortRecords(records []documenter.Record) []documenter.Record {
	sorted := append([]documenter.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.DatasetName != b.DatasetName {
			return a.DatasetName < b.DatasetName
		}
		if a.Identifier != b.Identifier {
			return a.Identifier < b.Identifier
		}
		return a.DownloadFilename < b.DownloadFilename
	})
	return sorted
}

package documenter

import (
	"time"

	"datadoc-go/pkg/downloads"
	"datadoc-go/pkg/socrata"
)

// Record is one documented (dataset, downloaded file) pair. A dataset
// with several downloads yields one record per file; a dataset that was
// never downloaded yields a single record with empty download fields.
type Record struct {
	DatasetName      string   `json:"dataset_name"`
	Identifier       string   `json:"identifier"`
	DownloadFilename string   `json:"download_filename,omitempty"`
	OriginalFilename string   `json:"original_filename,omitempty"`
	DownloadEpoch    int64    `json:"download_epoch,omitempty"`
	RawEpoch         string   `json:"raw_epoch,omitempty"`
	DownloadedAt     string   `json:"downloaded_at,omitempty"`
	HomepageURL      string   `json:"homepage_url,omitempty"`
	Description      string   `json:"description,omitempty"`
	Snapshots        []string `json:"archive_snapshots,omitempty"`
	Additional       string   `json:"additional_metadata,omitempty"`
	Found            bool     `json:"found"`
	Leftover         bool     `json:"leftover,omitempty"`
}

// Summary describes one documentation run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Homepages int           `json:"homepages"`
	Datasets  int           `json:"datasets"`
	Resolved  int           `json:"resolved"`
	Unknown   int           `json:"unknown"`
	Leftovers int           `json:"leftovers"`
	Records   int           `json:"records"`
	Elapsed   time.Duration `json:"elapsed"`
}

// buildRecords expands one resolved dataset into output records, one
// per downloaded file. The snapshot slice is shared across the records;
// nobody mutates it downstream.
func buildRecords(identifier, homepage string, res socrata.Resolution, snapshots []string, files []downloads.File, leftover bool) []Record {
	base := Record{
		DatasetName: res.Metadata.Name,
		Identifier:  identifier,
		HomepageURL: homepage,
		Description: res.Metadata.Description,
		Snapshots:   snapshots,
		Additional:  res.Metadata.Raw,
		Found:       res.Found,
		Leftover:    leftover,
	}

	if len(files) == 0 {
		return []Record{base}
	}

	records := make([]Record, 0, len(files))
	for _, f := range files {
		r := base
		r.DownloadFilename = f.Name
		r.OriginalFilename = f.OriginalName
		r.DownloadEpoch = f.Epoch()
		r.RawEpoch = f.RawEpoch
		r.DownloadedAt = f.DownloadedAtUTC()
		records = append(records, r)
	}
	return records
}

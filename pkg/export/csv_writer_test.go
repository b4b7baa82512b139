package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"datadoc-go/pkg/documenter"
	"datadoc-go/pkg/socrata"
)

func testRecords() []documenter.Record {
	// Deliberately out of name order.
	return []documenter.Record{
		{
			DatasetName:      "Vaccination Coverage",
			Identifier:       "wxyz-9876",
			DownloadFilename: "wxyz-9876_1736797155_vax.csv",
			DownloadEpoch:    1736797155,
			RawEpoch:         "1736797155",
			DownloadedAt:     "2025-01-13 19:39:15 UTC",
			HomepageURL:      "https://data.example.gov/d/wxyz-9876",
			Description:      "Coverage by county",
			Found:            true,
		},
		{
			DatasetName: socrata.UnknownName,
			Identifier:  "gone-0000",
			HomepageURL: "https://data.example.gov/d/gone-0000",
		},
		{
			DatasetName:      "Death Counts",
			Identifier:       "abcd-1234",
			DownloadFilename: "abcd-1234_1736710755_rows.csv",
			DownloadEpoch:    1736710755,
			RawEpoch:         "1736710755",
			DownloadedAt:     "2025-01-12 19:39:15 UTC",
			HomepageURL:      "https://data.example.gov/d/abcd-1234",
			Description:      "Weekly death counts",
			Snapshots: []string{
				"http://web.archive.org/web/20250114000000/https://data.example.gov/d/abcd-1234",
				"http://web.archive.org/web/20250215120000/https://data.example.gov/d/abcd-1234",
			},
			Additional: `{"resource":{"id":"abcd-1234"}}`,
			Found:      true,
		},
		{
			DatasetName:      "Death Counts",
			Identifier:       "abcd-1234",
			DownloadFilename: "abcd-1234_1736797155_rows.csv",
			DownloadEpoch:    1736797155,
			RawEpoch:         "1736797155",
			DownloadedAt:     "2025-01-13 19:39:15 UTC",
			HomepageURL:      "https://data.example.gov/d/abcd-1234",
			Description:      "Weekly death counts",
			Found:            true,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "dataset_documentation.csv")

	opts := Options{
		RunID:       "run-1",
		GeneratedAt: time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC),
		Sources:     []string{"https://data.example.gov/sitemap.xml"},
		APIEndpoint: "https://api.us.socrata.com/api/catalog/v1",
		TimemapBase: "http://web.archive.org/web/timemap/link/",
		Notes:       []string{"Downloads pulled with the bulk export tooling"},
	}
	if err := WriteCSV(path, testRecords(), opts); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read output back: %v", err)
	}

	// Preamble rows are single-cell until the header row.
	headerIdx := -1
	for i, row := range rows {
		if len(row) == len(csvHeader) && row[0] == csvHeader[0] {
			headerIdx = i
			break
		}
		if len(row) != 1 {
			t.Errorf("Preamble row %d should have one cell, got %v", i, row)
		}
	}
	if headerIdx < 1 {
		t.Fatalf("Header row not found after preamble, rows: %v", rows)
	}

	preamble := strings.Join(func() []string {
		var cells []string
		for _, row := range rows[:headerIdx] {
			cells = append(cells, row[0])
		}
		return cells
	}(), "\n")
	for _, want := range []string{"2025-01-20 12:00:00 UTC", "run-1", "sitemap.xml", "catalog/v1", "timemap", socrata.UnknownName, "bulk export tooling"} {
		if !strings.Contains(preamble, want) {
			t.Errorf("Preamble missing %q:\n%s", want, preamble)
		}
	}

	body := rows[headerIdx+1:]
	if len(body) != 4 {
		t.Fatalf("Expected 4 body rows, got %d", len(body))
	}

	// Sorted by name, then identifier, then filename.
	wantOrder := []string{
		"abcd-1234_1736710755_rows.csv",
		"abcd-1234_1736797155_rows.csv",
		"", // UNKN_SOC_NAME row has no download
		"wxyz-9876_1736797155_vax.csv",
	}
	for i, want := range wantOrder {
		if body[i][2] != want {
			t.Errorf("Body row %d download filename = %q, want %q", i, body[i][2], want)
		}
	}
	for i := 1; i < len(body); i++ {
		if body[i-1][0] > body[i][0] {
			t.Errorf("Body rows out of name order at %d: %q > %q", i, body[i-1][0], body[i][0])
		}
	}

	first := body[0]
	if first[0] != "Death Counts" || first[1] != "abcd-1234" {
		t.Errorf("First body row = %v", first)
	}
	if first[3] != "2025-01-12 19:39:15 UTC" {
		t.Errorf("Downloaded ts = %q", first[3])
	}
	wantSnapshots := "http://web.archive.org/web/20250114000000/https://data.example.gov/d/abcd-1234; " +
		"http://web.archive.org/web/20250215120000/https://data.example.gov/d/abcd-1234"
	if first[6] != wantSnapshots {
		t.Errorf("Snapshot cell = %q", first[6])
	}
	if first[7] != `{"resource":{"id":"abcd-1234"}}` {
		t.Errorf("Metadata cell = %q", first[7])
	}

	unknownRow := body[2]
	if unknownRow[0] != socrata.UnknownName || unknownRow[5] != "" {
		t.Errorf("Unknown dataset row should carry sentinel name and empty description: %v", unknownRow)
	}
}

func TestWriteCSVEmptyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset_documentation.csv")
	opts := Options{RunID: "run-2", GeneratedAt: time.Now()}

	if err := WriteCSV(path, nil, opts); err != nil {
		t.Fatalf("WriteCSV with no records failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "dataset name") {
		t.Error("Header row missing from empty catalog")
	}
}

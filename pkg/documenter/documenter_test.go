package documenter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"datadoc-go/pkg/archive"
	"datadoc-go/pkg/extractor"
	"datadoc-go/pkg/logger"
	"datadoc-go/pkg/parser"
	"datadoc-go/pkg/socrata"
)

type fakeResolver struct {
	resolutions map[string]socrata.Resolution
	calls       []string
}

func (f *fakeResolver) Resolve(ctx context.Context, identifier string) socrata.Resolution {
	f.calls = append(f.calls, identifier)
	if res, ok := f.resolutions[identifier]; ok {
		return res
	}
	return socrata.Resolution{
		Found:    false,
		Metadata: socrata.Metadata{Name: socrata.UnknownName, ID: identifier, Raw: "no results for identifier"},
	}
}

type fakeArchive struct {
	snapshots map[string][]archive.Snapshot
	calls     []string
}

func (f *fakeArchive) Snapshots(ctx context.Context, pageURL string) []archive.Snapshot {
	f.calls = append(f.calls, pageURL)
	return f.snapshots[pageURL]
}

func newTestDocumenter(sources []string, listing string, resolver MetadataResolver, lister SnapshotLister) *Documenter {
	return &Documenter{
		sources:       sources,
		listingFile:   listing,
		factory:       parser.GetParserFactory(),
		idExtractor:   extractor.NewIDExtractor(),
		resolver:      resolver,
		archiveClient: lister,
		throttle:      NewThrottle(0),
		log:           logger.GetLogger().WithField("component", "documenter"),
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestRunJoinsCatalogAndDownloads(t *testing.T) {
	dir := t.TempDir()

	homepages := filepath.Join(dir, "homepages.csv")
	writeTestFile(t, homepages,
		"https://data.example.gov/sitemap.xml,https://data.example.gov/dataset/Deaths/abcd-1234\n"+
			"https://data.example.gov/sitemap.xml,https://data.example.gov/dataset/Cases/wxyz-9876\n"+
			"https://data.example.gov/sitemap.xml,https://data.example.gov/browse\n")

	listing := filepath.Join(dir, "downloads.txt")
	writeTestFile(t, listing,
		"abcd-1234_1736710755_rows.csv\n"+
			"abcd-1234_1736797155_rows.csv\n"+
			"left-over1_1736710755_extra.csv\n")

	resolver := &fakeResolver{resolutions: map[string]socrata.Resolution{
		"abcd-1234": {Found: true, Metadata: socrata.Metadata{
			Name:        "Death Counts",
			ID:          "abcd-1234",
			Description: "Weekly death counts",
			Raw:         `{"resource":{"id":"abcd-1234"}}`,
		}},
		"left-over1": {Found: true, Metadata: socrata.Metadata{
			Name:        "Leftover Set",
			ID:          "left-over1",
			Description: "Never cataloged",
			Homepage:    "https://data.example.gov/d/left-over1",
		}},
	}}
	lister := &fakeArchive{snapshots: map[string][]archive.Snapshot{
		"https://data.example.gov/dataset/Deaths/abcd-1234": {
			{URL: "http://web.archive.org/web/20250114000000/https://data.example.gov/dataset/Deaths/abcd-1234"},
		},
		"https://data.example.gov/d/left-over1": {
			{URL: "http://web.archive.org/web/20250201000000/https://data.example.gov/d/left-over1"},
		},
	}}

	d := newTestDocumenter([]string{homepages}, listing, resolver, lister)
	records, summary, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// abcd-1234 has two downloads, wxyz-9876 none, left-over1 one.
	if len(records) != 4 {
		t.Fatalf("Expected 4 records, got %d: %+v", len(records), records)
	}

	first := records[0]
	if first.DatasetName != "Death Counts" || first.Description != "Weekly death counts" {
		t.Errorf("Resolved record lost API metadata: %+v", first)
	}
	if first.DownloadFilename != "abcd-1234_1736710755_rows.csv" {
		t.Errorf("First record filename = %q", first.DownloadFilename)
	}
	if first.DownloadedAt != "2025-01-12 19:39:15 UTC" {
		t.Errorf("First record downloaded at = %q", first.DownloadedAt)
	}
	if len(first.Snapshots) != 1 {
		t.Errorf("First record should carry 1 snapshot, got %v", first.Snapshots)
	}
	if records[1].DownloadFilename != "abcd-1234_1736797155_rows.csv" {
		t.Errorf("Second record filename = %q", records[1].DownloadFilename)
	}

	missed := records[2]
	if missed.Identifier != "wxyz-9876" {
		t.Fatalf("Expected wxyz-9876 record third, got %+v", missed)
	}
	if missed.DatasetName != socrata.UnknownName {
		t.Errorf("Unresolved record name = %q, want %q", missed.DatasetName, socrata.UnknownName)
	}
	if missed.Description != "" {
		t.Errorf("Unresolved record should have empty description, got %q", missed.Description)
	}
	if missed.DownloadFilename != "" || missed.DownloadEpoch != 0 {
		t.Errorf("Never-downloaded record should have empty download fields: %+v", missed)
	}

	leftover := records[3]
	if !leftover.Leftover {
		t.Errorf("Expected final record flagged leftover: %+v", leftover)
	}
	if leftover.HomepageURL != "https://data.example.gov/d/left-over1" {
		t.Errorf("Leftover homepage should be the permalink, got %q", leftover.HomepageURL)
	}
	if len(leftover.Snapshots) != 1 {
		t.Errorf("Leftover permalink should have been timemap-queried, got %v", leftover.Snapshots)
	}

	if summary.Homepages != 3 || summary.Datasets != 3 {
		t.Errorf("Summary counts wrong: %+v", summary)
	}
	if summary.Resolved != 2 || summary.Unknown != 1 || summary.Leftovers != 1 {
		t.Errorf("Summary resolution tallies wrong: %+v", summary)
	}
	if summary.Records != 4 {
		t.Errorf("Summary records = %d, want 4", summary.Records)
	}
	if summary.RunID == "" {
		t.Error("Summary should carry a run ID")
	}

	wantCalls := []string{"abcd-1234", "wxyz-9876", "left-over1"}
	if len(resolver.calls) != len(wantCalls) {
		t.Fatalf("Resolver calls = %v, want %v", resolver.calls, wantCalls)
	}
	for i, want := range wantCalls {
		if resolver.calls[i] != want {
			t.Errorf("Resolver call %d = %q, want %q", i, resolver.calls[i], want)
		}
	}
}

func TestRunDeduplicatesHomepages(t *testing.T) {
	dir := t.TempDir()
	homepages := filepath.Join(dir, "homepages.csv")
	writeTestFile(t, homepages,
		"https://data.example.gov/sitemap.xml,https://data.example.gov/d/abcd-1234\n"+
			"https://data.example.gov/sitemap.xml,https://data.example.gov/dataset/Renamed/abcd-1234\n")

	resolver := &fakeResolver{resolutions: map[string]socrata.Resolution{
		"abcd-1234": {Found: true, Metadata: socrata.Metadata{Name: "Once", ID: "abcd-1234"}},
	}}

	d := newTestDocumenter([]string{homepages}, "", resolver, nil)
	records, _, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(resolver.calls) != 1 {
		t.Errorf("Expected a single resolution for duplicate homepages, got %v", resolver.calls)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	// First homepage wins.
	if records[0].HomepageURL != "https://data.example.gov/d/abcd-1234" {
		t.Errorf("Record homepage = %q", records[0].HomepageURL)
	}
}

func TestRunTimemapFailureLeavesEmptySnapshots(t *testing.T) {
	dir := t.TempDir()
	homepages := filepath.Join(dir, "homepages.csv")
	writeTestFile(t, homepages,
		"https://data.example.gov/sitemap.xml,https://data.example.gov/d/abcd-1234\n")

	resolver := &fakeResolver{resolutions: map[string]socrata.Resolution{
		"abcd-1234": {Found: true, Metadata: socrata.Metadata{Name: "Still Here", ID: "abcd-1234"}},
	}}
	// Empty map: every lookup behaves like a failed timemap fetch.
	lister := &fakeArchive{snapshots: map[string][]archive.Snapshot{}}

	d := newTestDocumenter([]string{homepages}, "", resolver, lister)
	records, _, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run should continue past timemap failures: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if len(records[0].Snapshots) != 0 {
		t.Errorf("Expected empty snapshot list, got %v", records[0].Snapshots)
	}
	if records[0].DatasetName != "Still Here" {
		t.Errorf("Metadata should survive timemap failure: %+v", records[0])
	}
}

func TestRunPathFilterExcludesHomepages(t *testing.T) {
	dir := t.TempDir()
	homepages := filepath.Join(dir, "homepages.csv")
	writeTestFile(t, homepages,
		"https://data.example.gov/sitemap.xml,https://data.example.gov/browse/abcd-1234\n"+
			"https://data.example.gov/sitemap.xml,https://data.example.gov/d/wxyz-9876\n")

	resolver := &fakeResolver{}
	d := newTestDocumenter([]string{homepages}, "", resolver, nil)
	d.pathFilter = parser.NewPathFilter("exclude_paths", []string{"/browse"})

	records, _, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(records) != 1 || records[0].Identifier != "wxyz-9876" {
		t.Errorf("Path filter should drop the browse page, got %+v", records)
	}
}

func TestRunCancelledContext(t *testing.T) {
	dir := t.TempDir()
	homepages := filepath.Join(dir, "homepages.csv")
	writeTestFile(t, homepages,
		"https://data.example.gov/sitemap.xml,https://data.example.gov/d/abcd-1234\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newTestDocumenter([]string{homepages}, "", &fakeResolver{}, nil)
	if _, _, err := d.Run(ctx); err == nil {
		t.Fatal("Expected error from cancelled context")
	}
}

func TestRunMissingCatalogSourceFails(t *testing.T) {
	d := newTestDocumenter([]string{"/nonexistent/homepages.csv"}, "", &fakeResolver{}, nil)
	if _, _, err := d.Run(context.Background()); err == nil {
		t.Fatal("Expected error for missing catalog source")
	}
}

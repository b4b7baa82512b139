package documenter

import (
	"strings"
	"testing"
	"time"

	"datadoc-go/internal/config"
)

func TestBuilderBuild(t *testing.T) {
	d, err := NewBuilder().
		WithSitemaps([]string{"https://data.example.gov/sitemap.xml"}).
		WithHomepagesFile("testdata/homepages.csv").
		WithSocrataAPI("https://api.us.socrata.com/api/catalog/v1", "", 30*time.Second).
		WithArchive("http://web.archive.org/web/timemap/link/", true, 60*time.Second).
		WithInterval(0).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(d.sources) != 2 {
		t.Errorf("Expected sitemap plus homepages file as sources, got %v", d.sources)
	}
	if d.sources[1] != "testdata/homepages.csv" {
		t.Errorf("Homepages file should come after sitemaps, got %v", d.sources)
	}
	if d.archiveClient == nil {
		t.Error("Archive lookups enabled but no client built")
	}
}

func TestBuilderArchiveDisabled(t *testing.T) {
	d, err := NewBuilder().
		WithSitemaps([]string{"sitemap.xml"}).
		WithSocrataAPI("https://api.us.socrata.com/api/catalog/v1", "", 0).
		WithArchive("", false, 0).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if d.archiveClient != nil {
		t.Error("Disabled archive should leave the client nil")
	}
}

func TestBuilderAccumulatesErrors(t *testing.T) {
	b := NewBuilder().
		WithSocrataAPI("", "", 0).
		WithArchive("", true, 0).
		WithInterval(-1 * time.Second)

	if !b.HasErrors() {
		t.Fatal("Expected accumulated errors")
	}

	_, err := b.Build()
	if err == nil {
		t.Fatal("Build should fail with accumulated errors")
	}
	for _, want := range []string{"base URL", "timemap URL", "interval"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error should mention %q: %v", want, err)
		}
	}
}

func TestBuilderRequiresInputs(t *testing.T) {
	_, err := NewBuilder().
		WithSocrataAPI("https://api.us.socrata.com/api/catalog/v1", "", 0).
		Build()
	if err == nil {
		t.Fatal("Build should fail without any catalog or downloads input")
	}
	if !strings.Contains(err.Error(), "catalog source or downloads input") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		Catalog: config.CatalogConfig{
			Sitemaps:     []string{"https://data.example.gov/sitemap.xml"},
			ExcludePaths: []string{"/browse"},
		},
		Downloads: config.DownloadsConfig{ListingFile: "downloads.txt"},
		Socrata: config.SocrataConfig{
			BaseURL: "https://api.us.socrata.com/api/catalog/v1",
			Timeout: 30,
		},
		Archive: config.ArchiveConfig{
			TimemapURL: "http://web.archive.org/web/timemap/link/",
			Enabled:    true,
			Timeout:    60,
		},
		Throttle: config.ThrottleConfig{Interval: 10},
	}

	b := FromConfig(cfg)
	if b.HasErrors() {
		t.Fatalf("FromConfig produced errors: %v", b.Validate())
	}

	d, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if d.throttle.interval != 10*time.Second {
		t.Errorf("Throttle interval = %v, want 10s", d.throttle.interval)
	}
	if d.pathFilter == nil {
		t.Error("Exclude paths should produce a path filter")
	}
	if d.listingFile != "downloads.txt" {
		t.Errorf("Listing file = %q", d.listingFile)
	}
}

func TestFromConfigNil(t *testing.T) {
	if _, err := FromConfig(nil).Build(); err == nil {
		t.Fatal("Expected error for nil config")
	}
}

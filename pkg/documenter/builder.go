package documenter

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"datadoc-go/internal/config"
	"datadoc-go/pkg/archive"
	"datadoc-go/pkg/extractor"
	"datadoc-go/pkg/logger"
	"datadoc-go/pkg/parser"
	"datadoc-go/pkg/socrata"
)

// Builder assembles a Documenter. Option errors accumulate as options
// are applied and surface once, at Build time.
type Builder struct {
	sitemaps       []string
	homepagesFile  string
	excludePaths   []string
	listingFile    string
	downloadsDir   string
	socrataBase    string
	socrataToken   string
	socrataTimeout time.Duration
	timemapBase    string
	archiveEnabled bool
	archiveTimeout time.Duration
	interval       time.Duration
	errors         []error
}

func NewBuilder() *Builder {
	return &Builder{
		socrataTimeout: 30 * time.Second,
		timemapBase:    config.DefaultTimemapURL,
		archiveTimeout: 60 * time.Second,
		archiveEnabled: true,
		interval:       10 * time.Second,
		errors:         make([]error, 0),
	}
}

// FromConfig seeds a builder from the loaded application config.
func FromConfig(cfg *config.Config) *Builder {
	b := NewBuilder()
	if cfg == nil {
		b.errors = append(b.errors, fmt.Errorf("config cannot be nil"))
		return b
	}

	b.WithSitemaps(cfg.Catalog.Sitemaps)
	if cfg.Catalog.HomepagesFile != "" {
		b.WithHomepagesFile(cfg.Catalog.HomepagesFile)
	}
	b.WithExcludePaths(cfg.Catalog.ExcludePaths)
	if cfg.Downloads.ListingFile != "" {
		b.WithDownloadsListing(cfg.Downloads.ListingFile)
	}
	if cfg.Downloads.Dir != "" {
		b.WithDownloadsDir(cfg.Downloads.Dir)
	}
	b.WithSocrataAPI(cfg.Socrata.BaseURL, cfg.Socrata.AppToken, time.Duration(cfg.Socrata.Timeout)*time.Second)
	b.WithArchive(cfg.Archive.TimemapURL, cfg.Archive.Enabled, time.Duration(cfg.Archive.Timeout)*time.Second)
	b.WithInterval(time.Duration(cfg.Throttle.Interval) * time.Second)
	return b
}

// WithSitemaps sets the sitemap catalog sources, local paths or URLs.
func (b *Builder) WithSitemaps(sources []string) *Builder {
	for _, source := range sources {
		source = strings.TrimSpace(source)
		if source == "" {
			continue
		}
		b.sitemaps = append(b.sitemaps, source)
	}
	return b
}

// WithHomepagesFile sets the pre-scraped sitemap_url,homepage_url CSV.
func (b *Builder) WithHomepagesFile(path string) *Builder {
	if path == "" {
		b.errors = append(b.errors, fmt.Errorf("homepages file path cannot be empty"))
		return b
	}
	b.homepagesFile = path
	return b
}

func (b *Builder) WithExcludePaths(paths []string) *Builder {
	b.excludePaths = paths
	return b
}

func (b *Builder) WithDownloadsListing(path string) *Builder {
	if path == "" {
		b.errors = append(b.errors, fmt.Errorf("downloads listing path cannot be empty"))
		return b
	}
	b.listingFile = path
	return b
}

func (b *Builder) WithDownloadsDir(dir string) *Builder {
	if dir == "" {
		b.errors = append(b.errors, fmt.Errorf("downloads directory cannot be empty"))
		return b
	}
	b.downloadsDir = dir
	return b
}

// WithSocrataAPI sets the Discovery API endpoint with validation. The
// app token may be empty; the API answers anonymous queries at a lower
// rate limit.
func (b *Builder) WithSocrataAPI(baseURL, appToken string, timeout time.Duration) *Builder {
	if baseURL == "" {
		b.errors = append(b.errors, fmt.Errorf("discovery API base URL cannot be empty"))
		return b
	}
	if _, err := url.Parse(baseURL); err != nil {
		b.errors = append(b.errors, fmt.Errorf("invalid discovery API base URL: %w", err))
		return b
	}

	b.socrataBase = baseURL
	b.socrataToken = appToken
	if timeout > 0 {
		b.socrataTimeout = timeout
	}
	return b
}

// WithArchive sets the timemap endpoint. Disabling the archive lookup
// leaves snapshot columns empty.
func (b *Builder) WithArchive(timemapURL string, enabled bool, timeout time.Duration) *Builder {
	if enabled && timemapURL == "" {
		b.errors = append(b.errors, fmt.Errorf("timemap URL cannot be empty when archive lookups are enabled"))
		return b
	}

	b.timemapBase = timemapURL
	b.archiveEnabled = enabled
	if timeout > 0 {
		b.archiveTimeout = timeout
	}
	return b
}

// WithInterval sets the politeness pause between dataset queries. Zero
// disables the pause.
func (b *Builder) WithInterval(interval time.Duration) *Builder {
	if interval < 0 {
		b.errors = append(b.errors, fmt.Errorf("throttle interval cannot be negative, got: %s", interval))
		return b
	}
	b.interval = interval
	return b
}

// Validate aggregates all accumulated option errors.
func (b *Builder) Validate() error {
	if len(b.errors) == 0 {
		return nil
	}

	var messages []string
	for _, err := range b.errors {
		messages = append(messages, err.Error())
	}
	return fmt.Errorf("documenter configuration invalid: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if any option was rejected.
func (b *Builder) HasErrors() bool {
	return len(b.errors) > 0
}

// Build validates the accumulated configuration and creates the
// documenter.
func (b *Builder) Build() (*Documenter, error) {
	if len(b.sitemaps) == 0 && b.homepagesFile == "" && b.listingFile == "" && b.downloadsDir == "" {
		b.errors = append(b.errors, fmt.Errorf("at least one catalog source or downloads input is required"))
	}
	if b.socrataBase == "" && len(b.errors) == 0 {
		b.errors = append(b.errors, fmt.Errorf("discovery API base URL is required"))
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	var archiveClient SnapshotLister
	if b.archiveEnabled {
		archiveClient = archive.NewClient(b.timemapBase, b.archiveTimeout)
	}

	var pathFilter *parser.PathFilter
	if len(b.excludePaths) > 0 {
		pathFilter = parser.NewPathFilter("exclude_paths", b.excludePaths)
	}

	sources := append([]string(nil), b.sitemaps...)
	if b.homepagesFile != "" {
		sources = append(sources, b.homepagesFile)
	}

	return &Documenter{
		sources:       sources,
		pathFilter:    pathFilter,
		listingFile:   b.listingFile,
		downloadsDir:  b.downloadsDir,
		factory:       parser.GetParserFactory(),
		idExtractor:   extractor.NewIDExtractor(),
		resolver:      socrata.NewClient(b.socrataBase, b.socrataToken, b.socrataTimeout),
		archiveClient: archiveClient,
		throttle:      NewThrottle(b.interval),
		log:           logger.GetLogger().WithField("component", "documenter"),
	}, nil
}

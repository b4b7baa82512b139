package documenter

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"datadoc-go/pkg/downloads"
	"datadoc-go/pkg/extractor"
	"datadoc-go/pkg/logger"
	"datadoc-go/pkg/parser"
	"datadoc-go/pkg/socrata"
)

// Documenter runs the sequential metadata join: downloads inventory,
// homepage catalog, then one archive and Discovery lookup per dataset.
type Documenter struct {
	sources       []string
	pathFilter    *parser.PathFilter
	listingFile   string
	downloadsDir  string
	factory       parser.ParserFactory
	idExtractor   *extractor.IDExtractor
	resolver      MetadataResolver
	archiveClient SnapshotLister
	throttle      *Throttle
	log           *logger.Logger
}

// Run executes one documentation pass. Per-dataset lookup failures
// degrade into sentinel records; only unusable inputs and context
// cancellation abort the run.
func (d *Documenter) Run(ctx context.Context) ([]Record, *Summary, error) {
	runID := uuid.New().String()
	log := d.log.WithField("run_id", runID)
	start := time.Now()

	log.WithFields(map[string]interface{}{
		"sources":  len(d.sources),
		"interval": d.throttle.interval.String(),
	}).Info("Starting documentation run")

	log.Info("Step 1: Building downloads inventory")
	inv, err := d.buildInventory()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build downloads inventory: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"files":       inv.Count(),
		"identifiers": len(inv.Identifiers()),
	}).Info("Downloads inventory ready")

	log.Info("Step 2: Building homepage catalog")
	entries, err := d.buildCatalog(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	log.WithField("homepages", len(entries)).Info("Homepage catalog ready")

	log.Info("Step 3: Resolving dataset metadata")
	summary := &Summary{RunID: runID, Homepages: len(entries)}
	processed := make(map[string]bool)
	var records []Record

	progress := logger.NewProgressReporter(len(entries), "resolving datasets")
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		progress.Update(1)

		identifier, ok := d.identifierFor(entry)
		if !ok {
			continue
		}
		if processed[identifier] {
			log.WithField("identifier", identifier).Debug("Duplicate homepage for identifier, keeping first")
			continue
		}
		processed[identifier] = true

		if err := d.throttle.Wait(ctx); err != nil {
			return nil, nil, err
		}

		snapshots := d.snapshotsFor(ctx, entry.HomepageURL)
		res := d.resolver.Resolve(ctx, identifier)
		d.tally(summary, res)

		records = append(records, buildRecords(identifier, entry.HomepageURL, res, snapshots, inv.Files(identifier), false)...)
	}
	progress.Complete()

	// Leftovers: downloads whose identifier never appeared in any
	// catalog source. The Discovery permalink stands in for the homepage.
	leftovers := leftoverIdentifiers(inv, processed)
	if len(leftovers) > 0 {
		log.WithField("count", len(leftovers)).Info("Step 4: Resolving leftover downloads")
	}
	for _, identifier := range leftovers {
		if err := d.throttle.Wait(ctx); err != nil {
			return nil, nil, err
		}

		res := d.resolver.Resolve(ctx, identifier)
		d.tally(summary, res)
		summary.Leftovers++

		homepage := res.Metadata.Homepage
		var snapshots []string
		if homepage != "" {
			snapshots = d.snapshotsFor(ctx, homepage)
		}

		log.WithFields(map[string]interface{}{
			"identifier": identifier,
			"files":      len(inv.Files(identifier)),
		}).Info("Documented leftover download")

		records = append(records, buildRecords(identifier, homepage, res, snapshots, inv.Files(identifier), true)...)
	}

	summary.Datasets = len(processed) + len(leftovers)
	summary.Records = len(records)
	summary.Elapsed = time.Since(start)

	log.WithFields(map[string]interface{}{
		"datasets":  summary.Datasets,
		"resolved":  summary.Resolved,
		"unknown":   summary.Unknown,
		"leftovers": summary.Leftovers,
		"records":   summary.Records,
		"elapsed":   summary.Elapsed.String(),
	}).Info("Documentation run completed")

	return records, summary, nil
}

func (d *Documenter) buildInventory() (*downloads.Inventory, error) {
	loader := downloads.NewLoader()
	switch {
	case d.listingFile != "":
		return loader.FromListing(d.listingFile)
	case d.downloadsDir != "":
		return loader.FromDir(d.downloadsDir)
	default:
		return downloads.NewInventory(), nil
	}
}

func (d *Documenter) buildCatalog(ctx context.Context) ([]parser.Entry, error) {
	var entries []parser.Entry
	for _, source := range d.sources {
		format := parser.DetectFormat(source)
		sourceParser := d.factory.GetParser(format)
		if sourceParser == nil {
			return nil, fmt.Errorf("no parser available for format: %s", format)
		}

		sourceEntries, err := sourceParser.Parse(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("failed to parse catalog source %s: %w", source, err)
		}

		d.log.WithFields(map[string]interface{}{
			"source":    source,
			"homepages": len(sourceEntries),
		}).Debug("Catalog source parsed")
		entries = append(entries, sourceEntries...)
	}
	return entries, nil
}

// identifierFor applies the path filter and extracts the dataset
// identifier from a catalog entry's homepage.
func (d *Documenter) identifierFor(entry parser.Entry) (string, bool) {
	if d.pathFilter != nil {
		if parsed, err := url.Parse(entry.HomepageURL); err == nil && d.pathFilter.ShouldExclude(parsed) {
			d.log.WithField("homepage", entry.HomepageURL).Debug("Homepage excluded by path filter")
			return "", false
		}
	}

	identifier, ok := d.idExtractor.Extract(entry.HomepageURL)
	if !ok {
		d.log.WithField("homepage", entry.HomepageURL).Debug("Homepage carries no dataset identifier")
		return "", false
	}
	return identifier, true
}

// snapshotsFor returns snapshot URLs in timemap order, nil when archive
// lookups are disabled.
func (d *Documenter) snapshotsFor(ctx context.Context, pageURL string) []string {
	if d.archiveClient == nil {
		return nil
	}

	snapshots := d.archiveClient.Snapshots(ctx, pageURL)
	if len(snapshots) == 0 {
		return nil
	}

	urls := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		urls = append(urls, s.URL)
	}
	return urls
}

func (d *Documenter) tally(summary *Summary, res socrata.Resolution) {
	if res.Found {
		summary.Resolved++
	} else {
		summary.Unknown++
	}
}

func leftoverIdentifiers(inv *downloads.Inventory, processed map[string]bool) []string {
	var leftovers []string
	for _, identifier := range inv.Identifiers() {
		if !processed[identifier] {
			leftovers = append(leftovers, identifier)
		}
	}
	return leftovers
}

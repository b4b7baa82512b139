package documenter

import (
	"context"

	"datadoc-go/pkg/archive"
	"datadoc-go/pkg/socrata"
)

// MetadataResolver answers dataset identifier lookups. Lookups degrade
// into sentinel resolutions instead of returning errors.
type MetadataResolver interface {
	Resolve(ctx context.Context, identifier string) socrata.Resolution
}

// SnapshotLister fetches the archived captures of a page URL.
type SnapshotLister interface {
	Snapshots(ctx context.Context, pageURL string) []archive.Snapshot
}

package downloads

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Downloaded dataset files are named {identifier}_{epoch}_{original}:
// the dataset identifier, the unix download time (possibly with
// fractional seconds), and the file's original portal name. The
// identifier group is looser than the homepage form on purpose; the
// download tooling never constrained group lengths.
var filenamePattern = regexp.MustCompile(`^(?P<identifier>[a-zA-Z0-9]+-[a-zA-Z0-9]+)_(?P<epoch>\d+(?:\.\d+)?)_(?P<original>.+)$`)

// File is one downloaded dataset file.
type File struct {
	Name         string    `json:"name"`
	Identifier   string    `json:"identifier"`
	RawEpoch     string    `json:"raw_epoch"`
	Timestamp    time.Time `json:"timestamp"`
	OriginalName string    `json:"original_name"`
}

// Epoch returns the download time as integer unix seconds.
func (f File) Epoch() int64 {
	return f.Timestamp.Unix()
}

// DownloadedAtUTC renders the download time the way the catalog prints
// it, e.g. "2025-01-12 19:39:15 UTC".
func (f File) DownloadedAtUTC() string {
	return f.Timestamp.UTC().Format("2006-01-02 15:04:05") + " UTC"
}

// ParseFilename splits a downloaded file's name into its parts. All
// three parts are kept verbatim, so rejoining them with underscores
// reproduces the input exactly.
func ParseFilename(name string) (File, error) {
	match := filenamePattern.FindStringSubmatch(name)
	if match == nil {
		return File{}, fmt.Errorf("filename %q does not carry an identifier and timestamp", name)
	}

	identifier, rawEpoch, original := match[1], match[2], match[3]

	ts, err := parseEpoch(rawEpoch)
	if err != nil {
		return File{}, fmt.Errorf("filename %q has unusable timestamp: %w", name, err)
	}

	return File{
		Name:         name,
		Identifier:   identifier,
		RawEpoch:     rawEpoch,
		Timestamp:    ts,
		OriginalName: original,
	}, nil
}

// parseEpoch converts a decimal epoch string without going through
// float64, keeping fractional timestamps exact.
func parseEpoch(raw string) (time.Time, error) {
	intPart := raw
	var nsec int64

	if dot := strings.IndexByte(raw, '.'); dot >= 0 {
		intPart = raw[:dot]
		frac := raw[dot+1:]
		if len(frac) > 9 {
			frac = frac[:9]
		}
		for len(frac) < 9 {
			frac += "0"
		}
		parsed, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		nsec = parsed
	}

	sec, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(sec, nsec).UTC(), nil
}

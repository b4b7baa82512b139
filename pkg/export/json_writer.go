package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"datadoc-go/pkg/documenter"
)

// Artifact is the JSON form of a finished run. The serving mode loads
// it back instead of re-running the batch.
type Artifact struct {
	RunID       string              `json:"run_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Sources     []string            `json:"sources,omitempty"`
	Records     []documenter.Record `json:"records"`
}

// WriteJSON writes the run artifact, records sorted like the CSV body.
func WriteJSON(path string, records []documenter.Record, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	artifact := Artifact{
		RunID:       opts.RunID,
		GeneratedAt: opts.GeneratedAt.UTC(),
		Sources:     opts.Sources,
		Records:     SortRecords(records),
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run artifact: %w", err)
	}
	return nil
}

// ReadArtifact loads a run artifact back from disk.
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse run artifact: %w", err)
	}
	return &artifact, nil
}

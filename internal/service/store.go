package service

import (
	"fmt"
	"strings"
	"sync"

	"datadoc-go/pkg/documenter"
	"datadoc-go/pkg/export"
	"datadoc-go/pkg/logger"
)

// CatalogStore serves a finished documentation run to the HTTP API.
type CatalogStore interface {
	List(nameFilter string) []documenter.Record
	ByIdentifier(identifier string) ([]documenter.Record, bool)
	Count() int
	RunID() string
}

// Store is an in-memory index over one run artifact. Reads vastly
// outnumber reloads, so an RWMutex guards the index.
type Store struct {
	mu      sync.RWMutex
	runID   string
	records []documenter.Record
	byID    map[string][]documenter.Record
	log     *logger.Logger
}

func NewStore() *Store {
	return &Store{
		byID: make(map[string][]documenter.Record),
		log:  logger.GetLogger().WithField("component", "catalog_store"),
	}
}

// LoadArtifact replaces the store contents with a run artifact read
// from disk.
func (s *Store) LoadArtifact(path string) error {
	artifact, err := export.ReadArtifact(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog artifact: %w", err)
	}

	s.Replace(artifact.RunID, artifact.Records)
	s.log.WithFields(map[string]interface{}{
		"run_id":  artifact.RunID,
		"records": len(artifact.Records),
	}).Info("Catalog artifact loaded")
	return nil
}

// Replace swaps in a new record set, re-sorted and re-indexed.
func (s *Store) Replace(runID string, records []documenter.Record) {
	sorted := export.SortRecords(records)
	byID := make(map[string][]documenter.Record)
	for _, record := range sorted {
		byID[record.Identifier] = append(byID[record.Identifier], record)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runID = runID
	s.records = sorted
	s.byID = byID
}

// List returns records sorted by dataset name. A non-empty filter keeps
// records whose name contains it, case-insensitive.
func (s *Store) List(nameFilter string) []documenter.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if nameFilter == "" {
		return append([]documenter.Record(nil), s.records...)
	}

	needle := strings.ToLower(nameFilter)
	var matched []documenter.Record
	for _, record := range s.records {
		if strings.Contains(strings.ToLower(record.DatasetName), needle) {
			matched = append(matched, record)
		}
	}
	return matched
}

// ByIdentifier returns all records for one dataset identifier.
func (s *Store) ByIdentifier(identifier string) ([]documenter.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.byID[identifier]
	if !ok {
		return nil, false
	}
	return append([]documenter.Record(nil), records...), true
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

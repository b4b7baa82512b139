package downloads

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"datadoc-go/pkg/logger"
)

// Inventory groups downloaded files by dataset identifier. Files keep
// their input order within a group; identifiers keep first-seen order.
type Inventory struct {
	files map[string][]File
	order []string
}

func NewInventory() *Inventory {
	return &Inventory{
		files: make(map[string][]File),
	}
}

func (inv *Inventory) Add(f File) {
	if _, seen := inv.files[f.Identifier]; !seen {
		inv.order = append(inv.order, f.Identifier)
	}
	inv.files[f.Identifier] = append(inv.files[f.Identifier], f)
}

// Files returns the downloaded files for one identifier, nil when none.
func (inv *Inventory) Files(identifier string) []File {
	return inv.files[identifier]
}

func (inv *Inventory) Has(identifier string) bool {
	_, ok := inv.files[identifier]
	return ok
}

// Identifiers returns all dataset identifiers in first-seen order.
func (inv *Inventory) Identifiers() []string {
	return append([]string(nil), inv.order...)
}

// Count returns the total number of downloaded files.
func (inv *Inventory) Count() int {
	total := 0
	for _, group := range inv.files {
		total += len(group)
	}
	return total
}

// Loader builds inventories from a listing file or a directory scan.
type Loader struct {
	log *logger.Logger
}

func NewLoader() *Loader {
	return &Loader{
		log: logger.GetLogger().WithField("component", "downloads"),
	}
}

// FromListing reads a file holding one downloaded filename per line.
func (l *Loader) FromListing(path string) (*Inventory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open downloads listing: %w", err)
	}
	defer file.Close()

	inv := NewInventory()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		l.add(inv, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read downloads listing: %w", err)
	}

	return inv, nil
}

// FromDir scans a directory of downloaded files, non-recursive.
func (l *Loader) FromDir(dir string) (*Inventory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan downloads directory: %w", err)
	}

	inv := NewInventory()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		l.add(inv, entry.Name())
	}

	return inv, nil
}

func (l *Loader) add(inv *Inventory, name string) {
	f, err := ParseFilename(name)
	if err != nil {
		l.log.WithField("filename", name).Warn("Downloaded file name cannot be mapped to an identifier, skipping")
		return
	}
	if inv.Has(f.Identifier) {
		l.log.WithField("identifier", f.Identifier).Debug("Identifier was downloaded more than once")
	}
	inv.Add(f)
}

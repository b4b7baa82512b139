package downloads

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInventoryGroupsByIdentifier(t *testing.T) {
	inv := NewInventory()

	first, _ := ParseFilename("abcd-1234_1736710755_run1.csv")
	second, _ := ParseFilename("abcd-1234_1736797155_run2.csv")
	other, _ := ParseFilename("efgh-5678_1736710755_other.csv")

	inv.Add(first)
	inv.Add(second)
	inv.Add(other)

	files := inv.Files("abcd-1234")
	if len(files) != 2 {
		t.Fatalf("Expected 2 files for abcd-1234, got: %d", len(files))
	}
	if files[0].OriginalName != "run1.csv" || files[1].OriginalName != "run2.csv" {
		t.Error("Expected files to keep input order within a group")
	}

	ids := inv.Identifiers()
	if len(ids) != 2 || ids[0] != "abcd-1234" || ids[1] != "efgh-5678" {
		t.Errorf("Expected first-seen identifier order, got: %v", ids)
	}

	if inv.Count() != 3 {
		t.Errorf("Expected 3 files total, got: %d", inv.Count())
	}
	if !inv.Has("efgh-5678") {
		t.Error("Expected inventory to contain efgh-5678")
	}
	if inv.Has("zzzz-9999") {
		t.Error("Did not expect inventory to contain zzzz-9999")
	}
}

func TestLoaderFromListing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "downloads.csv")
	content := `abcd-1234_1736710755_data.csv

not-a-download.txt
abcd-1234_1736797155_data_again.csv
efgh-5678_1736710755.5_more.csv.gz
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write listing: %v", err)
	}

	inv, err := NewLoader().FromListing(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Blank line and unmappable name are skipped
	if inv.Count() != 3 {
		t.Fatalf("Expected 3 files, got: %d", inv.Count())
	}
	if len(inv.Files("abcd-1234")) != 2 {
		t.Errorf("Expected 2 files for abcd-1234, got: %d", len(inv.Files("abcd-1234")))
	}
}

func TestLoaderFromListingMissingFile(t *testing.T) {
	if _, err := NewLoader().FromListing("does/not/exist.csv"); err == nil {
		t.Error("Expected error for missing listing, got nil")
	}
}

func TestLoaderFromDir(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"abcd-1234_1736710755_data.csv",
		"efgh-5678_1736710800_other.csv",
		"ignore-me.txt",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	inv, err := NewLoader().FromDir(dir)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if inv.Count() != 2 {
		t.Fatalf("Expected 2 files, got: %d", inv.Count())
	}
	if !inv.Has("abcd-1234") || !inv.Has("efgh-5678") {
		t.Error("Expected both identifiers in the inventory")
	}
}

package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// Inventory is the set of prepared sticker files of a workspace.
type Inventory struct {
	files []string
}

// ScanInventory lists regular files in dir in name order.
func ScanInventory(dir string) (*Inventory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasSuffix(e.Name(), partialSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)
	return &Inventory{files: files}, nil
}

func (inv *Inventory) Files() []string {
	return inv.files
}

// Find returns the file named exactly after key, or else the first file whose
// name contains key.
func (inv *Inventory) Find(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	for _, f := range inv.files {
		base := filepath.Base(f)
		if strings.TrimSuffix(base, filepath.Ext(base)) == key {
			return f, true
		}
	}
	for _, f := range inv.files {
		if strings.Contains(filepath.Base(f), key) {
			return f, true
		}
	}
	return "", false
}

// Package fs persists crawler output as JSON files.
package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/noaa-psl/cefidata"
)

// DefaultIndexFile is the filename the crawler writes its index to.
const DefaultIndexFile = "cefi_thredds_catalog.json"

// WriteIndex writes a catalog index to path as UTF-8 JSON with 2-space
// indentation. The file is written to a temporary sibling first and moved
// into place, so readers never observe a partial index.
func WriteIndex(path string, index *cefidata.CatalogIndex) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// ReadIndex reads a catalog index previously written by WriteIndex.
func ReadIndex(path string) (*cefidata.CatalogIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	index := &cefidata.CatalogIndex{}
	if err := index.UnmarshalJSON(data); err != nil {
		return nil, err
	}

	return index, nil
}

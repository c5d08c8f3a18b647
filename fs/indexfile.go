package fs

import (
	"context"
	"os"

	"github.com/noaa-psl/cefidata"
)

// IndexFile serves a catalog index from a JSON file written by WriteIndex.
// It re-reads the file on every call, so a crawler can refresh the index
// underneath a running server.
type IndexFile struct {
	path string
}

// NewIndexFile creates an IndexFile backed by the file at path.
func NewIndexFile(path string) *IndexFile {
	return &IndexFile{path: path}
}

// LatestIndex reads the index file. Returns ENOTFOUND if the file does not
// exist.
func (f *IndexFile) LatestIndex(ctx context.Context) (*cefidata.CatalogIndex, error) {
	index, err := ReadIndex(f.path)
	if os.IsNotExist(err) {
		return nil, cefidata.Errorf(cefidata.ENOTFOUND, "no catalog index at %s", f.path)
	}
	if err != nil {
		return nil, err
	}
	return index, nil
}

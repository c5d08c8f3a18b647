package cefidata

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// Catalog holds the entries extracted from a single THREDDS catalog
// document: dataset urlPath attributes and child-catalog references, each
// in document order.
type Catalog struct {
	Datasets []string
	Refs     []string
}

// CatalogIndex maps a catalog's human-viewable page URL to the dataset
// access URLs found in that catalog. Pages keep insertion order, which is
// the order the crawler discovered them in.
type CatalogIndex struct {
	pages []string
	files map[string][]string
}

// Add appends a catalog page and its access URLs to the index. Adding a
// page twice replaces its URLs without changing its position.
func (x *CatalogIndex) Add(pageURL string, accessURLs []string) {
	if x.files == nil {
		x.files = make(map[string][]string)
	}
	if _, ok := x.files[pageURL]; !ok {
		x.pages = append(x.pages, pageURL)
	}
	x.files[pageURL] = accessURLs
}

// Pages returns the catalog page URLs in insertion order.
func (x *CatalogIndex) Pages() []string {
	pages := make([]string, len(x.pages))
	copy(pages, x.pages)
	return pages
}

// Files returns the access URLs recorded for a catalog page.
func (x *CatalogIndex) Files(pageURL string) ([]string, bool) {
	files, ok := x.files[pageURL]
	return files, ok
}

// Len returns the number of catalog pages in the index.
func (x *CatalogIndex) Len() int {
	return len(x.pages)
}

// FileCount returns the total number of access URLs across all pages.
func (x *CatalogIndex) FileCount() int {
	var n int
	for _, files := range x.files {
		n += len(files)
	}
	return n
}

// MarshalJSON encodes the index as a JSON object with pages in insertion
// order.
func (x *CatalogIndex) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, page := range x.pages {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(page)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		files, err := json.Marshal(x.files[page])
		if err != nil {
			return nil, err
		}
		buf.Write(files)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the index, preserving key order.
func (x *CatalogIndex) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Errorf(EINVALID, "catalog index is not a JSON object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		page, ok := keyTok.(string)
		if !ok {
			return Errorf(EINVALID, "catalog index key is not a string")
		}
		var files []string
		if err := dec.Decode(&files); err != nil {
			return err
		}
		x.Add(page, files)
	}
	_, err = dec.Token()
	return err
}

// Fetcher retrieves the raw contents of a URL.
type Fetcher interface {
	// Fetch performs a GET request and returns the response body.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CatalogParser extracts entries from a THREDDS catalog document.
type CatalogParser interface {
	// ParseCatalog parses one catalog XML document.
	// Returns EINVALID if the document cannot be parsed.
	ParseCatalog(data []byte) (*Catalog, error)
}

// CatalogCrawler walks a THREDDS catalog tree and indexes its datasets.
type CatalogCrawler interface {
	// Crawl walks the catalog tree rooted at baseURL. Fetch and parse
	// failures on individual catalogs are logged and skipped; the
	// returned index covers whatever was reachable.
	Crawl(ctx context.Context, baseURL string) (*CatalogIndex, error)
}

// CrawlRun records one crawler run.
type CrawlRun struct {
	ID           string    `json:"id"`
	BaseURL      string    `json:"baseUrl"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	CatalogCount int       `json:"catalogCount"`
	FileCount    int       `json:"fileCount"`
}

// Validate returns an error if the crawl run contains invalid fields.
func (c *CrawlRun) Validate() error {
	if c.BaseURL == "" {
		return Errorf(EINVALID, "crawl base URL required")
	}
	return nil
}

// CrawlRunFilter represents a filter for FindCrawlRuns.
type CrawlRunFilter struct {
	ID      *string `json:"id"`
	BaseURL *string `json:"baseUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// CatalogStore persists crawl runs and their catalog indexes.
type CatalogStore interface {
	// CreateCrawlRun records a crawl run together with its index.
	CreateCrawlRun(ctx context.Context, run *CrawlRun, index *CatalogIndex) error

	// FindCrawlRuns retrieves crawl runs matching the filter, most
	// recent first.
	FindCrawlRuns(ctx context.Context, filter CrawlRunFilter) ([]*CrawlRun, error)

	// LatestIndex reconstructs the index recorded by the most recent
	// crawl run. Returns ENOTFOUND if no runs are recorded.
	LatestIndex(ctx context.Context) (*CatalogIndex, error)
}

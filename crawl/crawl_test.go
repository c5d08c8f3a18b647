package crawl_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/noaa-psl/cefidata"
	"github.com/noaa-psl/cefidata/crawl"
	cefietree "github.com/noaa-psl/cefidata/etree"
	cefihttp "github.com/noaa-psl/cefidata/http"
	"github.com/noaa-psl/cefidata/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// discardLogger silences per-catalog failure reports in tests.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// graphFetcher returns a fetcher that hands each URL back as the fetched
// body, and a counter of fetches per URL.
func graphFetcher() (*mock.Fetcher, *sync.Map) {
	var fetched sync.Map
	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) ([]byte, error) {
			n, _ := fetched.LoadOrStore(url, 0)
			fetched.Store(url, n.(int)+1)
			return []byte(url), nil
		},
	}
	return fetcher, &fetched
}

// graphParser returns a parser that looks catalogs up by the URL the
// fetcher echoed back. Unknown URLs parse as empty catalogs.
func graphParser(catalogs map[string]*cefidata.Catalog) *mock.CatalogParser {
	return &mock.CatalogParser{
		ParseCatalogFn: func(data []byte) (*cefidata.Catalog, error) {
			if catalog, ok := catalogs[string(data)]; ok {
				return catalog, nil
			}
			return &cefidata.Catalog{}, nil
		},
	}
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("walks the catalog tree and indexes NetCDF files", func(t *testing.T) {
		t.Parallel()

		fetcher, _ := graphFetcher()
		parser := graphParser(map[string]*cefidata.Catalog{
			"https://example.com/thredds/catalog/cefi/catalog.xml": {
				Refs: []string{"northwest_atlantic/catalog.xml"},
			},
			"https://example.com/thredds/catalog/cefi/northwest_atlantic/catalog.xml": {
				Datasets: []string{
					"cefi/northwest_atlantic/tos.nc",
					"cefi/northwest_atlantic/readme.txt",
				},
				Refs: []string{"regrid/catalog.xml"},
			},
			"https://example.com/thredds/catalog/cefi/northwest_atlantic/regrid/catalog.xml": {
				Datasets: []string{"cefi/northwest_atlantic/regrid/tos_regrid.nc"},
			},
		})

		crawler := &crawl.Crawler{
			Fetcher:    fetcher,
			Parser:     parser,
			Logger:     discardLogger,
			AccessBase: "https://example.com/thredds/dodsC/",
		}

		index, err := crawler.Crawl(context.Background(), "https://example.com/thredds/catalog/cefi/catalog.xml")
		require.NoError(t, err)

		assert.Equal(t, []string{
			"https://example.com/thredds/catalog/cefi/northwest_atlantic/catalog.html",
			"https://example.com/thredds/catalog/cefi/northwest_atlantic/regrid/catalog.html",
		}, index.Pages())

		files, ok := index.Files("https://example.com/thredds/catalog/cefi/northwest_atlantic/catalog.html")
		require.True(t, ok)
		assert.Equal(t, []string{"https://example.com/thredds/dodsC/cefi/northwest_atlantic/tos.nc"}, files,
			"non-NetCDF datasets should be filtered out")

		files, ok = index.Files("https://example.com/thredds/catalog/cefi/northwest_atlantic/regrid/catalog.html")
		require.True(t, ok)
		assert.Equal(t, []string{"https://example.com/thredds/dodsC/cefi/northwest_atlantic/regrid/tos_regrid.nc"}, files)
	})

	t.Run("omits catalogs without NetCDF files", func(t *testing.T) {
		t.Parallel()

		fetcher, _ := graphFetcher()
		parser := graphParser(map[string]*cefidata.Catalog{
			"https://example.com/cefi/catalog.xml": {
				Datasets: []string{"cefi/notes.txt"},
			},
		})

		crawler := &crawl.Crawler{Fetcher: fetcher, Parser: parser, Logger: discardLogger}

		index, err := crawler.Crawl(context.Background(), "https://example.com/cefi/catalog.xml")
		require.NoError(t, err)
		assert.Zero(t, index.Len())
	})

	t.Run("normalizes the base URL to end with catalog.xml", func(t *testing.T) {
		t.Parallel()

		fetcher, fetched := graphFetcher()
		parser := graphParser(nil)

		crawler := &crawl.Crawler{Fetcher: fetcher, Parser: parser, Logger: discardLogger}

		_, err := crawler.Crawl(context.Background(), "https://example.com/thredds/catalog/cefi/")
		require.NoError(t, err)

		count, ok := fetched.Load("https://example.com/thredds/catalog/cefi/catalog.xml")
		require.True(t, ok, "should fetch the normalized catalog URL")
		assert.Equal(t, 1, count)
	})

	t.Run("visits each catalog exactly once despite reference cycles", func(t *testing.T) {
		t.Parallel()

		fetcher, fetched := graphFetcher()
		parser := graphParser(map[string]*cefidata.Catalog{
			"https://example.com/a/catalog.xml": {
				Datasets: []string{"a/file.nc"},
				Refs:     []string{"../b/catalog.xml"},
			},
			"https://example.com/b/catalog.xml": {
				Refs: []string{"../a/catalog.xml"},
			},
		})

		crawler := &crawl.Crawler{Fetcher: fetcher, Parser: parser, Logger: discardLogger}

		index, err := crawler.Crawl(context.Background(), "https://example.com/a/catalog.xml")
		require.NoError(t, err)
		assert.Equal(t, 1, index.Len())

		fetched.Range(func(url, count any) bool {
			assert.Equal(t, 1, count, "catalog %s should be fetched once", url)
			return true
		})
	})

	t.Run("skips subtrees that fail to fetch", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				if url == "https://example.com/broken/catalog.xml" {
					return nil, errors.New("HTTP 500 for https://example.com/broken/catalog.xml")
				}
				return []byte(url), nil
			},
		}
		parser := graphParser(map[string]*cefidata.Catalog{
			"https://example.com/catalog.xml": {
				Refs: []string{"broken/catalog.xml", "ok/catalog.xml"},
			},
			"https://example.com/ok/catalog.xml": {
				Datasets: []string{"ok/file.nc"},
			},
		})

		crawler := &crawl.Crawler{Fetcher: fetcher, Parser: parser, Logger: discardLogger}

		index, err := crawler.Crawl(context.Background(), "https://example.com/catalog.xml")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/ok/catalog.html"}, index.Pages())
	})

	t.Run("skips subtrees that fail to parse", func(t *testing.T) {
		t.Parallel()

		fetcher, _ := graphFetcher()
		parser := &mock.CatalogParser{
			ParseCatalogFn: func(data []byte) (*cefidata.Catalog, error) {
				switch string(data) {
				case "https://example.com/catalog.xml":
					return &cefidata.Catalog{Refs: []string{"broken/catalog.xml", "ok/catalog.xml"}}, nil
				case "https://example.com/ok/catalog.xml":
					return &cefidata.Catalog{Datasets: []string{"ok/file.nc"}}, nil
				default:
					return nil, cefidata.Errorf(cefidata.EINVALID, "failed to parse catalog XML")
				}
			},
		}

		crawler := &crawl.Crawler{Fetcher: fetcher, Parser: parser, Logger: discardLogger}

		index, err := crawler.Crawl(context.Background(), "https://example.com/catalog.xml")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/ok/catalog.html"}, index.Pages())
	})

	t.Run("returns an error when the context is canceled", func(t *testing.T) {
		t.Parallel()

		fetcher, fetched := graphFetcher()
		parser := graphParser(nil)

		crawler := &crawl.Crawler{Fetcher: fetcher, Parser: parser, Logger: discardLogger}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := crawler.Crawl(ctx, "https://example.com/catalog.xml")
		require.ErrorIs(t, err, context.Canceled)

		_, ok := fetched.Load("https://example.com/catalog.xml")
		assert.False(t, ok, "should not fetch after cancellation")
	})

	t.Run("honors the host limiter", func(t *testing.T) {
		t.Parallel()

		fetcher, _ := graphFetcher()
		parser := graphParser(map[string]*cefidata.Catalog{
			"https://example.com/catalog.xml": {
				Refs: []string{"a/catalog.xml", "b/catalog.xml"},
			},
		})

		crawler := &crawl.Crawler{
			Fetcher: fetcher,
			Parser:  parser,
			Limiter: crawl.NewHostLimiter(10), // 10 req/sec = 100ms between requests
			Logger:  discardLogger,
		}

		start := time.Now()
		_, err := crawler.Crawl(context.Background(), "https://example.com/catalog.xml")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, 160*time.Millisecond, "three fetches should wait twice")
	})

	t.Run("crawls a catalog tree served over HTTP", func(t *testing.T) {
		t.Parallel()

		rootCatalog := `<?xml version="1.0" encoding="UTF-8"?>
<catalog xmlns="http://www.unidata.ucar.edu/namespaces/thredds/InvCatalog/v1.0"
         xmlns:xlink="http://www.w3.org/1999/xlink" name="CEFI">
  <catalogRef xlink:href="northwest_atlantic/catalog.xml" xlink:title="northwest_atlantic"/>
</catalog>`
		childCatalog := `<?xml version="1.0" encoding="UTF-8"?>
<catalog xmlns="http://www.unidata.ucar.edu/namespaces/thredds/InvCatalog/v1.0"
         xmlns:xlink="http://www.w3.org/1999/xlink" name="northwest_atlantic">
  <dataset name="container">
    <dataset name="tos.nc" urlPath="Projects/CEFI/northwest_atlantic/tos.nc"/>
    <dataset name="sos.nc" urlPath="Projects/CEFI/northwest_atlantic/sos.nc"/>
  </dataset>
</catalog>`

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/thredds/catalog/Projects/CEFI/catalog.xml":
				_, _ = w.Write([]byte(rootCatalog))
			case "/thredds/catalog/Projects/CEFI/northwest_atlantic/catalog.xml":
				_, _ = w.Write([]byte(childCatalog))
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		fetcher := cefihttp.NewFetcher()
		defer fetcher.Close()

		crawler := &crawl.Crawler{
			Fetcher:    fetcher,
			Parser:     cefietree.NewParser(),
			Logger:     discardLogger,
			AccessBase: server.URL + "/thredds/dodsC/",
		}

		index, err := crawler.Crawl(context.Background(), server.URL+"/thredds/catalog/Projects/CEFI/")
		require.NoError(t, err)

		require.Equal(t, []string{server.URL + "/thredds/catalog/Projects/CEFI/northwest_atlantic/catalog.html"}, index.Pages())
		files, ok := index.Files(server.URL + "/thredds/catalog/Projects/CEFI/northwest_atlantic/catalog.html")
		require.True(t, ok)
		assert.Equal(t, []string{
			server.URL + "/thredds/dodsC/Projects/CEFI/northwest_atlantic/tos.nc",
			server.URL + "/thredds/dodsC/Projects/CEFI/northwest_atlantic/sos.nc",
		}, files)
	})
}

// Compile-time verification that Crawler implements cefidata.CatalogCrawler
var _ cefidata.CatalogCrawler = (*crawl.Crawler)(nil)

// Package crawl walks THREDDS catalog trees and indexes the NetCDF
// datasets they expose.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/noaa-psl/cefidata"
)

// Default endpoints for the CEFI archive on the PSL THREDDS server.
const (
	// DefaultCatalogBase is the root catalog of the CEFI archive.
	DefaultCatalogBase = "https://psl.noaa.gov/thredds/catalog/Projects/CEFI/regional_mom6/cefi_portal/"

	// DefaultAccessBase is the OPeNDAP service base that dataset urlPaths
	// are resolved against.
	DefaultAccessBase = "https://psl.noaa.gov/thredds/dodsC/"
)

// Ensure Crawler implements cefidata.CatalogCrawler at compile time.
var _ cefidata.CatalogCrawler = (*Crawler)(nil)

// Crawler recursively walks a THREDDS catalog tree, collecting the NetCDF
// access URLs published under each catalog page. Each catalog is visited at
// most once; fetch and parse failures abandon the failing subtree without
// aborting the crawl.
type Crawler struct {
	Fetcher cefidata.Fetcher
	Parser  cefidata.CatalogParser

	// Limiter throttles requests per host when set.
	Limiter *HostLimiter

	// Logger receives per-catalog failure reports. Defaults to
	// slog.Default when nil.
	Logger *slog.Logger

	// AccessBase overrides DefaultAccessBase when set.
	AccessBase string
}

// Crawl walks the catalog tree rooted at baseURL and returns an index of
// catalog pages to dataset access URLs. An empty baseURL falls back to
// DefaultCatalogBase. The only error returned is context cancellation;
// individual catalog failures are logged and skipped.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) (*cefidata.CatalogIndex, error) {
	if baseURL == "" {
		baseURL = DefaultCatalogBase
	}
	if !strings.HasSuffix(baseURL, "catalog.xml") {
		baseURL = strings.TrimRight(baseURL, "/") + "/catalog.xml"
	}

	accessBase := c.AccessBase
	if accessBase == "" {
		accessBase = DefaultAccessBase
	}
	access, err := url.Parse(accessBase)
	if err != nil {
		return nil, cefidata.Errorf(cefidata.EINVALID, "invalid access base URL: %v", err)
	}

	index := &cefidata.CatalogIndex{}
	visited := make(map[string]bool)
	if err := c.recurse(ctx, baseURL, access, visited, index); err != nil {
		return nil, err
	}

	return index, nil
}

// recurse visits one catalog and its sub-catalogs depth-first. It returns an
// error only when the context is canceled.
func (c *Crawler) recurse(ctx context.Context, catalogURL string, access *url.URL, visited map[string]bool, index *cefidata.CatalogIndex) error {
	if visited[catalogURL] {
		return nil
	}
	visited[catalogURL] = true

	if err := ctx.Err(); err != nil {
		return err
	}

	if c.Limiter != nil {
		host := ""
		if u, err := url.Parse(catalogURL); err == nil {
			host = u.Host
		}
		if err := c.Limiter.Wait(ctx, host); err != nil {
			return err
		}
	}

	data, err := c.Fetcher.Fetch(ctx, catalogURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger().Warn("failed to fetch catalog", "url", catalogURL, "err", err)
		return nil
	}

	catalog, err := c.Parser.ParseCatalog(data)
	if err != nil {
		c.logger().Warn("failed to parse catalog", "url", catalogURL, "err", err)
		return nil
	}

	base, err := url.Parse(catalogURL)
	if err != nil {
		c.logger().Warn("invalid catalog URL", "url", catalogURL, "err", err)
		return nil
	}

	var accessURLs []string
	for _, urlPath := range catalog.Datasets {
		if !strings.HasSuffix(urlPath, ".nc") {
			continue
		}
		ref, err := url.Parse(urlPath)
		if err != nil {
			continue
		}
		accessURLs = append(accessURLs, access.ResolveReference(ref).String())
	}
	if len(accessURLs) > 0 {
		pageURL := strings.ReplaceAll(catalogURL, "/catalog.xml", "/catalog.html")
		index.Add(pageURL, accessURLs)
	}

	for _, href := range catalog.Refs {
		ref, err := url.Parse(href)
		if err != nil {
			c.logger().Warn("invalid catalog reference", "url", catalogURL, "href", href, "err", err)
			continue
		}
		if err := c.recurse(ctx, base.ResolveReference(ref).String(), access, visited, index); err != nil {
			return err
		}
	}

	return nil
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

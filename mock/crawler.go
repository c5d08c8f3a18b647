package mock

import (
	"context"

	"github.com/noaa-psl/cefidata"
)

var _ cefidata.CatalogCrawler = (*CatalogCrawler)(nil)

// CatalogCrawler is a mock implementation of cefidata.CatalogCrawler.
type CatalogCrawler struct {
	CrawlFn func(ctx context.Context, baseURL string) (*cefidata.CatalogIndex, error)
}

func (c *CatalogCrawler) Crawl(ctx context.Context, baseURL string) (*cefidata.CatalogIndex, error) {
	return c.CrawlFn(ctx, baseURL)
}

package mock

import (
	"context"

	"github.com/noaa-psl/cefidata"
)

var _ cefidata.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is a mock implementation of cefidata.CatalogStore.
type CatalogStore struct {
	CreateCrawlRunFn func(ctx context.Context, run *cefidata.CrawlRun, index *cefidata.CatalogIndex) error
	FindCrawlRunsFn  func(ctx context.Context, filter cefidata.CrawlRunFilter) ([]*cefidata.CrawlRun, error)
	LatestIndexFn    func(ctx context.Context) (*cefidata.CatalogIndex, error)
}

func (s *CatalogStore) CreateCrawlRun(ctx context.Context, run *cefidata.CrawlRun, index *cefidata.CatalogIndex) error {
	return s.CreateCrawlRunFn(ctx, run, index)
}

func (s *CatalogStore) FindCrawlRuns(ctx context.Context, filter cefidata.CrawlRunFilter) ([]*cefidata.CrawlRun, error) {
	return s.FindCrawlRunsFn(ctx, filter)
}

func (s *CatalogStore) LatestIndex(ctx context.Context) (*cefidata.CatalogIndex, error) {
	return s.LatestIndexFn(ctx)
}

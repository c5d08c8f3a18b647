package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/noaa-psl/cefidata"
)

// Ensure LoggingCatalogCrawler implements cefidata.CatalogCrawler.
var _ cefidata.CatalogCrawler = (*LoggingCatalogCrawler)(nil)

// LoggingCatalogCrawler wraps a CatalogCrawler with crawl summary logging.
type LoggingCatalogCrawler struct {
	next   cefidata.CatalogCrawler
	logger *slog.Logger
}

// NewLoggingCatalogCrawler creates a new LoggingCatalogCrawler.
func NewLoggingCatalogCrawler(next cefidata.CatalogCrawler, logger *slog.Logger) *LoggingCatalogCrawler {
	return &LoggingCatalogCrawler{next: next, logger: logger}
}

// Crawl delegates to the wrapped crawler and logs the operation.
func (c *LoggingCatalogCrawler) Crawl(ctx context.Context, baseURL string) (index *cefidata.CatalogIndex, err error) {
	defer func(begin time.Time) {
		catalogs, files := 0, 0
		if index != nil {
			catalogs = index.Len()
			files = index.FileCount()
		}
		c.logger.Info("catalog crawl",
			"url", baseURL,
			"catalogs", catalogs,
			"files", files,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Crawl(ctx, baseURL)
}

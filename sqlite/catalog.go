package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/noaa-psl/cefidata"
)

// Compile-time interface verification.
var _ cefidata.CatalogStore = (*CatalogService)(nil)

// CatalogService implements cefidata.CatalogStore using SQLite.
type CatalogService struct {
	db *DB
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(db *DB) *CatalogService {
	return &CatalogService{db: db}
}

// CreateCrawlRun records a crawl run together with the catalogs its index
// contains. The run's ID and counts are assigned from the index.
func (s *CatalogService) CreateCrawlRun(ctx context.Context, run *cefidata.CrawlRun, index *cefidata.CatalogIndex) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	now := time.Now().UTC()
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = now
	}
	run.CatalogCount = index.Len()
	run.FileCount = index.FileCount()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO crawls (id, base_url, started_at, finished_at, catalog_count, file_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.BaseURL, run.StartedAt.Format(time.RFC3339), run.FinishedAt.Format(time.RFC3339),
		run.CatalogCount, run.FileCount)
	if err != nil {
		return err
	}

	for position, pageURL := range index.Pages() {
		files, _ := index.Files(pageURL)
		joined := strings.Join(files, "\n")

		_, err = tx.ExecContext(ctx, `
			INSERT INTO catalogs (id, crawl_id, page_url, access_urls, file_count, fingerprint, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), run.ID, pageURL, joined, len(files), fingerprint(joined), position)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindCrawlRuns retrieves crawl runs matching the filter, most recent first.
func (s *CatalogService) FindCrawlRuns(ctx context.Context, filter cefidata.CrawlRunFilter) ([]*cefidata.CrawlRun, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, base_url, started_at, finished_at, catalog_count, file_count FROM crawls WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.BaseURL != nil {
		query.WriteString(" AND base_url = ?")
		args = append(args, *filter.BaseURL)
	}

	query.WriteString(" ORDER BY started_at DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*cefidata.CrawlRun
	for rows.Next() {
		var run cefidata.CrawlRun
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.BaseURL, &startedAt, &finishedAt,
			&run.CatalogCount, &run.FileCount); err != nil {
			return nil, err
		}

		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// LatestIndex reconstructs the catalog index recorded by the most recent
// crawl run.
func (s *CatalogService) LatestIndex(ctx context.Context) (*cefidata.CatalogIndex, error) {
	var crawlID string

	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM crawls ORDER BY started_at DESC LIMIT 1
	`).Scan(&crawlID)

	if err == sql.ErrNoRows {
		return nil, cefidata.Errorf(cefidata.ENOTFOUND, "no crawl runs found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT page_url, access_urls FROM catalogs WHERE crawl_id = ? ORDER BY position
	`, crawlID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := &cefidata.CatalogIndex{}
	for rows.Next() {
		var pageURL, joined string
		if err := rows.Scan(&pageURL, &joined); err != nil {
			return nil, err
		}

		var files []string
		if joined != "" {
			files = strings.Split(joined, "\n")
		}
		index.Add(pageURL, files)
	}

	return index, rows.Err()
}

// fingerprint hashes a catalog's joined access URL list for change
// detection across crawl runs.
func fingerprint(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/noaa-psl/cefidata"
	"github.com/noaa-psl/cefidata/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

// testIndex builds a two-page catalog index in a fixed order.
func testIndex() *cefidata.CatalogIndex {
	index := &cefidata.CatalogIndex{}
	index.Add("https://psl.noaa.gov/thredds/catalog/cefi/northwest_atlantic/catalog.html", []string{
		"https://psl.noaa.gov/thredds/dodsC/cefi/northwest_atlantic/tos.nc",
		"https://psl.noaa.gov/thredds/dodsC/cefi/northwest_atlantic/sos.nc",
	})
	index.Add("https://psl.noaa.gov/thredds/catalog/cefi/northeast_pacific/catalog.html", []string{
		"https://psl.noaa.gov/thredds/dodsC/cefi/northeast_pacific/tos.nc",
	})
	return index
}

func TestCatalogService_CreateCrawlRun(t *testing.T) {
	t.Parallel()

	t.Run("creates run with generated ID and counts from the index", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCatalogService(db)
		ctx := context.Background()

		run := &cefidata.CrawlRun{BaseURL: "https://psl.noaa.gov/thredds/catalog/cefi/"}

		err := svc.CreateCrawlRun(ctx, run, testIndex())
		require.NoError(t, err)

		assert.NotEmpty(t, run.ID, "ID should be generated")
		assert.False(t, run.StartedAt.IsZero(), "StartedAt should be set")
		assert.False(t, run.FinishedAt.IsZero(), "FinishedAt should be set")
		assert.Equal(t, 2, run.CatalogCount)
		assert.Equal(t, 3, run.FileCount)
	})

	t.Run("keeps provided timestamps", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCatalogService(db)
		ctx := context.Background()

		started := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
		finished := time.Date(2024, 5, 20, 10, 3, 0, 0, time.UTC)
		run := &cefidata.CrawlRun{
			BaseURL:    "https://psl.noaa.gov/thredds/catalog/cefi/",
			StartedAt:  started,
			FinishedAt: finished,
		}

		require.NoError(t, svc.CreateCrawlRun(ctx, run, testIndex()))

		found, err := svc.FindCrawlRuns(ctx, cefidata.CrawlRunFilter{ID: &run.ID})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, started, found[0].StartedAt)
		assert.Equal(t, finished, found[0].FinishedAt)
	})

	t.Run("returns error for a run without a base URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCatalogService(db)
		ctx := context.Background()

		err := svc.CreateCrawlRun(ctx, &cefidata.CrawlRun{}, testIndex())
		require.Error(t, err)
		assert.Equal(t, cefidata.EINVALID, cefidata.ErrorCode(err))
	})
}

func TestCatalogService_FindCrawlRuns(t *testing.T) {
	t.Parallel()

	t.Run("returns runs most recent first", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCatalogService(db)
		ctx := context.Background()

		older := &cefidata.CrawlRun{
			BaseURL:   "https://psl.noaa.gov/thredds/catalog/cefi/",
			StartedAt: time.Date(2024, 5, 19, 8, 0, 0, 0, time.UTC),
		}
		newer := &cefidata.CrawlRun{
			BaseURL:   "https://psl.noaa.gov/thredds/catalog/cefi/",
			StartedAt: time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC),
		}
		require.NoError(t, svc.CreateCrawlRun(ctx, older, testIndex()))
		require.NoError(t, svc.CreateCrawlRun(ctx, newer, testIndex()))

		runs, err := svc.FindCrawlRuns(ctx, cefidata.CrawlRunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, newer.ID, runs[0].ID)
		assert.Equal(t, older.ID, runs[1].ID)
	})

	t.Run("filters by base URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCatalogService(db)
		ctx := context.Background()

		cefi := &cefidata.CrawlRun{BaseURL: "https://psl.noaa.gov/thredds/catalog/cefi/"}
		other := &cefidata.CrawlRun{BaseURL: "https://other.noaa.gov/thredds/catalog/"}
		require.NoError(t, svc.CreateCrawlRun(ctx, cefi, testIndex()))
		require.NoError(t, svc.CreateCrawlRun(ctx, other, testIndex()))

		baseURL := "https://other.noaa.gov/thredds/catalog/"
		runs, err := svc.FindCrawlRuns(ctx, cefidata.CrawlRunFilter{BaseURL: &baseURL})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, other.ID, runs[0].ID)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCatalogService(db)
		ctx := context.Background()

		for day := 1; day <= 3; day++ {
			run := &cefidata.CrawlRun{
				BaseURL:   "https://psl.noaa.gov/thredds/catalog/cefi/",
				StartedAt: time.Date(2024, 5, day, 8, 0, 0, 0, time.UTC),
			}
			require.NoError(t, svc.CreateCrawlRun(ctx, run, testIndex()))
		}

		runs, err := svc.FindCrawlRuns(ctx, cefidata.CrawlRunFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC), runs[0].StartedAt)
	})

	t.Run("returns empty result when nothing matches", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCatalogService(db)
		ctx := context.Background()

		id := "missing"
		runs, err := svc.FindCrawlRuns(ctx, cefidata.CrawlRunFilter{ID: &id})
		require.NoError(t, err)
		assert.Empty(t, runs)
	})
}

func TestCatalogService_LatestIndex(t *testing.T) {
	t.Parallel()

	t.Run("round-trips the most recent index", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCatalogService(db)
		ctx := context.Background()

		older := &cefidata.CrawlRun{
			BaseURL:   "https://psl.noaa.gov/thredds/catalog/cefi/",
			StartedAt: time.Date(2024, 5, 19, 8, 0, 0, 0, time.UTC),
		}
		olderIndex := &cefidata.CatalogIndex{}
		olderIndex.Add("https://psl.noaa.gov/thredds/catalog/cefi/old/catalog.html", []string{
			"https://psl.noaa.gov/thredds/dodsC/cefi/old/tos.nc",
		})
		require.NoError(t, svc.CreateCrawlRun(ctx, older, olderIndex))

		newer := &cefidata.CrawlRun{
			BaseURL:   "https://psl.noaa.gov/thredds/catalog/cefi/",
			StartedAt: time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC),
		}
		newerIndex := testIndex()
		require.NoError(t, svc.CreateCrawlRun(ctx, newer, newerIndex))

		latest, err := svc.LatestIndex(ctx)
		require.NoError(t, err)

		assert.Equal(t, newerIndex.Pages(), latest.Pages(), "pages should keep crawl order")
		for _, page := range newerIndex.Pages() {
			want, _ := newerIndex.Files(page)
			got, ok := latest.Files(page)
			require.True(t, ok)
			assert.Equal(t, want, got)
		}
	})

	t.Run("returns not found when no runs are recorded", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCatalogService(db)
		ctx := context.Background()

		_, err := svc.LatestIndex(ctx)
		require.Error(t, err)
		assert.Equal(t, cefidata.ENOTFOUND, cefidata.ErrorCode(err))
	})
}

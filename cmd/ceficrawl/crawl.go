package main

import (
	"fmt"
	"time"

	"github.com/noaa-psl/cefidata"
	"github.com/noaa-psl/cefidata/fs"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	started := time.Now().UTC()

	index, err := deps.Crawler.Crawl(deps.Ctx, c.Base)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cefidata.ErrorMessage(err))
		return err
	}
	finished := time.Now().UTC()

	fmt.Fprintf(deps.Stdout, "Found %d catalogs with %d NetCDF files\n", index.Len(), index.FileCount())

	if err := fs.WriteIndex(c.Out, index); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cefidata.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Saved catalog index to %s\n", c.Out)

	if deps.Store != nil {
		run := &cefidata.CrawlRun{
			BaseURL:    c.Base,
			StartedAt:  started,
			FinishedAt: finished,
		}
		if err := deps.Store.CreateCrawlRun(deps.Ctx, run, index); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", cefidata.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Recorded crawl run %s\n", run.ID)
	}

	return nil
}

package main

import (
	"context"
	"io"

	"github.com/noaa-psl/cefidata"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Crawler cefidata.CatalogCrawler

	// Store records crawl runs when set.
	Store cefidata.CatalogStore
}

// CrawlCmd handles the crawl operation.
type CrawlCmd struct {
	Base string
	Out  string
}

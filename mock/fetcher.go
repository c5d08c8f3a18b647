package mock

import (
	"context"

	"github.com/noaa-psl/cefidata"
)

var _ cefidata.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of cefidata.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) ([]byte, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.FetchFn(ctx, url)
}

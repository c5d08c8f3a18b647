// Package mock provides test doubles for cefidata service interfaces.
package mock

import (
	"context"

	"github.com/noaa-psl/cefidata"
)

var _ cefidata.TreeService = (*TreeService)(nil)

// TreeService is a mock implementation of cefidata.TreeService.
type TreeService struct {
	LoadFn func(ctx context.Context) (*cefidata.Tree, error)
}

func (s *TreeService) Load(ctx context.Context) (*cefidata.Tree, error) {
	return s.LoadFn(ctx)
}

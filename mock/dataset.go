package mock

import (
	"context"

	"github.com/noaa-psl/cefidata"
)

var _ cefidata.DatasetService = (*DatasetService)(nil)

// DatasetService is a mock implementation of cefidata.DatasetService.
type DatasetService struct {
	MetadataFn func(ctx context.Context, source cefidata.DatasetSource) (cefidata.Metadata, error)
}

func (s *DatasetService) Metadata(ctx context.Context, source cefidata.DatasetSource) (cefidata.Metadata, error) {
	return s.MetadataFn(ctx, source)
}

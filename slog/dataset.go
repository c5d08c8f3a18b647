package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/noaa-psl/cefidata"
)

// Ensure LoggingDatasetService implements cefidata.DatasetService.
var _ cefidata.DatasetService = (*LoggingDatasetService)(nil)

// LoggingDatasetService wraps a DatasetService with logging.
type LoggingDatasetService struct {
	next   cefidata.DatasetService
	logger *slog.Logger
}

// NewLoggingDatasetService creates a new LoggingDatasetService.
func NewLoggingDatasetService(next cefidata.DatasetService, logger *slog.Logger) *LoggingDatasetService {
	return &LoggingDatasetService{next: next, logger: logger}
}

// Metadata delegates to the wrapped service and logs the operation.
func (s *LoggingDatasetService) Metadata(ctx context.Context, src cefidata.DatasetSource) (metadata cefidata.Metadata, err error) {
	defer func(begin time.Time) {
		s.logger.Info("dataset metadata",
			"source", sourceURL(src),
			"attributes", len(metadata),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Metadata(ctx, src)
}

// sourceURL reports the source that will be consulted, following the
// same priority order the service uses.
func sourceURL(src cefidata.DatasetSource) string {
	switch {
	case src.OPeNDAPURL != "":
		return src.OPeNDAPURL
	case src.S3KerchunkIndex != "":
		return src.S3KerchunkIndex
	case src.GCSKerchunkIndex != "":
		return src.GCSKerchunkIndex
	}
	return ""
}

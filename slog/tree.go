// Package slog provides logging decorators for cefidata services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/noaa-psl/cefidata"
)

// Ensure LoggingTreeService implements cefidata.TreeService.
var _ cefidata.TreeService = (*LoggingTreeService)(nil)

// LoggingTreeService wraps a TreeService with load logging.
type LoggingTreeService struct {
	next   cefidata.TreeService
	logger *slog.Logger
}

// NewLoggingTreeService creates a new LoggingTreeService.
func NewLoggingTreeService(next cefidata.TreeService, logger *slog.Logger) *LoggingTreeService {
	return &LoggingTreeService{next: next, logger: logger}
}

// Load delegates to the wrapped service and logs the operation.
func (s *LoggingTreeService) Load(ctx context.Context) (tree *cefidata.Tree, err error) {
	defer func(begin time.Time) {
		size := 0
		if tree != nil {
			size = tree.Len()
		}
		s.logger.Info("option tree load",
			"regions", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}

package pagination

import (
	"log/slog"
	"time"
)

// LogPage logs a served page at debug level.
func LogPage(logger *slog.Logger, meta Metadata, returned int, duration time.Duration) {
	logger.Debug("article page served",
		slog.Int("limit", meta.Limit),
		slog.Int("offset", meta.Offset),
		slog.Int("returned_count", returned),
		slog.Int64("total_count", meta.TotalCount),
		slog.Bool("has_more", meta.HasMore),
		slog.Int64("duration_ms", duration.Milliseconds()))
}

// LogError logs a failed list call.
func LogError(logger *slog.Logger, params Params, err error, errorType string) {
	logger.Error("article list failed",
		slog.Int("limit", params.Limit),
		slog.Int("offset", params.Offset),
		slog.String("error_type", errorType),
		slog.Any("error", err))
}

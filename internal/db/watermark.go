package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/feedsheet/internal/models"
)

// CurrentWatermark returns the timestamp in the first column of the sink's
// last row. An empty sink gets its header row written and yields no
// watermark. A read failure also yields no watermark, but the returned
// error wraps models.ErrSinkRead so callers can tell the two apart.
func CurrentWatermark(ctx context.Context, sink Sink) (models.Watermark, error) {
	rows, err := sink.ReadRows(ctx)
	if err != nil {
		return models.Watermark{}, fmt.Errorf("%w: %w", err, models.ErrSinkRead)
	}

	if len(rows) == 0 {
		slog.Info("[Watermark] Sink is empty, writing header row")
		if err := sink.WriteHeader(ctx, models.SinkHeader); err != nil {
			return models.Watermark{}, fmt.Errorf("%w: %w", err, models.ErrSinkRead)
		}
		return models.Watermark{}, nil
	}

	// rows[0] is the header
	if len(rows) == 1 {
		return models.Watermark{}, nil
	}

	last := rows[len(rows)-1]
	if len(last) == 0 || last[0] == "" {
		return models.Watermark{}, nil
	}
	return models.Watermark{Timestamp: last[0], Valid: true}, nil
}

package db

import (
	"context"
	"fmt"

	"github.com/spacesedan/feedsheet/internal/models"
)

// AppendRecords writes records to the end of the sink in the given order as a
// single batch. It performs no I/O when records is empty.
func AppendRecords(ctx context.Context, sink Sink, records []models.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.Row()
	}

	if err := sink.AppendRows(ctx, rows); err != nil {
		return 0, fmt.Errorf("%w: %w", err, models.ErrSinkWrite)
	}
	return len(rows), nil
}

package processing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spacesedan/feedsheet/internal/db"
	"github.com/spacesedan/feedsheet/internal/models"
)

type Locker interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

type Publisher interface {
	Publish(ctx context.Context, records []models.Record) error
}

// Syncer runs one incremental sync from the feeds into an already
// authenticated sink. Lock and Publisher are optional.
type Syncer struct {
	Sink           db.Sink
	Fetcher        ListingFetcher
	Sources        []FeedSource
	Location       *time.Location
	StrictSinkRead bool

	Lock      Locker
	Publisher Publisher
}

type Result struct {
	Watermark models.Watermark
	Fetched   int
	New       int
	Appended  int
	Skipped   bool
}

// Run returns an error only when the sink could not be written, or could not
// be read while StrictSinkRead is set. Feed failures are logged and cost only
// that feed's items.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	var res Result
	start := time.Now()

	if s.Lock != nil {
		if err := s.Lock.Acquire(ctx); err != nil {
			if errors.Is(err, models.ErrLockHeld) {
				slog.Warn("[Syncer] Another sync is running, skipping this run")
				res.Skipped = true
				return res, nil
			}
			return res, err
		}
		defer func() {
			if err := s.Lock.Release(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("[Syncer] Failed to release lock", slog.String("error", err.Error()))
			}
		}()
	}

	wm, err := db.CurrentWatermark(ctx, s.Sink)
	if err != nil {
		if s.StrictSinkRead {
			slog.Error("[Syncer] Error getting latest date/time, stopping", slog.String("error", err.Error()))
			return res, err
		}
		// Indistinguishable from an empty sink from here on; items already
		// in the sink may be appended again.
		slog.Warn("[Syncer] Error getting latest date/time, treating sink as empty",
			slog.String("error", err.Error()))
	}
	res.Watermark = wm

	var all []models.Record
	for _, source := range s.Sources {
		records, err := FetchFeed(ctx, s.Fetcher, source, s.Location)
		if err != nil {
			slog.Warn("[Syncer] Error fetching feed",
				slog.String("category", string(source.Category)),
				slog.String("error", err.Error()))
			continue
		}
		all = append(all, records...)
	}
	res.Fetched = len(all)

	newItems := SelectNew(all, wm)
	res.New = len(newItems)
	if wm.Valid {
		slog.Info("[Syncer] Found items newer than watermark",
			slog.Int("count", len(newItems)), slog.String("watermark", wm.Timestamp))
	} else {
		slog.Info("[Syncer] No existing entries found, adding all items", slog.Int("count", len(newItems)))
	}
	if !IsAscending(newItems) {
		slog.Error("[Syncer] New items are not in ascending order, the sink watermark will be wrong")
	}

	appended, err := db.AppendRecords(ctx, s.Sink, newItems)
	if err != nil {
		slog.Warn("[Syncer] Error writing to sink", slog.String("error", err.Error()))
		return res, err
	}
	res.Appended = appended

	if appended == 0 {
		slog.Info("[Syncer] No new items to add")
	} else {
		slog.Info("[Syncer] Added new items to the sink",
			slog.Int("count", appended), slog.Duration("duration", time.Since(start)))
	}

	if s.Publisher != nil && appended > 0 {
		if err := s.Publisher.Publish(ctx, newItems); err != nil {
			slog.Warn("[Syncer] Failed to publish appended items", slog.String("error", err.Error()))
		}
	}

	return res, nil
}

package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

type RunFunc func(ctx context.Context)

// Scheduler repeats a sync run on a cron spec. A tick that fires while the
// previous run is still going is skipped.
type Scheduler struct {
	cron *cron.Cron
}

func New(ctx context.Context, spec string, run RunFunc) (*Scheduler, error) {
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))

	_, err := c.AddFunc(spec, func() { run(ctx) })
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c}, nil
}

// Run blocks until ctx is done, then waits for an in-flight run to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	slog.Info("[Scheduler] Started", slog.Int("entries", len(s.cron.Entries())))

	<-ctx.Done()
	slog.Info("[Scheduler] Shutting down, waiting for running sync...")
	<-s.cron.Stop().Done()
}

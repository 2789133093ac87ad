package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// BookingFacade exposes the subset of application functionality required by the sweeper.
type BookingFacade interface {
	CancelStaleBookings(ctx context.Context, limit int) ([]model.BookingDetails, error)
	NotifyCancelled(ctx context.Context, details model.BookingDetails)
}

// StaleBookingSweeper periodically cancels bookings whose payment never
// arrived and notifies their owners from a worker pool.
type StaleBookingSweeper struct {
	facade    BookingFacade
	interval  time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	jobs   chan model.BookingDetails
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewStaleBookingSweeper constructs the sweeper worker pool.
func NewStaleBookingSweeper(facade BookingFacade, interval time.Duration, batchSize, workers int, logger *slog.Logger) *StaleBookingSweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &StaleBookingSweeper{
		facade:    facade,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
	}
}

// Start launches background sweeping. Calling Start on a running sweeper is a no-op.
func (s *StaleBookingSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.jobs = make(chan model.BookingDetails, s.batchSize)

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx, s.jobs)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx, s.jobs)
}

// Stop cancels sweeping and waits for all workers to finish.
func (s *StaleBookingSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *StaleBookingSweeper) dispatch(ctx context.Context, jobs chan<- model.BookingDetails) {
	defer s.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, jobs)
		}
	}
}

func (s *StaleBookingSweeper) sweep(ctx context.Context, jobs chan<- model.BookingDetails) {
	cancelled, err := s.facade.CancelStaleBookings(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("cancel stale bookings failed", slog.String("error", err.Error()))
		return
	}
	if len(cancelled) > 0 {
		s.logger.Info("stale bookings cancelled", slog.Int("count", len(cancelled)))
	}
	for _, details := range cancelled {
		select {
		case <-ctx.Done():
			return
		case jobs <- details:
		}
	}
}

func (s *StaleBookingSweeper) worker(ctx context.Context, jobs <-chan model.BookingDetails) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case details, ok := <-jobs:
			if !ok {
				return
			}
			s.facade.NotifyCancelled(ctx, details)
		}
	}
}

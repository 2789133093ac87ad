package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/polkiloo/weddingmart/internal/domain/model"
	testhelpers "github.com/polkiloo/weddingmart/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func cancelled(ids ...string) []model.BookingDetails {
	out := make([]model.BookingDetails, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.BookingDetails{Booking: &model.Booking{ID: id, Status: model.BookingStatusCancelled}})
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for sweeper")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewStaleBookingSweeperDefaults(t *testing.T) {
	s := NewStaleBookingSweeper(&testhelpers.SweeperFacadeStub{}, 0, 0, 0, discardLogger())
	if s.batchSize != 1 || s.workers != 1 || s.interval != time.Minute {
		t.Fatalf("unexpected defaults batch=%d workers=%d interval=%v", s.batchSize, s.workers, s.interval)
	}
}

func TestSweeperNotifiesCancelledBookings(t *testing.T) {
	facade := &testhelpers.SweeperFacadeStub{Batches: [][]model.BookingDetails{cancelled("b1", "b2"), cancelled("b3")}}
	s := NewStaleBookingSweeper(facade, 5*time.Millisecond, 8, 2, discardLogger())

	s.Start(context.Background())
	waitFor(t, func() bool { return len(facade.NotifiedIDs()) == 3 })
	s.Stop()

	got := facade.NotifiedIDs()
	sort.Strings(got)
	if strings.Join(got, ",") != "b1,b2,b3" {
		t.Fatalf("unexpected notifications %v", got)
	}
	facade.Lock()
	defer facade.Unlock()
	if facade.Limits[0] != 8 {
		t.Fatalf("expected batch size passed as limit, got %d", facade.Limits[0])
	}
}

func TestSweeperKeepsRunningAfterErrors(t *testing.T) {
	calls := 0
	facade := &testhelpers.SweeperFacadeStub{}
	facade.CancelFn = func(context.Context, int) ([]model.BookingDetails, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("db unavailable")
		}
		if calls == 2 {
			return cancelled("b1"), nil
		}
		return nil, nil
	}
	s := NewStaleBookingSweeper(facade, 5*time.Millisecond, 4, 1, discardLogger())

	s.Start(context.Background())
	waitFor(t, func() bool { return len(facade.NotifiedIDs()) == 1 })
	s.Stop()
}

func TestSweeperStopIsIdempotent(t *testing.T) {
	s := NewStaleBookingSweeper(&testhelpers.SweeperFacadeStub{}, 5*time.Millisecond, 1, 1, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	s.Start(ctx)
	cancel()
	s.Stop()
	s.Stop()
}

func TestSweeperRestart(t *testing.T) {
	facade := &testhelpers.SweeperFacadeStub{}
	facade.CancelFn = func(context.Context, int) ([]model.BookingDetails, error) {
		return cancelled("b1"), nil
	}
	s := NewStaleBookingSweeper(facade, 5*time.Millisecond, 1, 1, discardLogger())

	s.Start(context.Background())
	s.Stop()
	s.Start(context.Background())
	waitFor(t, func() bool { return len(facade.NotifiedIDs()) > 0 })
	s.Stop()
}

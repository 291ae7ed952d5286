package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tradesignals/internal/events"
	"tradesignals/internal/repository"
)

// TimerService arms a created signal: one conditional update that stamps
// the timer start and the computed execution time. No funds move here.
type TimerService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Hub    *events.Hub
}

type TimerResult struct {
	SignalID        uint64
	TimerStart      time.Time
	ExecutionTime   time.Time
	DurationMinutes int
}

func (s *TimerService) Start(ctx context.Context, signalID uint64, durationMinutes int) (*TimerResult, error) {
	now := time.Now().UTC()
	executeAt := now.Add(time.Duration(durationMinutes) * time.Minute)

	ok, err := s.Repo.StartSignalTimer(ctx, signalID, now, executeAt, durationMinutes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWrongState
	}

	if s.Logger != nil {
		s.Logger.Info("signal timer started",
			zap.Uint64("signal_id", signalID),
			zap.Int("duration_minutes", durationMinutes),
			zap.Time("execute_at", executeAt),
		)
	}
	if s.Hub != nil {
		s.Hub.Publish(events.Event{
			Type:     events.TypeTimerStarted,
			SignalID: signalID,
			Detail: map[string]any{
				"duration_minutes": durationMinutes,
				"execute_at":       executeAt.Format(time.RFC3339),
			},
		})
	}

	return &TimerResult{
		SignalID:        signalID,
		TimerStart:      now,
		ExecutionTime:   executeAt,
		DurationMinutes: durationMinutes,
	}, nil
}

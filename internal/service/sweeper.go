package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tradesignals/internal/events"
	"tradesignals/internal/models"
	"tradesignals/internal/repository"
)

// SweeperService reconciles signals whose expiry passed without execution:
// it flips them to expired and returns every pending participant's stake
// dollar-for-dollar, with no profit/loss invented.
//
// Each sweep also picks up signals that are already expired but still hold
// pending participants, so a crash between the status flip and the refund
// loop heals on the next run instead of stranding locked funds.
type SweeperService struct {
	Repo      repository.Repository
	Logger    *zap.Logger
	Hub       *events.Hub
	Notifier  Notifier
	BatchSize int
}

type SweepResult struct {
	Expired  int
	Refunded int
	Failed   int
}

func (s *SweeperService) SweepOnce(ctx context.Context) (*SweepResult, error) {
	now := time.Now().UTC()
	batch := s.BatchSize
	if batch <= 0 {
		batch = 200
	}

	result := &SweepResult{}

	due, err := s.Repo.ListDueSignals(ctx, now, batch)
	if err != nil {
		return nil, err
	}
	for _, sig := range due {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		expired, err := s.Repo.ExpireSignal(ctx, sig.ID)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("expire signal failed", zap.Uint64("signal_id", sig.ID), zap.Error(err))
			}
			result.Failed++
			continue
		}
		if !expired {
			// Lost the race to an executor or another sweeper.
			continue
		}
		result.Expired++

		refunded, failed := s.refundPending(ctx, sig.ID, now)
		result.Refunded += refunded
		result.Failed += failed

		if s.Hub != nil {
			s.Hub.Publish(events.Event{
				Type:         events.TypeSignalExpired,
				SignalID:     sig.ID,
				Participants: refunded,
			})
		}
	}

	// Guarded re-run: refund participants stranded by an earlier
	// interrupted sweep.
	stranded, err := s.Repo.ListExpiredSignalIDsWithPending(ctx, batch)
	if err != nil {
		return result, err
	}
	for _, signalID := range stranded {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		refunded, failed := s.refundPending(ctx, signalID, now)
		result.Refunded += refunded
		result.Failed += failed
		if refunded > 0 && s.Logger != nil {
			s.Logger.Info("recovered stranded expiry refunds",
				zap.Uint64("signal_id", signalID),
				zap.Int("refunded", refunded),
			)
		}
	}

	if s.Logger != nil && (result.Expired > 0 || result.Refunded > 0 || result.Failed > 0) {
		s.Logger.Info("expiry sweep complete",
			zap.Int("expired", result.Expired),
			zap.Int("refunded", result.Refunded),
			zap.Int("failed", result.Failed),
		)
	}
	if s.Notifier != nil {
		s.Notifier.SweepCompleted(ctx, result.Expired, result.Refunded)
	}

	return result, nil
}

func (s *SweeperService) refundPending(ctx context.Context, signalID uint64, now time.Time) (refunded, failed int) {
	participants, err := s.Repo.ListPendingParticipants(ctx, signalID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("list pending participants failed", zap.Uint64("signal_id", signalID), zap.Error(err))
		}
		return 0, 1
	}

	for _, p := range participants {
		err := s.refundParticipant(ctx, signalID, p, now)
		switch {
		case errors.Is(err, errAlreadySettled):
			continue
		case err != nil:
			failed++
			if s.Logger != nil {
				s.Logger.Warn("participant refund failed",
					zap.Uint64("signal_id", signalID),
					zap.Uint64("participant_id", p.ID),
					zap.Error(err),
				)
			}
		default:
			refunded++
		}
	}
	return refunded, failed
}

func (s *SweeperService) refundParticipant(ctx context.Context, signalID uint64, p models.SignalParticipant, now time.Time) error {
	return s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		ok, err := s.Repo.CancelParticipantTx(ctx, tx, p.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return errAlreadySettled
		}

		applied, err := s.Repo.ApplyBalanceDeltaTx(ctx, tx, p.UserID, p.Currency,
			decimal.Zero,             // total balance unchanged on refund
			p.InvestmentAmount,       // stake returns to available
			p.InvestmentAmount.Neg(), // and leaves locked
		)
		if err != nil {
			return err
		}
		if !applied {
			return fmt.Errorf("balance row missing for user %s (%s)", p.UserID, p.Currency)
		}

		payload, _ := json.Marshal(map[string]any{
			"signal_id": signalID,
			"amount":    p.InvestmentAmount.String(),
		})
		return s.Repo.InsertNotificationTx(ctx, tx, &models.Notification{
			UserID:   p.UserID,
			SignalID: &signalID,
			Title:    "Signal expired",
			Body: fmt.Sprintf("The signal you joined expired before execution; your %s %s was returned in full.",
				p.InvestmentAmount.StringFixed(2), p.Currency),
			Payload: datatypes.JSON(payload),
		})
	})
}

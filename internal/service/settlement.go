package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tradesignals/internal/events"
	"tradesignals/internal/models"
	"tradesignals/internal/outcome"
	"tradesignals/internal/repository"
)

// SettlementService resolves one signal's outcome and applies it to every
// pending participant exactly once.
//
// The call first claims the signal with a conditional status update
// (active -> executing); losing the claim is the 404-equivalent "not found
// or not active". Each participant is then settled in its own transaction:
// participation result, balance shift, and notification land together or
// not at all. One participant failing (a missing balance row, say) is
// reported and does not poison the rest of the pool.
type SettlementService struct {
	Repo     repository.Repository
	Decider  outcome.Decider
	Logger   *zap.Logger
	Hub      *events.Hub
	Notifier Notifier
}

type ExecuteResult struct {
	SignalID     uint64
	Outcome      outcome.Outcome
	Forced       bool
	Participants int // settled by this call
	Failed       int
	TotalVolume  decimal.Decimal
	Multiplier   decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// errAlreadySettled short-circuits a participant whose row got settled
// between listing and the conditional update; never counted as a failure.
var errAlreadySettled = errors.New("participant already settled")

// Execute settles the signal. A non-nil force bypasses the probability
// draw; that override is the only reproducible path and exists for admin
// control and tests.
func (s *SettlementService) Execute(ctx context.Context, signalID uint64, force *outcome.Outcome) (*ExecuteResult, error) {
	claimed, err := s.Repo.ClaimSignalForExecution(ctx, signalID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrWrongState
	}

	sig, err := s.Repo.GetSignalByID(ctx, signalID)
	if err != nil {
		s.releaseClaim(ctx, signalID)
		return nil, err
	}
	if sig == nil {
		s.releaseClaim(ctx, signalID)
		return nil, ErrWrongState
	}

	now := time.Now().UTC()
	participants, err := s.Repo.ListPendingParticipants(ctx, signalID)
	if err != nil {
		s.releaseClaim(ctx, signalID)
		return nil, err
	}

	if len(participants) == 0 {
		if err := s.Repo.MarkSignalExecuted(ctx, signalID, "", now); err != nil {
			return nil, err
		}
		s.recordExecution(ctx, signalID, "", decimal.Zero, 0, decimal.Zero, force != nil)
		if s.Logger != nil {
			s.Logger.Info("signal executed with no participants", zap.Uint64("signal_id", signalID))
		}
		return &ExecuteResult{
			SignalID:    signalID,
			Forced:      force != nil,
			TotalVolume: decimal.Zero,
			Multiplier:  decimal.Zero,
		}, nil
	}

	var out outcome.Outcome
	if force != nil {
		out = *force
	} else {
		out = s.Decider.Draw(sig.WinProbability)
	}

	var multiplier decimal.Decimal
	if out == outcome.Profit {
		multiplier = sig.TakeProfitPct.Div(hundred)
	} else {
		multiplier = sig.StopLossPct.Div(hundred).Neg()
	}

	settled := 0
	failed := 0
	totalVolume := decimal.Zero
	for _, p := range participants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := s.settleParticipant(ctx, sig, p, out, multiplier, now)
		switch {
		case errors.Is(err, errAlreadySettled):
			continue
		case err != nil:
			failed++
			if s.Logger != nil {
				s.Logger.Warn("participant settlement failed",
					zap.Uint64("signal_id", signalID),
					zap.Uint64("participant_id", p.ID),
					zap.String("user_id", p.UserID),
					zap.Error(err),
				)
			}
		default:
			settled++
			totalVolume = totalVolume.Add(p.InvestmentAmount)
		}
	}

	if err := s.Repo.MarkSignalExecuted(ctx, signalID, string(out), now); err != nil {
		return nil, err
	}
	s.recordExecution(ctx, signalID, out, multiplier, settled, totalVolume, force != nil)

	if s.Logger != nil {
		s.Logger.Info("signal executed",
			zap.Uint64("signal_id", signalID),
			zap.String("outcome", string(out)),
			zap.Int("settled", settled),
			zap.Int("failed", failed),
			zap.String("total_volume", totalVolume.String()),
		)
	}
	if s.Hub != nil {
		s.Hub.Publish(events.Event{
			Type:         events.TypeSignalExecuted,
			SignalID:     signalID,
			Outcome:      string(out),
			Participants: settled,
		})
	}
	if s.Notifier != nil {
		s.Notifier.SignalExecuted(ctx, signalID, out, settled, totalVolume)
	}

	return &ExecuteResult{
		SignalID:     signalID,
		Outcome:      out,
		Forced:       force != nil,
		Participants: settled,
		Failed:       failed,
		TotalVolume:  totalVolume,
		Multiplier:   multiplier,
	}, nil
}

// releaseClaim returns a claimed signal to the active pool after a failure
// that happened before any participant was touched. Failures mid-loop keep
// the executing status so an operator inspects before re-running.
func (s *SettlementService) releaseClaim(ctx context.Context, signalID uint64) {
	if _, err := s.Repo.ReleaseSignalClaim(ctx, signalID); err != nil && s.Logger != nil {
		s.Logger.Warn("release signal claim failed", zap.Uint64("signal_id", signalID), zap.Error(err))
	}
}

func (s *SettlementService) settleParticipant(ctx context.Context, sig *models.TradeSignal, p models.SignalParticipant, out outcome.Outcome, multiplier decimal.Decimal, now time.Time) error {
	pl := p.InvestmentAmount.Mul(multiplier)
	plPct := multiplier.Mul(hundred)
	finalBalance := p.EntryBalance.Add(p.InvestmentAmount).Add(pl)

	return s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		ok, err := s.Repo.SettleParticipantTx(ctx, tx, p.ID, pl, plPct, finalBalance, now)
		if err != nil {
			return err
		}
		if !ok {
			return errAlreadySettled
		}

		applied, err := s.Repo.ApplyBalanceDeltaTx(ctx, tx, p.UserID, p.Currency,
			pl,                         // balance += profit/loss
			p.InvestmentAmount.Add(pl), // available gets stake back plus result
			p.InvestmentAmount.Neg(),   // locked releases the stake
		)
		if err != nil {
			return err
		}
		if !applied {
			return fmt.Errorf("balance row missing for user %s (%s)", p.UserID, p.Currency)
		}

		return s.Repo.InsertNotificationTx(ctx, tx, settlementNotification(sig, p, out, pl, finalBalance))
	})
}

func settlementNotification(sig *models.TradeSignal, p models.SignalParticipant, out outcome.Outcome, pl, finalBalance decimal.Decimal) *models.Notification {
	verb := "gained"
	if out == outcome.Loss {
		verb = "lost"
	}
	payload, _ := json.Marshal(map[string]any{
		"signal_id":          sig.ID,
		"symbol":             sig.Symbol,
		"outcome":            string(out),
		"profit_loss_amount": pl.String(),
		"final_balance":      finalBalance.String(),
	})
	signalID := sig.ID
	return &models.Notification{
		UserID:   p.UserID,
		SignalID: &signalID,
		Title:    fmt.Sprintf("Signal %s settled", sig.Symbol),
		Body: fmt.Sprintf("Your %s position on %s settled with %s: you %s %s %s.",
			sig.Direction, sig.Symbol, out, verb, pl.Abs().StringFixed(2), p.Currency),
		Payload: datatypes.JSON(payload),
	}
}

// recordExecution appends the audit row; failure to write it is logged but
// does not fail an otherwise completed settlement.
func (s *SettlementService) recordExecution(ctx context.Context, signalID uint64, out outcome.Outcome, multiplier decimal.Decimal, participants int, totalVolume decimal.Decimal, forced bool) {
	detail, _ := json.Marshal(map[string]any{
		"forced": forced,
	})
	item := &models.TradeExecution{
		Reference:        uuid.NewString(),
		SignalID:         signalID,
		ParticipantCount: participants,
		TotalVolume:      totalVolume,
		Outcome:          string(out),
		Multiplier:       multiplier,
		Forced:           forced,
		Detail:           datatypes.JSON(detail),
	}
	if err := s.Repo.InsertTradeExecution(ctx, item); err != nil && s.Logger != nil {
		s.Logger.Warn("trade execution audit write failed",
			zap.Uint64("signal_id", signalID),
			zap.Error(err),
		)
	}
}

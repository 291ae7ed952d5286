package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradesignals/internal/models"
	"tradesignals/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// InTx snapshots participants, balances, and side-effect records and
// restores them when fn fails, matching the all-or-nothing behavior of the
// real per-participant transaction.
type stubRepo struct {
	signals       map[uint64]*models.TradeSignal
	participants  map[uint64]*models.SignalParticipant
	balances      map[string]*models.Balance
	notifications []models.Notification
	executions    []models.TradeExecution

	// pendingErr makes ListPendingParticipants fail when set.
	pendingErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		signals:      map[uint64]*models.TradeSignal{},
		participants: map[uint64]*models.SignalParticipant{},
		balances:     map[string]*models.Balance{},
	}
}

func balanceKey(userID, currency string) string {
	return userID + "|" + currency
}

func (s *stubRepo) addSignal(sig models.TradeSignal) *models.TradeSignal {
	copied := sig
	s.signals[sig.ID] = &copied
	return &copied
}

func (s *stubRepo) addParticipant(p models.SignalParticipant) *models.SignalParticipant {
	copied := p
	if copied.Status == "" {
		copied.Status = models.ParticipantStatusPending
	}
	if copied.Currency == "" {
		copied.Currency = "USD"
	}
	s.participants[p.ID] = &copied
	return &copied
}

func (s *stubRepo) addBalance(b models.Balance) *models.Balance {
	copied := b
	if copied.Currency == "" {
		copied.Currency = "USD"
	}
	s.balances[balanceKey(copied.UserID, copied.Currency)] = &copied
	return &copied
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	participantsSnap := map[uint64]models.SignalParticipant{}
	for id, p := range s.participants {
		participantsSnap[id] = *p
	}
	balancesSnap := map[string]models.Balance{}
	for key, b := range s.balances {
		balancesSnap[key] = *b
	}
	notificationCount := len(s.notifications)

	if err := fn(nil); err != nil {
		for id := range s.participants {
			restored := participantsSnap[id]
			s.participants[id] = &restored
		}
		for key := range s.balances {
			restored := balancesSnap[key]
			s.balances[key] = &restored
		}
		s.notifications = s.notifications[:notificationCount]
		return err
	}
	return nil
}

func (s *stubRepo) GetSignalByID(ctx context.Context, id uint64) (*models.TradeSignal, error) {
	sig, ok := s.signals[id]
	if !ok {
		return nil, nil
	}
	copied := *sig
	return &copied, nil
}

func (s *stubRepo) ListSignals(ctx context.Context, params repository.ListSignalsParams) ([]models.TradeSignal, error) {
	var out []models.TradeSignal
	for _, sig := range s.signals {
		if params.Status != nil && sig.Status != *params.Status {
			continue
		}
		if params.Symbol != nil && sig.Symbol != *params.Symbol {
			continue
		}
		out = append(out, *sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) CountSignals(ctx context.Context, params repository.ListSignalsParams) (int64, error) {
	items, _ := s.ListSignals(ctx, params)
	return int64(len(items)), nil
}

func (s *stubRepo) StartSignalTimer(ctx context.Context, id uint64, start, executeAt time.Time, durationMinutes int) (bool, error) {
	sig, ok := s.signals[id]
	if !ok {
		return false, nil
	}
	if sig.Status != models.SignalStatusCreated && sig.Status != models.SignalStatusOpen {
		return false, nil
	}
	sig.Status = models.SignalStatusActive
	sig.TimerStartAt = &start
	sig.ExecuteAt = &executeAt
	sig.TimerDurationMinutes = durationMinutes
	return true, nil
}

func (s *stubRepo) ClaimSignalForExecution(ctx context.Context, id uint64) (bool, error) {
	sig, ok := s.signals[id]
	if !ok {
		return false, nil
	}
	if sig.Status != models.SignalStatusActive && sig.Status != models.SignalStatusOpen {
		return false, nil
	}
	sig.Status = models.SignalStatusExecuting
	return true, nil
}

func (s *stubRepo) ReleaseSignalClaim(ctx context.Context, id uint64) (bool, error) {
	sig, ok := s.signals[id]
	if !ok || sig.Status != models.SignalStatusExecuting {
		return false, nil
	}
	sig.Status = models.SignalStatusActive
	return true, nil
}

func (s *stubRepo) MarkSignalExecuted(ctx context.Context, id uint64, outcome string, executedAt time.Time) error {
	sig, ok := s.signals[id]
	if !ok || sig.Status != models.SignalStatusExecuting {
		return nil
	}
	sig.Status = models.SignalStatusExecuted
	sig.ExecutedAt = &executedAt
	if outcome != "" {
		sig.Outcome = outcome
	}
	return nil
}

func (s *stubRepo) ExpireSignal(ctx context.Context, id uint64) (bool, error) {
	sig, ok := s.signals[id]
	if !ok {
		return false, nil
	}
	switch sig.Status {
	case models.SignalStatusCreated, models.SignalStatusOpen, models.SignalStatusActive:
		sig.Status = models.SignalStatusExpired
		return true, nil
	}
	return false, nil
}

func (s *stubRepo) ListDueSignals(ctx context.Context, now time.Time, limit int) ([]models.TradeSignal, error) {
	var out []models.TradeSignal
	for _, sig := range s.signals {
		switch sig.Status {
		case models.SignalStatusCreated, models.SignalStatusOpen, models.SignalStatusActive:
		default:
			continue
		}
		due := sig.ExpireAt
		if due == nil {
			due = sig.ExecuteAt
		}
		if due == nil || due.After(now) {
			continue
		}
		out = append(out, *sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) ListExpiredSignalIDsWithPending(ctx context.Context, limit int) ([]uint64, error) {
	seen := map[uint64]struct{}{}
	var ids []uint64
	for _, p := range s.participants {
		if p.Status != models.ParticipantStatusPending {
			continue
		}
		sig, ok := s.signals[p.SignalID]
		if !ok || sig.Status != models.SignalStatusExpired {
			continue
		}
		if _, dup := seen[p.SignalID]; dup {
			continue
		}
		seen[p.SignalID] = struct{}{}
		ids = append(ids, p.SignalID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *stubRepo) ListParticipantsBySignalID(ctx context.Context, signalID uint64) ([]models.SignalParticipant, error) {
	var out []models.SignalParticipant
	for _, p := range s.participants {
		if p.SignalID == signalID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) ListPendingParticipants(ctx context.Context, signalID uint64) ([]models.SignalParticipant, error) {
	if s.pendingErr != nil {
		return nil, s.pendingErr
	}
	var out []models.SignalParticipant
	for _, p := range s.participants {
		if p.SignalID == signalID && p.Status == models.ParticipantStatusPending {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) SettleParticipantTx(ctx context.Context, tx *gorm.DB, id uint64, pl, plPct, finalBalance decimal.Decimal, settledAt time.Time) (bool, error) {
	p, ok := s.participants[id]
	if !ok || p.Status != models.ParticipantStatusPending {
		return false, nil
	}
	p.Status = models.ParticipantStatusSettled
	p.ProfitLossAmount = &pl
	p.ProfitLossPercent = &plPct
	p.FinalBalance = &finalBalance
	p.SettledAt = &settledAt
	return true, nil
}

func (s *stubRepo) CancelParticipantTx(ctx context.Context, tx *gorm.DB, id uint64, settledAt time.Time) (bool, error) {
	p, ok := s.participants[id]
	if !ok || p.Status != models.ParticipantStatusPending {
		return false, nil
	}
	p.Status = models.ParticipantStatusCancelled
	p.SettledAt = &settledAt
	return true, nil
}

func (s *stubRepo) GetBalance(ctx context.Context, userID, currency string) (*models.Balance, error) {
	b, ok := s.balances[balanceKey(userID, currency)]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (s *stubRepo) ApplyBalanceDeltaTx(ctx context.Context, tx *gorm.DB, userID, currency string, balanceDelta, availableDelta, lockedDelta decimal.Decimal) (bool, error) {
	b, ok := s.balances[balanceKey(userID, currency)]
	if !ok {
		return false, nil
	}
	b.Balance = b.Balance.Add(balanceDelta)
	b.AvailableBalance = b.AvailableBalance.Add(availableDelta)
	locked := b.LockedBalance.Add(lockedDelta)
	if locked.IsNegative() {
		locked = decimal.Zero
	}
	b.LockedBalance = locked
	return true, nil
}

func (s *stubRepo) InsertNotificationTx(ctx context.Context, tx *gorm.DB, item *models.Notification) error {
	if item != nil {
		s.notifications = append(s.notifications, *item)
	}
	return nil
}

func (s *stubRepo) InsertTradeExecution(ctx context.Context, item *models.TradeExecution) error {
	if item != nil {
		s.executions = append(s.executions, *item)
	}
	return nil
}

func (s *stubRepo) ListTradeExecutions(ctx context.Context, params repository.ListTradeExecutionsParams) ([]models.TradeExecution, error) {
	var out []models.TradeExecution
	for _, e := range s.executions {
		if params.SignalID != nil && e.SignalID != *params.SignalID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

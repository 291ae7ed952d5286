package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradesignals/internal/models"
	"tradesignals/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- signals ----------------------------------------------------------------

func (s *Store) GetSignalByID(ctx context.Context, id uint64) (*models.TradeSignal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.TradeSignal
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSignals(ctx context.Context, params repository.ListSignalsParams) ([]models.TradeSignal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.applySignalFilters(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.TradeSignal
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSignals(ctx context.Context, params repository.ListSignalsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	if err := s.applySignalFilters(ctx, params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) applySignalFilters(ctx context.Context, params repository.ListSignalsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.TradeSignal{})
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if params.Symbol != nil && strings.TrimSpace(*params.Symbol) != "" {
		query = query.Where("symbol = ?", strings.TrimSpace(*params.Symbol))
	}
	return query
}

// StartSignalTimer arms a created signal in one conditional update. Zero
// rows affected means the signal is missing or the timer already ran.
func (s *Store) StartSignalTimer(ctx context.Context, id uint64, start, executeAt time.Time, durationMinutes int) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.TradeSignal{}).
		Where("id = ? AND status IN ?", id, []string{models.SignalStatusCreated, models.SignalStatusOpen}).
		Updates(map[string]any{
			"status":                 models.SignalStatusActive,
			"timer_start_at":         start,
			"execute_at":             executeAt,
			"timer_duration_minutes": durationMinutes,
		})
	return res.RowsAffected > 0, res.Error
}

// ClaimSignalForExecution atomically takes the exclusive right to settle a
// signal. Replaces the check-then-update pseudo-lock: of two concurrent
// callers only one flips active -> executing.
func (s *Store) ClaimSignalForExecution(ctx context.Context, id uint64) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.TradeSignal{}).
		Where("id = ? AND status IN ?", id, []string{models.SignalStatusActive, models.SignalStatusOpen}).
		Update("status", models.SignalStatusExecuting)
	return res.RowsAffected > 0, res.Error
}

// ReleaseSignalClaim hands a claimed signal back to the active pool. Only
// valid before any participant work has happened.
func (s *Store) ReleaseSignalClaim(ctx context.Context, id uint64) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.TradeSignal{}).
		Where("id = ? AND status = ?", id, models.SignalStatusExecuting).
		Update("status", models.SignalStatusActive)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) MarkSignalExecuted(ctx context.Context, id uint64, outcome string, executedAt time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	updates := map[string]any{
		"status":      models.SignalStatusExecuted,
		"executed_at": executedAt,
	}
	if strings.TrimSpace(outcome) != "" {
		updates["outcome"] = outcome
	}
	return s.db.WithContext(ctx).
		Model(&models.TradeSignal{}).
		Where("id = ? AND status = ?", id, models.SignalStatusExecuting).
		Updates(updates).Error
}

func (s *Store) ExpireSignal(ctx context.Context, id uint64) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.TradeSignal{}).
		Where("id = ? AND status IN ?", id, []string{models.SignalStatusCreated, models.SignalStatusOpen, models.SignalStatusActive}).
		Update("status", models.SignalStatusExpired)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) ListDueSignals(ctx context.Context, now time.Time, limit int) ([]models.TradeSignal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	limit = normalizeLimit(limit, 200)
	// A signal is due on its explicit expiry when one was set, otherwise on
	// its stamped execution time: an armed signal the external scheduler
	// never executed must still be swept, or its locked funds strand.
	var items []models.TradeSignal
	err := s.db.WithContext(ctx).
		Model(&models.TradeSignal{}).
		Where("status IN ?", []string{models.SignalStatusCreated, models.SignalStatusOpen, models.SignalStatusActive}).
		Where("COALESCE(expire_at, execute_at) <= ?", now).
		Order("COALESCE(expire_at, execute_at) asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListExpiredSignalIDsWithPending finds signals already marked expired that
// still hold pending participants, so an interrupted sweep can be re-run.
func (s *Store) ListExpiredSignalIDsWithPending(ctx context.Context, limit int) ([]uint64, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 200)
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&models.SignalParticipant{}).
		Joins("JOIN trade_signals ON trade_signals.id = signal_participants.signal_id").
		Where("trade_signals.status = ?", models.SignalStatusExpired).
		Where("signal_participants.status = ?", models.ParticipantStatusPending).
		Distinct("signal_participants.signal_id").
		Limit(limit).
		Pluck("signal_participants.signal_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// --- participants -----------------------------------------------------------

func (s *Store) ListParticipantsBySignalID(ctx context.Context, signalID uint64) ([]models.SignalParticipant, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.SignalParticipant
	err := s.db.WithContext(ctx).
		Model(&models.SignalParticipant{}).
		Where("signal_id = ?", signalID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListPendingParticipants(ctx context.Context, signalID uint64) ([]models.SignalParticipant, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.SignalParticipant
	err := s.db.WithContext(ctx).
		Model(&models.SignalParticipant{}).
		Where("signal_id = ? AND status = ?", signalID, models.ParticipantStatusPending).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SettleParticipantTx writes the settlement result onto a pending row.
// The status guard makes the write-once rule hold even under a re-run.
func (s *Store) SettleParticipantTx(ctx context.Context, tx *gorm.DB, id uint64, pl, plPct, finalBalance decimal.Decimal, settledAt time.Time) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.SignalParticipant{}).
		Where("id = ? AND status = ?", id, models.ParticipantStatusPending).
		Updates(map[string]any{
			"status":              models.ParticipantStatusSettled,
			"profit_loss_amount":  pl,
			"profit_loss_percent": plPct,
			"final_balance":       finalBalance,
			"settled_at":          settledAt,
		})
	return res.RowsAffected > 0, res.Error
}

// CancelParticipantTx marks a pending row cancelled on expiry. No
// profit/loss fields are touched: the refund is dollar-for-dollar.
func (s *Store) CancelParticipantTx(ctx context.Context, tx *gorm.DB, id uint64, settledAt time.Time) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.SignalParticipant{}).
		Where("id = ? AND status = ?", id, models.ParticipantStatusPending).
		Updates(map[string]any{
			"status":     models.ParticipantStatusCancelled,
			"settled_at": settledAt,
		})
	return res.RowsAffected > 0, res.Error
}

// --- balances ---------------------------------------------------------------

func (s *Store) GetBalance(ctx context.Context, userID, currency string) (*models.Balance, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Balance
	err := s.db.WithContext(ctx).
		First(&item, "user_id = ? AND currency = ?", userID, currency).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ApplyBalanceDeltaTx shifts the three balance buckets in one statement.
// locked_balance clamps at zero in SQL so prior drift cannot drive it
// negative. Zero rows affected means the balance row does not exist; the
// caller must treat that as a failure for the whole participant, not skip it.
func (s *Store) ApplyBalanceDeltaTx(ctx context.Context, tx *gorm.DB, userID, currency string, balanceDelta, availableDelta, lockedDelta decimal.Decimal) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Balance{}).
		Where("user_id = ? AND currency = ?", userID, currency).
		Updates(map[string]any{
			"balance":           gorm.Expr("balance + ?", balanceDelta),
			"available_balance": gorm.Expr("available_balance + ?", availableDelta),
			"locked_balance":    gorm.Expr("GREATEST(locked_balance + ?, 0)", lockedDelta),
		})
	return res.RowsAffected > 0, res.Error
}

// --- side-effect records ----------------------------------------------------

func (s *Store) InsertNotificationTx(ctx context.Context, tx *gorm.DB, item *models.Notification) error {
	if item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) InsertTradeExecution(ctx context.Context, item *models.TradeExecution) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListTradeExecutions(ctx context.Context, params repository.ListTradeExecutionsParams) ([]models.TradeExecution, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.TradeExecution{})
	if params.SignalID != nil && *params.SignalID > 0 {
		query = query.Where("signal_id = ?", *params.SignalID)
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.TradeExecution
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

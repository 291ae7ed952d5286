package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradesignals/internal/outcome"
	"tradesignals/internal/repository"
	"tradesignals/internal/service"
)

type SignalHandler struct {
	Timer      *service.TimerService
	Settlement *service.SettlementService
	Sweeper    *service.SweeperService
	Repo       repository.Repository
	Logger     *zap.Logger
}

func (h *SignalHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/signals")
	group.POST("/start-timer", h.startTimer)
	group.POST("/execute", h.execute)
	group.POST("/sweep-expired", h.sweepExpired)
	group.GET("", h.list)
	group.GET("/executions", h.listExecutions)
	group.GET("/:id", h.get)
}

type startTimerRequest struct {
	SignalID        uint64 `json:"signal_id"`
	DurationMinutes int    `json:"duration_minutes"`
}

type startTimerResponse struct {
	Success         bool   `json:"success"`
	SignalID        uint64 `json:"signal_id"`
	TimerStart      string `json:"timer_start"`
	ExecutionTime   string `json:"execution_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

// @Summary Start a signal's execution timer
// @Tags signals
// @Accept json
// @Produce json
// @Param request body startTimerRequest true "signal id and duration"
// @Success 200 {object} startTimerResponse
// @Router /api/v1/signals/start-timer [post]
func (h *SignalHandler) startTimer(c *gin.Context) {
	var req startTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	if req.SignalID == 0 || req.DurationMinutes <= 0 {
		Error(c, http.StatusBadRequest, "signal_id and duration_minutes are required")
		return
	}

	result, err := h.Timer.Start(c.Request.Context(), req.SignalID, req.DurationMinutes)
	if errors.Is(err, service.ErrWrongState) {
		Error(c, http.StatusNotFound, "signal not found or timer already started")
		return
	}
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, startTimerResponse{
		Success:         true,
		SignalID:        result.SignalID,
		TimerStart:      result.TimerStart.Format(time.RFC3339),
		ExecutionTime:   result.ExecutionTime.Format(time.RFC3339),
		DurationMinutes: result.DurationMinutes,
	})
}

type executeRequest struct {
	SignalID     uint64 `json:"signal_id"`
	ForceOutcome string `json:"force_outcome"`
}

type executeResponse struct {
	Success          bool   `json:"success"`
	SignalID         uint64 `json:"signal_id"`
	Outcome          string `json:"outcome,omitempty"`
	Participants     int    `json:"participants"`
	Failed           int    `json:"failed,omitempty"`
	TotalVolume      string `json:"total_volume"`
	ProfitMultiplier string `json:"profit_multiplier"`
}

// @Summary Execute (settle) a signal
// @Tags signals
// @Accept json
// @Produce json
// @Param request body executeRequest true "signal id and optional forced outcome (profit|loss)"
// @Success 200 {object} executeResponse
// @Router /api/v1/signals/execute [post]
func (h *SignalHandler) execute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	if req.SignalID == 0 {
		Error(c, http.StatusBadRequest, "signal_id is required")
		return
	}
	var force *outcome.Outcome
	if req.ForceOutcome != "" {
		parsed, ok := outcome.Parse(req.ForceOutcome)
		if !ok {
			Error(c, http.StatusBadRequest, "force_outcome must be profit or loss")
			return
		}
		force = &parsed
	}

	result, err := h.Settlement.Execute(c.Request.Context(), req.SignalID, force)
	if errors.Is(err, service.ErrWrongState) {
		Error(c, http.StatusNotFound, "signal not found or not active")
		return
	}
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, executeResponse{
		Success:          true,
		SignalID:         result.SignalID,
		Outcome:          string(result.Outcome),
		Participants:     result.Participants,
		Failed:           result.Failed,
		TotalVolume:      result.TotalVolume.String(),
		ProfitMultiplier: result.Multiplier.String(),
	})
}

type sweepResponse struct {
	Message      string `json:"message"`
	ExpiredCount int    `json:"expired_count"`
}

// @Summary Sweep expired signals and refund pending participants
// @Tags signals
// @Produce json
// @Success 200 {object} sweepResponse
// @Router /api/v1/signals/sweep-expired [post]
func (h *SignalHandler) sweepExpired(c *gin.Context) {
	result, err := h.Sweeper.SweepOnce(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, sweepResponse{
		Message:      "expired signals processed",
		ExpiredCount: result.Expired,
	})
}

// @Summary List signals
// @Tags signals
// @Produce json
// @Param status query string false "status filter"
// @Param symbol query string false "symbol filter"
// @Success 200 {object} map[string]any
// @Router /api/v1/signals [get]
func (h *SignalHandler) list(c *gin.Context) {
	params := repository.ListSignalsParams{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		params.Status = &status
	}
	if symbol := c.Query("symbol"); symbol != "" {
		params.Symbol = &symbol
	}

	items, err := h.Repo.ListSignals(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := h.Repo.CountSignals(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	Ok(c, items, map[string]any{"total": total, "limit": params.Limit, "offset": params.Offset})
}

// @Summary Get a signal with its participants
// @Tags signals
// @Produce json
// @Param id path int true "signal id"
// @Success 200 {object} map[string]any
// @Router /api/v1/signals/{id} [get]
func (h *SignalHandler) get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Error(c, http.StatusBadRequest, "invalid signal id")
		return
	}
	sig, err := h.Repo.GetSignalByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if sig == nil {
		Error(c, http.StatusNotFound, "signal not found")
		return
	}
	participants, err := h.Repo.ListParticipantsBySignalID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	Ok(c, gin.H{"signal": sig, "participants": participants}, nil)
}

// @Summary List settlement audit rows
// @Tags signals
// @Produce json
// @Param signal_id query int false "signal filter"
// @Success 200 {object} map[string]any
// @Router /api/v1/signals/executions [get]
func (h *SignalHandler) listExecutions(c *gin.Context) {
	params := repository.ListTradeExecutionsParams{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("signal_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			params.SignalID = &id
		}
	}
	items, err := h.Repo.ListTradeExecutions(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	Ok(c, items, nil)
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bskmt/club-api/internal/middleware"
	"github.com/bskmt/club-api/internal/model"
	"github.com/bskmt/club-api/internal/service"
)

// GamificationHandler handles points, levels and ranking endpoints
type GamificationHandler struct {
	gamificationService *service.GamificationService
}

// NewGamificationHandler creates a new gamification handler
func NewGamificationHandler(gamificationService *service.GamificationService) *GamificationHandler {
	return &GamificationHandler{
		gamificationService: gamificationService,
	}
}

// GetConfig handles GET /v1/gamification/config - point values, levels,
// badges and rewards in effect
func (h *GamificationHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.gamificationService.Config()

	WriteData(w, http.StatusOK, map[string]interface{}{
		"points":  cfg.Points,
		"levels":  cfg.Levels,
		"badges":  cfg.Badges,
		"rewards": cfg.Rewards,
	}, map[string]string{
		"self": "/v1/gamification/config",
	})
}

// GetMyStats handles GET /v1/gamification/me - own dashboard snapshot
func (h *GamificationHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	snap, err := h.gamificationService.Snapshot(r.Context(), userID, time.Now())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, snap, map[string]string{
		"self":    "/v1/gamification/me",
		"ranking": "/v1/gamification/ranking",
		"ledger":  "/v1/gamification/ledger",
	})
}

// GetRanking handles GET /v1/gamification/ranking - full leaderboard
func (h *GamificationHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.gamificationService.Ranking(r.Context())
	if err != nil {
		WriteError(w, model.NewInternalError("failed to compute ranking"))
		return
	}

	WriteCollection(w, http.StatusOK, ranked, map[string]string{
		"self": "/v1/gamification/ranking",
	})
}

// GetLedger handles GET /v1/gamification/ledger - own point history
func (h *GamificationHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	limit := 50
	if r.URL.Query().Get("limit") != "" {
		if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	offset := 0
	if r.URL.Query().Get("offset") != "" {
		if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
			offset = o
		}
	}

	entries, err := h.gamificationService.Ledger(r.Context(), userID, limit, offset)
	if err != nil {
		WriteError(w, model.NewInternalError("failed to get point ledger"))
		return
	}

	WriteCollection(w, http.StatusOK, entries, map[string]string{
		"self": "/v1/gamification/ledger",
	})
}

// awardPointsRequest is the body of POST /v1/gamification/points
type awardPointsRequest struct {
	UserID    string            `json:"user_id"`
	Action    string            `json:"action"`
	SourceKey string            `json:"source_key,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AwardPoints handles POST /v1/gamification/points (admin only)
func (h *GamificationHandler) AwardPoints(w http.ResponseWriter, r *http.Request) {
	var req awardPointsRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	var fieldErrors []model.FieldError
	if req.UserID == "" {
		fieldErrors = append(fieldErrors, model.FieldError{Field: "user_id", Message: "required"})
	}
	if req.Action == "" {
		fieldErrors = append(fieldErrors, model.FieldError{Field: "action", Message: "required"})
	}
	if len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	tx, err := h.gamificationService.AwardPoints(r.Context(), req.UserID, model.ActionType(req.Action), req.SourceKey, req.Metadata)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, tx, nil)
}

// revokePointsRequest is the body of POST /v1/gamification/points/revoke
type revokePointsRequest struct {
	UserID string `json:"user_id"`
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// RevokePoints handles POST /v1/gamification/points/revoke (admin only)
func (h *GamificationHandler) RevokePoints(w http.ResponseWriter, r *http.Request) {
	var req revokePointsRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if req.UserID == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{{Field: "user_id", Message: "required"}}))
		return
	}

	tx, err := h.gamificationService.RevokePoints(r.Context(), req.UserID, req.Amount, req.Reason)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, tx, nil)
}

// RefreshRanks handles POST /v1/admin/gamification/refresh-ranks
func (h *GamificationHandler) RefreshRanks(w http.ResponseWriter, r *http.Request) {
	updated, err := h.gamificationService.RefreshRanks(r.Context())
	if err != nil {
		WriteError(w, model.NewInternalError("failed to refresh ranks"))
		return
	}

	WriteData(w, http.StatusOK, map[string]int{"users_ranked": updated}, nil)
}

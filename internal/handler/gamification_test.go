package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bskmt/club-api/internal/model"
	"github.com/bskmt/club-api/internal/service"
)

// ============================================================================
// Mock repositories
// ============================================================================

type mockActivityRepo struct {
	getCountersFunc     func(ctx context.Context, userID string) (*model.ActivityCounters, error)
	listAllCountersFunc func(ctx context.Context) ([]*model.ActivityCounters, error)
	updateRankFunc      func(ctx context.Context, userID string, rank int) error
}

func (m *mockActivityRepo) GetCounters(ctx context.Context, userID string) (*model.ActivityCounters, error) {
	if m.getCountersFunc != nil {
		return m.getCountersFunc(ctx, userID)
	}
	return &model.ActivityCounters{UserID: userID}, nil
}

func (m *mockActivityRepo) ListAllCounters(ctx context.Context) ([]*model.ActivityCounters, error) {
	if m.listAllCountersFunc != nil {
		return m.listAllCountersFunc(ctx)
	}
	return nil, nil
}

func (m *mockActivityRepo) UpdateRank(ctx context.Context, userID string, rank int) error {
	if m.updateRankFunc != nil {
		return m.updateRankFunc(ctx, userID, rank)
	}
	return nil
}

type mockLedgerRepo struct {
	appendFunc     func(ctx context.Context, tx *model.PointTransaction) error
	hasSourceFunc  func(ctx context.Context, userID, sourceKey string) (bool, error)
	sumBetweenFunc func(ctx context.Context, userID string, from, to time.Time) (int, error)
	listByUserFunc func(ctx context.Context, userID string, limit, offset int) ([]*model.PointTransaction, error)
}

func (m *mockLedgerRepo) Append(ctx context.Context, tx *model.PointTransaction) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, tx)
	}
	return nil
}

func (m *mockLedgerRepo) HasSource(ctx context.Context, userID, sourceKey string) (bool, error) {
	if m.hasSourceFunc != nil {
		return m.hasSourceFunc(ctx, userID, sourceKey)
	}
	return false, nil
}

func (m *mockLedgerRepo) SumBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	if m.sumBetweenFunc != nil {
		return m.sumBetweenFunc(ctx, userID, from, to)
	}
	return 0, nil
}

func (m *mockLedgerRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.PointTransaction, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, limit, offset)
	}
	return nil, nil
}

func newGamificationHandler(activity *mockActivityRepo, ledger *mockLedgerRepo, users *mockMemberReader) *GamificationHandler {
	svc := service.NewGamificationService(service.GamificationServiceConfig{
		Activity: activity,
		Ledger:   ledger,
		Users:    users,
		Config:   model.DefaultGamificationConfig(),
	})
	return NewGamificationHandler(svc)
}

// ============================================================================
// GetConfig
// ============================================================================

func TestGetConfig_ReturnsTables(t *testing.T) {
	t.Parallel()

	h := newGamificationHandler(&mockActivityRepo{}, &mockLedgerRepo{}, &mockMemberReader{})

	req := httptest.NewRequest(http.MethodGet, "/v1/gamification/config", nil)
	rec := httptest.NewRecorder()

	h.GetConfig(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Points  map[string]model.PointsRule `json:"points"`
			Levels  []model.Level               `json:"levels"`
			Rewards []model.Reward              `json:"rewards"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Data.Points["publication"].Points)
	assert.Equal(t, 100, resp.Data.Points["event_participation"].Points)
	require.NotEmpty(t, resp.Data.Levels)
	assert.Equal(t, "Aspirante", resp.Data.Levels[0].Name)
	assert.NotEmpty(t, resp.Data.Rewards)
}

// ============================================================================
// GetMyStats
// ============================================================================

func TestGetMyStats_RequiresAuth(t *testing.T) {
	t.Parallel()

	h := newGamificationHandler(&mockActivityRepo{}, &mockLedgerRepo{}, &mockMemberReader{})

	req := httptest.NewRequest(http.MethodGet, "/v1/gamification/me", nil)
	rec := httptest.NewRecorder()

	h.GetMyStats(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetMyStats_ReturnsSnapshot(t *testing.T) {
	t.Parallel()

	counters := &model.ActivityCounters{
		UserID:       "user:maria",
		Publications: 3,
		Comments:     5,
	}

	h := newGamificationHandler(&mockActivityRepo{
		getCountersFunc: func(ctx context.Context, userID string) (*model.ActivityCounters, error) {
			return counters, nil
		},
		listAllCountersFunc: func(ctx context.Context) ([]*model.ActivityCounters, error) {
			return []*model.ActivityCounters{counters}, nil
		},
	}, &mockLedgerRepo{}, &mockMemberReader{})

	req := httptest.NewRequest(http.MethodGet, "/v1/gamification/me", nil)
	req = withUserContext(req, "user:maria")
	rec := httptest.NewRecorder()

	h.GetMyStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data model.StatsSnapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// 3 publications x 10 + 5 comments x 2
	assert.Equal(t, 40, resp.Data.Breakdown.Total)
	assert.Equal(t, "Aspirante", resp.Data.Level.Current.Name)
	assert.Equal(t, 1, resp.Data.Ranking.Position)
}

// ============================================================================
// AwardPoints
// ============================================================================

func TestAwardPoints_Created(t *testing.T) {
	t.Parallel()

	h := newGamificationHandler(&mockActivityRepo{}, &mockLedgerRepo{}, &mockMemberReader{})

	body, _ := json.Marshal(map[string]string{
		"user_id":    "user:maria",
		"action":     "event_participation",
		"source_key": "event:ride42",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/gamification/points", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.AwardPoints(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data model.PointTransaction `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp.Data.Amount)
	assert.Equal(t, model.TransactionEarn, resp.Data.Type)
}

func TestAwardPoints_MissingFields(t *testing.T) {
	t.Parallel()

	h := newGamificationHandler(&mockActivityRepo{}, &mockLedgerRepo{}, &mockMemberReader{})

	body, _ := json.Marshal(map[string]string{"action": "publication"})
	req := httptest.NewRequest(http.MethodPost, "/v1/gamification/points", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.AwardPoints(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem := parseErrorResponse(t, rec.Body.Bytes())
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "user_id", problem.Errors[0].Field)
}

func TestAwardPoints_UnknownAction(t *testing.T) {
	t.Parallel()

	h := newGamificationHandler(&mockActivityRepo{}, &mockLedgerRepo{}, &mockMemberReader{})

	body, _ := json.Marshal(map[string]string{
		"user_id": "user:maria",
		"action":  "time_travel",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/gamification/points", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.AwardPoints(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// RevokePoints
// ============================================================================

func TestRevokePoints_Created(t *testing.T) {
	t.Parallel()

	h := newGamificationHandler(&mockActivityRepo{}, &mockLedgerRepo{}, &mockMemberReader{})

	body, _ := json.Marshal(map[string]interface{}{
		"user_id": "user:maria",
		"amount":  50,
		"reason":  "event registration refunded",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/gamification/points/revoke", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.RevokePoints(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data model.PointTransaction `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, -50, resp.Data.Amount)
	assert.Equal(t, model.TransactionPenalty, resp.Data.Type)
}

func TestRevokePoints_InvalidAmount(t *testing.T) {
	t.Parallel()

	h := newGamificationHandler(&mockActivityRepo{}, &mockLedgerRepo{}, &mockMemberReader{})

	body, _ := json.Marshal(map[string]interface{}{
		"user_id": "user:maria",
		"amount":  0,
		"reason":  "nothing",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/gamification/points/revoke", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.RevokePoints(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// GetLedger
// ============================================================================

func TestGetLedger_ClampsLimit(t *testing.T) {
	t.Parallel()

	var gotLimit int
	h := newGamificationHandler(&mockActivityRepo{}, &mockLedgerRepo{
		listByUserFunc: func(ctx context.Context, userID string, limit, offset int) ([]*model.PointTransaction, error) {
			gotLimit = limit
			return nil, nil
		},
	}, &mockMemberReader{})

	req := httptest.NewRequest(http.MethodGet, "/v1/gamification/ledger?limit=9999", nil)
	req = withUserContext(req, "user:maria")
	rec := httptest.NewRecorder()

	h.GetLedger(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, gotLimit)
}

// ============================================================================
// RefreshRanks
// ============================================================================

func TestRefreshRanks_ReportsCount(t *testing.T) {
	t.Parallel()

	h := newGamificationHandler(&mockActivityRepo{
		listAllCountersFunc: func(ctx context.Context) ([]*model.ActivityCounters, error) {
			return []*model.ActivityCounters{
				{UserID: "user:a", Publications: 2},
				{UserID: "user:b", Publications: 1},
			}, nil
		},
	}, &mockLedgerRepo{}, &mockMemberReader{})

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/gamification/refresh-ranks", nil)
	rec := httptest.NewRecorder()

	h.RefreshRanks(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data["users_ranked"])
}

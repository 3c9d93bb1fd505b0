package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bskmt/club-api/internal/model"
	"github.com/bskmt/club-api/internal/repository"
)

// ============================================================================
// Mock Repositories
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

	appended []*model.PointTransaction
}

func (m *mockLedgerRepo) Append(ctx context.Context, tx *model.PointTransaction) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, tx)
	}
	m.appended = append(m.appended, tx)
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

func newGamificationService(activity *mockActivityRepo, ledger *mockLedgerRepo, users *mockMemberReader) *GamificationService {
	if activity == nil {
		activity = &mockActivityRepo{}
	}
	if ledger == nil {
		ledger = &mockLedgerRepo{}
	}
	if users == nil {
		users = &mockMemberReader{}
	}
	return NewGamificationService(GamificationServiceConfig{
		Activity: activity,
		Ledger:   ledger,
		Users:    users,
		Config:   model.DefaultGamificationConfig(),
	})
}

// ============================================================================
// ComputePoints Tests
// ============================================================================

func TestComputePoints_SumsCounterCategories(t *testing.T) {
	t.Parallel()

	counters := model.ActivityCounters{
		Publications:      3,  // 3 * 10 = 30
		Comments:          5,  // 5 * 2 = 10
		ReactionsReceived: 12, // 12 * 1 = 12
		EventsAttended:    2,  // 2 * 100 = 200
		EventsHosted:      1,  // 1 * 500 = 500
	}

	breakdown := ComputePoints(model.DefaultPointsTable(), counters)

	if breakdown.Total != 752 {
		t.Errorf("expected 752 total points, got %d", breakdown.Total)
	}
	if breakdown.Categories[model.ActionEventHosted] != 500 {
		t.Errorf("expected 500 hosting points, got %d", breakdown.Categories[model.ActionEventHosted])
	}
	if breakdown.Categories[model.ActionComment] != 10 {
		t.Errorf("expected 10 comment points, got %d", breakdown.Categories[model.ActionComment])
	}
}

func TestComputePoints_EmptyCounters(t *testing.T) {
	t.Parallel()

	breakdown := ComputePoints(model.DefaultPointsTable(), model.ActivityCounters{})

	if breakdown.Total != 0 {
		t.Errorf("expected 0 total points, got %d", breakdown.Total)
	}
	if len(breakdown.Categories) != 0 {
		t.Errorf("expected no categories, got %v", breakdown.Categories)
	}
}

// ============================================================================
// ResolveLevel Tests
// ============================================================================

func TestResolveLevel_KnownPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		points int
		level  string
	}{
		{0, "Aspirante"},
		{249, "Aspirante"},
		{250, "Explorador"},
		{1000, "Friend"},
		{1499, "Friend"},
		{1500, "Rider"},
		{9000, "Legend"},
		{45000, "Leader"},
	}

	levels := model.DefaultLevels()
	for _, tt := range tests {
		standing := ResolveLevel(levels, tt.points)
		if standing.Current.Name != tt.level {
			t.Errorf("points %d: expected level %q, got %q", tt.points, tt.level, standing.Current.Name)
		}
	}
}

func TestResolveLevel_Progress(t *testing.T) {
	t.Parallel()

	levels := model.DefaultLevels()

	// Friend (1000) to Rider (1500): 1250 is halfway
	standing := ResolveLevel(levels, 1250)
	if standing.Progress != 50 {
		t.Errorf("expected 50%% progress, got %d", standing.Progress)
	}
	if standing.Next == nil || standing.Next.Name != "Rider" {
		t.Errorf("expected next level Rider, got %+v", standing.Next)
	}

	// Top level has no next and full progress
	standing = ResolveLevel(levels, 100000)
	if standing.Next != nil {
		t.Errorf("expected no next level at the top, got %+v", standing.Next)
	}
	if standing.Progress != 100 {
		t.Errorf("expected 100%% progress at the top, got %d", standing.Progress)
	}
}

// ============================================================================
// ComputeRanking Tests
// ============================================================================

func TestComputeRanking_TiesGetDistinctPositions(t *testing.T) {
	t.Parallel()

	base := day(2024, time.January, 1)
	entries := []RankEntry{
		{UserID: "user:a", Points: 500, CreatedOn: base},
		{UserID: "user:b", Points: 900, CreatedOn: base},
		{UserID: "user:c", Points: 900, CreatedOn: base.AddDate(0, 0, 1)},
		{UserID: "user:d", Points: 100, CreatedOn: base},
	}

	ranked := ComputeRanking(entries)

	if len(ranked) != 4 {
		t.Fatalf("expected 4 ranked users, got %d", len(ranked))
	}
	// b and c tie on points; b takes position 1 by seniority, c gets 2
	want := []struct {
		userID   string
		position int
	}{
		{"user:b", 1},
		{"user:c", 2},
		{"user:a", 3},
		{"user:d", 4},
	}
	for i, w := range want {
		if ranked[i].UserID != w.userID || ranked[i].Position != w.position {
			t.Errorf("expected %s at position %d, got %s at %d",
				w.userID, w.position, ranked[i].UserID, ranked[i].Position)
		}
	}
}

func TestComputeRanking_DeterministicAcrossInputOrder(t *testing.T) {
	t.Parallel()

	base := day(2024, time.January, 1)
	entries := []RankEntry{
		{UserID: "user:a", Points: 500, CreatedOn: base},
		{UserID: "user:b", Points: 900, CreatedOn: base},
		{UserID: "user:c", Points: 900, CreatedOn: base.AddDate(0, 0, 1)},
		{UserID: "user:d", Points: 100, CreatedOn: base},
	}
	reversed := []RankEntry{entries[3], entries[2], entries[1], entries[0]}

	first := ComputeRanking(entries)
	second := ComputeRanking(reversed)

	if len(first) != len(second) {
		t.Fatalf("expected equal lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d differs across input orders: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestComputeRanking_TieBrokenByIDWhenSameAge(t *testing.T) {
	t.Parallel()

	base := day(2024, time.January, 1)
	entries := []RankEntry{
		{UserID: "user:z", Points: 100, CreatedOn: base},
		{UserID: "user:a", Points: 100, CreatedOn: base},
	}

	ranked := ComputeRanking(entries)
	if ranked[0].UserID != "user:a" {
		t.Errorf("expected user:a first on ID tiebreak, got %s", ranked[0].UserID)
	}
}

func TestComputeRanking_Percentile(t *testing.T) {
	t.Parallel()

	base := day(2024, time.January, 1)
	entries := []RankEntry{
		{UserID: "user:a", Points: 300, CreatedOn: base},
		{UserID: "user:b", Points: 200, CreatedOn: base},
		{UserID: "user:c", Points: 100, CreatedOn: base},
		{UserID: "user:d", Points: 50, CreatedOn: base},
	}

	ranked := ComputeRanking(entries)

	// position 1 of 4: (4-1)/4*100 = 75
	if ranked[0].Percentile != 75 {
		t.Errorf("expected 75th percentile for the leader, got %v", ranked[0].Percentile)
	}
	// position 4 of 4: 0
	if ranked[3].Percentile != 0 {
		t.Errorf("expected 0 percentile for the last, got %v", ranked[3].Percentile)
	}

	// A tie on points still yields the percentile of the assigned position.
	entries[1].Points = 300
	ranked = ComputeRanking(entries)

	if ranked[1].UserID != "user:b" {
		t.Fatalf("expected user:b at second place, got %s", ranked[1].UserID)
	}
	// position 2 of 4: (4-2)/4*100 = 50
	if ranked[1].Percentile != 50 {
		t.Errorf("expected 50th percentile for the tied second, got %v", ranked[1].Percentile)
	}
}

func TestComputeRanking_PointsToNext(t *testing.T) {
	t.Parallel()

	base := day(2024, time.January, 1)
	entries := []RankEntry{
		{UserID: "user:a", Points: 300, CreatedOn: base},
		{UserID: "user:b", Points: 120, CreatedOn: base},
	}

	ranked := ComputeRanking(entries)

	if ranked[0].PointsToNext != 0 {
		t.Errorf("leader should have 0 points to next, got %d", ranked[0].PointsToNext)
	}
	if ranked[1].PointsToNext != 180 {
		t.Errorf("expected 180 points to next, got %d", ranked[1].PointsToNext)
	}
}

func TestComputeRanking_Empty(t *testing.T) {
	t.Parallel()

	ranked := ComputeRanking(nil)
	if len(ranked) != 0 {
		t.Errorf("expected empty ranking, got %d entries", len(ranked))
	}
}

// ============================================================================
// AwardPoints Tests
// ============================================================================

func TestAwardPoints_UsesConfiguredTable(t *testing.T) {
	t.Parallel()

	ledger := &mockLedgerRepo{}
	svc := newGamificationService(nil, ledger, nil)

	tx, err := svc.AwardPoints(context.Background(), "user:1", model.ActionEventParticipation, "event:ride42", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Amount != 100 {
		t.Errorf("expected 100 points, got %d", tx.Amount)
	}
	if tx.Type != model.TransactionEarn {
		t.Errorf("expected earn transaction, got %v", tx.Type)
	}
	if len(ledger.appended) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(ledger.appended))
	}
	if ledger.appended[0].SourceKey != "event:ride42" {
		t.Errorf("expected source key to pass through, got %q", ledger.appended[0].SourceKey)
	}
}

func TestAwardPoints_UnknownAction(t *testing.T) {
	t.Parallel()

	svc := newGamificationService(nil, nil, nil)

	_, err := svc.AwardPoints(context.Background(), "user:1", model.ActionType("jaywalking"), "", nil)
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestAwardPoints_IdempotentPerSource(t *testing.T) {
	t.Parallel()

	ledger := &mockLedgerRepo{
		appendFunc: func(ctx context.Context, tx *model.PointTransaction) error {
			return repository.ErrAlreadyRecorded
		},
	}
	svc := newGamificationService(nil, ledger, nil)

	_, err := svc.AwardPoints(context.Background(), "user:1", model.ActionEventParticipation, "event:ride42", nil)
	if !errors.Is(err, ErrAlreadyAwarded) {
		t.Errorf("expected ErrAlreadyAwarded, got %v", err)
	}
}

func TestAwardPoints_UnknownUser(t *testing.T) {
	t.Parallel()

	users := &mockMemberReader{
		getByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return nil, errors.New("not found")
		},
	}
	svc := newGamificationService(nil, nil, users)

	_, err := svc.AwardPoints(context.Background(), "user:ghost", model.ActionComment, "", nil)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

// ============================================================================
// RevokePoints Tests
// ============================================================================

func TestRevokePoints_WritesNegativePenalty(t *testing.T) {
	t.Parallel()

	ledger := &mockLedgerRepo{}
	svc := newGamificationService(nil, ledger, nil)

	tx, err := svc.RevokePoints(context.Background(), "user:1", 100, "event attendance reversed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Amount != -100 {
		t.Errorf("expected amount -100, got %d", tx.Amount)
	}
	if tx.Type != model.TransactionPenalty {
		t.Errorf("expected penalty transaction, got %v", tx.Type)
	}
}

func TestRevokePoints_RejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	svc := newGamificationService(nil, nil, nil)

	for _, amount := range []int{0, -5} {
		if _, err := svc.RevokePoints(context.Background(), "user:1", amount, "x"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

// ============================================================================
// RefreshRanks Tests
// ============================================================================

func TestRefreshRanks_PersistsPositions(t *testing.T) {
	t.Parallel()

	base := day(2024, time.January, 1)
	activity := &mockActivityRepo{
		listAllCountersFunc: func(ctx context.Context) ([]*model.ActivityCounters, error) {
			return []*model.ActivityCounters{
				{UserID: "user:a", EventsAttended: 5, CreatedOn: base},
				{UserID: "user:b", EventsAttended: 2, CreatedOn: base},
			}, nil
		},
	}
	ranks := make(map[string]int)
	activity.updateRankFunc = func(ctx context.Context, userID string, rank int) error {
		ranks[userID] = rank
		return nil
	}
	svc := newGamificationService(activity, nil, nil)

	updated, err := svc.RefreshRanks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 2 {
		t.Errorf("expected 2 users ranked, got %d", updated)
	}
	if ranks["user:a"] != 1 || ranks["user:b"] != 2 {
		t.Errorf("unexpected ranks: %v", ranks)
	}
}

// ============================================================================
// Snapshot Tests
// ============================================================================

func TestSnapshot_AssemblesDashboard(t *testing.T) {
	t.Parallel()

	base := day(2024, time.January, 1)
	counters := &model.ActivityCounters{
		UserID:           "user:1",
		Publications:     10, // 100
		Comments:         25, // 50
		EventsAttended:   12, // 1200
		EventsRegistered: 12,
		EventsHosted:     1, // 500
		CurrentStreak:    4,
		BestStreak:       9,
		CurrentRank:      3,
		CreatedOn:        base,
	}
	activity := &mockActivityRepo{
		getCountersFunc: func(ctx context.Context, userID string) (*model.ActivityCounters, error) {
			return counters, nil
		},
		listAllCountersFunc: func(ctx context.Context) ([]*model.ActivityCounters, error) {
			return []*model.ActivityCounters{
				counters,
				{UserID: "user:2", EventsHosted: 10, CreatedOn: base}, // 5000
			}, nil
		},
	}
	ledger := &mockLedgerRepo{
		sumBetweenFunc: func(ctx context.Context, userID string, from, to time.Time) (int, error) {
			return 42, nil
		},
	}
	svc := newGamificationService(activity, ledger, nil)

	snap, err := svc.Snapshot(context.Background(), "user:1", day(2024, time.June, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Stats.TotalPoints != 1850 {
		t.Errorf("expected 1850 total points, got %d", snap.Stats.TotalPoints)
	}
	if snap.Stats.Level != "Rider" {
		t.Errorf("expected Rider level, got %q", snap.Stats.Level)
	}
	if snap.Stats.NextLevelPoints != 1150 {
		t.Errorf("expected 1150 points to next level, got %d", snap.Stats.NextLevelPoints)
	}
	if snap.Stats.ParticipationScore != 100 {
		t.Errorf("expected 100 participation score, got %d", snap.Stats.ParticipationScore)
	}
	if snap.Ranking.Position != 2 || snap.Ranking.TotalUsers != 2 {
		t.Errorf("expected position 2 of 2, got %d of %d", snap.Ranking.Position, snap.Ranking.TotalUsers)
	}
	// Was rank 3, now 2
	if snap.Ranking.Change != 1 {
		t.Errorf("expected rank change +1, got %d", snap.Ranking.Change)
	}
	if snap.Stats.PointsToday != 42 || snap.Stats.PointsThisYear != 42 {
		t.Errorf("expected ledger sums to flow through, got today=%d year=%d",
			snap.Stats.PointsToday, snap.Stats.PointsThisYear)
	}

	// 12 events attended of 12 registered unlocks the event and
	// participation milestones
	ids := make(map[string]bool)
	for _, a := range snap.Stats.Achievements {
		ids[a.ID] = true
	}
	for _, want := range []string{"first_event", "event_veteran", "perfect_attendance", "consistent_member"} {
		if !ids[want] {
			t.Errorf("expected achievement %q unlocked, have %v", want, ids)
		}
	}

	// Rewards above 1850 points, cheapest first
	if len(snap.NextRewards) != 3 {
		t.Fatalf("expected 3 next rewards, got %d", len(snap.NextRewards))
	}
	if snap.NextRewards[0].CostPoints != 3000 {
		t.Errorf("expected cheapest unreached reward at 3000, got %d", snap.NextRewards[0].CostPoints)
	}
}

func TestSnapshot_UnknownUser(t *testing.T) {
	t.Parallel()

	users := &mockMemberReader{
		getByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return nil, errors.New("not found")
		},
	}
	svc := newGamificationService(nil, nil, users)

	_, err := svc.Snapshot(context.Background(), "user:ghost", day(2024, time.June, 15))
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

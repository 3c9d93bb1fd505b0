package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/bskmt/club-api/internal/model"
	"github.com/bskmt/club-api/internal/repository"
)

// ActivityRepository defines the interface for activity counter storage
type ActivityRepository interface {
	GetCounters(ctx context.Context, userID string) (*model.ActivityCounters, error)
	ListAllCounters(ctx context.Context) ([]*model.ActivityCounters, error)
	UpdateRank(ctx context.Context, userID string, rank int) error
}

// LedgerRepository defines the interface for the point transaction ledger
type LedgerRepository interface {
	Append(ctx context.Context, tx *model.PointTransaction) error
	HasSource(ctx context.Context, userID, sourceKey string) (bool, error)
	SumBetween(ctx context.Context, userID string, from, to time.Time) (int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.PointTransaction, error)
}

// GamificationService computes points, levels, rankings and the member
// dashboard snapshot
type GamificationService struct {
	activity ActivityRepository
	ledger   LedgerRepository
	users    MemberReader
	cfg      model.GamificationConfig
}

// GamificationServiceConfig holds configuration for the gamification service
type GamificationServiceConfig struct {
	Activity ActivityRepository
	Ledger   LedgerRepository
	Users    MemberReader
	Config   model.GamificationConfig
}

// NewGamificationService creates a new gamification service
func NewGamificationService(cfg GamificationServiceConfig) *GamificationService {
	return &GamificationService{
		activity: cfg.Activity,
		ledger:   cfg.Ledger,
		users:    cfg.Users,
		cfg:      cfg.Config,
	}
}

// Config returns the point, level, badge and reward tables in effect
func (s *GamificationService) Config() model.GamificationConfig {
	return s.cfg
}

// ComputePoints decomposes activity counters into per-category points using
// the given table. Only counter-backed actions contribute; manual awards
// live in the ledger instead.
func ComputePoints(table model.PointsTable, c model.ActivityCounters) model.PointsBreakdown {
	counts := map[model.ActionType]int{
		model.ActionPublication:        c.Publications,
		model.ActionComment:            c.Comments,
		model.ActionReactionReceived:   c.ReactionsReceived,
		model.ActionEventParticipation: c.EventsAttended,
		model.ActionEventHosted:        c.EventsHosted,
	}

	breakdown := model.PointsBreakdown{Categories: make(map[model.ActionType]int)}
	for action, count := range counts {
		rule, ok := table[action]
		if !ok || count == 0 {
			continue
		}
		points := rule.Points * count
		breakdown.Categories[action] = points
		breakdown.Total += points
	}
	return breakdown
}

// ResolveLevel finds the level a point total sits in and the progress toward
// the next one. Progress is 100 at the top level.
func ResolveLevel(levels model.Levels, points int) model.LevelStanding {
	if len(levels) == 0 {
		return model.LevelStanding{Progress: 100}
	}

	idx := 0
	for i, l := range levels {
		if points >= l.MinPoints {
			idx = i
		}
	}

	standing := model.LevelStanding{Current: levels[idx], Progress: 100}
	if idx+1 < len(levels) {
		next := levels[idx+1]
		standing.Next = &next

		span := next.MinPoints - levels[idx].MinPoints
		if span > 0 {
			standing.Progress = (points - levels[idx].MinPoints) * 100 / span
		}
	}
	return standing
}

// RankEntry is one competitor in a ranking computation
type RankEntry struct {
	UserID    string
	Points    int
	CreatedOn time.Time
}

// ComputeRanking orders entries by points (ties broken by seniority then ID)
// and assigns strictly increasing 1-based positions: tied totals are ordered
// by the tie-break key, never sharing a rank, so the same input always yields
// the same positions. Percentile is the share of users below the position.
func ComputeRanking(entries []RankEntry) []model.RankedUser {
	sorted := make([]RankEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		if !sorted[i].CreatedOn.Equal(sorted[j].CreatedOn) {
			return sorted[i].CreatedOn.Before(sorted[j].CreatedOn)
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	total := len(sorted)
	ranked := make([]model.RankedUser, 0, total)

	for i, e := range sorted {
		position := i + 1
		ru := model.RankedUser{
			UserID:     e.UserID,
			Points:     e.Points,
			Position:   position,
			Percentile: float64(total-position) / float64(total) * 100,
		}

		// Distance to the nearest strictly better total
		for j := i - 1; j >= 0; j-- {
			if sorted[j].Points > e.Points {
				ru.PointsToNext = sorted[j].Points - e.Points
				break
			}
		}

		ranked = append(ranked, ru)
	}
	return ranked
}

// AwardPoints records a point award for an action. The source key makes the
// award idempotent: a second award for the same (user, source) returns
// ErrAlreadyAwarded.
func (s *GamificationService) AwardPoints(ctx context.Context, userID string, action model.ActionType, sourceKey string, metadata map[string]string) (*model.PointTransaction, error) {
	rule, ok := s.cfg.Points[action]
	if !ok {
		return nil, ErrUnknownAction
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}

	tx := &model.PointTransaction{
		UserID:    userID,
		Type:      model.TransactionEarn,
		Amount:    rule.Points,
		Reason:    rule.Description,
		SourceKey: sourceKey,
		Metadata:  metadata,
	}

	if err := s.ledger.Append(ctx, tx); err != nil {
		if errors.Is(err, repository.ErrAlreadyRecorded) {
			return nil, ErrAlreadyAwarded
		}
		return nil, err
	}
	return tx, nil
}

// RevokePoints records a penalty transaction reversing a prior award
func (s *GamificationService) RevokePoints(ctx context.Context, userID string, amount int, reason string) (*model.PointTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}

	tx := &model.PointTransaction{
		UserID: userID,
		Type:   model.TransactionPenalty,
		Amount: -amount,
		Reason: reason,
	}

	if err := s.ledger.Append(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Ledger returns a user's recent point transactions
func (s *GamificationService) Ledger(ctx context.Context, userID string, limit, offset int) ([]*model.PointTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.ledger.ListByUser(ctx, userID, limit, offset)
}

// Ranking computes the full leaderboard from current activity counters
func (s *GamificationService) Ranking(ctx context.Context) ([]model.RankedUser, error) {
	counters, err := s.activity.ListAllCounters(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]RankEntry, 0, len(counters))
	for _, c := range counters {
		entries = append(entries, RankEntry{
			UserID:    c.UserID,
			Points:    ComputePoints(s.cfg.Points, *c).Total,
			CreatedOn: c.CreatedOn,
		})
	}
	return ComputeRanking(entries), nil
}

// RefreshRanks recomputes the leaderboard and persists every user's
// position. Returns the number of users ranked.
func (s *GamificationService) RefreshRanks(ctx context.Context) (int, error) {
	ranked, err := s.Ranking(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, ru := range ranked {
		if err := s.activity.UpdateRank(ctx, ru.UserID, ru.Position); err != nil {
			continue
		}
		updated++
	}
	return updated, nil
}

// Snapshot assembles the dashboard view for one user at the given instant
func (s *GamificationService) Snapshot(ctx context.Context, userID string, now time.Time) (*model.StatsSnapshot, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}

	counters, err := s.activity.GetCounters(ctx, userID)
	if err != nil {
		return nil, err
	}

	breakdown := ComputePoints(s.cfg.Points, *counters)
	standing := ResolveLevel(s.cfg.Levels, breakdown.Total)

	unlocked := make([]model.Achievement, 0)
	for _, a := range model.Achievements() {
		if a.Condition != nil && a.Condition(*counters) {
			unlocked = append(unlocked, a)
		}
	}

	ranked, err := s.Ranking(ctx)
	if err != nil {
		return nil, err
	}
	view := model.RankingView{TotalUsers: len(ranked)}
	for _, ru := range ranked {
		if ru.UserID == userID {
			view.Position = ru.Position
			view.Percentile = ru.Percentile
			view.PointsToNext = ru.PointsToNext
			if counters.CurrentRank > 0 {
				view.Change = counters.CurrentRank - ru.Position
			}
			break
		}
	}

	day := dateOnly(now)
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	endOfDay := day.AddDate(0, 0, 1)

	pointsToday, err := s.ledger.SumBetween(ctx, userID, day, endOfDay)
	if err != nil {
		return nil, err
	}
	pointsMonth, err := s.ledger.SumBetween(ctx, userID, monthStart, endOfDay)
	if err != nil {
		return nil, err
	}
	pointsYear, err := s.ledger.SumBetween(ctx, userID, yearStart, endOfDay)
	if err != nil {
		return nil, err
	}

	nextLevelPoints := 0
	if standing.Next != nil {
		nextLevelPoints = standing.Next.MinPoints - breakdown.Total
	}

	return &model.StatsSnapshot{
		Stats: model.SnapshotStats{
			ParticipationScore: counters.ParticipationScore(),
			TotalPoints:        breakdown.Total,
			UserRank:           view.Position,
			TotalUsers:         view.TotalUsers,
			Level:              standing.Current.Name,
			NextLevelPoints:    nextLevelPoints,
			LevelProgress:      standing.Progress,
			CurrentStreak:      counters.CurrentStreak,
			BestStreak:         counters.BestStreak,
			PointsToday:        pointsToday,
			PointsThisMonth:    pointsMonth,
			PointsThisYear:     pointsYear,
			Achievements:       unlocked,
		},
		Breakdown:   breakdown,
		Level:       standing,
		Ranking:     view,
		NextRewards: s.nextRewards(breakdown.Total),
	}, nil
}

// nextRewards returns the three cheapest rewards still out of reach
func (s *GamificationService) nextRewards(points int) []model.Reward {
	candidates := make([]model.Reward, 0)
	for _, r := range s.cfg.Rewards {
		if r.CostPoints > points {
			candidates = append(candidates, r)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CostPoints < candidates[j].CostPoints
	})
	if len(candidates) > 3 {
		candidates = candidates[:3]
	}
	return candidates
}

package repository

import (
	"context"
	"errors"

	"github.com/bskmt/club-api/internal/database"
	"github.com/bskmt/club-api/internal/model"
)

// ActivityRepository reads the per-user activity counters maintained by the
// community event logger and writes back computed ranks
type ActivityRepository struct {
	db database.Database
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db database.Database) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// GetCounters retrieves one user's activity counters.
// Returns zeroed counters when the user has no activity row yet.
func (r *ActivityRepository) GetCounters(ctx context.Context, userID string) (*model.ActivityCounters, error) {
	query := `SELECT * FROM user_activity WHERE user = type::record($user_id)`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return &model.ActivityCounters{UserID: userID}, nil
		}
		return nil, err
	}

	return parseCounters(result)
}

// ListAllCounters retrieves every user's activity counters, for the
// leaderboard computation
func (r *ActivityRepository) ListAllCounters(ctx context.Context) ([]*model.ActivityCounters, error) {
	query := `SELECT * FROM user_activity ORDER BY created_on`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	counters := make([]*model.ActivityCounters, 0)
	for _, data := range rows(result) {
		c, err := parseCountersData(data)
		if err != nil {
			continue
		}
		counters = append(counters, c)
	}
	return counters, nil
}

// UpdateRank stores a user's computed leaderboard position, keeping the
// best rank ever reached
func (r *ActivityRepository) UpdateRank(ctx context.Context, userID string, rank int) error {
	query := `
		UPDATE user_activity SET
			current_rank = $rank,
			best_rank = math::min([best_rank, $rank]),
			updated_on = time::now()
		WHERE user = type::record($user_id)
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"rank":    rank,
	}

	return r.db.Execute(ctx, query, vars)
}

func parseCounters(result interface{}) (*model.ActivityCounters, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}
	return parseCountersData(data)
}

func parseCountersData(data map[string]interface{}) (*model.ActivityCounters, error) {
	c := &model.ActivityCounters{
		UserID:                convertSurrealID(data["user"]),
		Publications:          getInt(data, "publications"),
		Comments:              getInt(data, "comments"),
		ReactionsReceived:     getInt(data, "reactions_received"),
		EventsAttended:        getInt(data, "events_attended"),
		EventsRegistered:      getInt(data, "events_registered"),
		EventsHosted:          getInt(data, "events_hosted"),
		MonthlyEventsAttended: getInt(data, "monthly_events_attended"),
		CurrentStreak:         getInt(data, "current_streak"),
		BestStreak:            getInt(data, "best_streak"),
		ActiveDays:            getInt(data, "active_days"),
		CurrentRank:           getInt(data, "current_rank"),
		BestRank:              getInt(data, "best_rank"),
	}

	if t := getTime(data, "last_login"); t != nil {
		c.LastLogin = *t
	}
	if t := getTime(data, "created_on"); t != nil {
		c.CreatedOn = *t
	}

	return c, nil
}

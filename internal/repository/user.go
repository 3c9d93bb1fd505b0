package repository

import (
	"context"
	"errors"

	"github.com/bskmt/club-api/internal/database"
	"github.com/bskmt/club-api/internal/model"
)

// UserRepository handles member account data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by record ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM user WHERE id = type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseUser(result)
}

// ListByMembership retrieves the active users enrolled in a membership.
// The renewal pass notifies exactly this set.
func (r *UserRepository) ListByMembership(ctx context.Context, membershipID string) ([]*model.User, error) {
	query := `
		SELECT * FROM user
		WHERE membership = type::record($membership_id)
		AND active = true
		ORDER BY created_on
	`
	vars := map[string]interface{}{"membership_id": membershipID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0)
	for _, data := range rows(result) {
		u, err := parseUserData(data)
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func parseUser(result interface{}) (*model.User, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}
	return parseUserData(data)
}

func parseUserData(data map[string]interface{}) (*model.User, error) {
	u := &model.User{
		ID:           convertSurrealID(data["id"]),
		FirstName:    getString(data, "first_name"),
		LastName:     getString(data, "last_name"),
		Email:        getString(data, "email"),
		Phone:        getString(data, "phone"),
		MembershipID: convertSurrealID(data["membership"]),
		Active:       getBool(data, "active"),
	}

	if t := getTime(data, "created_on"); t != nil {
		u.CreatedOn = *t
	}

	return u, nil
}

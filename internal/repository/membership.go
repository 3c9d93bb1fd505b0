package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bskmt/club-api/internal/database"
	"github.com/bskmt/club-api/internal/model"
)

// MembershipRepository handles membership plan data access
type MembershipRepository struct {
	db database.Database
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db database.Database) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// GetByID retrieves a membership by its record ID
func (r *MembershipRepository) GetByID(ctx context.Context, id string) (*model.Membership, error) {
	query := `SELECT * FROM membership WHERE id = type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseMembership(result)
}

// List retrieves all memberships
func (r *MembershipRepository) List(ctx context.Context) ([]*model.Membership, error) {
	query := `SELECT * FROM membership ORDER BY name`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	memberships := make([]*model.Membership, 0)
	for _, data := range rows(result) {
		m, err := parseMembershipData(data)
		if err != nil {
			continue
		}
		memberships = append(memberships, m)
	}
	return memberships, nil
}

// ListDueForRenewal retrieves active renewable memberships whose renewal
// window is open or whose period has lapsed as of the given instant
func (r *MembershipRepository) ListDueForRenewal(ctx context.Context, now time.Time) ([]*model.Membership, error) {
	query := `
		SELECT * FROM membership
		WHERE status = 'active'
		AND requires_renewal = true
		AND auto_renewal.enabled = true
		AND is_lifetime = false
		AND period.renewal_start <= $now
		ORDER BY period.renewal_deadline
	`
	vars := map[string]interface{}{"now": now.UTC().Format(time.RFC3339)}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	memberships := make([]*model.Membership, 0)
	for _, data := range rows(result) {
		m, err := parseMembershipData(data)
		if err != nil {
			continue
		}
		memberships = append(memberships, m)
	}
	return memberships, nil
}

// UpdatePeriod writes a new period onto a membership and stamps the
// transition time
func (r *MembershipRepository) UpdatePeriod(ctx context.Context, id string, period model.Period, transitionAt time.Time) error {
	query := `
		UPDATE membership SET
			period.start = $start,
			period.end = $end,
			period.renewal_start = $renewal_start,
			period.renewal_deadline = $renewal_deadline,
			last_transition_at = $transition_at,
			updated_on = time::now()
		WHERE id = type::record($id)
	`
	vars := map[string]interface{}{
		"id":               id,
		"start":            period.Start.UTC().Format(time.RFC3339),
		"end":              period.End.UTC().Format(time.RFC3339),
		"renewal_start":    period.RenewalStart.UTC().Format(time.RFC3339),
		"renewal_deadline": period.RenewalDeadline.UTC().Format(time.RFC3339),
		"transition_at":    transitionAt.UTC().Format(time.RFC3339),
	}

	return r.db.Execute(ctx, query, vars)
}

// RecordRenewal atomically writes a renewal record for a user and bumps the
// membership member count. Both statements commit together or not at all.
func (r *MembershipRepository) RecordRenewal(ctx context.Context, userID, membershipID string, renewedUntil time.Time) error {
	return WithTransaction(ctx, r.db, func(tx database.Transaction) error {
		if err := tx.Execute(ctx, `
			CREATE membership_renewal CONTENT {
				user: type::record($user_id),
				membership: type::record($membership_id),
				renewed_until: $renewed_until,
				created_on: time::now()
			}
		`, map[string]interface{}{
			"user_id":       userID,
			"membership_id": membershipID,
			"renewed_until": renewedUntil.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}

		return tx.Execute(ctx, `
			UPDATE user SET
				membership_renewed_until = $renewed_until,
				updated_on = time::now()
			WHERE id = type::record($user_id)
		`, map[string]interface{}{
			"user_id":       userID,
			"renewed_until": renewedUntil.UTC().Format(time.RFC3339),
		})
	})
}

// CountRenewalsSince counts renewals recorded for a membership after the
// given instant. Used to enforce the capacity limit during a renewal window.
func (r *MembershipRepository) CountRenewalsSince(ctx context.Context, membershipID string, since time.Time) (int, error) {
	query := `
		SELECT count() as count FROM membership_renewal
		WHERE membership = type::record($membership_id)
		AND created_on >= $since
		GROUP ALL
	`
	vars := map[string]interface{}{
		"membership_id": membershipID,
		"since":         since.UTC().Format(time.RFC3339),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "count"), nil
	}
	return 0, nil
}

// Parsing helpers

func parseMembership(result interface{}) (*model.Membership, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}
	return parseMembershipData(data)
}

func parseMembershipData(data map[string]interface{}) (*model.Membership, error) {
	m := &model.Membership{
		ID:              convertSurrealID(data["id"]),
		Name:            getString(data, "name"),
		RenewalType:     model.RenewalType(getString(data, "renewal_type")),
		Status:          model.MembershipStatus(getString(data, "status")),
		RequiresRenewal: getBool(data, "requires_renewal"),
		IsLifetime:      getBool(data, "is_lifetime"),
	}

	if period, ok := data["period"].(map[string]interface{}); ok {
		if t := getTime(period, "start"); t != nil {
			m.Period.Start = *t
		}
		if t := getTime(period, "end"); t != nil {
			m.Period.End = *t
		}
		if t := getTime(period, "renewal_start"); t != nil {
			m.Period.RenewalStart = *t
		}
		if t := getTime(period, "renewal_deadline"); t != nil {
			m.Period.RenewalDeadline = *t
		}
	}

	if ar, ok := data["auto_renewal"].(map[string]interface{}); ok {
		m.AutoRenewal.Enabled = getBool(ar, "enabled")
		m.AutoRenewal.GracePeriodDays = getInt(ar, "grace_period_days")
	}

	if cap, ok := data["capacity"].(map[string]interface{}); ok {
		m.Capacity.MaxMembers = getInt(cap, "max_members")
		m.Capacity.CurrentMembers = getInt(cap, "current_members")
		m.Capacity.WaitingList = getBool(cap, "waiting_list")
	}

	if t := getTime(data, "last_transition_at"); t != nil {
		m.LastTransitionAt = *t
	}
	if t := getTime(data, "created_on"); t != nil {
		m.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		m.UpdatedOn = *t
	}

	return m, nil
}

package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bskmt/club-api/internal/model"
)

// MembershipRepository defines the interface for membership storage
type MembershipRepository interface {
	GetByID(ctx context.Context, id string) (*model.Membership, error)
	List(ctx context.Context) ([]*model.Membership, error)
	ListDueForRenewal(ctx context.Context, now time.Time) ([]*model.Membership, error)
	UpdatePeriod(ctx context.Context, id string, period model.Period, transitionAt time.Time) error
	RecordRenewal(ctx context.Context, userID, membershipID string, renewedUntil time.Time) error
	CountRenewalsSince(ctx context.Context, membershipID string, since time.Time) (int, error)
}

// MemberReader defines the user lookups the renewal flow needs
type MemberReader interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	ListByMembership(ctx context.Context, membershipID string) ([]*model.User, error)
}

// RenewalService handles membership period computation, renewal eligibility
// and the periodic renewal pass
type RenewalService struct {
	memberships MembershipRepository
	users       MemberReader
	sender      Sender

	passRunning atomic.Bool
}

// RenewalServiceConfig holds configuration for the renewal service
type RenewalServiceConfig struct {
	Memberships MembershipRepository
	Users       MemberReader
	Sender      Sender
}

// NewRenewalService creates a new renewal service
func NewRenewalService(cfg RenewalServiceConfig) *RenewalService {
	return &RenewalService{
		memberships: cfg.Memberships,
		users:       cfg.Users,
		sender:      cfg.Sender,
	}
}

// dateOnly truncates an instant to its calendar day in UTC.
// All window comparisons are day-granular.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PeriodFor computes the period that contains the reference instant for a
// renewal cadence. Lifetime memberships have no period; the zero Period is
// returned for them.
func PeriodFor(rt model.RenewalType, ref time.Time) model.Period {
	day := dateOnly(ref)
	y, m := day.Year(), day.Month()

	switch rt {
	case model.RenewalMonthly:
		start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		return model.Period{
			Start:           start,
			End:             end,
			RenewalStart:    time.Date(y, m, 15, 0, 0, 0, 0, time.UTC),
			RenewalDeadline: end,
		}

	case model.RenewalQuarterly:
		qm := time.Month((int(m)-1)/3*3 + 1)
		start := time.Date(y, qm, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 3, -1)
		return model.Period{
			Start:           start,
			End:             end,
			RenewalStart:    end.AddDate(0, 0, -30),
			RenewalDeadline: end,
		}

	case model.RenewalBiannual:
		hm := time.January
		if m >= time.July {
			hm = time.July
		}
		start := time.Date(y, hm, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 6, -1)
		return model.Period{
			Start:           start,
			End:             end,
			RenewalStart:    end.AddDate(0, 0, -60),
			RenewalDeadline: end,
		}

	case model.RenewalAnnual:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
		return model.Period{
			Start:           start,
			End:             end,
			RenewalStart:    time.Date(y, time.November, 1, 0, 0, 0, 0, time.UTC),
			RenewalDeadline: end,
		}
	}

	return model.Period{}
}

// ComputeNextPeriod computes the period starting at the reference day, but
// only when that day is a cadence boundary. It reports whether a transition
// applies: on any other day the current period stands and applied is false.
func ComputeNextPeriod(rt model.RenewalType, ref time.Time) (model.Period, bool) {
	day := dateOnly(ref)
	if day.Day() != 1 {
		return model.Period{}, false
	}

	switch rt {
	case model.RenewalMonthly:
		return PeriodFor(rt, day), true
	case model.RenewalQuarterly:
		switch day.Month() {
		case time.January, time.April, time.July, time.October:
			return PeriodFor(rt, day), true
		}
	case model.RenewalBiannual:
		if day.Month() == time.January || day.Month() == time.July {
			return PeriodFor(rt, day), true
		}
	case model.RenewalAnnual:
		if day.Month() == time.January {
			return PeriodFor(rt, day), true
		}
	case model.RenewalLifetime:
		// Lifetime memberships carry an administrative calendar-year stamp
		// so reporting stays aligned; it opens no renewal window.
		if day.Month() == time.January {
			return model.Period{
				Start: day,
				End:   time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
			}, true
		}
	}

	return model.Period{}, false
}

// CanRenew evaluates whether a user may renew a membership at the given
// instant. The returned eligibility carries a reason code when renewal is
// not possible; an error is returned only for infrastructure failures.
func (s *RenewalService) CanRenew(ctx context.Context, userID, membershipID string, now time.Time) (model.Eligibility, error) {
	m, err := s.memberships.GetByID(ctx, membershipID)
	if err != nil || m == nil {
		return model.Eligibility{
			Code:   model.RenewalCodeNotFound,
			Reason: "membership not found",
		}, nil
	}

	if m.Status != model.MembershipActive {
		return model.Eligibility{
			Code:   model.RenewalCodeInactive,
			Reason: "membership is not active",
		}, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return model.Eligibility{
			Code:   model.RenewalCodeNotFound,
			Reason: "user not found",
		}, nil
	}
	if !user.Active {
		return model.Eligibility{
			Code:   model.RenewalCodeInactive,
			Reason: "user account is not active",
		}, nil
	}

	if !m.RequiresRenewal || m.IsLifetime {
		return model.Eligibility{CanRenew: true}, nil
	}

	day := dateOnly(now)

	if day.Before(dateOnly(m.Period.RenewalStart)) {
		return model.Eligibility{
			Code:   model.RenewalCodeTooEarly,
			Reason: fmt.Sprintf("renewal window opens on %s", m.Period.RenewalStart.Format("2006-01-02")),
		}, nil
	}

	graceEnd := dateOnly(m.AutoRenewal.GraceDeadline(m.Period.RenewalDeadline))
	if day.After(graceEnd) {
		return model.Eligibility{
			Code:   model.RenewalCodeTooLate,
			Reason: fmt.Sprintf("renewal closed on %s", graceEnd.Format("2006-01-02")),
		}, nil
	}

	if m.Capacity.IsFull() {
		return model.Eligibility{
			Code:   model.RenewalCodeCapacityExceeded,
			Reason: "membership has reached maximum member limit",
		}, nil
	}

	// Renewals already committed this period also count toward capacity
	if m.Capacity.MaxMembers > 0 {
		renewed, err := s.memberships.CountRenewalsSince(ctx, m.ID, m.Period.Start)
		if err != nil {
			return model.Eligibility{}, err
		}
		if renewed >= m.Capacity.MaxMembers {
			return model.Eligibility{
				Code:   model.RenewalCodeCapacityExceeded,
				Reason: "membership has reached maximum member limit",
			}, nil
		}
	}

	return model.Eligibility{CanRenew: true}, nil
}

// Renew records a renewal for a user. Eligibility is re-evaluated at commit
// time so a stale eligibility check cannot be used to renew past the window.
func (s *RenewalService) Renew(ctx context.Context, userID, membershipID string, now time.Time) error {
	elig, err := s.CanRenew(ctx, userID, membershipID, now)
	if err != nil {
		return err
	}
	if !elig.CanRenew {
		switch elig.Code {
		case model.RenewalCodeNotFound:
			return ErrMembershipNotFound
		case model.RenewalCodeInactive:
			return ErrMembershipInactive
		case model.RenewalCodeTooEarly:
			return ErrRenewalTooEarly
		case model.RenewalCodeTooLate:
			return ErrRenewalTooLate
		case model.RenewalCodeCapacityExceeded:
			return ErrCapacityExceeded
		}
		return ErrRenewalTooLate
	}

	m, err := s.memberships.GetByID(ctx, membershipID)
	if err != nil || m == nil {
		return ErrMembershipNotFound
	}

	if m.IsLifetime || !m.RequiresRenewal {
		return ErrRenewalNotNeeded
	}

	switch m.RenewalType {
	case model.RenewalMonthly, model.RenewalQuarterly, model.RenewalBiannual, model.RenewalAnnual:
	default:
		return ErrInvalidRenewalType
	}

	return s.memberships.RecordRenewal(ctx, userID, membershipID, m.Period.End)
}

// ListDue returns the active renewable memberships whose renewal window is
// open at the given instant. Used by the admin surface and the manual pass
// tool to preview what a pass would touch.
func (s *RenewalService) ListDue(ctx context.Context, now time.Time) ([]*model.Membership, error) {
	return s.memberships.ListDueForRenewal(ctx, now)
}

// RunRenewalPass applies due period transitions and sends escalating renewal
// reminders to active memberships that require renewal and have auto-renewal
// enabled. At most one pass runs at a time; a second concurrent call gets
// ErrPassInProgress. One failing membership does not stop the pass.
func (s *RenewalService) RunRenewalPass(ctx context.Context, now time.Time) (*model.PassResult, error) {
	if !s.passRunning.CompareAndSwap(false, true) {
		return nil, ErrPassInProgress
	}
	defer s.passRunning.Store(false)

	result := &model.PassResult{}
	day := dateOnly(now)

	memberships, err := s.memberships.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, m := range memberships {
		if m.Status != model.MembershipActive {
			continue
		}

		// Lifetime memberships only get their administrative year stamp;
		// eligibility and reminders do not apply to them.
		if m.IsLifetime {
			if err := s.restampLifetime(ctx, m, day); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", m.Name, err))
			}
			continue
		}

		if !m.RequiresRenewal || !m.AutoRenewal.Enabled {
			continue
		}

		if err := s.processMembership(ctx, m, day, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", m.Name, err))
			continue
		}
		result.RenewalsProcessed++
	}

	result.Success = len(result.Errors) == 0
	result.Message = fmt.Sprintf("processed %d memberships and sent %d notifications",
		result.RenewalsProcessed, result.NotificationsSent)
	return result, nil
}

// restampLifetime applies the administrative calendar-year period to a
// lifetime membership on January 1. Off the boundary day it does nothing.
func (s *RenewalService) restampLifetime(ctx context.Context, m *model.Membership, day time.Time) error {
	next, applied := ComputeNextPeriod(model.RenewalLifetime, day)
	if !applied || !dateOnly(m.LastTransitionAt).Before(day) {
		return nil
	}
	if err := s.memberships.UpdatePeriod(ctx, m.ID, next, day); err != nil {
		return err
	}
	m.Period = next
	m.LastTransitionAt = day
	return nil
}

// processMembership handles one membership within a pass: transition the
// period on its cadence boundary, then notify members inside the renewal
// window or grace period.
func (s *RenewalService) processMembership(ctx context.Context, m *model.Membership, day time.Time, result *model.PassResult) error {
	if next, applied := ComputeNextPeriod(m.RenewalType, day); applied && dateOnly(m.LastTransitionAt).Before(day) {
		if err := s.memberships.UpdatePeriod(ctx, m.ID, next, day); err != nil {
			return err
		}
		m.Period = next
		m.LastTransitionAt = day
	}

	deadline := dateOnly(m.Period.RenewalDeadline)
	graceEnd := dateOnly(m.AutoRenewal.GraceDeadline(m.Period.RenewalDeadline))

	windowOpen := !day.Before(dateOnly(m.Period.RenewalStart)) && !day.After(deadline)
	inGrace := day.After(deadline) && !day.After(graceEnd)
	if !windowOpen && !inGrace {
		return nil
	}

	daysRemaining := int(deadline.Sub(day).Hours() / 24)
	if inGrace {
		daysRemaining = 0
	}

	users, err := s.users.ListByMembership(ctx, m.ID)
	if err != nil {
		return err
	}

	for _, u := range users {
		n := model.RenewalNotification{
			UserID:          u.ID,
			MembershipID:    m.ID,
			MembershipName:  m.Name,
			DaysRemaining:   daysRemaining,
			RenewalType:     m.RenewalType,
			IsInGracePeriod: inGrace,
		}
		result.NotificationsSent += s.notify(ctx, u, n)
	}

	return nil
}

// notify delivers a renewal reminder on each channel the user can receive
// and returns how many deliveries succeeded
func (s *RenewalService) notify(ctx context.Context, u *model.User, n model.RenewalNotification) int {
	sent := 0
	if u.Email != "" {
		if err := s.sender.Send(ctx, u, model.ChannelEmail, n); err == nil {
			sent++
		}
	}
	if u.Phone != "" {
		if err := s.sender.Send(ctx, u, model.ChannelWhatsApp, n); err == nil {
			sent++
		}
	}
	return sent
}

package model

import "time"

// RenewalType is the cadence governing a membership's active period
type RenewalType string

const (
	RenewalMonthly   RenewalType = "monthly"
	RenewalQuarterly RenewalType = "quarterly"
	RenewalBiannual  RenewalType = "biannual"
	RenewalAnnual    RenewalType = "annual"
	RenewalLifetime  RenewalType = "lifetime"
)

// IsValid returns true if the renewal type is a known cadence
func (t RenewalType) IsValid() bool {
	switch t {
	case RenewalMonthly, RenewalQuarterly, RenewalBiannual, RenewalAnnual, RenewalLifetime:
		return true
	default:
		return false
	}
}

// MembershipStatus represents a membership plan's lifecycle state
type MembershipStatus string

const (
	MembershipActive   MembershipStatus = "active"
	MembershipInactive MembershipStatus = "inactive"
	MembershipDraft    MembershipStatus = "draft"
	MembershipArchived MembershipStatus = "archived"
)

// Period holds the active-period and renewal-window boundaries of a membership.
// Invariant: Start <= RenewalStart <= RenewalDeadline <= End.
type Period struct {
	Start           time.Time `json:"start_date"`
	End             time.Time `json:"end_date"`
	RenewalStart    time.Time `json:"renewal_start_date"`
	RenewalDeadline time.Time `json:"renewal_deadline"`
}

// IsZero returns true if the period has never been stamped
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// Ordered returns true if the period boundaries satisfy the ordering invariant
func (p Period) Ordered() bool {
	return !p.Start.After(p.RenewalStart) &&
		!p.RenewalStart.After(p.RenewalDeadline) &&
		!p.RenewalDeadline.After(p.End)
}

// AutoRenewal holds automatic-renewal settings for a membership plan
type AutoRenewal struct {
	Enabled         bool `json:"enabled"`
	GracePeriodDays int  `json:"grace_period_days"`
}

// GraceDeadline returns the last calendar day on which a lapsed membership
// may still be renewed
func (a AutoRenewal) GraceDeadline(renewalDeadline time.Time) time.Time {
	return renewalDeadline.AddDate(0, 0, a.GracePeriodDays)
}

// Capacity holds enrollment limits for a membership plan.
// MaxMembers of 0 means unlimited.
type Capacity struct {
	MaxMembers     int  `json:"max_members,omitempty"`
	CurrentMembers int  `json:"current_members"`
	WaitingList    bool `json:"waiting_list"`
}

// IsFull returns true if the plan is at capacity and does not accept a
// waiting list
func (c Capacity) IsFull() bool {
	return c.MaxMembers > 0 && c.CurrentMembers >= c.MaxMembers && !c.WaitingList
}

// Membership represents a membership plan of the club
type Membership struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	RenewalType      RenewalType      `json:"renewal_type"`
	Status           MembershipStatus `json:"status"`
	RequiresRenewal  bool             `json:"requires_renewal"`
	IsLifetime       bool             `json:"is_lifetime"`
	Period           Period           `json:"period"`
	AutoRenewal      AutoRenewal      `json:"auto_renewal"`
	Capacity         Capacity         `json:"capacity"`
	LastTransitionAt time.Time        `json:"last_transition_at,omitempty"`
	CreatedOn        time.Time        `json:"created_on"`
	UpdatedOn        time.Time        `json:"updated_on"`
}

// Urgency classifies how pressing a renewal notification is
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Channel identifies a notification delivery transport
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelPush     Channel = "push"
)

// RenewalNotification is an ephemeral reminder emitted during a renewal pass.
// It is handed to the delivery collaborator and never persisted.
type RenewalNotification struct {
	UserID          string      `json:"user_id"`
	MembershipID    string      `json:"membership_id"`
	MembershipName  string      `json:"membership_name"`
	DaysRemaining   int         `json:"days_remaining"`
	RenewalType     RenewalType `json:"renewal_type"`
	IsInGracePeriod bool        `json:"is_in_grace_period"`
}

// Urgency derives delivery urgency from how close the deadline is
func (n RenewalNotification) Urgency() Urgency {
	switch {
	case n.IsInGracePeriod:
		return UrgencyHigh
	case n.DaysRemaining <= 1:
		return UrgencyHigh
	case n.DaysRemaining <= 7:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// PassResult aggregates the outcome of one renewal pass.
// Errors are collected per item; one failing membership or notification
// never aborts the rest of the pass.
type PassResult struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	RenewalsProcessed int      `json:"renewals_processed"`
	NotificationsSent int      `json:"notifications_sent"`
	Errors            []string `json:"errors"`
}

// Eligibility is the structured answer to "can this user renew now".
// Reason is surfaced verbatim to the member so they understand why a
// renewal is blocked.
type Eligibility struct {
	CanRenew bool   `json:"can_renew"`
	Code     string `json:"code,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Eligibility reason codes
const (
	RenewalCodeNotFound         = "NOT_FOUND"
	RenewalCodeInactive         = "INACTIVE"
	RenewalCodeTooEarly         = "TOO_EARLY"
	RenewalCodeTooLate          = "TOO_LATE"
	RenewalCodeCapacityExceeded = "CAPACITY_EXCEEDED"
)

package service

import (
	"context"
	"fmt"
	"log"

	"github.com/bskmt/club-api/internal/model"
)

// Sender delivers a renewal reminder to one user on one channel
type Sender interface {
	Send(ctx context.Context, user *model.User, channel model.Channel, n model.RenewalNotification) error
}

// LogSender is a stub sender that logs instead of delivering. Real
// delivery plugs in behind the Sender interface once the mail and
// WhatsApp providers are wired up.
type LogSender struct{}

// NewLogSender creates a logging sender
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the reminder it would deliver
func (s *LogSender) Send(ctx context.Context, user *model.User, channel model.Channel, n model.RenewalNotification) error {
	subject, body := ComposeReminder(user, n)
	log.Printf("[Notify] Would send %s to %s (urgency=%s): %s - %s",
		channel, user.DisplayName(), n.Urgency(), subject, body)
	return nil
}

// ComposeReminder builds the subject and body of a renewal reminder.
// The wording escalates with urgency.
func ComposeReminder(user *model.User, n model.RenewalNotification) (subject, body string) {
	name := user.DisplayName()

	if n.IsInGracePeriod {
		subject = fmt.Sprintf("Your %s membership has expired", n.MembershipName)
		body = fmt.Sprintf("%s, your %s membership renewal deadline has passed. "+
			"You are in the grace period: renew now to keep your membership active.",
			name, n.MembershipName)
		return subject, body
	}

	switch n.Urgency() {
	case model.UrgencyHigh:
		subject = fmt.Sprintf("Last chance to renew your %s membership", n.MembershipName)
		body = fmt.Sprintf("%s, your %s membership expires in %d day(s). Renew today to avoid losing access.",
			name, n.MembershipName, n.DaysRemaining)
	case model.UrgencyMedium:
		subject = fmt.Sprintf("Your %s membership expires soon", n.MembershipName)
		body = fmt.Sprintf("%s, your %s membership expires in %d days. Renew from your member area.",
			name, n.MembershipName, n.DaysRemaining)
	default:
		subject = fmt.Sprintf("Renewal window open for %s", n.MembershipName)
		body = fmt.Sprintf("%s, the renewal window for your %s membership is open. You have %d days left.",
			name, n.MembershipName, n.DaysRemaining)
	}

	return subject, body
}

// Package email delivers workflow notifications over SMTP.
package email

import "context"

// Sender delivers the domain notification emails. Implementations must be
// safe for concurrent use.
type Sender interface {
	SendFollowUpReminder(ctx context.Context, toEmail, staffName, leadName, leadPhone string) error
	SendLeadsAssigned(ctx context.Context, toEmail, staffName string, leadCount int) error
}

// NoopSender is used when email delivery is disabled in configuration.
type NoopSender struct{}

func (NoopSender) SendFollowUpReminder(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendLeadsAssigned(context.Context, string, string, int) error {
	return nil
}

var _ Sender = NoopSender{}

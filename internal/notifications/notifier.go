// Package notifications sends user-facing notices. Delivery is best effort:
// nothing on a request path waits for it or fails because of it.
package notifications

import "context"

type WelcomeInput struct {
	UserID int64
	Email  string
	Name   string
}

type Notifier interface {
	SendWelcome(ctx context.Context, in WelcomeInput) error
}

// Observer counts delivery outcomes; *observability.Prom implements it.
type Observer interface {
	ObserveNotification(kind, result string)
}

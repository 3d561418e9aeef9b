// Package alert provides local delivery backends for the notification
// dispatcher.
package alert

import (
	"context"

	notificationBus "github.com/KSx23/archer/internal/domains/notification/bus"
	"github.com/KSx23/archer/pkg/logger"
)

// Console writes alerts to the service log. It stands in for a real push
// channel in development and tests.
type Console struct {
	log *logger.Logger
}

func NewConsole(log *logger.Logger) *Console {
	return &Console{log: log}
}

func (c *Console) Alert(ctx context.Context, n notificationBus.Notification) error {
	if n.UserID != nil {
		c.log.Info(ctx, "ALERT", "notificationID", n.ID, "userID", *n.UserID, "message", n.Message)
		return nil
	}

	c.log.Info(ctx, "ALERT", "notificationID", n.ID, "userID", "everyone", "message", n.Message)
	return nil
}

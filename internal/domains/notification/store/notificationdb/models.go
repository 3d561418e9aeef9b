package notificationdb

import (
	"database/sql"
	"fmt"
	"time"

	notificationBus "github.com/KSx23/archer/internal/domains/notification/bus"
)

type notification struct {
	ID        int64         `db:"id"`
	UserID    sql.NullInt64 `db:"user_id"`
	Message   string        `db:"message"`
	Status    string        `db:"status"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

func fromBusNotification(n notificationBus.Notification) notification {
	var userID sql.NullInt64
	if n.UserID != nil {
		userID = sql.NullInt64{Int64: *n.UserID, Valid: true}
	}

	return notification{
		ID:        n.ID,
		UserID:    userID,
		Message:   n.Message,
		Status:    n.Status.String(),
		CreatedAt: n.CreatedAt.UTC(),
		UpdatedAt: n.UpdatedAt.UTC(),
	}
}

func toNotificationBus(n notification) (notificationBus.Notification, error) {
	status, err := notificationBus.ParseStatus(n.Status)
	if err != nil {
		return notificationBus.Notification{}, fmt.Errorf("parseStatus: %w", err)
	}

	var userID *int64
	if n.UserID.Valid {
		userID = &n.UserID.Int64
	}

	return notificationBus.Notification{
		ID:        n.ID,
		UserID:    userID,
		Message:   n.Message,
		Status:    status,
		CreatedAt: n.CreatedAt.In(time.Local),
		UpdatedAt: n.UpdatedAt.In(time.Local),
	}, nil
}

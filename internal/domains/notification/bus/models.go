package bus

import "time"

// Notification is a message addressed to one user, or to everyone when
// UserID is nil.
type Notification struct {
	ID        int64
	UserID    *int64
	Message   string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNotification carries a dispatch request. A DeliverAt in the future
// defers the local alert until that instant.
type NewNotification struct {
	UserID    *int64
	Message   string
	DeliverAt *time.Time
}

type UpdateNotification struct {
	Message *string
}

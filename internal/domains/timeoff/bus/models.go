package bus

import "time"

// Request is a span of days a user asks to take off. StartDate and EndDate
// are epoch milliseconds at midnight of the first and last day.
type Request struct {
	ID        int64
	UserID    int64
	StartDate int64
	EndDate   int64
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewRequest struct {
	UserID    int64
	StartDate int64
	EndDate   int64
}

package bus

import (
	"time"
)

// Shift is a bookable slot of work. OwnerID nil means nobody holds it, there
// is no reserved id standing in for "unclaimed".
type Shift struct {
	ID           int64
	OwnerID      *int64
	StartTime    float64 //decimal hours
	EndTime      float64
	Location     string
	Availability Availability
	RoleID       int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type NewShift struct {
	OwnerID   *int64
	StartTime float64
	EndTime   float64
	Location  string
	RoleID    int64
}

package bus

import (
	"time"

	"github.com/google/uuid"
)

// ReleasedEvent records a committed release. Carries just enough for the
// dispatcher to compose a useful message without reading the shift back.
type ReleasedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	ShiftID    int64     `json:"shift_id"`
	Location   string    `json:"location"`
	StartTime  float64   `json:"start_time"`
	OccurredAt time.Time `json:"occurred_at"`
}

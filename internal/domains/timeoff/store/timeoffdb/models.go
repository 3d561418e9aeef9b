package timeoffdb

import (
	"fmt"
	"time"

	timeoffBus "github.com/KSx23/archer/internal/domains/timeoff/bus"
)

type request struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	StartDate int64     `db:"start_date"`
	EndDate   int64     `db:"end_date"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func fromBusRequest(req timeoffBus.Request) request {
	return request{
		ID:        req.ID,
		UserID:    req.UserID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    req.Status.String(),
		CreatedAt: req.CreatedAt.UTC(),
		UpdatedAt: req.UpdatedAt.UTC(),
	}
}

func toRequestBus(r request) (timeoffBus.Request, error) {
	status, err := timeoffBus.ParseStatus(r.Status)
	if err != nil {
		return timeoffBus.Request{}, fmt.Errorf("parseStatus: %w", err)
	}

	return timeoffBus.Request{
		ID:        r.ID,
		UserID:    r.UserID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Status:    status,
		CreatedAt: r.CreatedAt.In(time.Local),
		UpdatedAt: r.UpdatedAt.In(time.Local),
	}, nil
}

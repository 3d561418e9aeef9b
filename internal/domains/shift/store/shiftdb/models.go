package shiftdb

import (
	"database/sql"
	"fmt"
	"time"

	shiftBus "github.com/KSx23/archer/internal/domains/shift/bus"
)

type shift struct {
	ID           int64         `db:"id"`
	OwnerID      sql.NullInt64 `db:"owner_id"`
	StartTime    float64       `db:"start_time"`
	EndTime      float64       `db:"end_time"`
	Location     string        `db:"location"`
	Availability string        `db:"availability"`
	RoleID       int64         `db:"role_id"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

func fromBusShift(sh shiftBus.Shift) shift {
	var owner sql.NullInt64
	if sh.OwnerID != nil {
		owner = sql.NullInt64{Int64: *sh.OwnerID, Valid: true}
	}

	return shift{
		ID:           sh.ID,
		OwnerID:      owner,
		StartTime:    sh.StartTime,
		EndTime:      sh.EndTime,
		Location:     sh.Location,
		Availability: sh.Availability.String(),
		RoleID:       sh.RoleID,
		CreatedAt:    sh.CreatedAt.UTC(),
		UpdatedAt:    sh.UpdatedAt.UTC(),
	}
}

func toShiftBus(sh shift) (shiftBus.Shift, error) {
	availability, err := shiftBus.ParseAvailability(sh.Availability)
	if err != nil {
		return shiftBus.Shift{}, fmt.Errorf("parseAvailability: %w", err)
	}

	var owner *int64
	if sh.OwnerID.Valid {
		owner = &sh.OwnerID.Int64
	}

	return shiftBus.Shift{
		ID:           sh.ID,
		OwnerID:      owner,
		StartTime:    sh.StartTime,
		EndTime:      sh.EndTime,
		Location:     sh.Location,
		Availability: availability,
		RoleID:       sh.RoleID,
		CreatedAt:    sh.CreatedAt.In(time.Local),
		UpdatedAt:    sh.UpdatedAt.In(time.Local),
	}, nil
}

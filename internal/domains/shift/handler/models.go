package handler

import (
	"time"

	"github.com/KSx23/archer/internal/domains/shift/bus"
)

type shift struct {
	ID           int64   `json:"id"`
	OwnerID      *int64  `json:"ownerId"`
	StartTime    float64 `json:"startTime"`
	EndTime      float64 `json:"endTime"`
	Location     string  `json:"location"`
	Availability string  `json:"availability"`
	RoleID       int64   `json:"roleId"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

func toAppShift(sh bus.Shift) shift {
	return shift{
		ID:           sh.ID,
		OwnerID:      sh.OwnerID,
		StartTime:    sh.StartTime,
		EndTime:      sh.EndTime,
		Location:     sh.Location,
		Availability: sh.Availability.String(),
		RoleID:       sh.RoleID,
		CreatedAt:    sh.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    sh.UpdatedAt.Format(time.RFC3339),
	}
}

// ==============================================================================
type QueryResult struct {
	Shifts      []shift `json:"shifts"`
	Total       int     `json:"total"`
	Page        int     `json:"page"`
	RowsPerPage int     `json:"rowsPerPage"`
}

func newQueryResult(shifts []shift, total int, page int, rows int) QueryResult {
	return QueryResult{
		Shifts:      shifts,
		Total:       total,
		Page:        page,
		RowsPerPage: rows,
	}
}

// ==============================================================================
type newShift struct {
	OwnerID   *int64  `json:"ownerId" binding:"omitempty,min=1"`
	StartTime float64 `json:"startTime" binding:"required,min=0,max=24"`
	EndTime   float64 `json:"endTime" binding:"required,gtfield=StartTime,max=24"`
	Location  string  `json:"location" binding:"required,max=255"`
	RoleID    int64   `json:"roleId" binding:"required,min=1"`
}

func toBusNewShift(ns newShift) bus.NewShift {
	return bus.NewShift{
		OwnerID:   ns.OwnerID,
		StartTime: ns.StartTime,
		EndTime:   ns.EndTime,
		Location:  ns.Location,
		RoleID:    ns.RoleID,
	}
}

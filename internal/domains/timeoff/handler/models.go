package handler

import (
	"time"

	"github.com/KSx23/archer/internal/domains/timeoff/bus"
)

type request struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	StartDate int64  `json:"startDate"`
	EndDate   int64  `json:"endDate"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toAppRequest(r bus.Request) request {
	return request{
		ID:        r.ID,
		UserID:    r.UserID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Status:    r.Status.String(),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
	}
}

// ==============================================================================
type QueryResult struct {
	Requests    []request `json:"requests"`
	Total       int       `json:"total"`
	Page        int       `json:"page"`
	RowsPerPage int       `json:"rowsPerPage"`
}

func newQueryResult(reqs []request, total int, page int, rows int) QueryResult {
	return QueryResult{
		Requests:    reqs,
		Total:       total,
		Page:        page,
		RowsPerPage: rows,
	}
}

// ==============================================================================
type newRequest struct {
	StartDate int64 `json:"startDate" binding:"required,min=1"`
	EndDate   int64 `json:"endDate" binding:"required,gtefield=StartDate"`
}

// ==============================================================================
type decision struct {
	Status string `json:"status" binding:"required,oneof=confirmed refused"`
}

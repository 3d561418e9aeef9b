package handler

import (
	"fmt"
	"time"

	"github.com/KSx23/archer/internal/domains/notification/bus"
)

type notification struct {
	ID        int64  `json:"id"`
	UserID    *int64 `json:"userId"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toAppNotification(n bus.Notification) notification {
	return notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Message:   n.Message,
		Status:    n.Status.String(),
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
		UpdatedAt: n.UpdatedAt.Format(time.RFC3339),
	}
}

// ==============================================================================
type QueryResult struct {
	Notifications []notification `json:"notifications"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	RowsPerPage   int            `json:"rowsPerPage"`
}

func newQueryResult(ns []notification, total int, page int, rows int) QueryResult {
	return QueryResult{
		Notifications: ns,
		Total:         total,
		Page:          page,
		RowsPerPage:   rows,
	}
}

// ==============================================================================
type newNotification struct {
	UserID    *int64  `json:"userId" binding:"omitempty,min=1"`
	Message   string  `json:"message" binding:"required,max=1024"`
	DeliverAt *string `json:"deliverAt" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"` //RFC3339
}

func toBusNewNotification(nn newNotification) (bus.NewNotification, error) {
	busNew := bus.NewNotification{
		UserID:  nn.UserID,
		Message: nn.Message,
	}

	if nn.DeliverAt != nil {
		at, err := time.Parse(time.RFC3339, *nn.DeliverAt)
		if err != nil {
			return bus.NewNotification{}, fmt.Errorf("parse deliverAt: %w", err)
		}
		busNew.DeliverAt = &at
	}

	return busNew, nil
}

// ==============================================================================
type updateNotification struct {
	Message *string `json:"message" binding:"omitempty,max=1024"`
}

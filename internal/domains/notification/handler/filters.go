package handler

import (
	"fmt"

	"github.com/KSx23/archer/internal/domains/notification/bus"
)

type Filters struct {
	UserID *int64  `form:"userId" binding:"omitempty,min=1"`
	Status *string `form:"status" binding:"omitempty,oneof=unsent sent failed"`
}

func (f Filters) ToBusQueryFilter() (bus.QueryFilter, error) {
	var busQueryFilters bus.QueryFilter

	if f.UserID != nil {
		busQueryFilters.UserID = f.UserID
	}

	if f.Status != nil {
		status, err := bus.ParseStatus(*f.Status)
		if err != nil {
			return bus.QueryFilter{}, fmt.Errorf("parseStatus: %w", err)
		}
		busQueryFilters.Status = &status
	}

	return busQueryFilters, nil
}

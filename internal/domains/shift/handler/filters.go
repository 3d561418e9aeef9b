package handler

import (
	"fmt"

	"github.com/KSx23/archer/internal/domains/shift/bus"
)

type Filters struct {
	OwnerID      *int64  `form:"ownerId" binding:"omitempty,min=1"`
	RoleID       *int64  `form:"roleId" binding:"omitempty,min=1"`
	Location     *string `form:"location" binding:"omitempty,max=255"`
	Availability *string `form:"availability" binding:"omitempty,oneof=open booked"`
}

func (f Filters) ToBusQueryFilter() (bus.QueryFilter, error) {
	var busQueryFilters bus.QueryFilter

	if f.OwnerID != nil {
		busQueryFilters.OwnerID = f.OwnerID
	}

	if f.RoleID != nil {
		busQueryFilters.RoleID = f.RoleID
	}

	if f.Location != nil {
		busQueryFilters.Location = f.Location
	}

	if f.Availability != nil {
		availability, err := bus.ParseAvailability(*f.Availability)
		if err != nil {
			return bus.QueryFilter{}, fmt.Errorf("parseAvailability: %w", err)
		}
		busQueryFilters.Availability = &availability
	}

	return busQueryFilters, nil
}

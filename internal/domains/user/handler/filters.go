package handler

import (
	"github.com/KSx23/archer/internal/domains/user/bus"
)

type Filters struct {
	Username *string `form:"username" binding:"omitempty,min=3,max=60"`
	RoleID   *int64  `form:"roleId" binding:"omitempty,min=1"`
}

func (f Filters) ToBusQueryFilter() bus.QueryFilter {
	var busQueryFilters bus.QueryFilter

	if f.Username != nil {
		busQueryFilters.Username = f.Username
	}

	if f.RoleID != nil {
		busQueryFilters.RoleID = f.RoleID
	}

	return busQueryFilters
}

package handler

import "github.com/KSx23/archer/internal/domains/role/bus"

type role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toAppRole(r bus.Role) role {
	return role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
	}
}

// ==============================================================================
type newRole struct {
	Name        string `json:"name" binding:"required,min=2,max=60"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

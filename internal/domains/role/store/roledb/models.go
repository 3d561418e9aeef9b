package roledb

import (
	roleBus "github.com/KSx23/archer/internal/domains/role/bus"
)

type role struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

func fromBusRole(r roleBus.Role) role {
	return role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
	}
}

func toRoleBus(r role) roleBus.Role {
	return roleBus.Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
	}
}

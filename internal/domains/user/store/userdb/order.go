package userdb

import (
	"fmt"

	usrBus "github.com/KSx23/archer/internal/domains/user/bus"
)

// translates field names from the bus layer to store columns.
var orderByFieldNames = map[string]string{
	usrBus.OrderByUsername:  "u.username",
	usrBus.OrderByEmail:     "u.email",
	usrBus.OrderByCreatedAt: "u.created_at",
}

func orderByClause(field usrBus.Field) (string, error) {
	by, ok := orderByFieldNames[field.Name]
	if !ok {
		return "", fmt.Errorf("%q is not a valid field to order by", field.Name)
	}

	return " ORDER BY " + by + " " + field.Dir, nil
}

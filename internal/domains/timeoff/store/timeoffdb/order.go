package timeoffdb

import (
	"fmt"

	timeoffBus "github.com/KSx23/archer/internal/domains/timeoff/bus"
)

var orderByFields = map[string]string{
	timeoffBus.OrderByStartDate: "start_date",
	timeoffBus.OrderByStatus:    "status",
	timeoffBus.OrderByCreatedAt: "created_at",
}

func orderByClause(orderBy timeoffBus.Field) (string, error) {
	by, exists := orderByFields[orderBy.Name]
	if !exists {
		return "", fmt.Errorf("field %q does not exist", orderBy.Name)
	}

	return " ORDER BY " + by + " " + orderBy.Dir, nil
}

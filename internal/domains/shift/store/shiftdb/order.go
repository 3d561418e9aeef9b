package shiftdb

import (
	"fmt"

	shiftBus "github.com/KSx23/archer/internal/domains/shift/bus"
)

var orderByFields = map[string]string{
	shiftBus.OrderByStartTime: "start_time",
	shiftBus.OrderByLocation:  "location",
	shiftBus.OrderByCreatedAt: "created_at",
}

func orderByClause(orderBy shiftBus.Field) (string, error) {
	by, exists := orderByFields[orderBy.Name]
	if !exists {
		return "", fmt.Errorf("field %q does not exist", orderBy.Name)
	}

	return " ORDER BY " + by + " " + orderBy.Dir, nil
}

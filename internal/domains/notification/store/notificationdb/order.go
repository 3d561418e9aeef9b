package notificationdb

import (
	"fmt"

	notificationBus "github.com/KSx23/archer/internal/domains/notification/bus"
)

var orderByFields = map[string]string{
	notificationBus.OrderByStatus:    "status",
	notificationBus.OrderByCreatedAt: "created_at",
}

func orderByClause(orderBy notificationBus.Field) (string, error) {
	by, exists := orderByFields[orderBy.Name]
	if !exists {
		return "", fmt.Errorf("field %q does not exist", orderBy.Name)
	}

	return " ORDER BY " + by + " " + orderBy.Dir, nil
}

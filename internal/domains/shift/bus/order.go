package bus

import (
	"fmt"
	"strings"
)

const (
	OrderByStartTime = "startTime"
	OrderByLocation  = "location"
	OrderByCreatedAt = "createdAt"
)

const (
	OrderByASC  = "asc"
	OrderByDESC = "desc"
)

var orderBySet = map[string]string{
	OrderByStartTime: "startTime",
	OrderByLocation:  "location",
	OrderByCreatedAt: "createdAt",
}

var directionsSet = map[string]string{
	OrderByASC:  "asc",
	OrderByDESC: "desc",
}

type Field struct {
	Name string
	Dir  string
}

// ParseOrderBy constructs a field from a query string like "field,direction".
// The default lists the most recent shifts first.
func ParseOrderBy(query string) (Field, error) {
	if query == "" {
		return Field{Name: OrderByStartTime, Dir: OrderByDESC}, nil
	}

	orderParts := strings.Split(query, ",")
	fieldName := strings.TrimSpace(orderParts[0])

	validField, ok := orderBySet[fieldName]
	if !ok {
		return Field{}, fmt.Errorf("unknown field: %s", fieldName)
	}

	switch len(orderParts) {
	case 1:
		return Field{Name: validField, Dir: OrderByASC}, nil
	case 2:
		dir := orderParts[1]
		validDir, ok := directionsSet[dir]
		if !ok {
			return Field{}, fmt.Errorf("unknown direction: %s", dir)
		}

		return Field{Name: validField, Dir: validDir}, nil
	default:
		return Field{}, fmt.Errorf("unknown order: %s", query)
	}
}

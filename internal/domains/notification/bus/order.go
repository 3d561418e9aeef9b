package bus

import (
	"fmt"
	"strings"
)

const (
	OrderByStatus    = "status"
	OrderByCreatedAt = "createdAt"
)

const (
	OrderByASC  = "asc"
	OrderByDESC = "desc"
)

var orderBySet = map[string]string{
	OrderByStatus:    "status",
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

func ParseOrderBy(query string) (Field, error) {
	if query == "" {
		return Field{Name: OrderByCreatedAt, Dir: OrderByDESC}, nil
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

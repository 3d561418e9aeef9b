package shiftdb

import (
	"bytes"
	"strings"

	shiftBus "github.com/KSx23/archer/internal/domains/shift/bus"
)

func applyFilters(filters shiftBus.QueryFilter, data map[string]any, buf *bytes.Buffer) {
	var wc []string

	if filters.OwnerID != nil {
		data["owner_id"] = *filters.OwnerID
		wc = append(wc, "owner_id = :owner_id")
	}

	if filters.RoleID != nil {
		data["role_id"] = *filters.RoleID
		wc = append(wc, "role_id = :role_id")
	}

	if filters.Location != nil {
		data["location"] = "%" + *filters.Location + "%"
		wc = append(wc, "location LIKE :location")
	}

	if filters.Availability != nil {
		data["availability"] = filters.Availability.String()
		wc = append(wc, "availability = :availability")
	}

	if len(wc) > 0 {
		buf.WriteString(" WHERE ")
		buf.WriteString(strings.Join(wc, " AND "))
	}
}

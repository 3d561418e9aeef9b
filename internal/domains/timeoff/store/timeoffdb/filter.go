package timeoffdb

import (
	"bytes"
	"strings"

	timeoffBus "github.com/KSx23/archer/internal/domains/timeoff/bus"
)

func applyFilters(filters timeoffBus.QueryFilter, data map[string]any, buf *bytes.Buffer) {
	var wc []string

	if filters.UserID != nil {
		data["user_id"] = *filters.UserID
		wc = append(wc, "user_id = :user_id")
	}

	if filters.Status != nil {
		data["status"] = filters.Status.String()
		wc = append(wc, "status = :status")
	}

	if len(wc) > 0 {
		buf.WriteString(" WHERE ")
		buf.WriteString(strings.Join(wc, " AND "))
	}
}

package userdb

import (
	"bytes"
	"fmt"
	"strings"

	usrBus "github.com/KSx23/archer/internal/domains/user/bus"
)

func applyFilters(filters usrBus.QueryFilter, data map[string]any, buf *bytes.Buffer) {
	var whereClause []string

	if filters.Username != nil {
		data["username"] = fmt.Sprintf("%%%s%%", *filters.Username)
		whereClause = append(whereClause, "u.username LIKE :username")
	}

	if filters.RoleID != nil {
		data["role_id"] = *filters.RoleID
		whereClause = append(whereClause, "u.role_id = :role_id")
	}

	if len(whereClause) > 0 {
		buf.WriteString(" WHERE ")
		buf.WriteString(strings.Join(whereClause, " AND "))
	}
}

// Package page parses pagination query values.
package page

import (
	"fmt"
	"strconv"
)

type Page struct {
	Number int
	Rows   int
}

// Parse converts the raw query values into a Page, applying defaults of
// page 1 and 10 rows per page.
func Parse(pageNumber string, rowsPerPage string) (Page, error) {
	number := 1
	rows := 10

	if pageNumber != "" {
		var err error
		number, err = strconv.Atoi(pageNumber)
		if err != nil {
			return Page{}, fmt.Errorf("converting page number: %w", err)
		}
	}

	if rowsPerPage != "" {
		var err error
		rows, err = strconv.Atoi(rowsPerPage)
		if err != nil {
			return Page{}, fmt.Errorf("converting rows per page: %w", err)
		}
	}

	if number <= 0 {
		return Page{}, fmt.Errorf("%d, value too small, must be greater than 0", number)
	}

	if rows <= 0 {
		return Page{}, fmt.Errorf("%d, value too small, must be greater than 0", rows)
	}

	if rows > 100 {
		return Page{}, fmt.Errorf("%d, value too big, must be less than 100", rows)
	}

	return Page{Number: number, Rows: rows}, nil
}

package page_test

import (
	"testing"

	"github.com/KSx23/archer/internal/page"
)

func Test_Parse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pageNumber string
		rows       string
		expectErr  bool
		expected   page.Page
	}{
		{name: "defaults", pageNumber: "", rows: "", expected: page.Page{Number: 1, Rows: 10}},
		{name: "explicit", pageNumber: "3", rows: "25", expected: page.Page{Number: 3, Rows: 25}},
		{name: "not a number", pageNumber: "abc", rows: "10", expectErr: true},
		{name: "zero page", pageNumber: "0", rows: "10", expectErr: true},
		{name: "negative rows", pageNumber: "1", rows: "-5", expectErr: true},
		{name: "too many rows", pageNumber: "1", rows: "500", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := page.Parse(tt.pageNumber, tt.rows)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected an error, got page %+v", p)
				}
				return
			}

			if err != nil {
				t.Fatalf("parse: %s", err)
			}

			if p != tt.expected {
				t.Fatalf("expected %+v, got %+v", tt.expected, p)
			}
		})
	}
}

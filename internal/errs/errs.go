// Package errs provides support for errors related to this app.
package errs

import (
	"fmt"
	"runtime"
)

// Error represents an error inside the application with information about
// where it was constructed.
type Error struct {
	Code     int               `json:"code"`
	Message  string            `json:"message"`
	FuncName string            `json:"-"`
	FileName string            `json:"-"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// New creates an app error out of an existing error.
func New(code int, err error) error {
	//skip 1 frame to capture whoever called "New".
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Newf creates an app error out of a format string.
func Newf(code int, format string, args ...any) error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// NewValidationErr creates an app error carrying per-field validation messages.
func NewValidationErr(code int, fields map[string]string) error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  "input validation failed",
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
		Fields:   fields,
	}
}

func (er *Error) Error() string {
	return er.Message
}

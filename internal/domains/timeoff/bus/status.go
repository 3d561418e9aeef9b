package bus

import "fmt"

// Set of possible request statuses.
var (
	StatusPending   = newStatus("pending")
	StatusConfirmed = newStatus("confirmed")
	StatusRefused   = newStatus("refused")
)

var statuses = make(map[string]Status)

// Status represents where a request sits in its lifecycle. Pending is the
// only state that still accepts transitions.
type Status struct {
	value string
}

func newStatus(status string) Status {
	s := Status{value: status}
	statuses[status] = s
	return s
}

func (s Status) String() string {
	return s.value
}

func (s Status) Equal(s2 Status) bool {
	return s.value == s2.value
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.value), nil
}

// IsTerminal reports whether the request can no longer change state.
func (s Status) IsTerminal() bool {
	return s.value == StatusConfirmed.value || s.value == StatusRefused.value
}

func ParseStatus(value string) (Status, error) {
	status, exists := statuses[value]
	if !exists {
		return Status{}, fmt.Errorf("invalid status: %q", value)
	}

	return status, nil
}

func MustParseStatus(value string) Status {
	status, err := ParseStatus(value)
	if err != nil {
		panic(err)
	}

	return status
}

package bus

import "fmt"

// Set of possible notification statuses.
var (
	StatusUnsent = newStatus("unsent")
	StatusSent   = newStatus("sent")
	StatusFailed = newStatus("failed")
)

var statuses = make(map[string]Status)

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

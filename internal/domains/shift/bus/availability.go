package bus

import "fmt"

var (
	AvailabilityOpen   = newAvailability("open")
	AvailabilityBooked = newAvailability("booked")
)

// Availability tracks whether a shift can be claimed. It is deliberately
// independent of the required role so booking never keys off role numbering.
type Availability struct {
	value string
}

var validAvailabilities = make(map[string]Availability)

func newAvailability(val string) Availability {
	a := Availability{value: val}

	validAvailabilities[val] = a
	return a
}

func (a Availability) String() string {
	return a.value
}

func (a Availability) MarshalText() ([]byte, error) {
	return []byte(a.value), nil
}

// ParseAvailability converts a stored string back into the known value.
func ParseAvailability(val string) (Availability, error) {
	a, ok := validAvailabilities[val]
	if !ok {
		return Availability{}, fmt.Errorf("invalid availability: %s", val)
	}

	return a, nil
}

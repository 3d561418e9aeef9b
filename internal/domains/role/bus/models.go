package bus

type Role struct {
	ID          int64
	Name        string
	Description string
}

type NewRole struct {
	Name        string
	Description string
}

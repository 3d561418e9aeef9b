package bus

type QueryFilter struct {
	UserID *int64
	Status *Status
}

package bus

type QueryFilter struct {
	OwnerID      *int64
	RoleID       *int64
	Location     *string
	Availability *Availability
}

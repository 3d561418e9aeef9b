package bus

type QueryFilter struct {
	Username *string
	RoleID   *int64
}

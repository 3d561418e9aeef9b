package bus

import (
	"net/mail"
	"time"
)

type User struct {
	ID           int64
	Username     string
	Email        mail.Address
	PasswordHash []byte
	FirstName    string
	LastName     string
	Phone        string
	RoleID       int64
	// RoleName is the joined role name, read-only. Authorization keys off the
	// name so nothing depends on how role ids happen to be numbered.
	RoleName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewUser struct {
	Username  string
	Email     mail.Address
	Password  string
	FirstName string
	LastName  string
	Phone     string
	RoleID    int64
}

type UpdateUser struct {
	Email     *mail.Address
	Password  *string
	FirstName *string
	LastName  *string
	Phone     *string
}

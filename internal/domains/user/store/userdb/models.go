package userdb

import (
	"net/mail"
	"time"

	usrBus "github.com/KSx23/archer/internal/domains/user/bus"
)

type user struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	Email        string    `db:"email"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Phone        string    `db:"phone"`
	RoleID       int64     `db:"role_id"`
	RoleName     string    `db:"role_name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func fromBusUser(usr usrBus.User) user {
	return user{
		ID:           usr.ID,
		Username:     usr.Username,
		PasswordHash: usr.PasswordHash,
		Email:        usr.Email.Address,
		FirstName:    usr.FirstName,
		LastName:     usr.LastName,
		Phone:        usr.Phone,
		RoleID:       usr.RoleID,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
	}
}

func toUserBus(usr user) usrBus.User {
	email := mail.Address{
		Name:    usr.Username,
		Address: usr.Email,
	}

	return usrBus.User{
		ID:           usr.ID,
		Username:     usr.Username,
		Email:        email,
		PasswordHash: usr.PasswordHash,
		FirstName:    usr.FirstName,
		LastName:     usr.LastName,
		Phone:        usr.Phone,
		RoleID:       usr.RoleID,
		RoleName:     usr.RoleName,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
	}
}

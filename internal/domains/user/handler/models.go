package handler

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/KSx23/archer/internal/domains/user/bus"
)

type user struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	RoleID    int64  `json:"roleId"`
	RoleName  string `json:"roleName"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Token     string `json:"token,omitempty"`
}

func toAppUser(usr bus.User) user {
	return user{
		ID:        usr.ID,
		Username:  usr.Username,
		Email:     usr.Email.Address,
		FirstName: usr.FirstName,
		LastName:  usr.LastName,
		Phone:     usr.Phone,
		RoleID:    usr.RoleID,
		RoleName:  usr.RoleName,
		CreatedAt: usr.CreatedAt.Format(time.RFC3339),
		UpdatedAt: usr.UpdatedAt.Format(time.RFC3339),
	}
}

// ==============================================================================
type QueryResult struct {
	Users       []user `json:"users"`
	Total       int    `json:"total"`
	Page        int    `json:"page"`
	RowsPerPage int    `json:"rowsPerPage"`
}

func newQueryResult(users []user, total int, page int, rows int) QueryResult {
	return QueryResult{
		Users:       users,
		Total:       total,
		Page:        page,
		RowsPerPage: rows,
	}
}

// ==============================================================================
type credentials struct {
	Username string `json:"username" binding:"required,min=3,max=60"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// ==============================================================================
type Token struct {
	Token string `json:"token"`
}

//==============================================================================

type newUser struct {
	Username        string `json:"username" binding:"required,min=3,max=60"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8,max=128"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Phone           string `json:"phone" binding:"omitempty,e164"`
	RoleID          int64  `json:"roleId" binding:"required,min=1"`
}

func toBusNewUser(nu newUser) (bus.NewUser, error) {
	email, err := mail.ParseAddress(nu.Email)
	if err != nil {
		return bus.NewUser{}, fmt.Errorf("parseAddress: %w", err)
	}

	return bus.NewUser{
		Username:  nu.Username,
		Email:     *email,
		Password:  nu.Password,
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Phone:     nu.Phone,
		RoleID:    nu.RoleID,
	}, nil
}

// ==============================================================================
type updateUser struct {
	Email           *string `json:"email" binding:"omitempty,email"`
	Password        *string `json:"password" binding:"omitempty,min=8,max=128"`
	PasswordConfirm *string `json:"passwordConfirm" binding:"omitempty,eqfield=Password"`
	FirstName       *string `json:"firstName" binding:"omitempty"`
	LastName        *string `json:"lastName" binding:"omitempty"`
	Phone           *string `json:"phone" binding:"omitempty,e164"`
}

func toBusUpdateUser(uu updateUser) (bus.UpdateUser, error) {
	var email *mail.Address
	if uu.Email != nil {
		parsed, err := mail.ParseAddress(*uu.Email)
		if err != nil {
			return bus.UpdateUser{}, fmt.Errorf("parseAddress: %w", err)
		}
		email = parsed
	}

	return bus.UpdateUser{
		Email:     email,
		Password:  uu.Password,
		FirstName: uu.FirstName,
		LastName:  uu.LastName,
		Phone:     uu.Phone,
	}, nil
}

//==============================================================================

type updateUserRole struct {
	RoleID int64 `json:"roleId" binding:"required,min=1"`
}

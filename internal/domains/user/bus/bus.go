// Package bus implements the business rules for users.
package bus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KSx23/archer/internal/page"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrDuplicatedUsername  = errors.New("username already in use")
	ErrDuplicatedEmail     = errors.New("email already in use")
	ErrUnknownRole         = errors.New("referenced role does not exist")
	ErrAuthenticationFaild = errors.New("invalid username or password")
)

type store interface {
	Create(ctx context.Context, usr User) (int64, error)
	Update(ctx context.Context, usr User) error
	QueryByID(ctx context.Context, userID int64) (User, error)
	QueryByUsername(ctx context.Context, username string) (User, error)
	Query(ctx context.Context, filters QueryFilter, orderBy Field, page page.Page) ([]User, error)
	Count(ctx context.Context, filters QueryFilter) (int, error)
}

type Bus struct {
	store store
}

func New(store store) *Bus {
	return &Bus{store: store}
}

func (b *Bus) Create(ctx context.Context, nu NewUser) (User, error) {
	bs, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("generateFromPassword: %w", err)
	}

	//strip the monotonic clock so timestamps round-trip through the db
	now := time.Now().Truncate(time.Microsecond)

	usr := User{
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: bs,
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Phone:        nu.Phone,
		RoleID:       nu.RoleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := b.store.Create(ctx, usr)
	if err != nil {
		return User{}, fmt.Errorf("create: %w", err)
	}

	usr.ID = id
	return usr, nil
}

func (b *Bus) Update(ctx context.Context, usr User, updates UpdateUser) (User, error) {
	if updates.Email != nil {
		usr.Email = *updates.Email
	}

	if updates.FirstName != nil {
		usr.FirstName = *updates.FirstName
	}

	if updates.LastName != nil {
		usr.LastName = *updates.LastName
	}

	if updates.Phone != nil {
		usr.Phone = *updates.Phone
	}

	if updates.Password != nil {
		bs, err := bcrypt.GenerateFromPassword([]byte(*updates.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("generateFromPassword: %w", err)
		}

		usr.PasswordHash = bs
	}

	usr.UpdatedAt = time.Now().Truncate(time.Microsecond)
	if err := b.store.Update(ctx, usr); err != nil {
		return User{}, fmt.Errorf("update: %w", err)
	}

	return usr, nil
}

// UpdateRole reassigns a user to another role.
func (b *Bus) UpdateRole(ctx context.Context, usr User, roleID int64) (User, error) {
	usr.RoleID = roleID
	usr.UpdatedAt = time.Now().Truncate(time.Microsecond)

	if err := b.store.Update(ctx, usr); err != nil {
		return User{}, fmt.Errorf("update: %w", err)
	}

	//re-read so the joined role name reflects the reassignment
	updated, err := b.store.QueryByID(ctx, usr.ID)
	if err != nil {
		return User{}, fmt.Errorf("queryByID: %w", err)
	}

	return updated, nil
}

func (b *Bus) QueryByID(ctx context.Context, userID int64) (User, error) {
	usr, err := b.store.QueryByID(ctx, userID)
	if err != nil {
		return User{}, fmt.Errorf("queryByID: %w", err)
	}

	return usr, nil
}

func (b *Bus) Query(ctx context.Context, filters QueryFilter, orderBy Field, page page.Page) ([]User, error) {
	usrs, err := b.store.Query(ctx, filters, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return usrs, nil
}

func (b *Bus) Count(ctx context.Context, filters QueryFilter) (int, error) {
	return b.store.Count(ctx, filters)
}

// Authenticate verifies the credentials and returns the matching user.
// Lookup failures and password mismatches collapse into one error so callers
// cannot probe which usernames exist.
func (b *Bus) Authenticate(ctx context.Context, username string, password string) (User, error) {
	usr, err := b.store.QueryByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrAuthenticationFaild
		}
		return User{}, fmt.Errorf("queryByUsername: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(usr.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrAuthenticationFaild
	}

	return usr, nil
}

// Package bus implements the business rules for roles.
package bus

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("role not found")
	ErrDuplicatedName = errors.New("role name already in use")
	ErrRoleInUse      = errors.New("role is still referenced by users or shifts")
)

type store interface {
	Create(ctx context.Context, role Role) (int64, error)
	Delete(ctx context.Context, roleID int64) error
	QueryByID(ctx context.Context, roleID int64) (Role, error)
	Query(ctx context.Context) ([]Role, error)
}

type Bus struct {
	store store
}

func New(store store) *Bus {
	return &Bus{store: store}
}

func (b *Bus) Create(ctx context.Context, nr NewRole) (Role, error) {
	role := Role{
		Name:        nr.Name,
		Description: nr.Description,
	}

	id, err := b.store.Create(ctx, role)
	if err != nil {
		return Role{}, fmt.Errorf("create: %w", err)
	}

	role.ID = id
	return role, nil
}

// Delete removes a role. A role still referenced by any user or shift is a
// constraint violation, the caller has to reassign those records first.
func (b *Bus) Delete(ctx context.Context, roleID int64) error {
	if err := b.store.Delete(ctx, roleID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

func (b *Bus) QueryByID(ctx context.Context, roleID int64) (Role, error) {
	role, err := b.store.QueryByID(ctx, roleID)
	if err != nil {
		return Role{}, fmt.Errorf("queryByID: %w", err)
	}

	return role, nil
}

func (b *Bus) Query(ctx context.Context) ([]Role, error) {
	roles, err := b.store.Query(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return roles, nil
}

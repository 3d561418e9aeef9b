// Package bus implements the time off request workflow. A request starts
// pending, a manager confirms or refuses it exactly once, and the requester
// may withdraw it while it is still pending.
package bus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KSx23/archer/internal/page"
)

var (
	ErrNotFound         = errors.New("time off request not found")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrAlreadyDecided   = errors.New("request has already been decided")
	ErrNotRequester     = errors.New("only the requester can withdraw a request")
	ErrUnknownUser      = errors.New("referenced user does not exist")
)

type store interface {
	Create(ctx context.Context, req Request) (int64, error)
	Decide(ctx context.Context, requestID int64, status Status, now time.Time) (Request, error)
	Withdraw(ctx context.Context, requestID int64, userID int64) error
	QueryByID(ctx context.Context, requestID int64) (Request, error)
	Query(ctx context.Context, filters QueryFilter, orderBy Field, page page.Page) ([]Request, error)
	Count(ctx context.Context, filters QueryFilter) (int, error)
}

type Bus struct {
	store store
}

func New(store store) *Bus {
	return &Bus{store: store}
}

func (b *Bus) Submit(ctx context.Context, nr NewRequest) (Request, error) {
	if nr.StartDate > nr.EndDate {
		return Request{}, ErrInvalidDateRange
	}

	now := time.Now().Truncate(time.Microsecond)

	req := Request{
		UserID:    nr.UserID,
		StartDate: nr.StartDate,
		EndDate:   nr.EndDate,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := b.store.Create(ctx, req)
	if err != nil {
		return Request{}, fmt.Errorf("create: %w", err)
	}

	req.ID = id
	return req, nil
}

// Decide confirms or refuses a pending request. The transition is guarded on
// the pending state in the store, so a second decision on the same request
// fails with ErrAlreadyDecided and the first decision stands.
func (b *Bus) Decide(ctx context.Context, requestID int64, status Status) (Request, error) {
	if !status.IsTerminal() {
		return Request{}, fmt.Errorf("status %q is not a decision", status)
	}

	now := time.Now().Truncate(time.Microsecond)

	req, err := b.store.Decide(ctx, requestID, status, now)
	if err != nil {
		return Request{}, fmt.Errorf("decide: %w", err)
	}

	return req, nil
}

// Withdraw removes a still pending request at the requester's own initiative.
func (b *Bus) Withdraw(ctx context.Context, requestID int64, userID int64) error {
	if err := b.store.Withdraw(ctx, requestID, userID); err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}

	return nil
}

func (b *Bus) QueryByID(ctx context.Context, requestID int64) (Request, error) {
	req, err := b.store.QueryByID(ctx, requestID)
	if err != nil {
		return Request{}, fmt.Errorf("queryByID: %w", err)
	}

	return req, nil
}

func (b *Bus) Query(ctx context.Context, filters QueryFilter, orderBy Field, page page.Page) ([]Request, error) {
	reqs, err := b.store.Query(ctx, filters, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return reqs, nil
}

func (b *Bus) Count(ctx context.Context, filters QueryFilter) (int, error) {
	return b.store.Count(ctx, filters)
}

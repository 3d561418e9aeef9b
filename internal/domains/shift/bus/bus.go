// Package bus implements the claim/release state machine for shifts.
package bus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KSx23/archer/internal/page"
	"github.com/KSx23/archer/pkg/logger"
	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("shift not found")
	ErrAlreadyClaimed   = errors.New("shift is already claimed")
	ErrNotOwner         = errors.New("only the current owner can release a shift")
	ErrInvalidTimeRange = errors.New("start time must be before end time")
	ErrUnknownReference = errors.New("referenced user or role does not exist")
)

type store interface {
	Create(ctx context.Context, sh Shift) (int64, error)
	Delete(ctx context.Context, shiftID int64) error
	Claim(ctx context.Context, shiftID int64, userID int64, now time.Time) (Shift, error)
	Release(ctx context.Context, shiftID int64, userID int64, now time.Time) (Shift, error)
	QueryByID(ctx context.Context, shiftID int64) (Shift, error)
	Query(ctx context.Context, filters QueryFilter, orderBy Field, page page.Page) ([]Shift, error)
	Count(ctx context.Context, filters QueryFilter) (int, error)
}

// Dispatcher consumes the domain events this engine emits. Delivery is
// decoupled from the transition: a dispatch failure never unwinds a release.
type Dispatcher interface {
	ShiftReleased(ctx context.Context, ev ReleasedEvent) error
}

type Bus struct {
	store      store
	dispatcher Dispatcher
	log        *logger.Logger
}

func New(store store, dispatcher Dispatcher, log *logger.Logger) *Bus {
	return &Bus{
		store:      store,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (b *Bus) Create(ctx context.Context, ns NewShift) (Shift, error) {
	if ns.StartTime >= ns.EndTime {
		return Shift{}, ErrInvalidTimeRange
	}

	availability := AvailabilityOpen
	if ns.OwnerID != nil {
		availability = AvailabilityBooked
	}

	now := time.Now().Truncate(time.Microsecond)

	sh := Shift{
		OwnerID:      ns.OwnerID,
		StartTime:    ns.StartTime,
		EndTime:      ns.EndTime,
		Location:     ns.Location,
		Availability: availability,
		RoleID:       ns.RoleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := b.store.Create(ctx, sh)
	if err != nil {
		return Shift{}, fmt.Errorf("create: %w", err)
	}

	sh.ID = id
	return sh, nil
}

func (b *Bus) Delete(ctx context.Context, shiftID int64) error {
	if err := b.store.Delete(ctx, shiftID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// Claim assigns an unclaimed shift to the given user. The check and the write
// happen in a single statement against the store, so of two racing claims
// exactly one wins and the loser gets ErrAlreadyClaimed.
func (b *Bus) Claim(ctx context.Context, shiftID int64, userID int64) (Shift, error) {
	now := time.Now().Truncate(time.Microsecond)

	sh, err := b.store.Claim(ctx, shiftID, userID, now)
	if err != nil {
		return Shift{}, fmt.Errorf("claim: %w", err)
	}

	return sh, nil
}

// Release hands a shift back, only by its current owner, and emits a
// ReleasedEvent so other workers hear the shift is open again.
func (b *Bus) Release(ctx context.Context, shiftID int64, userID int64) (Shift, error) {
	now := time.Now().Truncate(time.Microsecond)

	sh, err := b.store.Release(ctx, shiftID, userID, now)
	if err != nil {
		return Shift{}, fmt.Errorf("release: %w", err)
	}

	ev := ReleasedEvent{
		EventID:    uuid.New(),
		ShiftID:    sh.ID,
		Location:   sh.Location,
		StartTime:  sh.StartTime,
		OccurredAt: now,
	}

	//the release is already committed, a dispatch failure only gets logged
	if err := b.dispatcher.ShiftReleased(ctx, ev); err != nil {
		b.log.Error(ctx, "dispatching shift released event", "shiftID", sh.ID, "eventID", ev.EventID.String(), "err", err.Error())
	}

	return sh, nil
}

func (b *Bus) QueryByID(ctx context.Context, shiftID int64) (Shift, error) {
	sh, err := b.store.QueryByID(ctx, shiftID)
	if err != nil {
		return Shift{}, fmt.Errorf("queryByID: %w", err)
	}

	return sh, nil
}

func (b *Bus) Query(ctx context.Context, filters QueryFilter, orderBy Field, page page.Page) ([]Shift, error) {
	shifts, err := b.store.Query(ctx, filters, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return shifts, nil
}

func (b *Bus) Count(ctx context.Context, filters QueryFilter) (int, error) {
	return b.store.Count(ctx, filters)
}

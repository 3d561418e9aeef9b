// Package bus dispatches notifications across three channels: the record
// store, a local alerter, and a topic broadcast. Each notification is
// persisted before any delivery, so the record survives a delivery failure.
package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	shiftBus "github.com/KSx23/archer/internal/domains/shift/bus"
	"github.com/KSx23/archer/internal/page"
	"github.com/KSx23/archer/pkg/logger"
)

// shiftReleasedMsg is what everyone hears when a shift opens up again.
const shiftReleasedMsg = "Shift is available for bookings!"

// Routing keys for the topic broadcast.
const (
	keyShiftReleased = "shift.released"
	keyManual        = "notification.manual"
)

const broadcastTimeout = 5 * time.Second

var (
	ErrNotFound    = errors.New("notification not found")
	ErrUnknownUser = errors.New("referenced user does not exist")
	ErrBroadcast   = errors.New("broadcast delivery failed")
)

type store interface {
	Create(ctx context.Context, n Notification) (int64, error)
	Update(ctx context.Context, n Notification) error
	SetStatus(ctx context.Context, notificationID int64, status Status, now time.Time) error
	Delete(ctx context.Context, notificationID int64) error
	QueryByID(ctx context.Context, notificationID int64) (Notification, error)
	Query(ctx context.Context, filters QueryFilter, orderBy Field, page page.Page) ([]Notification, error)
	Count(ctx context.Context, filters QueryFilter) (int, error)
}

// Alerter delivers a notification locally, to whatever the process has at
// hand for getting a user's attention.
type Alerter interface {
	Alert(ctx context.Context, n Notification) error
}

// Broadcaster fans a payload out to interested consumers by routing key.
type Broadcaster interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type Bus struct {
	store       store
	alerter     Alerter
	broadcaster Broadcaster
	log         *logger.Logger

	mu     sync.Mutex
	timers map[int64]*time.Timer
}

func New(store store, alerter Alerter, broadcaster Broadcaster, log *logger.Logger) *Bus {
	return &Bus{
		store:       store,
		alerter:     alerter,
		broadcaster: broadcaster,
		log:         log,
		timers:      make(map[int64]*time.Timer),
	}
}

// Dispatch persists a notification and delivers it. With a future DeliverAt
// the local alert is deferred on an in-process timer, at-least-once; there is
// no durable schedule, a restart drops pending timers. A broadcast failure
// marks the record failed and surfaces ErrBroadcast, but the persisted record
// and the local alert stand.
func (b *Bus) Dispatch(ctx context.Context, nn NewNotification) (Notification, error) {
	now := time.Now().Truncate(time.Microsecond)

	n := Notification{
		UserID:    nn.UserID,
		Message:   nn.Message,
		Status:    StatusUnsent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := b.store.Create(ctx, n)
	if err != nil {
		return Notification{}, fmt.Errorf("create: %w", err)
	}
	n.ID = id

	if nn.DeliverAt != nil {
		if d := time.Until(*nn.DeliverAt); d > 0 {
			b.schedule(n, d)
			return n, nil
		}
	}

	return b.deliver(ctx, n, keyManual)
}

// ShiftReleased consumes a booking engine event and fans the news out to
// everyone.
func (b *Bus) ShiftReleased(ctx context.Context, ev shiftBus.ReleasedEvent) error {
	now := time.Now().Truncate(time.Microsecond)

	n := Notification{
		Message:   shiftReleasedMsg,
		Status:    StatusUnsent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := b.store.Create(ctx, n)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	n.ID = id

	if err := b.alerter.Alert(ctx, n); err != nil {
		b.markStatus(ctx, n.ID, StatusFailed)
		return fmt.Errorf("alert: %w", err)
	}

	b.markStatus(ctx, n.ID, StatusSent)

	bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), broadcastTimeout)
	defer cancel()

	if err := b.broadcaster.PublishJSON(bctx, keyShiftReleased, ev); err != nil {
		b.markStatus(ctx, n.ID, StatusFailed)
		return fmt.Errorf("%w: %s", ErrBroadcast, err)
	}

	return nil
}

func (b *Bus) deliver(ctx context.Context, n Notification, key string) (Notification, error) {
	if err := b.alerter.Alert(ctx, n); err != nil {
		b.markStatus(ctx, n.ID, StatusFailed)
		n.Status = StatusFailed
		return n, fmt.Errorf("alert: %w", err)
	}

	b.markStatus(ctx, n.ID, StatusSent)
	n.Status = StatusSent

	bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), broadcastTimeout)
	defer cancel()

	if err := b.broadcaster.PublishJSON(bctx, key, n); err != nil {
		b.markStatus(ctx, n.ID, StatusFailed)
		n.Status = StatusFailed
		return n, fmt.Errorf("%w: %s", ErrBroadcast, err)
	}

	return n, nil
}

func (b *Bus) schedule(n Notification, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.timers[n.ID] = time.AfterFunc(d, func() {
		b.mu.Lock()
		delete(b.timers, n.ID)
		b.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
		defer cancel()

		if _, err := b.deliver(ctx, n, keyManual); err != nil {
			b.log.Error(ctx, "delivering scheduled notification", "notificationID", n.ID, "err", err.Error())
		}
	})
}

// CancelScheduled stops a pending timer before it fires. It reports whether
// a timer was still pending for the notification.
func (b *Bus) CancelScheduled(notificationID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, exists := b.timers[notificationID]
	if !exists {
		return false
	}

	t.Stop()
	delete(b.timers, notificationID)
	return true
}

func (b *Bus) Update(ctx context.Context, n Notification, un UpdateNotification) (Notification, error) {
	if un.Message != nil {
		n.Message = *un.Message
	}
	n.UpdatedAt = time.Now().Truncate(time.Microsecond)

	if err := b.store.Update(ctx, n); err != nil {
		return Notification{}, fmt.Errorf("update: %w", err)
	}

	return n, nil
}

// Delete removes the record and cancels its pending timer, if any.
func (b *Bus) Delete(ctx context.Context, notificationID int64) error {
	b.CancelScheduled(notificationID)

	if err := b.store.Delete(ctx, notificationID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

func (b *Bus) QueryByID(ctx context.Context, notificationID int64) (Notification, error) {
	n, err := b.store.QueryByID(ctx, notificationID)
	if err != nil {
		return Notification{}, fmt.Errorf("queryByID: %w", err)
	}

	return n, nil
}

func (b *Bus) Query(ctx context.Context, filters QueryFilter, orderBy Field, page page.Page) ([]Notification, error) {
	ns, err := b.store.Query(ctx, filters, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return ns, nil
}

func (b *Bus) Count(ctx context.Context, filters QueryFilter) (int, error) {
	return b.store.Count(ctx, filters)
}

func (b *Bus) markStatus(ctx context.Context, notificationID int64, status Status) {
	now := time.Now().Truncate(time.Microsecond)
	if err := b.store.SetStatus(ctx, notificationID, status, now); err != nil {
		b.log.Error(ctx, "updating notification status", "notificationID", notificationID, "status", status.String(), "err", err.Error())
	}
}

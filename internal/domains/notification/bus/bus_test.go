package bus_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/KSx23/archer/internal/domains/notification/bus"
	shiftBus "github.com/KSx23/archer/internal/domains/shift/bus"
	"github.com/KSx23/archer/internal/page"
	"github.com/KSx23/archer/pkg/logger"
)

// memStore keeps notifications in a map so the dispatcher can be exercised
// without a database.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]bus.Notification
}

func newMemStore() *memStore {
	return &memStore{items: make(map[int64]bus.Notification)}
}

func (m *memStore) Create(ctx context.Context, n bus.Notification) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	n.ID = m.nextID
	m.items[n.ID] = n
	return n.ID, nil
}

func (m *memStore) Update(ctx context.Context, n bus.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[n.ID]; !ok {
		return bus.ErrNotFound
	}
	m.items[n.ID] = n
	return nil
}

func (m *memStore) SetStatus(ctx context.Context, id int64, status bus.Status, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.items[id]
	if !ok {
		return bus.ErrNotFound
	}
	n.Status = status
	n.UpdatedAt = now
	m.items[id] = n
	return nil
}

func (m *memStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return bus.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) QueryByID(ctx context.Context, id int64) (bus.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.items[id]
	if !ok {
		return bus.Notification{}, bus.ErrNotFound
	}
	return n, nil
}

func (m *memStore) Query(ctx context.Context, filters bus.QueryFilter, orderBy bus.Field, page page.Page) ([]bus.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ns []bus.Notification
	for _, n := range m.items {
		ns = append(ns, n)
	}
	return ns, nil
}

func (m *memStore) Count(ctx context.Context, filters bus.QueryFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), nil
}

// ==============================================================================

type fakeAlerter struct {
	mu      sync.Mutex
	alerted []bus.Notification
	err     error
}

func (f *fakeAlerter) Alert(ctx context.Context, n bus.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.alerted = append(f.alerted, n)
	return nil
}

func (f *fakeAlerter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerted)
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakeBroadcaster) PublishJSON(ctx context.Context, key string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeBroadcaster) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError, logger.EnvironmentDev, "notification_bus_test", nil)
}

// ==============================================================================

func Test_Dispatch(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alerter := &fakeAlerter{}
	broadcaster := &fakeBroadcaster{}
	b := bus.New(store, alerter, broadcaster, testLogger())

	userID := int64(7)
	n, err := b.Dispatch(context.Background(), bus.NewNotification{
		UserID:  &userID,
		Message: "your shift tomorrow moved to the uptown store",
	})
	if err != nil {
		t.Fatalf("failed to dispatch: %s", err)
	}

	if !n.Status.Equal(bus.StatusSent) {
		t.Fatalf("expected status %q, got %q", bus.StatusSent, n.Status)
	}

	if alerter.count() != 1 {
		t.Fatalf("expected 1 alert, got %d", alerter.count())
	}

	keys := broadcaster.published()
	if len(keys) != 1 || keys[0] != "notification.manual" {
		t.Fatalf("expected one publish on notification.manual, got %v", keys)
	}

	stored, err := store.QueryByID(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("failed to query stored notification: %s", err)
	}

	if !stored.Status.Equal(bus.StatusSent) {
		t.Fatalf("expected stored status %q, got %q", bus.StatusSent, stored.Status)
	}
}

func Test_Dispatch_BroadcastFailure(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alerter := &fakeAlerter{}
	broadcaster := &fakeBroadcaster{err: errors.New("broker down")}
	b := bus.New(store, alerter, broadcaster, testLogger())

	n, err := b.Dispatch(context.Background(), bus.NewNotification{
		Message: "maintenance window tonight",
	})
	if !errors.Is(err, bus.ErrBroadcast) {
		t.Fatalf("expected %v, got %v", bus.ErrBroadcast, err)
	}

	//the record survives the failed broadcast, marked failed
	stored, qerr := store.QueryByID(context.Background(), n.ID)
	if qerr != nil {
		t.Fatalf("failed to query stored notification: %s", qerr)
	}

	if !stored.Status.Equal(bus.StatusFailed) {
		t.Fatalf("expected stored status %q, got %q", bus.StatusFailed, stored.Status)
	}

	//the local alert still went out before the broadcast failed
	if alerter.count() != 1 {
		t.Fatalf("expected 1 alert, got %d", alerter.count())
	}
}

func Test_Dispatch_AlertFailure(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alerter := &fakeAlerter{err: errors.New("no push channel")}
	broadcaster := &fakeBroadcaster{}
	b := bus.New(store, alerter, broadcaster, testLogger())

	n, err := b.Dispatch(context.Background(), bus.NewNotification{
		Message: "maintenance window tonight",
	})
	if err == nil {
		t.Fatal("expected an error when the alert fails")
	}

	stored, qerr := store.QueryByID(context.Background(), n.ID)
	if qerr != nil {
		t.Fatalf("failed to query stored notification: %s", qerr)
	}

	if !stored.Status.Equal(bus.StatusFailed) {
		t.Fatalf("expected stored status %q, got %q", bus.StatusFailed, stored.Status)
	}

	//nothing was broadcast for a notification that never alerted
	if len(broadcaster.published()) != 0 {
		t.Fatalf("expected no publishes, got %v", broadcaster.published())
	}
}

func Test_Dispatch_Delayed(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alerter := &fakeAlerter{}
	broadcaster := &fakeBroadcaster{}
	b := bus.New(store, alerter, broadcaster, testLogger())

	at := time.Now().Add(50 * time.Millisecond)
	n, err := b.Dispatch(context.Background(), bus.NewNotification{
		Message:   "shift starts in an hour",
		DeliverAt: &at,
	})
	if err != nil {
		t.Fatalf("failed to dispatch: %s", err)
	}

	if !n.Status.Equal(bus.StatusUnsent) {
		t.Fatalf("expected status %q before the timer fires, got %q", bus.StatusUnsent, n.Status)
	}

	if alerter.count() != 0 {
		t.Fatalf("expected no alert before the timer fires, got %d", alerter.count())
	}

	deadline := time.Now().Add(2 * time.Second)
	for alerter.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if alerter.count() != 1 {
		t.Fatalf("expected 1 alert after the timer fired, got %d", alerter.count())
	}

	stored, err := store.QueryByID(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("failed to query stored notification: %s", err)
	}

	if !stored.Status.Equal(bus.StatusSent) {
		t.Fatalf("expected stored status %q, got %q", bus.StatusSent, stored.Status)
	}
}

func Test_CancelScheduled(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alerter := &fakeAlerter{}
	broadcaster := &fakeBroadcaster{}
	b := bus.New(store, alerter, broadcaster, testLogger())

	at := time.Now().Add(time.Hour)
	n, err := b.Dispatch(context.Background(), bus.NewNotification{
		Message:   "shift starts in an hour",
		DeliverAt: &at,
	})
	if err != nil {
		t.Fatalf("failed to dispatch: %s", err)
	}

	if !b.CancelScheduled(n.ID) {
		t.Fatal("expected a pending timer to cancel")
	}

	//a second cancel has nothing left to stop
	if b.CancelScheduled(n.ID) {
		t.Fatal("expected no pending timer on second cancel")
	}

	if alerter.count() != 0 {
		t.Fatalf("expected no alert after cancel, got %d", alerter.count())
	}
}

func Test_Delete_CancelsTimer(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alerter := &fakeAlerter{}
	broadcaster := &fakeBroadcaster{}
	b := bus.New(store, alerter, broadcaster, testLogger())

	at := time.Now().Add(time.Hour)
	n, err := b.Dispatch(context.Background(), bus.NewNotification{
		Message:   "shift starts in an hour",
		DeliverAt: &at,
	})
	if err != nil {
		t.Fatalf("failed to dispatch: %s", err)
	}

	if err := b.Delete(context.Background(), n.ID); err != nil {
		t.Fatalf("failed to delete: %s", err)
	}

	if b.CancelScheduled(n.ID) {
		t.Fatal("expected delete to remove the pending timer")
	}

	_, err = b.QueryByID(context.Background(), n.ID)
	if !errors.Is(err, bus.ErrNotFound) {
		t.Fatalf("expected %v, got %v", bus.ErrNotFound, err)
	}
}

func Test_ShiftReleased(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	alerter := &fakeAlerter{}
	broadcaster := &fakeBroadcaster{}
	b := bus.New(store, alerter, broadcaster, testLogger())

	ev := shiftBus.ReleasedEvent{
		EventID:    uuid.New(),
		ShiftID:    42,
		Location:   "downtown",
		StartTime:  9,
		OccurredAt: time.Now(),
	}

	if err := b.ShiftReleased(context.Background(), ev); err != nil {
		t.Fatalf("failed to consume released event: %s", err)
	}

	if alerter.count() != 1 {
		t.Fatalf("expected 1 alert, got %d", alerter.count())
	}

	if alerter.alerted[0].Message != "Shift is available for bookings!" {
		t.Fatalf("unexpected message: %q", alerter.alerted[0].Message)
	}

	if alerter.alerted[0].UserID != nil {
		t.Fatalf("expected a broadcast notification with no recipient, got user %d", *alerter.alerted[0].UserID)
	}

	keys := broadcaster.published()
	if len(keys) != 1 || keys[0] != "shift.released" {
		t.Fatalf("expected one publish on shift.released, got %v", keys)
	}
}

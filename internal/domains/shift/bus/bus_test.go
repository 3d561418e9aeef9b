package bus_test

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/KSx23/archer/internal/dbtest"
	"github.com/KSx23/archer/internal/domains/shift/bus"
	"github.com/KSx23/archer/internal/domains/shift/store/shiftdb"
	"github.com/KSx23/archer/internal/page"
	"github.com/KSx23/archer/pkg/docker"
	"github.com/KSx23/archer/pkg/logger"
	"github.com/KSx23/archer/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var container docker.Container
var tracer trace.Tracer

func TestMain(m *testing.M) {
	// before all
	var err error
	container, err = dbtest.CreateDBContainer()
	if err != nil {
		log.Fatalf("createDBContainer: %s", err)
	}

	defer docker.StopContainer(container.Name)
	cfg := telemetry.Config{
		ServiceName: "shift_bus_test",
		Host:        "",
		Build:       "v0.0.1",
	}

	cleanup, err := telemetry.SetupOTelSDK(cfg)
	if err != nil {
		log.Fatalf("setupOTelSDK: %s", err)
	}

	tracer = otel.Tracer("shift_bus_tests")

	defer cleanup(context.Background())

	// tests
	os.Exit(m.Run())
}

// recordingDispatcher collects the released events the bus hands it.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []bus.ReleasedEvent
}

func (r *recordingDispatcher) ShiftReleased(ctx context.Context, ev bus.ReleasedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingDispatcher) all() []bus.ReleasedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bus.ReleasedEvent(nil), r.events...)
}

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError, logger.EnvironmentDev, "shift_bus_test", nil)
}

func Test_CreateShift(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "create_shift")
	store := shiftdb.NewStore(db, tracer)
	b := bus.New(store, &recordingDispatcher{}, testLogger())

	roleID := dbtest.SeedRole(t, db, "barista")

	ns := bus.NewShift{
		StartTime: 9,
		EndTime:   17.5,
		Location:  "downtown",
		RoleID:    roleID,
	}

	sh, err := b.Create(context.Background(), ns)
	if err != nil {
		t.Fatalf("failed to create a shift: %s", err)
	}

	if sh.OwnerID != nil {
		t.Fatalf("expected a fresh shift to have no owner, got %d", *sh.OwnerID)
	}

	if sh.Availability != bus.AvailabilityOpen {
		t.Fatalf("expected availability %q, got %q", bus.AvailabilityOpen, sh.Availability)
	}

	fetched, err := b.QueryByID(context.Background(), sh.ID)
	if err != nil {
		t.Fatalf("failed to query by id: %s", err)
	}

	opts := []cmp.Option{
		cmp.AllowUnexported(bus.Availability{}),
	}
	if diff := cmp.Diff(fetched, sh, opts...); diff != "" {
		t.Errorf("mismatch (-got +want):\n%s", diff)
	}
}

func Test_CreateShift_InvalidTimeRange(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "create_shift_range")
	store := shiftdb.NewStore(db, tracer)
	b := bus.New(store, &recordingDispatcher{}, testLogger())

	roleID := dbtest.SeedRole(t, db, "barista")

	ns := bus.NewShift{
		StartTime: 17,
		EndTime:   9,
		Location:  "downtown",
		RoleID:    roleID,
	}

	_, err := b.Create(context.Background(), ns)
	if !errors.Is(err, bus.ErrInvalidTimeRange) {
		t.Fatalf("expected %v, got %v", bus.ErrInvalidTimeRange, err)
	}
}

func Test_ClaimRelease_Lifecycle(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "claim_release")
	store := shiftdb.NewStore(db, tracer)
	dispatcher := &recordingDispatcher{}
	b := bus.New(store, dispatcher, testLogger())

	roleID := dbtest.SeedRole(t, db, "barista")
	workerID := dbtest.SeedUser(t, db, "worker1", roleID)
	otherID := dbtest.SeedUser(t, db, "worker2", roleID)

	sh, err := b.Create(context.Background(), bus.NewShift{
		StartTime: 9,
		EndTime:   17,
		Location:  "downtown",
		RoleID:    roleID,
	})
	if err != nil {
		t.Fatalf("failed to create a shift: %s", err)
	}

	claimed, err := b.Claim(context.Background(), sh.ID, workerID)
	if err != nil {
		t.Fatalf("failed to claim: %s", err)
	}

	if claimed.OwnerID == nil || *claimed.OwnerID != workerID {
		t.Fatalf("expected owner %d, got %v", workerID, claimed.OwnerID)
	}

	if claimed.Availability != bus.AvailabilityBooked {
		t.Fatalf("expected availability %q, got %q", bus.AvailabilityBooked, claimed.Availability)
	}

	//a second claim must lose and leave the owner untouched
	_, err = b.Claim(context.Background(), sh.ID, otherID)
	if !errors.Is(err, bus.ErrAlreadyClaimed) {
		t.Fatalf("expected %v, got %v", bus.ErrAlreadyClaimed, err)
	}

	current, err := b.QueryByID(context.Background(), sh.ID)
	if err != nil {
		t.Fatalf("failed to query by id: %s", err)
	}

	if current.OwnerID == nil || *current.OwnerID != workerID {
		t.Fatalf("losing claim changed the owner: %v", current.OwnerID)
	}

	//only the owner can release
	_, err = b.Release(context.Background(), sh.ID, otherID)
	if !errors.Is(err, bus.ErrNotOwner) {
		t.Fatalf("expected %v, got %v", bus.ErrNotOwner, err)
	}

	released, err := b.Release(context.Background(), sh.ID, workerID)
	if err != nil {
		t.Fatalf("failed to release: %s", err)
	}

	if released.OwnerID != nil {
		t.Fatalf("expected released shift to have no owner, got %d", *released.OwnerID)
	}

	if released.Availability != bus.AvailabilityOpen {
		t.Fatalf("expected availability %q, got %q", bus.AvailabilityOpen, released.Availability)
	}

	events := dispatcher.all()
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 released event, got %d", len(events))
	}

	if events[0].ShiftID != sh.ID {
		t.Fatalf("expected event for shift %d, got %d", sh.ID, events[0].ShiftID)
	}

	//released shift is up for grabs again
	reclaimed, err := b.Claim(context.Background(), sh.ID, otherID)
	if err != nil {
		t.Fatalf("failed to claim released shift: %s", err)
	}

	if reclaimed.OwnerID == nil || *reclaimed.OwnerID != otherID {
		t.Fatalf("expected owner %d, got %v", otherID, reclaimed.OwnerID)
	}
}

func Test_Claim_NotFound(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "claim_not_found")
	store := shiftdb.NewStore(db, tracer)
	b := bus.New(store, &recordingDispatcher{}, testLogger())

	roleID := dbtest.SeedRole(t, db, "barista")
	workerID := dbtest.SeedUser(t, db, "worker1", roleID)

	_, err := b.Claim(context.Background(), 424242, workerID)
	if !errors.Is(err, bus.ErrNotFound) {
		t.Fatalf("expected %v, got %v", bus.ErrNotFound, err)
	}
}

func Test_ConcurrentClaims(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "concurrent_claims")
	store := shiftdb.NewStore(db, tracer)
	b := bus.New(store, &recordingDispatcher{}, testLogger())

	roleID := dbtest.SeedRole(t, db, "barista")

	const workers = 8
	workerIDs := make([]int64, workers)
	for i := range workerIDs {
		workerIDs[i] = dbtest.SeedUser(t, db, "worker"+string(rune('a'+i)), roleID)
	}

	sh, err := b.Create(context.Background(), bus.NewShift{
		StartTime: 9,
		EndTime:   17,
		Location:  "downtown",
		RoleID:    roleID,
	})
	if err != nil {
		t.Fatalf("failed to create a shift: %s", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := range workers {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := b.Claim(context.Background(), sh.ID, userID)
			results <- err
		}(workerIDs[i])
	}

	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, bus.ErrAlreadyClaimed):
			conflicts++
		default:
			t.Fatalf("unexpected error: %s", err)
		}
	}

	if wins != 1 {
		t.Fatalf("expected exactly 1 winning claim, got %d", wins)
	}

	if conflicts != workers-1 {
		t.Fatalf("expected %d conflicts, got %d", workers-1, conflicts)
	}
}

func Test_QueryShifts(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "query_shifts")
	store := shiftdb.NewStore(db, tracer)
	b := bus.New(store, &recordingDispatcher{}, testLogger())

	roleID := dbtest.SeedRole(t, db, "barista")

	for i := range 3 {
		_, err := b.Create(context.Background(), bus.NewShift{
			StartTime: float64(8 + i),
			EndTime:   float64(16 + i),
			Location:  "downtown",
			RoleID:    roleID,
		})
		if err != nil {
			t.Fatalf("failed to create a shift: %s", err)
		}
	}

	open := bus.AvailabilityOpen
	filters := bus.QueryFilter{Availability: &open}

	orderBy, err := bus.ParseOrderBy("")
	if err != nil {
		t.Fatalf("failed to parse order by: %s", err)
	}

	pg, err := page.Parse("1", "10")
	if err != nil {
		t.Fatalf("failed to parse page: %s", err)
	}

	shifts, err := b.Query(context.Background(), filters, orderBy, pg)
	if err != nil {
		t.Fatalf("failed to query: %s", err)
	}

	if len(shifts) != 3 {
		t.Fatalf("expected 3 shifts, got %d", len(shifts))
	}

	//default order is most recent start time first
	if shifts[0].StartTime < shifts[1].StartTime {
		t.Fatalf("expected descending start times, got %v then %v", shifts[0].StartTime, shifts[1].StartTime)
	}

	total, err := b.Count(context.Background(), filters)
	if err != nil {
		t.Fatalf("failed to count: %s", err)
	}

	if total != 3 {
		t.Fatalf("expected count 3, got %d", total)
	}
}

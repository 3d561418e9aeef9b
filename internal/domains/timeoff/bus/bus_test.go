package bus_test

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/KSx23/archer/internal/dbtest"
	"github.com/KSx23/archer/internal/domains/timeoff/bus"
	"github.com/KSx23/archer/internal/domains/timeoff/store/timeoffdb"
	"github.com/KSx23/archer/internal/page"
	"github.com/KSx23/archer/pkg/docker"
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
		ServiceName: "timeoff_bus_test",
		Host:        "",
		Build:       "v0.0.1",
	}

	cleanup, err := telemetry.SetupOTelSDK(cfg)
	if err != nil {
		log.Fatalf("setupOTelSDK: %s", err)
	}

	tracer = otel.Tracer("timeoff_bus_tests")

	defer cleanup(context.Background())

	// tests
	os.Exit(m.Run())
}

func dates(t *testing.T) (int64, int64) {
	t.Helper()

	start := time.Date(2026, time.October, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)
	return start.UnixMilli(), end.UnixMilli()
}

func Test_Submit(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "submit_request")
	b := bus.New(timeoffdb.NewStore(db, tracer))

	roleID := dbtest.SeedRole(t, db, "barista")
	userID := dbtest.SeedUser(t, db, "worker1", roleID)

	start, end := dates(t)

	req, err := b.Submit(context.Background(), bus.NewRequest{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		t.Fatalf("failed to submit: %s", err)
	}

	if !req.Status.Equal(bus.StatusPending) {
		t.Fatalf("expected status %q, got %q", bus.StatusPending, req.Status)
	}

	fetched, err := b.QueryByID(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("failed to query by id: %s", err)
	}

	opts := []cmp.Option{
		cmp.AllowUnexported(bus.Status{}),
	}
	if diff := cmp.Diff(fetched, req, opts...); diff != "" {
		t.Errorf("mismatch (-got +want):\n%s", diff)
	}
}

func Test_Submit_InvalidDateRange(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "submit_bad_range")
	b := bus.New(timeoffdb.NewStore(db, tracer))

	roleID := dbtest.SeedRole(t, db, "barista")
	userID := dbtest.SeedUser(t, db, "worker1", roleID)

	start, end := dates(t)

	_, err := b.Submit(context.Background(), bus.NewRequest{
		UserID:    userID,
		StartDate: end,
		EndDate:   start,
	})
	if !errors.Is(err, bus.ErrInvalidDateRange) {
		t.Fatalf("expected %v, got %v", bus.ErrInvalidDateRange, err)
	}
}

func Test_Decide(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "decide_request")
	b := bus.New(timeoffdb.NewStore(db, tracer))

	roleID := dbtest.SeedRole(t, db, "barista")
	userID := dbtest.SeedUser(t, db, "worker1", roleID)

	start, end := dates(t)

	req, err := b.Submit(context.Background(), bus.NewRequest{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		t.Fatalf("failed to submit: %s", err)
	}

	decided, err := b.Decide(context.Background(), req.ID, bus.StatusConfirmed)
	if err != nil {
		t.Fatalf("failed to decide: %s", err)
	}

	if !decided.Status.Equal(bus.StatusConfirmed) {
		t.Fatalf("expected status %q, got %q", bus.StatusConfirmed, decided.Status)
	}

	//a second decision must lose and leave the first one standing
	_, err = b.Decide(context.Background(), req.ID, bus.StatusRefused)
	if !errors.Is(err, bus.ErrAlreadyDecided) {
		t.Fatalf("expected %v, got %v", bus.ErrAlreadyDecided, err)
	}

	current, err := b.QueryByID(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("failed to query by id: %s", err)
	}

	if !current.Status.Equal(bus.StatusConfirmed) {
		t.Fatalf("losing decision changed the status to %q", current.Status)
	}
}

func Test_Decide_NonTerminalStatus(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "decide_pending")
	b := bus.New(timeoffdb.NewStore(db, tracer))

	_, err := b.Decide(context.Background(), 1, bus.StatusPending)
	if err == nil {
		t.Fatal("expected an error deciding with a non terminal status")
	}
}

func Test_Withdraw(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "withdraw_request")
	b := bus.New(timeoffdb.NewStore(db, tracer))

	roleID := dbtest.SeedRole(t, db, "barista")
	userID := dbtest.SeedUser(t, db, "worker1", roleID)
	otherID := dbtest.SeedUser(t, db, "worker2", roleID)

	start, end := dates(t)

	req, err := b.Submit(context.Background(), bus.NewRequest{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		t.Fatalf("failed to submit: %s", err)
	}

	//someone else cannot withdraw it
	err = b.Withdraw(context.Background(), req.ID, otherID)
	if !errors.Is(err, bus.ErrNotRequester) {
		t.Fatalf("expected %v, got %v", bus.ErrNotRequester, err)
	}

	if err := b.Withdraw(context.Background(), req.ID, userID); err != nil {
		t.Fatalf("failed to withdraw: %s", err)
	}

	_, err = b.QueryByID(context.Background(), req.ID)
	if !errors.Is(err, bus.ErrNotFound) {
		t.Fatalf("expected %v, got %v", bus.ErrNotFound, err)
	}
}

func Test_Withdraw_AfterDecision(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "withdraw_decided")
	b := bus.New(timeoffdb.NewStore(db, tracer))

	roleID := dbtest.SeedRole(t, db, "barista")
	userID := dbtest.SeedUser(t, db, "worker1", roleID)

	start, end := dates(t)

	req, err := b.Submit(context.Background(), bus.NewRequest{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		t.Fatalf("failed to submit: %s", err)
	}

	if _, err := b.Decide(context.Background(), req.ID, bus.StatusRefused); err != nil {
		t.Fatalf("failed to decide: %s", err)
	}

	err = b.Withdraw(context.Background(), req.ID, userID)
	if !errors.Is(err, bus.ErrAlreadyDecided) {
		t.Fatalf("expected %v, got %v", bus.ErrAlreadyDecided, err)
	}
}

func Test_QueryByUser(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "query_requests")
	b := bus.New(timeoffdb.NewStore(db, tracer))

	roleID := dbtest.SeedRole(t, db, "barista")
	userID := dbtest.SeedUser(t, db, "worker1", roleID)
	otherID := dbtest.SeedUser(t, db, "worker2", roleID)

	start, end := dates(t)

	for _, id := range []int64{userID, userID, otherID} {
		if _, err := b.Submit(context.Background(), bus.NewRequest{
			UserID:    id,
			StartDate: start,
			EndDate:   end,
		}); err != nil {
			t.Fatalf("failed to submit: %s", err)
		}
	}

	filters := bus.QueryFilter{UserID: &userID}

	orderBy, err := bus.ParseOrderBy("")
	if err != nil {
		t.Fatalf("failed to parse order by: %s", err)
	}

	pg, err := page.Parse("1", "10")
	if err != nil {
		t.Fatalf("failed to parse page: %s", err)
	}

	reqs, err := b.Query(context.Background(), filters, orderBy, pg)
	if err != nil {
		t.Fatalf("failed to query: %s", err)
	}

	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}

	for _, r := range reqs {
		if r.UserID != userID {
			t.Fatalf("expected requests for user %d, got %d", userID, r.UserID)
		}
	}
}

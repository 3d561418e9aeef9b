package bus_test

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/KSx23/archer/internal/dbtest"
	"github.com/KSx23/archer/internal/domains/role/bus"
	"github.com/KSx23/archer/internal/domains/role/store/roledb"
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
		ServiceName: "role_bus_test",
		Host:        "",
		Build:       "v0.0.1",
	}

	cleanup, err := telemetry.SetupOTelSDK(cfg)
	if err != nil {
		log.Fatalf("setupOTelSDK: %s", err)
	}

	tracer = otel.Tracer("role_bus_tests")

	defer cleanup(context.Background())

	// tests
	os.Exit(m.Run())
}

func Test_CreateRole(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "create_role")
	b := bus.New(roledb.NewStore(db, tracer))

	r, err := b.Create(context.Background(), bus.NewRole{
		Name:        "barista",
		Description: "makes the coffee",
	})
	if err != nil {
		t.Fatalf("failed to create a role: %s", err)
	}

	fetched, err := b.QueryByID(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("failed to query by id: %s", err)
	}

	if fetched != r {
		t.Fatalf("expected %+v, got %+v", r, fetched)
	}

	//names are unique
	_, err = b.Create(context.Background(), bus.NewRole{Name: "barista"})
	if !errors.Is(err, bus.ErrDuplicatedName) {
		t.Fatalf("expected %v, got %v", bus.ErrDuplicatedName, err)
	}
}

func Test_DeleteRole(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "delete_role")
	b := bus.New(roledb.NewStore(db, tracer))

	r, err := b.Create(context.Background(), bus.NewRole{Name: "barista"})
	if err != nil {
		t.Fatalf("failed to create a role: %s", err)
	}

	if err := b.Delete(context.Background(), r.ID); err != nil {
		t.Fatalf("failed to delete: %s", err)
	}

	err = b.Delete(context.Background(), r.ID)
	if !errors.Is(err, bus.ErrNotFound) {
		t.Fatalf("expected %v, got %v", bus.ErrNotFound, err)
	}
}

func Test_DeleteRole_InUse(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "delete_role_in_use")
	b := bus.New(roledb.NewStore(db, tracer))

	r, err := b.Create(context.Background(), bus.NewRole{Name: "barista"})
	if err != nil {
		t.Fatalf("failed to create a role: %s", err)
	}

	dbtest.SeedUser(t, db, "worker1", r.ID)

	//a referenced role cannot be silently deleted
	err = b.Delete(context.Background(), r.ID)
	if !errors.Is(err, bus.ErrRoleInUse) {
		t.Fatalf("expected %v, got %v", bus.ErrRoleInUse, err)
	}

	fetched, err := b.QueryByID(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("expected the role to survive, query failed: %s", err)
	}

	if fetched.Name != "barista" {
		t.Fatalf("unexpected role after failed delete: %+v", fetched)
	}
}

func Test_QueryRoles(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "query_roles")
	b := bus.New(roledb.NewStore(db, tracer))

	for _, name := range []string{"admin", "manager", "worker"} {
		if _, err := b.Create(context.Background(), bus.NewRole{Name: name}); err != nil {
			t.Fatalf("failed to create role %s: %s", name, err)
		}
	}

	roles, err := b.Query(context.Background())
	if err != nil {
		t.Fatalf("failed to query: %s", err)
	}

	if len(roles) != 3 {
		t.Fatalf("expected 3 roles, got %d", len(roles))
	}
}

package bus_test

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/KSx23/archer/internal/dbtest"
	"github.com/KSx23/archer/internal/domains/user/bus"
	"github.com/KSx23/archer/internal/domains/user/store/userdb"
	"github.com/KSx23/archer/pkg/docker"
	"github.com/KSx23/archer/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
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
		ServiceName: "user_bus_test",
		Host:        "",
		Build:       "v0.0.1",
	}

	cleanup, err := telemetry.SetupOTelSDK(cfg)
	if err != nil {
		log.Fatalf("setupOTelSDK: %s", err)
	}

	tracer = otel.Tracer("user_bus_tests")

	defer cleanup(context.Background())

	// tests
	os.Exit(m.Run())
}

func newUserFixture(roleID int64) bus.NewUser {
	return bus.NewUser{
		Username: "jdoe",
		Email: mail.Address{
			Name:    "John Doe",
			Address: "john@example.com",
		},
		Password:  "test12345",
		FirstName: "John",
		LastName:  "Doe",
		Phone:     "+15555550100",
		RoleID:    roleID,
	}
}

func Test_CreateUser(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "create_user")
	b := bus.New(userdb.NewStore(db, tracer))

	roleID := dbtest.SeedRole(t, db, "worker")

	nu := newUserFixture(roleID)

	usr, err := b.Create(context.Background(), nu)
	if err != nil {
		t.Fatalf("failed to create a user: %s", err)
	}

	//check password
	if err := bcrypt.CompareHashAndPassword(usr.PasswordHash, []byte(nu.Password)); err != nil {
		t.Fatalf("passwords did not match")
	}

	fetched, err := b.QueryByID(context.Background(), usr.ID)
	if err != nil {
		t.Fatalf("failed to query by id: %s", err)
	}

	if fetched.RoleName != "worker" {
		t.Fatalf("expected joined role name %q, got %q", "worker", fetched.RoleName)
	}

	//the joined role name only exists on reads
	usr.RoleName = fetched.RoleName
	if diff := cmp.Diff(fetched, usr); diff != "" {
		t.Errorf("mismatch (-got +want):\n%s", diff)
	}
}

func Test_CreateUser_Duplicates(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "create_user_dup")
	b := bus.New(userdb.NewStore(db, tracer))

	roleID := dbtest.SeedRole(t, db, "worker")

	nu := newUserFixture(roleID)
	if _, err := b.Create(context.Background(), nu); err != nil {
		t.Fatalf("failed to create a user: %s", err)
	}

	_, err := b.Create(context.Background(), nu)
	if !errors.Is(err, bus.ErrDuplicatedUsername) {
		t.Fatalf("expected %v, got %v", bus.ErrDuplicatedUsername, err)
	}

	nu.Username = "jdoe2"
	_, err = b.Create(context.Background(), nu)
	if !errors.Is(err, bus.ErrDuplicatedEmail) {
		t.Fatalf("expected %v, got %v", bus.ErrDuplicatedEmail, err)
	}
}

func Test_CreateUser_UnknownRole(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "create_user_no_role")
	b := bus.New(userdb.NewStore(db, tracer))

	nu := newUserFixture(424242)

	_, err := b.Create(context.Background(), nu)
	if !errors.Is(err, bus.ErrUnknownRole) {
		t.Fatalf("expected %v, got %v", bus.ErrUnknownRole, err)
	}
}

func Test_UpdateUser(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "update_user")
	b := bus.New(userdb.NewStore(db, tracer))

	roleID := dbtest.SeedRole(t, db, "worker")

	usr, err := b.Create(context.Background(), newUserFixture(roleID))
	if err != nil {
		t.Fatalf("failed to create a user: %s", err)
	}

	newPhone := "+15555550199"
	updated, err := b.Update(context.Background(), usr, bus.UpdateUser{Phone: &newPhone})
	if err != nil {
		t.Fatalf("failed to update: %s", err)
	}

	if updated.Phone != newPhone {
		t.Fatalf("expected phone %q, got %q", newPhone, updated.Phone)
	}

	//untouched fields survive
	if updated.Username != usr.Username || updated.Email != usr.Email {
		t.Fatalf("update touched unrelated fields: %+v", updated)
	}
}

func Test_UpdateRole(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "update_user_role")
	b := bus.New(userdb.NewStore(db, tracer))

	workerRole := dbtest.SeedRole(t, db, "worker")
	managerRole := dbtest.SeedRole(t, db, "manager")

	usr, err := b.Create(context.Background(), newUserFixture(workerRole))
	if err != nil {
		t.Fatalf("failed to create a user: %s", err)
	}

	updated, err := b.UpdateRole(context.Background(), usr, managerRole)
	if err != nil {
		t.Fatalf("failed to update role: %s", err)
	}

	if updated.RoleID != managerRole {
		t.Fatalf("expected role id %d, got %d", managerRole, updated.RoleID)
	}

	if updated.RoleName != "manager" {
		t.Fatalf("expected joined role name %q, got %q", "manager", updated.RoleName)
	}
}

func Test_Authenticate(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t, container, "authenticate_user")
	b := bus.New(userdb.NewStore(db, tracer))

	roleID := dbtest.SeedRole(t, db, "worker")

	nu := newUserFixture(roleID)
	if _, err := b.Create(context.Background(), nu); err != nil {
		t.Fatalf("failed to create a user: %s", err)
	}

	usr, err := b.Authenticate(context.Background(), nu.Username, nu.Password)
	if err != nil {
		t.Fatalf("failed to authenticate: %s", err)
	}

	if usr.Username != nu.Username {
		t.Fatalf("expected username %q, got %q", nu.Username, usr.Username)
	}

	//wrong password and unknown username fail the same way
	_, err = b.Authenticate(context.Background(), nu.Username, "wrong-password")
	if !errors.Is(err, bus.ErrAuthenticationFaild) {
		t.Fatalf("expected %v, got %v", bus.ErrAuthenticationFaild, err)
	}

	_, err = b.Authenticate(context.Background(), "nobody", nu.Password)
	if !errors.Is(err, bus.ErrAuthenticationFaild) {
		t.Fatalf("expected %v, got %v", bus.ErrAuthenticationFaild, err)
	}
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/observability"
	"github.com/spec-kit/civic-report/internal/persistence"
)

func newTestKV(t *testing.T) *persistence.FileKV {
	t.Helper()
	kv, err := persistence.NewFileKV(filepath.Join(t.TempDir(), "store.json"), zap.NewNop())
	if err != nil {
		t.Fatalf("new file kv: %v", err)
	}
	return kv
}

func newUserStore(t *testing.T, kv persistence.KV) *UserStore {
	t.Helper()
	s, err := NewUserStore(context.Background(), kv, zap.NewNop(), observability.NewMetrics())
	if err != nil {
		t.Fatalf("new user store: %v", err)
	}
	return s
}

// sequentialIDs replaces the time-based generator with a deterministic one.
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func TestUserStoreSeedsWhenEmpty(t *testing.T) {
	kv := newTestKV(t)
	s := newUserStore(t, kv)

	if s.Count() != 3 {
		t.Fatalf("expected 3 seeded accounts, got %d", s.Count())
	}
	users := s.Users()
	if users[0].Role != domain.RoleCitizen {
		t.Fatalf("first seed should be a citizen, got %s", users[0].Role)
	}
	govDepartments := map[string]bool{}
	for _, u := range users[1:] {
		if u.Role != domain.RoleGovernment {
			t.Fatalf("expected government seed, got %s", u.Role)
		}
		govDepartments[u.Department] = true
	}
	if len(govDepartments) != 2 {
		t.Fatalf("expected two distinct departments, got %v", govDepartments)
	}
}

func TestUserStoreDoesNotReseedExistingCollection(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	existing := []domain.User{{ID: "42", Name: "Solo", Email: "solo@example.com", Password: "pw", Role: domain.RoleCitizen}}
	raw, _ := json.Marshal(existing)
	if err := kv.Set(ctx, persistence.KeyUsers, raw); err != nil {
		t.Fatalf("set: %v", err)
	}

	s := newUserStore(t, kv)
	if s.Count() != 1 {
		t.Fatalf("expected existing collection untouched, got %d users", s.Count())
	}
}

func TestRegisterAssignsDistinctIDs(t *testing.T) {
	ctx := context.Background()
	s := newUserStore(t, newTestKV(t))
	s.newID = sequentialIDs("u")

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		before := s.Count()
		ok, err := s.Register(ctx, "User", fmt.Sprintf("user%d@example.com", i), "pw", domain.RoleCitizen, "")
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if !ok {
			t.Fatalf("register %d failed", i)
		}
		if s.Count() != before+1 {
			t.Fatalf("expected size to grow by one, got %d -> %d", before, s.Count())
		}
		id := s.Current().ID
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestRegisterDuplicateEmailFails(t *testing.T) {
	ctx := context.Background()
	s := newUserStore(t, newTestKV(t))

	before := s.Count()
	ok, err := s.Register(ctx, "Impostor", "citizen@example.com", "other", domain.RoleCitizen, "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if ok {
		t.Fatal("expected duplicate email to fail")
	}
	if s.Count() != before {
		t.Fatalf("store size changed on failed registration: %d -> %d", before, s.Count())
	}
}

func TestRegisterGovernmentKeepsDepartment(t *testing.T) {
	ctx := context.Background()
	s := newUserStore(t, newTestKV(t))

	ok, err := s.Register(ctx, "PWD Official", "pwd@gov.in", "gov123", domain.RoleGovernment, string(domain.DepartmentPWD))
	if err != nil || !ok {
		t.Fatalf("register: ok=%v err=%v", ok, err)
	}
	if got := s.Current().Department; got != string(domain.DepartmentPWD) {
		t.Fatalf("expected department PWD, got %q", got)
	}
}

func TestLoginExactMatchAndSession(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := newUserStore(t, kv)

	ok, err := s.Login(ctx, "citizen@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !ok {
		t.Fatal("expected login to succeed")
	}
	if s.Current() == nil || s.Current().Email != "citizen@example.com" {
		t.Fatal("session identity not established")
	}

	// Session identity persists and is restored on a fresh store.
	restored := newUserStore(t, kv)
	if restored.Current() == nil || restored.Current().Email != "citizen@example.com" {
		t.Fatal("session identity not restored from storage")
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	ctx := context.Background()
	s := newUserStore(t, newTestKV(t))

	cases := []struct{ email, password string }{
		{"citizen@example.com", "wrong"},
		{"nobody@example.com", "password123"},
		{"CITIZEN@EXAMPLE.COM", "password123"}, // comparison is case-sensitive
	}
	for _, tc := range cases {
		ok, err := s.Login(ctx, tc.email, tc.password)
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if ok {
			t.Fatalf("expected login failure for %s/%s", tc.email, tc.password)
		}
	}
	if s.Current() != nil {
		t.Fatal("failed logins must not establish a session")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := newUserStore(t, kv)

	if ok, _ := s.Login(ctx, "citizen@example.com", "password123"); !ok {
		t.Fatal("login failed")
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if s.Current() != nil {
		t.Fatal("session not cleared in memory")
	}
	if _, ok, _ := kv.Get(ctx, persistence.KeyCurrentUser); ok {
		t.Fatal("session key not cleared from storage")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newUserStore(t, newTestKV(t))
	if ok, _ := s.Register(ctx, "Extra", "extra@example.com", "pw", domain.RoleCitizen, ""); !ok {
		t.Fatal("register failed")
	}
	before := s.Users()

	exported, err := s.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	ok, err := s.Import(ctx, exported)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !ok {
		t.Fatal("round-trip import rejected")
	}
	if !reflect.DeepEqual(before, s.Users()) {
		t.Fatalf("round trip changed collection:\nbefore: %+v\nafter:  %+v", before, s.Users())
	}
}

func TestImportInvalidPayloadLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	s := newUserStore(t, newTestKV(t))
	before := s.Users()

	for _, payload := range []string{"not json", `{"id":"1"}`, "", "null"} {
		ok, err := s.Import(ctx, []byte(payload))
		if err != nil {
			t.Fatalf("import: %v", err)
		}
		if ok {
			t.Fatalf("expected import of %q to fail", payload)
		}
	}
	if !reflect.DeepEqual(before, s.Users()) {
		t.Fatal("failed import mutated the collection")
	}
}

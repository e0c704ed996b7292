package store

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/observability"
	"github.com/spec-kit/civic-report/internal/persistence"
)

// newEmptyComplaintStore pre-writes an empty collection so the store does
// not seed demonstration complaints.
func newEmptyComplaintStore(t *testing.T, kv persistence.KV) *ComplaintStore {
	t.Helper()
	if err := kv.Set(context.Background(), persistence.KeyComplaints, []byte(`[]`)); err != nil {
		t.Fatalf("prime complaints key: %v", err)
	}
	s, err := NewComplaintStore(context.Background(), kv, zap.NewNop(), observability.NewMetrics())
	if err != nil {
		t.Fatalf("new complaint store: %v", err)
	}
	return s
}

func TestComplaintStoreSeedsWhenEmpty(t *testing.T) {
	kv := newTestKV(t)
	s, err := NewComplaintStore(context.Background(), kv, zap.NewNop(), observability.NewMetrics())
	if err != nil {
		t.Fatalf("new complaint store: %v", err)
	}

	if s.Count() != 3 {
		t.Fatalf("expected 3 seeded complaints, got %d", s.Count())
	}
	statuses := map[domain.ComplaintStatus]bool{}
	for _, c := range s.All() {
		statuses[c.Status] = true
	}
	if len(statuses) != 3 {
		t.Fatalf("expected three distinct statuses, got %v", statuses)
	}

	// Reopening must not reseed.
	reopened, err := NewComplaintStore(context.Background(), kv, zap.NewNop(), observability.NewMetrics())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Count() != 3 {
		t.Fatalf("reopen changed collection size: %d", reopened.Count())
	}
}

func TestCreateThenRetrieve(t *testing.T) {
	ctx := context.Background()
	s := newEmptyComplaintStore(t, newTestKV(t))
	fixed := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	created, err := s.Create(ctx, ComplaintCreateInput{
		UserID:      "1",
		Title:       "Pothole",
		Description: "d",
		Image:       "img.png",
		Location:    "Main St",
		Department:  domain.DepartmentBBMP,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Status != domain.ComplaintStatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if !created.CreatedAt.Equal(fixed) {
		t.Fatalf("expected creation timestamp %v, got %v", fixed, created.CreatedAt)
	}
	if created.ResolvedAt != nil || created.ResolvedImage != "" {
		t.Fatal("new complaint must not carry resolution fields")
	}

	mine := s.ByUser("1")
	if len(mine) != 1 || mine[0].ID != created.ID {
		t.Fatalf("ByUser returned %+v", mine)
	}
}

func TestByDepartmentReturnsExactSubset(t *testing.T) {
	ctx := context.Background()
	s := newEmptyComplaintStore(t, newTestKV(t))

	departments := []domain.DepartmentCode{
		domain.DepartmentBBMP,
		domain.DepartmentBWSSB,
		domain.DepartmentBBMP,
		domain.DepartmentHealth,
	}
	for i, dep := range departments {
		if _, err := s.Create(ctx, ComplaintCreateInput{
			UserID:     "1",
			Title:      "t",
			Department: dep,
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	bbmp := s.ByDepartment(domain.DepartmentBBMP)
	if len(bbmp) != 2 {
		t.Fatalf("expected 2 BBMP complaints, got %d", len(bbmp))
	}
	for _, c := range bbmp {
		if c.Department != domain.DepartmentBBMP {
			t.Fatalf("foreign department in filtered view: %s", c.Department)
		}
	}
	// Store order is preserved within the view.
	all := s.All()
	if bbmp[0].ID != all[0].ID || bbmp[1].ID != all[2].ID {
		t.Fatal("filtered view not in store order")
	}
}

func TestUpdateMergesPartialFields(t *testing.T) {
	ctx := context.Background()
	s := newEmptyComplaintStore(t, newTestKV(t))

	created, err := s.Create(ctx, ComplaintCreateInput{
		UserID:      "1",
		Title:       "Pothole",
		Description: "d",
		Location:    "Main St",
		Department:  domain.DepartmentBBMP,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := domain.ComplaintStatusInProgress
	if err := s.Update(ctx, created.ID, ComplaintUpdate{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, ok := s.GetByID(created.ID)
	if !ok {
		t.Fatal("complaint vanished")
	}
	if got.Status != domain.ComplaintStatusInProgress {
		t.Fatalf("status not updated: %s", got.Status)
	}
	if got.Title != "Pothole" || got.Location != "Main St" {
		t.Fatal("untouched fields were modified")
	}
}

func TestResolveSetsResolutionFieldsTogether(t *testing.T) {
	ctx := context.Background()
	s := newEmptyComplaintStore(t, newTestKV(t))

	created, err := s.Create(ctx, ComplaintCreateInput{
		UserID:     "1",
		Title:      "Pothole",
		Department: domain.DepartmentBBMP,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resolvedAt := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	status := domain.ComplaintStatusResolved
	resolvedImage := "fixed.png"
	if err := s.Update(ctx, created.ID, ComplaintUpdate{
		Status:        &status,
		ResolvedImage: &resolvedImage,
		ResolvedAt:    &resolvedAt,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := s.GetByID(created.ID)
	if !got.Resolved() {
		t.Fatalf("expected resolved complaint, got %+v", got)
	}
	if got.ResolvedImage != "fixed.png" || !got.ResolvedAt.Equal(resolvedAt) {
		t.Fatalf("resolution fields wrong: image=%s at=%v", got.ResolvedImage, got.ResolvedAt)
	}

	// The department view still contains the resolved record.
	bbmp := s.ByDepartment(domain.DepartmentBBMP)
	if len(bbmp) != 1 || bbmp[0].ID != created.ID {
		t.Fatalf("department view lost resolved complaint: %+v", bbmp)
	}
}

func TestUpdateMissingIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := newEmptyComplaintStore(t, newTestKV(t))

	status := domain.ComplaintStatusResolved
	if err := s.Update(ctx, "stale-id", ComplaintUpdate{Status: &status}); err != nil {
		t.Fatalf("update on missing id must not error, got %v", err)
	}
	if s.Count() != 0 {
		t.Fatal("no-op update changed the collection")
	}
}

func TestDeleteRemovesFromAllViews(t *testing.T) {
	ctx := context.Background()
	s := newEmptyComplaintStore(t, newTestKV(t))

	created, err := s.Create(ctx, ComplaintCreateInput{
		UserID:     "1",
		Title:      "Pothole",
		Department: domain.DepartmentBBMP,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.Count() != 0 {
		t.Fatal("record still in full collection")
	}
	if len(s.ByDepartment(domain.DepartmentBBMP)) != 0 {
		t.Fatal("record still in department view")
	}
	if len(s.ByUser("1")) != 0 {
		t.Fatal("record still in user view")
	}

	// Deleting again is a silent no-op.
	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("repeat delete must not error, got %v", err)
	}
}

func TestComplaintsDurableAcrossReopen(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := newEmptyComplaintStore(t, kv)

	created, err := s.Create(ctx, ComplaintCreateInput{
		UserID:     "9",
		Title:      "Stray dog",
		Department: domain.DepartmentAnimalWelfare,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	reopened, err := NewComplaintStore(ctx, kv, zap.NewNop(), observability.NewMetrics())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := reopened.GetByID(created.ID)
	if !ok {
		t.Fatal("complaint not persisted")
	}
	if got.Title != "Stray dog" || got.Department != domain.DepartmentAnimalWelfare {
		t.Fatalf("persisted complaint corrupted: %+v", got)
	}
}

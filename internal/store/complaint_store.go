package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/observability"
	"github.com/spec-kit/civic-report/internal/persistence"
)

// ComplaintCreateInput carries the caller-supplied fields for a new
// complaint. Id, status, and creation timestamp are assigned by the store.
type ComplaintCreateInput struct {
	UserID      string
	Title       string
	Description string
	Image       string
	Location    string
	Department  domain.DepartmentCode
	Coordinates *domain.Coordinates
}

// ComplaintUpdate is a partial update; nil fields are left unchanged.
type ComplaintUpdate struct {
	Title         *string
	Description   *string
	Image         *string
	Location      *string
	Status        *domain.ComplaintStatus
	Department    *domain.DepartmentCode
	ResolvedImage *string
	ResolvedAt    *time.Time
	Coordinates   *domain.Coordinates
}

// ComplaintStore holds the complaint collection. Records are kept in
// insertion order; filtered views preserve that order.
type ComplaintStore struct {
	mu      sync.RWMutex
	kv      persistence.KV
	logger  *zap.Logger
	metrics *observability.Metrics

	now   func() time.Time
	newID func() string

	complaints []domain.Complaint
}

// NewComplaintStore loads the complaint collection from kv, seeding three
// demonstration complaints when no collection exists yet.
func NewComplaintStore(ctx context.Context, kv persistence.KV, logger *zap.Logger, metrics *observability.Metrics) (*ComplaintStore, error) {
	s := &ComplaintStore{
		kv:      kv,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		newID:   timeID,
	}

	raw, ok, err := kv.Get(ctx, persistence.KeyComplaints)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := json.Unmarshal(raw, &s.complaints); err != nil {
			return nil, err
		}
	} else {
		s.complaints = seedComplaints(s.now())
		if err := s.persistLocked(ctx); err != nil {
			return nil, err
		}
		logger.Info("seeded demonstration complaints", zap.Int("count", len(s.complaints)))
	}

	return s, nil
}

// Create assigns a fresh id and creation timestamp, forces status to
// pending, appends the record, and persists the collection.
func (s *ComplaintStore) Create(ctx context.Context, input ComplaintCreateInput) (domain.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	complaint := domain.Complaint{
		ID:          s.newID(),
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Image:       input.Image,
		Location:    input.Location,
		Status:      domain.ComplaintStatusPending,
		Department:  input.Department,
		CreatedAt:   s.now(),
		Coordinates: input.Coordinates,
	}

	s.complaints = append(s.complaints, complaint)
	if err := s.persistLocked(ctx); err != nil {
		return domain.Complaint{}, err
	}
	s.metrics.RecordStoreMutation("complaints", "create")
	return complaint, nil
}

// Update merges the non-nil fields of update into the matching record.
// A stale id is silently a no-op; the store has no notion of not-found.
func (s *ComplaintStore) Update(ctx context.Context, id string, update ComplaintUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.complaints {
		if s.complaints[i].ID != id {
			continue
		}
		applyUpdate(&s.complaints[i], update)
		if err := s.persistLocked(ctx); err != nil {
			return err
		}
		s.metrics.RecordStoreMutation("complaints", "update")
		return nil
	}
	return nil
}

// Delete removes the matching record and persists. Missing ids are a no-op.
func (s *ComplaintStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.complaints {
		if s.complaints[i].ID != id {
			continue
		}
		s.complaints = append(s.complaints[:i], s.complaints[i+1:]...)
		if err := s.persistLocked(ctx); err != nil {
			return err
		}
		s.metrics.RecordStoreMutation("complaints", "delete")
		return nil
	}
	return nil
}

// GetByID looks up a complaint by id.
func (s *ComplaintStore) GetByID(id string) (*domain.Complaint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.complaints {
		if s.complaints[i].ID == id {
			complaint := s.complaints[i]
			return &complaint, true
		}
	}
	return nil, false
}

// ByDepartment returns all complaints routed to the given department, in
// store order.
func (s *ComplaintStore) ByDepartment(code domain.DepartmentCode) []domain.Complaint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Complaint
	for i := range s.complaints {
		if s.complaints[i].Department == code {
			out = append(out, s.complaints[i])
		}
	}
	return out
}

// ByUser returns all complaints owned by the given user, in store order.
func (s *ComplaintStore) ByUser(userID string) []domain.Complaint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Complaint
	for i := range s.complaints {
		if s.complaints[i].UserID == userID {
			out = append(out, s.complaints[i])
		}
	}
	return out
}

// All returns a copy of the full collection in store order.
func (s *ComplaintStore) All() []domain.Complaint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Complaint, len(s.complaints))
	copy(out, s.complaints)
	return out
}

// Count reports the collection size.
func (s *ComplaintStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.complaints)
}

func (s *ComplaintStore) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(s.complaints)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, persistence.KeyComplaints, raw)
}

func applyUpdate(c *domain.Complaint, update ComplaintUpdate) {
	if update.Title != nil {
		c.Title = *update.Title
	}
	if update.Description != nil {
		c.Description = *update.Description
	}
	if update.Image != nil {
		c.Image = *update.Image
	}
	if update.Location != nil {
		c.Location = *update.Location
	}
	if update.Status != nil {
		c.Status = *update.Status
	}
	if update.Department != nil {
		c.Department = *update.Department
	}
	if update.ResolvedImage != nil {
		c.ResolvedImage = *update.ResolvedImage
	}
	if update.ResolvedAt != nil {
		resolvedAt := *update.ResolvedAt
		c.ResolvedAt = &resolvedAt
	}
	if update.Coordinates != nil {
		coords := *update.Coordinates
		c.Coordinates = &coords
	}
}

func seedComplaints(now time.Time) []domain.Complaint {
	twoDaysAgo := now.Add(-2 * 24 * time.Hour)
	return []domain.Complaint{
		{
			ID:          "1",
			UserID:      "1",
			Title:       "Water leakage in main pipeline",
			Description: "There is a major water leakage in the main pipeline near my house causing water wastage.",
			Image:       "https://images.unsplash.com/photo-1584677626646-7c8f83690304?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
			Location:    "12 Main St, Bangalore",
			Status:      domain.ComplaintStatusPending,
			Department:  domain.DepartmentBWSSB,
			CreatedAt:   twoDaysAgo,
		},
		{
			ID:          "2",
			UserID:      "1",
			Title:       "Frequent power cuts",
			Description: "We are experiencing frequent power cuts in our area for the past week.",
			Image:       "https://images.unsplash.com/photo-1605493725784-56d8e6b33783?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
			Location:    "45 Park Avenue, Bangalore",
			Status:      domain.ComplaintStatusInProgress,
			Department:  domain.DepartmentBESCOM,
			CreatedAt:   now.Add(-5 * 24 * time.Hour),
		},
		{
			ID:            "3",
			UserID:        "1",
			Title:         "Broken street light",
			Description:   "The street light near the park has been broken for weeks causing safety concerns.",
			Image:         "https://images.unsplash.com/photo-1573346544140-e5e2a7a5e8f1?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
			Location:      "78 Garden Road, Bangalore",
			Status:        domain.ComplaintStatusResolved,
			Department:    domain.DepartmentBESCOM,
			CreatedAt:     now.Add(-10 * 24 * time.Hour),
			ResolvedImage: "https://images.unsplash.com/photo-1617919759916-0642e3e3e1f1?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80",
			ResolvedAt:    &twoDaysAgo,
		},
	}
}

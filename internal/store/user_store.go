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

// UserStore holds the account collection and the current session identity.
// Login compares email and password verbatim; there is no lockout or rate
// limiting, and no distinction between unknown email and wrong password.
type UserStore struct {
	mu      sync.RWMutex
	kv      persistence.KV
	logger  *zap.Logger
	metrics *observability.Metrics

	now   func() time.Time
	newID func() string

	users   []domain.User
	current *domain.User
}

// NewUserStore loads the user collection from kv, seeding the demonstration
// accounts when no collection exists yet, and restores any persisted session
// identity.
func NewUserStore(ctx context.Context, kv persistence.KV, logger *zap.Logger, metrics *observability.Metrics) (*UserStore, error) {
	s := &UserStore{
		kv:      kv,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		newID:   timeID,
	}

	raw, ok, err := kv.Get(ctx, persistence.KeyUsers)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := json.Unmarshal(raw, &s.users); err != nil {
			return nil, err
		}
	} else {
		s.users = seedUsers()
		if err := s.persistLocked(ctx); err != nil {
			return nil, err
		}
		logger.Info("seeded demonstration accounts", zap.Int("count", len(s.users)))
	}

	sessionRaw, ok, err := kv.Get(ctx, persistence.KeyCurrentUser)
	if err != nil {
		return nil, err
	}
	if ok {
		var current domain.User
		if err := json.Unmarshal(sessionRaw, &current); err != nil {
			return nil, err
		}
		s.current = &current
		logger.Info("restored session identity", zap.String("user_id", current.ID))
	}

	return s, nil
}

// Login authenticates credentials with an exact match and establishes the
// session identity on success.
func (s *UserStore) Login(ctx context.Context, email, password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Email == email && s.users[i].Password == password {
			found := s.users[i]
			s.current = &found
			if err := s.persistSessionLocked(ctx); err != nil {
				return false, err
			}
			s.metrics.RecordStoreMutation("users", "login")
			return true, nil
		}
	}
	return false, nil
}

// Register creates a new account and signs it in. It reports false without
// touching state when the email is already taken.
func (s *UserStore) Register(ctx context.Context, name, email, password string, role domain.Role, department string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Email == email {
			return false, nil
		}
	}

	user := domain.User{
		ID:       s.newID(),
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	}
	if role == domain.RoleGovernment {
		user.Department = department
	}

	s.users = append(s.users, user)
	if err := s.persistLocked(ctx); err != nil {
		return false, err
	}

	s.current = &user
	if err := s.persistSessionLocked(ctx); err != nil {
		return false, err
	}
	s.metrics.RecordStoreMutation("users", "register")
	return true, nil
}

// Logout clears the session identity in memory and from durable storage.
func (s *UserStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.kv.Delete(ctx, persistence.KeyCurrentUser); err != nil {
		return err
	}
	s.metrics.RecordStoreMutation("users", "logout")
	return nil
}

// Import replaces the whole collection when data parses as a JSON array of
// users. On any parse failure the collection is left untouched.
func (s *UserStore) Import(ctx context.Context, data []byte) (bool, error) {
	var imported []domain.User
	if err := json.Unmarshal(data, &imported); err != nil {
		s.logger.Warn("rejected user import", zap.Error(err))
		return false, nil
	}
	if imported == nil {
		// JSON null unmarshals without error but is not an array of users.
		s.logger.Warn("rejected user import: payload is not an array")
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.users
	s.users = imported
	if err := s.persistLocked(ctx); err != nil {
		s.users = previous
		return false, err
	}
	s.metrics.RecordStoreMutation("users", "import")
	return true, nil
}

// Export serializes the full collection for download.
func (s *UserStore) Export(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(s.users, "", "  ")
}

// Current returns a copy of the session identity, or nil when logged out.
func (s *UserStore) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	current := *s.current
	return &current
}

// GetByID looks up a user by id.
func (s *UserStore) GetByID(id string) (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			user := s.users[i]
			return &user, true
		}
	}
	return nil, false
}

// Count reports the collection size.
func (s *UserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Users returns a copy of the collection in store order.
func (s *UserStore) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *UserStore) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(s.users)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, persistence.KeyUsers, raw)
}

func (s *UserStore) persistSessionLocked(ctx context.Context) error {
	raw, err := json.Marshal(s.current)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, persistence.KeyCurrentUser, raw)
}

func seedUsers() []domain.User {
	return []domain.User{
		{
			ID:       "1",
			Name:     "Citizen User",
			Email:    "citizen@example.com",
			Password: "password123",
			Role:     domain.RoleCitizen,
		},
		{
			ID:         "2",
			Name:       "Animal_Welfare Official",
			Email:      "animalwelfare@gov.in",
			Password:   "gov123",
			Role:       domain.RoleGovernment,
			Department: string(domain.DepartmentAnimalWelfare),
		},
		{
			ID:         "3",
			Name:       "BBMP Official",
			Email:      "bbmp@gov.in",
			Password:   "gov123",
			Role:       domain.RoleGovernment,
			Department: string(domain.DepartmentBBMP),
		},
	}
}

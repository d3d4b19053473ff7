package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
	// posters have created posts and so cannot be deleted.
	posters map[uuid.UUID]bool
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	s := &fakeUserStore{users: map[uuid.UUID]models.User{}, posters: map[uuid.UUID]bool{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *fakeUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *fakeUserStore) Save(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *fakeUserStore) SetPasswordHash(_ context.Context, id uuid.UUID, hash string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = &hash
	u.UpdatedAt = updatedAt
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) List(_ context.Context, activeOnly bool) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.User{}
	for _, u := range s.users {
		if activeOnly && !u.IsActive() {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// Delete mirrors the schema: reports lose their manager, posters block deletion.
func (s *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	if s.posters[id] {
		return ErrUserHasDependents
	}
	delete(s.users, id)
	for uid, u := range s.users {
		if u.ManagerID != nil && *u.ManagerID == id {
			u.ManagerID = nil
			s.users[uid] = u
		}
	}
	return nil
}

type recordedActivity struct {
	mu      sync.Mutex
	entries []apps.ActivityEntry
}

func (r *recordedActivity) Record(_ context.Context, e apps.ActivityEntry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

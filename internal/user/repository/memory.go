package repository

import (
	"context"
	"sync"
	"time"

	"github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
)

// MemoryRepository is an in-process Repository with the same uniqueness rules as the Postgres schema.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[domain.ID]domain.User
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID: make(map[domain.ID]domain.User),
		now:  time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = domain.NormalizeEmail(user.Email)
	for _, existing := range r.byID {
		if existing.Email == user.Email {
			return domain.User{}, ErrEmailAlreadyExists
		}
		if existing.Username == user.Username {
			return domain.User{}, ErrUsernameAlreadyExists
		}
	}

	user.CreatedAt = r.now().UTC()
	r.byID[user.ID] = user
	return user, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id domain.ID) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *MemoryRepository) FindByUsername(_ context.Context, username string) (domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

// SetActive mirrors the administrative deactivation that has no API of its own.
func (r *MemoryRepository) SetActive(id domain.ID, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.byID[id]; ok {
		user.IsActive = active
		r.byID[id] = user
	}
}

func (r *MemoryRepository) find(match func(domain.User) bool) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byID {
		if match(user) {
			return user, nil
		}
	}
	return domain.User{}, ErrUserNotFound
}

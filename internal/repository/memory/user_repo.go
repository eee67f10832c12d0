package memory

import (
	"context"
	"strings"
	"sync"

	"policeapp/internal/domain/entities"
	"policeapp/internal/repository"
)

// UserRepository keeps users in a map keyed by ID with secondary indices on
// email (case-insensitive) and phone. All three maps are updated under the
// same lock so the indices never disagree.
type UserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[int64]*entities.User
	byEmail map[string]int64
	byPhone map[string]int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[int64]*entities.User),
		byEmail: make(map[string]int64),
		byPhone: make(map[string]int64),
	}
}

func (r *UserRepository) Create(ctx context.Context, u *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, taken := r.byEmail[email]; taken {
		return repository.ErrConflict
	}
	if _, taken := r.byPhone[u.Phone]; taken && u.Phone != "" {
		return repository.ErrConflict
	}

	r.nextID++
	u.ID = r.nextID
	stored := *u
	r.users[u.ID] = &stored
	r.byEmail[email] = u.ID
	if u.Phone != "" {
		r.byPhone[u.Phone] = u.ID
	}
	return nil
}

// GetByID returns a copy so callers cannot mutate the stored user without
// going through Update.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	id, exists := r.byEmail[strings.ToLower(email)]
	r.mu.RUnlock()
	if !exists {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*entities.User, error) {
	r.mu.RLock()
	id, exists := r.byPhone[phone]
	r.mu.RUnlock()
	if !exists || phone == "" {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Update replaces the stored user, re-keying the email and phone indices when
// those fields change.
func (r *UserRepository) Update(ctx context.Context, u *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, exists := r.users[u.ID]
	if !exists {
		return repository.ErrNotFound
	}

	oldEmail, newEmail := strings.ToLower(old.Email), strings.ToLower(u.Email)
	if newEmail != oldEmail {
		if _, taken := r.byEmail[newEmail]; taken {
			return repository.ErrConflict
		}
	}
	if u.Phone != old.Phone && u.Phone != "" {
		if _, taken := r.byPhone[u.Phone]; taken {
			return repository.ErrConflict
		}
	}

	delete(r.byEmail, oldEmail)
	r.byEmail[newEmail] = u.ID
	if old.Phone != "" {
		delete(r.byPhone, old.Phone)
	}
	if u.Phone != "" {
		r.byPhone[u.Phone] = u.ID
	}
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

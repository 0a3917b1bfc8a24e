package memory

import (
	"context"
	"strings"
	"sync"

	domainuser "rentzy/internal/domain/user"
)

// UserRepository is an in-memory user store enforcing the same
// uniqueness rules the document store does.
type UserRepository struct {
	mu     sync.RWMutex
	items  map[domainuser.ID]*domainuser.User
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[domainuser.ID]*domainuser.User)}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *UserRepository) ByLogin(ctx context.Context, login string) (*domainuser.User, error) {
	login = strings.TrimSpace(login)
	email := strings.ToLower(login)
	phone := domainuser.NormalizePhone(login)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.items {
		if u.Email == email || u.Phone == phone {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.ID == u.ID {
			continue
		}
		switch {
		case existing.Email == u.Email:
			return domainuser.ErrEmailTaken
		case existing.Phone == u.Phone:
			return domainuser.ErrPhoneTaken
		case existing.NationalID == u.NationalID:
			return domainuser.ErrNationalIDTaken
		case existing.TaxID == u.TaxID:
			return domainuser.ErrTaxIDTaken
		}
	}
	if u.ID == 0 {
		r.nextID++
		u.ID = domainuser.ID(r.nextID)
	}
	copied := *u
	r.items[u.ID] = &copied
	return nil
}

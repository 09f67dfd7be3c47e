package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ridloal/supermarket-management/internal/user/domain"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository is read-only: users are fixed once the seed is loaded.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

type memoryUserRepository struct {
	mu      sync.RWMutex
	users   []domain.User
	byEmail map[string]int
}

func NewMemoryUserRepository(seed []domain.User) UserRepository {
	r := &memoryUserRepository{
		users:   append([]domain.User(nil), seed...),
		byEmail: make(map[string]int, len(seed)),
	}
	for i, u := range r.users {
		r.byEmail[normalizeEmail(u.Email)] = i
	}
	return r
}

// normalizeEmail is the match key: emails compare case-insensitively.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *memoryUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := r.users[i]
	return &u, nil
}

func (r *memoryUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

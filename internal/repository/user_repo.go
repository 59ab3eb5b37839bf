package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"mx70/internal/model"
)

// ErrEmailTaken is returned when an account already uses the email.
var ErrEmailTaken = errors.New("email already registered")

type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CountUsers(ctx context.Context) (int, error)
}

type userRepo struct {
	mu     sync.RWMutex
	rows   []model.User
	lastID int64
}

func (r *userRepo) load(rows []model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append([]model.User(nil), rows...)
	r.lastID = maxID(r.rows, func(u model.User) int64 { return u.ID })
}

// CreateUser assigns the next id. The email check and insert happen under one lock.
func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}
	r.lastID++
	u.ID = r.lastID
	r.rows = append(r.rows, *u)
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.rows {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.rows {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) CountUsers(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows), nil
}

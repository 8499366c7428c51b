// Package memory is a process-local UserStore for development and tests.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/codemap-billing/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

var (
	errActiveFree      = errors.New("free plan cannot be active")
	errCustomerIDTaken = errors.New("payment customer id belongs to another user")
)

type UserRepository struct {
	mu    sync.Mutex
	users map[string]model.User
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]model.User),
		now:   time.Now,
	}
}

func (r *UserRepository) FindByExternalID(_ context.Context, externalID string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[externalID]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(user), nil
}

func (r *UserRepository) UpsertByExternalID(_ context.Context, externalID, email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	user, ok := r.users[externalID]
	if !ok {
		user = model.User{
			ID:         uuid.New(),
			ExternalID: externalID,
			Email:      email,
			Plan:       model.PlanFree,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		r.users[externalID] = user
		return clone(user), nil
	}

	if email != "" {
		user.Email = email
	}
	user.UpdatedAt = later(user.UpdatedAt, now)
	r.users[externalID] = user

	return clone(user), nil
}

func (r *UserRepository) UpdateByExternalID(_ context.Context, externalID string, update model.UserUpdate) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[externalID]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	if update.IsEmpty() {
		return clone(user), nil
	}

	if id := update.PaymentCustomerID; id != nil && user.PaymentCustomerID == "" {
		for key, other := range r.users {
			if key != externalID && other.PaymentCustomerID == *id {
				return model.User{}, errCustomerIDTaken
			}
		}
		user.PaymentCustomerID = *id
	}
	if s := update.Subscription; s != nil {
		if s.IsActive && s.Plan == model.PlanFree {
			return model.User{}, errActiveFree
		}
		user.Plan = s.Plan
		user.IsActive = s.IsActive
		user.BillingEndDate = nil
		if s.BillingEndDate != nil {
			end := s.BillingEndDate.UTC()
			user.BillingEndDate = &end
		}
	}
	if u := update.Usage; u != nil {
		user.TokenSavings = u.TokenSavings
		user.ContextRequests = u.ContextRequests
	}
	user.UpdatedAt = later(user.UpdatedAt, r.now().UTC())
	r.users[externalID] = user

	return clone(user), nil
}

func (r *UserRepository) Ping(context.Context) error {
	return nil
}

func later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func clone(u model.User) model.User {
	if u.BillingEndDate != nil {
		end := *u.BillingEndDate
		u.BillingEndDate = &end
	}
	return u
}

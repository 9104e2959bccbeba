// Package memory is an in-process store for local runs and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/junaidrashid-git/bistro-boss-api/models"
	"github.com/junaidrashid-git/bistro-boss-api/stats"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

// Store keeps every collection as an insertion-ordered slice.
type Store struct {
	mu       *sync.RWMutex
	users    []models.User
	menu     []models.MenuItem
	reviews  []models.Review
	carts    []models.CartItem
	payments []models.Payment
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{mu: &sync.RWMutex{}}
}

// SeedMenu and SeedReviews load fixed data; the HTTP surface never writes reviews.
func (s *Store) SeedMenu(items ...models.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		s.menu = append(s.menu, item)
	}
}

func (s *Store) SeedReviews(reviews ...models.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range reviews {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		s.reviews = append(s.reviews, r)
	}
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(nonNil(s.users)), nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}

	return nil, store.ErrNotFound
}

func (s *Store) InsertUser(_ context.Context, user *models.User) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.users, func(u models.User) bool { return u.Email == user.Email }) {
		return models.InsertResult{}, store.ErrDuplicate
	}

	user.ID = uuid.NewString()
	s.users = append(s.users, *user)

	return inserted(user.ID), nil
}

func (s *Store) SetUserRole(_ context.Context, id, role string) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := models.UpdateResult{Acknowledged: true}
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		res.MatchedCount = 1
		if s.users[i].Role != role {
			s.users[i].Role = role
			res.ModifiedCount = 1
		}
		break
	}

	return res, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	s.users, n = deleteWhere(s.users, func(u models.User) bool { return u.ID == id })

	return deleted(n), nil
}

func (s *Store) ListMenu(_ context.Context) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(nonNil(s.menu)), nil
}

func (s *Store) InsertMenuItem(_ context.Context, item *models.MenuItem) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = uuid.NewString()
	s.menu = append(s.menu, *item)

	return inserted(item.ID), nil
}

func (s *Store) DeleteMenuItem(_ context.Context, id string) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	s.menu, n = deleteWhere(s.menu, func(m models.MenuItem) bool { return m.ID == id })

	return deleted(n), nil
}

func (s *Store) ListReviews(_ context.Context) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(nonNil(s.reviews)), nil
}

func (s *Store) ListCartItems(_ context.Context, email string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.CartItem, 0)
	for _, item := range s.carts {
		if item.Email == email {
			items = append(items, item)
		}
	}

	return items, nil
}

func (s *Store) InsertCartItem(_ context.Context, item *models.CartItem) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = uuid.NewString()
	s.carts = append(s.carts, *item)

	return inserted(item.ID), nil
}

func (s *Store) DeleteCartItem(_ context.Context, id string) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	s.carts, n = deleteWhere(s.carts, func(c models.CartItem) bool { return c.ID == id })

	return deleted(n), nil
}

func (s *Store) DeleteCartItems(_ context.Context, ids []string) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	s.carts, n = deleteWhere(s.carts, func(c models.CartItem) bool { return slices.Contains(ids, c.ID) })

	return deleted(n), nil
}

func (s *Store) InsertPayment(_ context.Context, payment *models.Payment) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment.ID = uuid.NewString()
	p := *payment
	p.CartIDs = slices.Clone(payment.CartIDs)
	p.MenuItemIDs = slices.Clone(payment.MenuItemIDs)
	s.payments = append(s.payments, p)

	return inserted(payment.ID), nil
}

func (s *Store) ListPayments(_ context.Context, email string) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payments := make([]models.Payment, 0)
	for _, p := range s.payments {
		if p.Email == email {
			payments = append(payments, p)
		}
	}
	slices.SortStableFunc(payments, func(a, b models.Payment) int {
		return b.Date.Compare(a.Date)
	})

	return payments, nil
}

func (s *Store) Counts(_ context.Context) (models.Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.Counts{
		Users:     int64(len(s.users)),
		MenuItems: int64(len(s.menu)),
		Payments:  int64(len(s.payments)),
	}, nil
}

func (s *Store) Revenue(_ context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return stats.Revenue(s.payments), nil
}

func (s *Store) OrderStats(_ context.Context) ([]models.CategoryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return stats.CategoryBreakdown(s.payments, s.menu), nil
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close(_ context.Context) error { return nil }

func inserted(id string) models.InsertResult {
	return models.InsertResult{Acknowledged: true, InsertedID: id}
}

func deleted(n int64) models.DeleteResult {
	return models.DeleteResult{Acknowledged: true, DeletedCount: n}
}

func deleteWhere[T any](items []T, match func(T) bool) ([]T, int64) {
	before := len(items)
	items = slices.DeleteFunc(items, match)
	return items, int64(before - len(items))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

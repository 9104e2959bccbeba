// Package store defines the document store the HTTP handlers talk to.
// Backends live in the subpackages: mongo, gormstore and memory.
package store

import (
	"context"
	"errors"

	"github.com/junaidrashid-git/bistro-boss-api/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicate is returned when a unique key, such as a user email, is already taken.
	ErrDuplicate = errors.New("duplicate key")
)

type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	// FindUserByEmail returns ErrNotFound when no user has that email.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// InsertUser returns ErrDuplicate when the email is already registered.
	InsertUser(ctx context.Context, user *models.User) (models.InsertResult, error)
	SetUserRole(ctx context.Context, id, role string) (models.UpdateResult, error)
	DeleteUser(ctx context.Context, id string) (models.DeleteResult, error)
}

type MenuStore interface {
	ListMenu(ctx context.Context) ([]models.MenuItem, error)
	InsertMenuItem(ctx context.Context, item *models.MenuItem) (models.InsertResult, error)
	DeleteMenuItem(ctx context.Context, id string) (models.DeleteResult, error)
}

type ReviewStore interface {
	ListReviews(ctx context.Context) ([]models.Review, error)
}

type CartStore interface {
	ListCartItems(ctx context.Context, email string) ([]models.CartItem, error)
	InsertCartItem(ctx context.Context, item *models.CartItem) (models.InsertResult, error)
	DeleteCartItem(ctx context.Context, id string) (models.DeleteResult, error)
	DeleteCartItems(ctx context.Context, ids []string) (models.DeleteResult, error)
}

type PaymentStore interface {
	InsertPayment(ctx context.Context, payment *models.Payment) (models.InsertResult, error)
	// ListPayments returns the payments for email, newest first.
	ListPayments(ctx context.Context, email string) ([]models.Payment, error)
}

// StatsStore backs the admin reporting routes.
type StatsStore interface {
	Counts(ctx context.Context) (models.Counts, error)
	Revenue(ctx context.Context) (float64, error)
	OrderStats(ctx context.Context) ([]models.CategoryStats, error)
}

// Store is everything a backend has to provide.
type Store interface {
	UserStore
	MenuStore
	ReviewStore
	CartStore
	PaymentStore
	StatsStore

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Package gormstore keeps the collections in PostgreSQL tables through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/bistro-boss-api/models"
	"github.com/junaidrashid-git/bistro-boss-api/stats"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to dsn and migrates every table.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	return New(db)
}

// New migrates the schema on an existing connection. Open it with
// TranslateError so unique violations surface as store.ErrDuplicate.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Review{},
		&models.CartItem{},
		&models.Payment{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, s.db)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &user, nil
}

func (s *Store) InsertUser(ctx context.Context, user *models.User) (models.InsertResult, error) {
	user.ID = uuid.NewString()
	return insert(ctx, s.db, user, user.ID)
}

func (s *Store) SetUserRole(ctx context.Context, id, role string) (models.UpdateResult, error) {
	if err := validID(id); err != nil {
		return models.UpdateResult{}, err
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UpdateResult{Acknowledged: true}, nil
	}
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("find user: %w", err)
	}

	res := models.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if user.Role == role {
		return res, nil
	}

	tx := s.db.WithContext(ctx).Model(&user).Update("role", role)
	if tx.Error != nil {
		return models.UpdateResult{}, fmt.Errorf("update user role: %w", tx.Error)
	}
	res.ModifiedCount = tx.RowsAffected

	return res, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (models.DeleteResult, error) {
	return deleteByIDs[models.User](ctx, s.db, id)
}

func (s *Store) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return list[models.MenuItem](ctx, s.db)
}

func (s *Store) InsertMenuItem(ctx context.Context, item *models.MenuItem) (models.InsertResult, error) {
	item.ID = uuid.NewString()
	return insert(ctx, s.db, item, item.ID)
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) (models.DeleteResult, error) {
	return deleteByIDs[models.MenuItem](ctx, s.db, id)
}

func (s *Store) ListReviews(ctx context.Context) ([]models.Review, error) {
	return list[models.Review](ctx, s.db)
}

func (s *Store) ListCartItems(ctx context.Context, email string) ([]models.CartItem, error) {
	return list[models.CartItem](ctx, s.db.Where("email = ?", email))
}

func (s *Store) InsertCartItem(ctx context.Context, item *models.CartItem) (models.InsertResult, error) {
	item.ID = uuid.NewString()
	return insert(ctx, s.db, item, item.ID)
}

func (s *Store) DeleteCartItem(ctx context.Context, id string) (models.DeleteResult, error) {
	return deleteByIDs[models.CartItem](ctx, s.db, id)
}

func (s *Store) DeleteCartItems(ctx context.Context, ids []string) (models.DeleteResult, error) {
	return deleteByIDs[models.CartItem](ctx, s.db, ids...)
}

func (s *Store) InsertPayment(ctx context.Context, payment *models.Payment) (models.InsertResult, error) {
	payment.ID = uuid.NewString()
	return insert(ctx, s.db, payment, payment.ID)
}

func (s *Store) ListPayments(ctx context.Context, email string) ([]models.Payment, error) {
	return list[models.Payment](ctx, s.db.Where("email = ?", email).Order("date desc"))
}

func (s *Store) Counts(ctx context.Context) (models.Counts, error) {
	var counts models.Counts
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&counts.Users).Error; err != nil {
		return models.Counts{}, fmt.Errorf("count users: %w", err)
	}
	if err := db.Model(&models.MenuItem{}).Count(&counts.MenuItems).Error; err != nil {
		return models.Counts{}, fmt.Errorf("count menu: %w", err)
	}
	if err := db.Model(&models.Payment{}).Count(&counts.Payments).Error; err != nil {
		return models.Counts{}, fmt.Errorf("count payments: %w", err)
	}

	return counts, nil
}

func (s *Store) Revenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := s.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(price), 0)").
		Scan(&revenue).Error
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}

	return revenue, nil
}

// OrderStats joins in memory: menu ids live in a JSON column.
func (s *Store) OrderStats(ctx context.Context) ([]models.CategoryStats, error) {
	payments, err := list[models.Payment](ctx, s.db.Select("menu_item_ids"))
	if err != nil {
		return nil, err
	}

	menu, err := s.ListMenu(ctx)
	if err != nil {
		return nil, err
	}

	return stats.CategoryBreakdown(payments, menu), nil
}

func list[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	result := make([]T, 0)
	if err := db.WithContext(ctx).Find(&result).Error; err != nil {
		var zero T
		return nil, fmt.Errorf("list %T: %w", zero, err)
	}
	return result, nil
}

func insert(ctx context.Context, db *gorm.DB, value any, id string) (models.InsertResult, error) {
	err := db.WithContext(ctx).Create(value).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.InsertResult{}, fmt.Errorf("insert %T: %w", value, store.ErrDuplicate)
	}
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("insert %T: %w", value, err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func deleteByIDs[T any](ctx context.Context, db *gorm.DB, ids ...string) (models.DeleteResult, error) {
	for _, id := range ids {
		if err := validID(id); err != nil {
			return models.DeleteResult{}, err
		}
	}
	if len(ids) == 0 {
		return models.DeleteResult{Acknowledged: true}, nil
	}

	var zero T
	tx := db.WithContext(ctx).Where("id IN ?", ids).Delete(&zero)
	if tx.Error != nil {
		return models.DeleteResult{}, fmt.Errorf("delete %T: %w", zero, tx.Error)
	}

	return models.DeleteResult{Acknowledged: true, DeletedCount: tx.RowsAffected}, nil
}

// validID rejects ids this backend could never have assigned.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return nil
}

package user

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nazonexus/identity/errors"
)

// Store is the persistence boundary for account records. Implementations
// return the service error taxonomy: NOT_FOUND for missing records,
// ALREADY_EXISTS for uniqueness conflicts, DATABASE_ERROR otherwise.
type Store interface {
	Create(ctx context.Context, u *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// UpdatePasswordAndLastLogin replaces the stored hash and stamps the
	// login time in a single write, so a rehash-on-login can never persist
	// one without the other.
	UpdatePasswordAndLastLogin(ctx context.Context, id uuid.UUID, hash string, at time.Time) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Count(ctx context.Context) (int64, error)
}

// GormStore implements Store on a GORM connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

// Migrate creates or updates the users table.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&User{})
}

func (s *GormStore) Create(ctx context.Context, u *User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.AlreadyExists("user")
		}
		return errors.DatabaseError(fmt.Errorf("user: create: %w", err))
	}
	return nil
}

func (s *GormStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("user")
		}
		return nil, errors.DatabaseError(fmt.Errorf("user: find by username: %w", err))
	}
	return &u, nil
}

func (s *GormStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("user")
		}
		return nil, errors.DatabaseError(fmt.Errorf("user: find by id: %w", err))
	}
	return &u, nil
}

func (s *GormStore) UpdatePasswordAndLastLogin(ctx context.Context, id uuid.UUID, hash string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password":   hash,
		"last_login": at,
	})
	if res.Error != nil {
		return errors.DatabaseError(fmt.Errorf("user: update password and last login: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("user")
	}
	return nil
}

func (s *GormStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("last_login", at)
	if res.Error != nil {
		return errors.DatabaseError(fmt.Errorf("user: update last login: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("user")
	}
	return nil
}

func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&User{}).Count(&n).Error; err != nil {
		return 0, errors.DatabaseError(fmt.Errorf("user: count: %w", err))
	}
	return n, nil
}

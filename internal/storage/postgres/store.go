package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bumpbuddy/backend/internal/domain"
	"github.com/bumpbuddy/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store implements the Storage interface on PostgreSQL.
type Store struct {
	db *gorm.DB
}

var _ storage.Storage = (*Store)(nil)

// New connects to PostgreSQL and migrates the schema. TranslateError lets the
// like toggle detect unique-index collisions as gorm.ErrDuplicatedKey instead
// of driver-specific errors.
func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Post{},
		&domain.Comment{},
		&domain.PostLike{},
		&domain.HealthArticle{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an already-open gorm connection. Used by tests that provide
// their own database handle.
func NewWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return storage.ErrEmailTaken
		}
		if err := tx.Model(&domain.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return storage.ErrUsernameTaken
		}

		user.IsActive = true
		user.CreatedAt = time.Now().UTC()
		return tx.Create(user).Error
	})
	if err != nil {
		// Unique indexes are the backstop for concurrent registrations. The
		// insert rolled back, so re-check which field the winner occupies.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var count int64
			cErr := s.db.WithContext(ctx).Model(&domain.User{}).
				Where("email = ?", user.Email).Count(&count).Error
			if cErr == nil && count == 0 {
				return nil, storage.ErrUsernameTaken
			}
			return nil, storage.ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

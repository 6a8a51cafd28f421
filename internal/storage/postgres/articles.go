package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/bumpbuddy/backend/internal/domain"
	"github.com/bumpbuddy/backend/internal/storage"

	"gorm.io/gorm"
)

// === Health Article Methods ===

func (s *Store) CreateArticle(ctx context.Context, article *domain.HealthArticle) (*domain.HealthArticle, error) {
	article.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.db.WithContext(ctx).Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

func (s *Store) GetArticleByID(ctx context.Context, id int) (*domain.HealthArticle, error) {
	var article domain.HealthArticle
	if err := s.db.WithContext(ctx).First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

func (s *Store) ListArticles(ctx context.Context, filter storage.ArticleFilter) ([]*domain.HealthArticle, int64, error) {
	var (
		articles []*domain.HealthArticle
		total    int64
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.HealthArticle{}).Scopes(withArticleFilter(filter)).Count(&total).Error; err != nil {
			return err
		}
		return tx.Scopes(withArticleFilter(filter), orderArticles(filter)).
			Offset(filter.Skip).
			Limit(pageLimit(filter.Limit)).
			Find(&articles).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// pageLimit maps a non-positive limit to gorm's "no limit" marker so a zero
// value means unbounded, the same contract the in-memory store applies.
func pageLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func (s *Store) UpdateArticle(ctx context.Context, id int, article *domain.HealthArticle) (*domain.HealthArticle, error) {
	var existing domain.HealthArticle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrArticleNotFound
			}
			return err
		}

		existing.Title = article.Title
		existing.Content = article.Content
		existing.Category = article.Category
		existing.Tags = article.Tags
		existing.Author = article.Author
		return tx.Save(&existing).Error
	})
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *Store) DeleteArticle(ctx context.Context, id int) error {
	result := s.db.WithContext(ctx).Delete(&domain.HealthArticle{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrArticleNotFound
	}
	return nil
}

package postgres

import (
	"gorm.io/gorm"

	"github.com/bumpbuddy/backend/internal/storage"
)

// withPostFilter applies every present PostFilter predicate conjunctively.
// The tag predicate is a LIKE against the serialized JSON tag column, so it
// matches by substring containment rather than exact set membership.
func withPostFilter(f storage.PostFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Type != nil {
			db = db.Where("type = ?", *f.Type)
		}
		if f.IsHot != nil {
			db = db.Where("is_hot = ?", *f.IsHot)
		}
		if f.AuthorID != nil {
			db = db.Where("author_id = ?", *f.AuthorID)
		}
		if f.Tag != nil {
			db = db.Where("tags LIKE ?", "%"+*f.Tag+"%")
		}
		return db
	}
}

// withArticleFilter applies the article library predicates.
func withArticleFilter(f storage.ArticleFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		if f.Tag != "" {
			db = db.Where("tags LIKE ?", "%"+f.Tag+"%")
		}
		if f.Search != "" {
			like := "%" + f.Search + "%"
			db = db.Where("title LIKE ? OR content LIKE ?", like, like)
		}
		return db
	}
}

// paginate applies offset=(page-1)*size and limit=size. Callers validate the
// PageArgs before building the query.
func paginate(p storage.PageArgs) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.PageSize)
	}
}

// orderArticles maps the article sort options onto an ORDER BY clause.
func orderArticles(f storage.ArticleFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column := "created_at"
		if f.SortBy == storage.ArticleSortTitle {
			column = "title"
		}
		if f.SortDesc {
			return db.Order(column + " DESC")
		}
		return db.Order(column + " ASC")
	}
}

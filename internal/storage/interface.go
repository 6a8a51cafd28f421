package storage

import (
	"context"

	"github.com/bumpbuddy/backend/internal/domain"
)

// PageArgs is 1-based pagination shared by every listing operation.
type PageArgs struct {
	Page     int
	PageSize int
}

// Validate rejects non-positive pages rather than clamping them.
func (p PageArgs) Validate() error {
	if p.Page < 1 || p.PageSize < 1 {
		return ErrInvalidPagination
	}
	return nil
}

// Offset returns the row offset for the page. Call Validate first.
func (p PageArgs) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PostFilter restricts ListPosts. All present predicates are ANDed together.
// Tag matches by substring containment against the serialized tag column,
// not exact set membership.
type PostFilter struct {
	Type     *domain.PostType
	IsHot    *bool
	AuthorID *int
	Tag      *string
	PageArgs
}

// ArticleSort names the recognized article orderings.
type ArticleSort string

const (
	ArticleSortCreatedAt ArticleSort = "created_at"
	ArticleSortTitle     ArticleSort = "title"
)

// ArticleFilter restricts ListArticles. Skip/Limit paginate directly rather
// than through PageArgs to keep parity with the library's consumers.
type ArticleFilter struct {
	Category string
	Tag      string
	Search   string
	SortBy   ArticleSort
	SortDesc bool
	Skip     int
	Limit    int
}

// LikeState is the tagged outcome of a like toggle.
type LikeState int

const (
	Unliked LikeState = iota
	Liked
)

func (s LikeState) String() string {
	if s == Liked {
		return "liked"
	}
	return "unliked"
}

// Storage is the persistence gateway. Implementations own transaction
// boundaries: every operation that touches more than one row (a like or
// comment row plus its post counter) commits or rolls back as one unit.
type Storage interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id int) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// Posts
	CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error)
	GetPostByID(ctx context.Context, id int) (*domain.Post, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]*domain.Post, int64, error)

	// TogglePostLike likes the post for the user, or removes the like when
	// one already exists. Returns the new state and the resulting counter.
	TogglePostLike(ctx context.Context, postID, userID int) (LikeState, int, error)

	// Comments
	CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	ListComments(ctx context.Context, postID int, page PageArgs) ([]*domain.Comment, error)

	// Health articles
	CreateArticle(ctx context.Context, article *domain.HealthArticle) (*domain.HealthArticle, error)
	GetArticleByID(ctx context.Context, id int) (*domain.HealthArticle, error)
	ListArticles(ctx context.Context, filter ArticleFilter) ([]*domain.HealthArticle, int64, error)
	UpdateArticle(ctx context.Context, id int, article *domain.HealthArticle) (*domain.HealthArticle, error)
	DeleteArticle(ctx context.Context, id int) error
}

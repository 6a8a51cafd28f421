package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bumpbuddy/backend/internal/domain"
	"github.com/bumpbuddy/backend/internal/storage"

	"gorm.io/gorm"
)

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	now := time.Now().UTC()
	post.LikesCount = 0
	post.CommentsCount = 0
	post.IsHot = false
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = domain.TagList{}
	}

	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return s.GetPostByID(ctx, post.ID)
}

func (s *Store) GetPostByID(ctx context.Context, id int) (*domain.Post, error) {
	var post domain.Post
	err := s.db.WithContext(ctx).Preload("Author").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListPosts returns one page of posts plus the total count of rows matching
// the same predicates. Both reads run in one transaction so the total and the
// slice never disagree.
func (s *Store) ListPosts(ctx context.Context, filter storage.PostFilter) ([]*domain.Post, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	var (
		posts []*domain.Post
		total int64
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Post{}).Scopes(withPostFilter(filter)).Count(&total).Error; err != nil {
			return err
		}
		return tx.Preload("Author").
			Scopes(withPostFilter(filter), paginate(filter.PageArgs)).
			Order("created_at DESC").
			Find(&posts).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// === Like Toggle ===

// errLikeRowGone reports a delete that matched no like row: a concurrent
// unlike for the same pair removed it after this transaction's read.
var errLikeRowGone = errors.New("like row already removed")

// TogglePostLike flips the caller's like on a post. The existence check, the
// like row mutation and the counter adjustment run in one transaction; a
// unique index on (post_id, user_id) is the tie-breaker when two toggles for
// the same pair race. Losing that race means the like now exists, so the
// operation retries exactly once as an unlike.
func (s *Store) TogglePostLike(ctx context.Context, postID, userID int) (storage.LikeState, int, error) {
	return toggleWithRetry(func() (storage.LikeState, int, error) {
		return s.togglePostLike(ctx, postID, userID)
	})
}

// toggleWithRetry runs one toggle attempt, retrying exactly once when the
// attempt lost a like-row race to a concurrent toggle for the same pair. A
// lost insert means the like now exists, so the retry observes it and
// unlikes; a lost delete means it is gone, so the retry likes. Losing the
// retry as well is surfaced as a conflict.
func toggleWithRetry(attempt func() (storage.LikeState, int, error)) (storage.LikeState, int, error) {
	state, count, err := attempt()
	if isLikeRace(err) {
		state, count, err = attempt()
		if isLikeRace(err) {
			return storage.Unliked, 0, storage.ErrLikeConflict
		}
	}
	return state, count, err
}

func isLikeRace(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, errLikeRowGone)
}

func (s *Store) togglePostLike(ctx context.Context, postID, userID int) (storage.LikeState, int, error) {
	var (
		state storage.LikeState
		count int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post domain.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrPostNotFound
			}
			return err
		}

		var like domain.PostLike
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error
		switch {
		case err == nil:
			result := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&domain.PostLike{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				// A concurrent unlike deleted the row between our read and
				// this delete. The decrement must not run, or the counter
				// would drop below the surviving rows; the caller retries.
				return errLikeRowGone
			}
			if err := adjustCounter(tx, postID, "likes_count", -1); err != nil {
				return err
			}
			state = storage.Unliked

		case errors.Is(err, gorm.ErrRecordNotFound):
			newLike := domain.PostLike{PostID: postID, UserID: userID, CreatedAt: time.Now().UTC()}
			if err := tx.Create(&newLike).Error; err != nil {
				// May be gorm.ErrDuplicatedKey when a concurrent toggle for
				// the same pair won the insert; the caller retries once.
				return err
			}
			if err := adjustCounter(tx, postID, "likes_count", 1); err != nil {
				return err
			}
			state = storage.Liked

		default:
			return err
		}

		// Re-read inside the transaction so the returned counter reflects
		// exactly what this toggle committed.
		var updated domain.Post
		if err := tx.Select("likes_count").First(&updated, postID).Error; err != nil {
			return err
		}
		count = updated.LikesCount
		return nil
	})
	if err != nil {
		return storage.Unliked, 0, err
	}
	return state, count, nil
}

// adjustCounter applies a single-statement relative update so concurrent
// transactions never clobber each other's counter writes.
func adjustCounter(tx *gorm.DB, postID int, column string, delta int) error {
	return tx.Model(&domain.Post{}).Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	if strings.TrimSpace(comment.Content) == "" {
		return nil, storage.ErrEmptyContent
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post domain.Post
		if err := tx.First(&post, comment.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrPostNotFound
			}
			return err
		}

		comment.CreatedAt = time.Now().UTC()
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return adjustCounter(tx, comment.PostID, "comments_count", 1)
	})
	if err != nil {
		return nil, err
	}

	var created domain.Comment
	if err := s.db.WithContext(ctx).Preload("Author").First(&created, comment.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// ListComments returns one page of a post's comments, newest first. A missing
// post is NOT_FOUND rather than an empty page, so the check is explicit.
func (s *Store) ListComments(ctx context.Context, postID int, page storage.PageArgs) ([]*domain.Comment, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var comments []*domain.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return storage.ErrPostNotFound
		}

		return tx.Preload("Author").
			Where("post_id = ?", postID).
			Order("created_at DESC").
			Scopes(paginate(page)).
			Find(&comments).Error
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

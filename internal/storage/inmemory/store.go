package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bumpbuddy/backend/internal/domain"
	"github.com/bumpbuddy/backend/internal/storage"
)

type likeKey struct {
	postID int
	userID int
}

// Store implements the Storage interface in memory. It exists for tests and
// for running the server without a database; the mutex stands in for the
// transaction boundary, so every operation observes and leaves a consistent
// counter state.
type Store struct {
	mu sync.RWMutex

	users    map[int]*domain.User
	posts    map[int]*domain.Post
	comments map[int]*domain.Comment
	likes    map[likeKey]*domain.PostLike
	articles map[int]*domain.HealthArticle

	nextUserID    int
	nextPostID    int
	nextCommentID int
	nextLikeID    int
	nextArticleID int
}

var _ storage.Storage = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:    make(map[int]*domain.User),
		posts:    make(map[int]*domain.Post),
		comments: make(map[int]*domain.Comment),
		likes:    make(map[likeKey]*domain.PostLike),
		articles: make(map[int]*domain.HealthArticle),
	}
}

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, storage.ErrEmailTaken
		}
	}
	for _, u := range s.users {
		if u.Username == user.Username {
			return nil, storage.ErrUsernameTaken
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	user.IsActive = true
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = user
	return copyUser(user), nil
}

func (s *Store) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, storage.ErrUserNotFound
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	s.nextPostID++
	post.ID = s.nextPostID
	post.LikesCount = 0
	post.CommentsCount = 0
	post.IsHot = false
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = domain.TagList{}
	}
	s.posts[post.ID] = post
	return s.copyPost(post), nil
}

func (s *Store) GetPostByID(ctx context.Context, id int) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrPostNotFound
	}
	return s.copyPost(post), nil
}

func (s *Store) ListPosts(ctx context.Context, filter storage.PostFilter) ([]*domain.Post, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if matchesPostFilter(p, filter) {
			matched = append(matched, p)
		}
	}

	// Creation time descending; equal timestamps fall back to id order, which
	// callers must not rely on.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	page := paginate(matched, filter.PageArgs)
	out := make([]*domain.Post, 0, len(page))
	for _, p := range page {
		out = append(out, s.copyPost(p))
	}
	return out, total, nil
}

func matchesPostFilter(p *domain.Post, f storage.PostFilter) bool {
	if f.Type != nil && p.Type != *f.Type {
		return false
	}
	if f.IsHot != nil && p.IsHot != *f.IsHot {
		return false
	}
	if f.AuthorID != nil && p.AuthorID != *f.AuthorID {
		return false
	}
	if f.Tag != nil && !strings.Contains(p.Tags.Serialized(), *f.Tag) {
		return false
	}
	return true
}

// === Like Toggle ===

func (s *Store) TogglePostLike(ctx context.Context, postID, userID int) (storage.LikeState, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return storage.Unliked, 0, storage.ErrPostNotFound
	}

	key := likeKey{postID: postID, userID: userID}
	if _, liked := s.likes[key]; liked {
		delete(s.likes, key)
		post.LikesCount--
		return storage.Unliked, post.LikesCount, nil
	}

	s.nextLikeID++
	s.likes[key] = &domain.PostLike{
		ID:        s.nextLikeID,
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	post.LikesCount++
	return storage.Liked, post.LikesCount, nil
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(comment.Content) == "" {
		return nil, storage.ErrEmptyContent
	}

	post, ok := s.posts[comment.PostID]
	if !ok {
		return nil, storage.ErrPostNotFound
	}

	s.nextCommentID++
	comment.ID = s.nextCommentID
	comment.CreatedAt = time.Now().UTC()
	s.comments[comment.ID] = comment
	post.CommentsCount++
	return s.copyComment(comment), nil
}

func (s *Store) ListComments(ctx context.Context, postID int, page storage.PageArgs) ([]*domain.Comment, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, storage.ErrPostNotFound
	}

	matched := make([]*domain.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	pageSlice := paginate(matched, page)
	out := make([]*domain.Comment, 0, len(pageSlice))
	for _, c := range pageSlice {
		out = append(out, s.copyComment(c))
	}
	return out, nil
}

// === Health Article Methods ===

func (s *Store) CreateArticle(ctx context.Context, article *domain.HealthArticle) (*domain.HealthArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextArticleID++
	article.ID = s.nextArticleID
	article.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	s.articles[article.ID] = article

	copied := *article
	return &copied, nil
}

func (s *Store) GetArticleByID(ctx context.Context, id int) (*domain.HealthArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	article, ok := s.articles[id]
	if !ok {
		return nil, storage.ErrArticleNotFound
	}
	copied := *article
	return &copied, nil
}

func (s *Store) ListArticles(ctx context.Context, filter storage.ArticleFilter) ([]*domain.HealthArticle, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*domain.HealthArticle, 0, len(s.articles))
	for _, a := range s.articles {
		if matchesArticleFilter(a, filter) {
			matched = append(matched, a)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if filter.SortDesc {
			a, b = b, a
		}
		if filter.SortBy == storage.ArticleSortTitle {
			return a.Title < b.Title
		}
		return a.CreatedAt < b.CreatedAt
	})

	total := int64(len(matched))
	start := filter.Skip
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}

	out := make([]*domain.HealthArticle, 0, end-start)
	for _, a := range matched[start:end] {
		copied := *a
		out = append(out, &copied)
	}
	return out, total, nil
}

func matchesArticleFilter(a *domain.HealthArticle, f storage.ArticleFilter) bool {
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.Tag != "" && !strings.Contains(a.Tags, f.Tag) {
		return false
	}
	if f.Search != "" && !strings.Contains(a.Title, f.Search) && !strings.Contains(a.Content, f.Search) {
		return false
	}
	return true
}

func (s *Store) UpdateArticle(ctx context.Context, id int, article *domain.HealthArticle) (*domain.HealthArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.articles[id]
	if !ok {
		return nil, storage.ErrArticleNotFound
	}
	existing.Title = article.Title
	existing.Content = article.Content
	existing.Category = article.Category
	existing.Tags = article.Tags
	existing.Author = article.Author

	copied := *existing
	return &copied, nil
}

func (s *Store) DeleteArticle(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[id]; !ok {
		return storage.ErrArticleNotFound
	}
	delete(s.articles, id)
	return nil
}

// === Helpers ===

// paginate slices one page out of an already-sorted list.
func paginate[T any](items []*T, page storage.PageArgs) []*T {
	start := page.Offset()
	if start >= len(items) {
		return []*T{}
	}
	end := start + page.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Returned entities are per-operation working copies so callers never hold a
// reference the next operation mutates.

func copyUser(u *domain.User) *domain.User {
	copied := *u
	return &copied
}

func (s *Store) copyPost(p *domain.Post) *domain.Post {
	copied := *p
	copied.Tags = append(domain.TagList{}, p.Tags...)
	if author, ok := s.users[p.AuthorID]; ok {
		copied.Author = copyUser(author)
	}
	return &copied
}

func (s *Store) copyComment(c *domain.Comment) *domain.Comment {
	copied := *c
	if author, ok := s.users[c.AuthorID]; ok {
		copied.Author = copyUser(author)
	}
	return &copied
}

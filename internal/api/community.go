package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bumpbuddy/backend/internal/domain"
	"github.com/bumpbuddy/backend/internal/storage"
)

const defaultPageSize = 20

type createPostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Type    string   `json:"type"`
	Tags    []string `json:"tags"`
}

type authorInfo struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type postResponse struct {
	ID            int             `json:"id"`
	Title         string          `json:"title"`
	Content       string          `json:"content"`
	Type          domain.PostType `json:"type"`
	Tags          []string        `json:"tags"`
	Author        authorInfo      `json:"author"`
	LikesCount    int             `json:"likes_count"`
	CommentsCount int             `json:"comments_count"`
	IsHot         bool            `json:"is_hot"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type postListResponse struct {
	Total int64          `json:"total"`
	Posts []postResponse `json:"posts"`
}

type likeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

type createCommentRequest struct {
	Content string `json:"content"`
}

type commentResponse struct {
	ID        int        `json:"id"`
	Content   string     `json:"content"`
	Author    authorInfo `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
}

func toAuthorInfo(u *domain.User) authorInfo {
	if u == nil {
		return authorInfo{}
	}
	return authorInfo{ID: u.ID, Username: u.Username}
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		Type:          p.Type,
		Tags:          p.Tags,
		Author:        toAuthorInfo(p.Author),
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		IsHot:         p.IsHot,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Content:   c.Content,
		Author:    toAuthorInfo(c.Author),
		CreatedAt: c.CreatedAt,
	}
}

// === Handlers ===

func (a *API) createPost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		badRequest(w, "title and content are required")
		return
	}

	post, err := a.store.CreatePost(r.Context(), &domain.Post{
		Title:   req.Title,
		Content: req.Content,
		// Unrecognized and missing types both fall back to GENERAL.
		Type:     domain.ParsePostType(req.Type),
		Tags:     domain.TagList(req.Tags),
		AuthorID: currentUser(r).ID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPostResponse(post))
}

func (a *API) getPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	post, err := a.store.GetPostByID(r.Context(), postID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPostResponse(post))
}

func (a *API) listPosts(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePostFilter(r)
	if err != nil {
		respondError(w, err)
		return
	}

	posts, total, err := a.store.ListPosts(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	out := postListResponse{Total: total, Posts: make([]postResponse, 0, len(posts))}
	for _, p := range posts {
		out.Posts = append(out.Posts, toPostResponse(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (a *API) toggleLike(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	state, count, err := a.store.TogglePostLike(r.Context(), postID, currentUser(r).ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, likeResponse{Liked: state == storage.Liked, LikesCount: count})
}

func (a *API) createComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	var req createCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := a.store.CreateComment(r.Context(), &domain.Comment{
		PostID:   postID,
		AuthorID: currentUser(r).ID,
		Content:  req.Content,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCommentResponse(comment))
}

func (a *API) listComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	page, err := parsePageArgs(r)
	if err != nil {
		respondError(w, err)
		return
	}

	comments, err := a.store.ListComments(r.Context(), postID, page)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	respondJSON(w, http.StatusOK, out)
}

// === Query parsing ===

func pathID(w http.ResponseWriter, r *http.Request, param string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id < 1 {
		badRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}

func parsePageArgs(r *http.Request) (storage.PageArgs, error) {
	page := storage.PageArgs{Page: 1, PageSize: defaultPageSize}
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, storage.ErrInvalidPagination
		}
		page.Page = n
	}
	if raw := q.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, storage.ErrInvalidPagination
		}
		page.PageSize = n
	}
	return page, page.Validate()
}

func parsePostFilter(r *http.Request) (storage.PostFilter, error) {
	page, err := parsePageArgs(r)
	if err != nil {
		return storage.PostFilter{}, err
	}
	filter := storage.PostFilter{PageArgs: page}
	q := r.URL.Query()

	if raw := q.Get("type"); raw != "" {
		// Filtering has no default to fall back to, so an unknown type is a
		// validation failure rather than GENERAL.
		typ, ok := domain.LookupPostType(raw)
		if !ok {
			return filter, storage.ErrInvalidPostType
		}
		filter.Type = &typ
	}
	if raw := q.Get("is_hot"); raw != "" {
		hot, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, storage.ErrInvalidFilter
		}
		filter.IsHot = &hot
	}
	if raw := q.Get("author_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return filter, storage.ErrInvalidFilter
		}
		filter.AuthorID = &id
	}
	if tag := q.Get("tag"); tag != "" {
		filter.Tag = &tag
	}
	return filter, nil
}

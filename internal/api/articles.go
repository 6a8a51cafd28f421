package api

import (
	"net/http"
	"strconv"

	"github.com/bumpbuddy/backend/internal/domain"
	"github.com/bumpbuddy/backend/internal/storage"
)

const defaultArticleLimit = 10

type articleRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Tags     string `json:"tags"`
	Author   string `json:"author"`
}

type articleListResponse struct {
	Articles []*domain.HealthArticle `json:"articles"`
	Total    int64                   `json:"total"`
}

func (a *API) getArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "articleID")
	if !ok {
		return
	}

	article, err := a.store.GetArticleByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, article)
}

func (a *API) listArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.ArticleFilter{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("search"),
		SortBy:   storage.ArticleSortCreatedAt,
		SortDesc: true,
		Limit:    defaultArticleLimit,
	}

	if raw := q.Get("sort_by"); raw != "" {
		switch storage.ArticleSort(raw) {
		case storage.ArticleSortCreatedAt, storage.ArticleSortTitle:
			filter.SortBy = storage.ArticleSort(raw)
		default:
			respondError(w, storage.ErrInvalidFilter)
			return
		}
	}
	if raw := q.Get("sort_desc"); raw != "" {
		desc, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, storage.ErrInvalidFilter)
			return
		}
		filter.SortDesc = desc
	}
	if raw := q.Get("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, storage.ErrInvalidFilter)
			return
		}
		filter.Skip = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, storage.ErrInvalidFilter)
			return
		}
		filter.Limit = n
	}

	articles, total, err := a.store.ListArticles(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, articleListResponse{Articles: articles, Total: total})
}

func (a *API) createArticle(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" || req.Content == "" {
		badRequest(w, "title and content are required")
		return
	}

	article, err := a.store.CreateArticle(r.Context(), &domain.HealthArticle{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
		Author:   req.Author,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, article)
}

func (a *API) updateArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "articleID")
	if !ok {
		return
	}

	var req articleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	article, err := a.store.UpdateArticle(r.Context(), id, &domain.HealthArticle{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
		Author:   req.Author,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, article)
}

func (a *API) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "articleID")
	if !ok {
		return
	}

	if err := a.store.DeleteArticle(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

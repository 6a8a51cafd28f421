package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/bumpbuddy/backend/internal/auth"
	"github.com/bumpbuddy/backend/internal/storage"
)

// API wires the storage gateway and token manager into HTTP handlers.
type API struct {
	store  storage.Storage
	tokens *auth.TokenManager
}

func New(store storage.Storage, tokens *auth.TokenManager) *API {
	return &API{store: store, tokens: tokens}
}

// Router builds the full route table under /api/v1.
func (a *API) Router(corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", a.register)
			r.Post("/login", a.login)
			r.With(a.requireAuth).Get("/me", a.me)
		})

		r.Route("/health", func(r chi.Router) {
			r.Get("/articles", a.listArticles)
			r.Post("/articles", a.createArticle)
			r.Get("/articles/{articleID}", a.getArticle)
			r.Put("/articles/{articleID}", a.updateArticle)
			r.Delete("/articles/{articleID}", a.deleteArticle)
		})

		r.Route("/community", func(r chi.Router) {
			r.Get("/posts", a.listPosts)
			r.Get("/posts/{postID}", a.getPost)
			r.Get("/posts/{postID}/comments", a.listComments)

			r.Group(func(r chi.Router) {
				r.Use(a.requireAuth)
				r.Post("/posts", a.createPost)
				r.Post("/posts/{postID}/like", a.toggleLike)
				r.Post("/posts/{postID}/comments", a.createComment)
			})
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler(r)
}

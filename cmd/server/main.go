package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/bumpbuddy/backend/internal/api"
	"github.com/bumpbuddy/backend/internal/auth"
	"github.com/bumpbuddy/backend/internal/config"
	"github.com/bumpbuddy/backend/internal/domain"
	"github.com/bumpbuddy/backend/internal/storage"
	"github.com/bumpbuddy/backend/internal/storage/inmemory"
	"github.com/bumpbuddy/backend/internal/storage/postgres"
)

func main() {
	storageType := flag.String("storage", "in-memory", "Storage type (in-memory or postgres)")
	flag.Parse()

	cfg := config.Load()

	var store storage.Storage
	var err error

	log.Printf("Starting server with %s storage", *storageType)
	if *storageType == "postgres" {
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL must be set for postgres storage")
		}
		store, err = postgres.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
	} else {
		store = inmemory.New()
		fillWithDemoData(store)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	handler := api.New(store, tokens).Router(cfg.CORSOrigins)

	log.Printf("listening on http://localhost:%s/api/v1", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}

// fillWithDemoData seeds the in-memory store so the API is explorable without
// a database.
func fillWithDemoData(s storage.Storage) {
	ctx := context.Background()

	hash, err := auth.HashPassword("test123456")
	if err != nil {
		log.Fatalf("fillWithDemoData: failed to hash password: %v", err)
	}

	alice, err := s.CreateUser(ctx, &domain.User{
		Email:          "test@example.com",
		Username:       "准妈妈小王",
		HashedPassword: hash,
		FullName:       "王小明",
	})
	if err != nil {
		log.Fatalf("fillWithDemoData: failed to create user: %v", err)
	}

	bob, err := s.CreateUser(ctx, &domain.User{
		Email:          "test2@example.com",
		Username:       "二胎妈妈",
		HashedPassword: hash,
	})
	if err != nil {
		log.Fatalf("fillWithDemoData: failed to create second user: %v", err)
	}

	post, err := s.CreatePost(ctx, &domain.Post{
		Title:    "孕早期总是睡不好，有什么办法吗？",
		Content:  "最近总是半夜醒来，想请教大家有什么改善睡眠的经验。",
		Type:     domain.PostTypeQuestion,
		Tags:     domain.TagList{"孕早期", "睡眠", "求助"},
		AuthorID: alice.ID,
	})
	if err != nil {
		log.Fatalf("fillWithDemoData: failed to create post: %v", err)
	}

	_, err = s.CreatePost(ctx, &domain.Post{
		Title:    "分享我的待产包清单",
		Content:  "整理了一份待产包清单，希望对大家有帮助。",
		Type:     domain.PostTypeExperience,
		Tags:     domain.TagList{"待产", "经验分享"},
		AuthorID: bob.ID,
	})
	if err != nil {
		log.Fatalf("fillWithDemoData: failed to create second post: %v", err)
	}

	if _, _, err := s.TogglePostLike(ctx, post.ID, bob.ID); err != nil {
		log.Fatalf("fillWithDemoData: failed to like post: %v", err)
	}

	_, err = s.CreateComment(ctx, &domain.Comment{
		PostID:   post.ID,
		AuthorID: bob.ID,
		Content:  "睡前喝杯温牛奶，左侧卧会舒服一些。",
	})
	if err != nil {
		log.Fatalf("fillWithDemoData: failed to create comment: %v", err)
	}

	_, err = s.CreateArticle(ctx, &domain.HealthArticle{
		Title:    "孕期营养指南：铁元素的补充",
		Content:  "孕中晚期对铁的需求明显增加，推荐多吃瘦肉、动物肝脏和深绿色蔬菜。",
		Category: "营养",
		Tags:     "饮食,贫血,孕中期",
		Author:   "陈医生",
	})
	if err != nil {
		log.Fatalf("fillWithDemoData: failed to create article: %v", err)
	}

	log.Printf("Demo data filled successfully. Post ID: %d, users: %s, %s", post.ID, alice.Username, bob.Username)
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bumpbuddy/backend/internal/auth"
	"github.com/bumpbuddy/backend/internal/storage/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := inmemory.New()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	srv := httptest.NewServer(New(store, tokens).Router([]string{"*"}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

// registerAndLogin creates an account and returns its bearer token.
func registerAndLogin(t *testing.T, srv *httptest.Server, email, username string) string {
	t.Helper()
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"username": username,
		"password": "test123456",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "test123456",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token tokenResponse
	require.NoError(t, json.Unmarshal(body, &token))
	require.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)
	return token.AccessToken
}

func TestRegister_Validation(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"email": "not-an-email", "username": "u1", "password": "test123456",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"email": "a@example.com", "username": "u1", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "a@example.com", "u1")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"email": "a@example.com", "username": "u2", "password": "test123456",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "email already registered")
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "a@example.com", "u1")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"email": "a@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "test123456",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMe_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := registerAndLogin(t, srv, "a@example.com", "u1")
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me userResponse
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, "u1", me.Username)
}

func TestCommunityFlow(t *testing.T) {
	srv := newTestServer(t)
	tokenA := registerAndLogin(t, srv, "a@example.com", "userA")
	tokenB := registerAndLogin(t, srv, "b@example.com", "userB")
	tokenC := registerAndLogin(t, srv, "c@example.com", "userC")

	// Posting requires auth.
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/community/posts", "", map[string]interface{}{
		"title": "t", "content": "c",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Create a post; an unrecognized type defaults to GENERAL.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/community/posts", tokenA, map[string]interface{}{
		"title":   "孕早期总是睡不好",
		"content": "有什么办法吗？",
		"type":    "question",
		"tags":    []string{"孕早期", "求助"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post postResponse
	require.NoError(t, json.Unmarshal(body, &post))
	assert.Equal(t, "QUESTION", string(post.Type))
	assert.Equal(t, "userA", post.Author.Username)
	assert.Zero(t, post.LikesCount)
	assert.False(t, post.IsHot)

	// Like from B, then unlike.
	likeURL := fmt.Sprintf("%s/api/v1/community/posts/%d/like", srv.URL, post.ID)
	resp, body = doJSON(t, http.MethodPost, likeURL, tokenB, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var like likeResponse
	require.NoError(t, json.Unmarshal(body, &like))
	assert.True(t, like.Liked)
	assert.Equal(t, 1, like.LikesCount)

	resp, body = doJSON(t, http.MethodPost, likeURL, tokenB, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &like))
	assert.False(t, like.Liked)
	assert.Equal(t, 0, like.LikesCount)

	// Comment from C.
	commentsURL := fmt.Sprintf("%s/api/v1/community/posts/%d/comments", srv.URL, post.ID)
	resp, body = doJSON(t, http.MethodPost, commentsURL, tokenC, map[string]string{
		"content": "左侧卧会舒服一些。",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comment commentResponse
	require.NoError(t, json.Unmarshal(body, &comment))
	assert.Equal(t, "userC", comment.Author.Username)

	// The post now reflects both counters.
	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/community/posts/%d", srv.URL, post.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &post))
	assert.Equal(t, 0, post.LikesCount)
	assert.Equal(t, 1, post.CommentsCount)

	// Listing comments needs no auth and returns the single comment.
	resp, body = doJSON(t, http.MethodGet, commentsURL, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []commentResponse
	require.NoError(t, json.Unmarshal(body, &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)
}

func TestListPosts_FilterAndPagination(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "a@example.com", "userA")

	for i := 0; i < 5; i++ {
		typ := "question"
		if i%2 == 1 {
			typ = "experience"
		}
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/community/posts", token, map[string]interface{}{
			"title":   fmt.Sprintf("post %d", i),
			"content": "body",
			"type":    typ,
			"tags":    []string{"求助"},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/community/posts?type=QUESTION&tag=求助", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list postListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.EqualValues(t, 3, list.Total)
	for _, p := range list.Posts {
		assert.Equal(t, "QUESTION", string(p.Type))
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/community/posts?page=1&page_size=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.EqualValues(t, 5, list.Total)
	assert.Len(t, list.Posts, 2)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/community/posts?page=3&page_size=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Posts, 1)

	// Bad parameters are validation failures, not empty pages.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/community/posts?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/community/posts?type=NOT_A_TYPE", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommunityNotFound(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "a@example.com", "userA")

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/community/posts/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/community/posts/999/like", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/community/posts/999/comments", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/community/posts/999/comments", token, map[string]string{"content": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestArticleEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/health/articles", "", map[string]string{
		"title":    "孕期营养指南",
		"content":  "多吃瘦肉和深绿色蔬菜。",
		"category": "营养",
		"tags":     "饮食,贫血",
		"author":   "陈医生",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotZero(t, created.ID)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/health/articles?category=营养", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list articleListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.EqualValues(t, 1, list.Total)

	url := fmt.Sprintf("%s/api/v1/health/articles/%d", srv.URL, created.ID)
	resp, _ = doJSON(t, http.MethodPut, url, "", map[string]string{
		"title": "孕期营养指南（更新）", "content": "内容更新。",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, url, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, url, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

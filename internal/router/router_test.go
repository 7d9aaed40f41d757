package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/loop/backend/internal/services"
	"github.com/anonto42/loop/backend/pkg/client"
	"github.com/anonto42/loop/backend/pkg/config"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := config.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTTTL:             time.Hour,
		SearchHistoryStore: "postgres",
		CORSAllowOrigins:   []string{"*"},
	}
	e, err := New(Dependencies{Config: cfg, SQL: db, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("router.New: %v", err)
	}
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, srv.URL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var env envelope
	json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func signup(t *testing.T, srv *httptest.Server, username string) string {
	t.Helper()
	status, env := call(t, srv, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": username, "email": username + "@example.com", "username": username, "password": "password123",
	})
	if status != http.StatusCreated {
		t.Fatalf("signup %s: %d %s", username, status, env.Error)
	}
	var res struct {
		Token string `json:"token"`
	}
	json.Unmarshal(env.Data, &res)
	return res.Token
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusOK || body["status"] != "healthy" {
		t.Fatalf("health = %d %v", resp.StatusCode, body)
	}
}

func TestErrorEnvelopes(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "alice")

	cases := []struct {
		name    string
		method  string
		path    string
		token   string
		body    interface{}
		status  int
		message string
	}{
		{"anonymous write", http.MethodPost, "/api/posts", "", map[string]string{"content": "x", "type": "text"}, http.StatusUnauthorized, "Unauthorized"},
		{"bad token", http.MethodGet, "/api/posts/feed", "garbage", nil, http.StatusUnauthorized, "Invalid token"},
		{"missing post", http.MethodGet, "/api/posts/999", "", nil, http.StatusNotFound, "Post not found"},
		{"bad id", http.MethodGet, "/api/posts/abc", "", nil, http.StatusBadRequest, "Invalid id"},
		{"missing user", http.MethodGet, "/api/users/ghost", "", nil, http.StatusNotFound, "User not found"},
		{"bad post type", http.MethodPost, "/api/posts", token, map[string]string{"content": "x", "type": "video"}, http.StatusBadRequest, "Invalid post type"},
		{"bad exclude ids", http.MethodGet, "/api/reels/recommendations?excludeIds=1,x", "", nil, http.StatusBadRequest, "Invalid excludeIds"},
		{"too many exclude ids", http.MethodGet, "/api/reels/recommendations?excludeIds=" + strings.Repeat("1,", services.MaxExcludeIDs+1), "", nil, http.StatusBadRequest, "Invalid excludeIds"},
		{"bad search type", http.MethodGet, "/api/search?q=a&type=tags", "", nil, http.StatusBadRequest, "Invalid search type"},
		{"wrong password", http.MethodPost, "/api/auth/signin", "", map[string]string{"email": "alice@example.com", "password": "nope"}, http.StatusUnauthorized, "Invalid email or password"},
		{"firebase not mounted", http.MethodPost, "/api/auth/firebase-login", "", map[string]string{"idToken": "x"}, http.StatusNotFound, "Not Found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := call(t, srv, tc.method, tc.path, tc.token, tc.body)
			if status != tc.status || env.Error != tc.message {
				t.Errorf("got %d %q, want %d %q", status, env.Error, tc.status, tc.message)
			}
		})
	}
}

func TestFollowLikeScenario(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	aliceToken := signup(t, srv, "alice")
	bobToken := signup(t, srv, "bob")

	status, env := call(t, srv, http.MethodPost, "/api/posts", bobToken, map[string]string{"content": "hello from bob", "type": "text"})
	if status != http.StatusCreated {
		t.Fatalf("create post: %d %s", status, env.Error)
	}
	var post client.Post
	json.Unmarshal(env.Data, &post)

	alice := client.New(srv.URL, client.WithToken(aliceToken))

	feed, err := alice.Feed(ctx, 0)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(feed) != 0 {
		t.Fatalf("feed before follow = %+v", feed)
	}

	if err := alice.Follow(ctx, "bob"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	var apiErr *client.APIError
	if err := alice.Follow(ctx, "bob"); !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest || apiErr.Message != "Already following this user" {
		t.Fatalf("second follow: %v", err)
	}

	session := client.NewSession(alice)
	feed, err = session.LoadFeed(ctx, 0)
	if err != nil {
		t.Fatalf("LoadFeed: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != post.ID || feed[0].User == nil || feed[0].User.Username != "bob" {
		t.Fatalf("feed after follow = %+v", feed)
	}

	liked, err := session.ToggleLike(ctx, post.ID)
	if err != nil || !liked.IsLiked || liked.LikesCount != 1 {
		t.Fatalf("ToggleLike = %+v, %v", liked, err)
	}
	if err := alice.Like(ctx, post.ID); !errors.As(err, &apiErr) || apiErr.Message != "Post already liked" {
		t.Fatalf("duplicate like: %v", err)
	}

	fresh, _ := alice.Feed(ctx, 0)
	if !fresh[0].IsLiked || fresh[0].LikesCount != 1 {
		t.Fatalf("server state after like = %+v", fresh[0])
	}

	unliked, err := session.ToggleLike(ctx, post.ID)
	if err != nil || unliked.IsLiked || unliked.LikesCount != 0 {
		t.Fatalf("ToggleLike back = %+v, %v", unliked, err)
	}
	status, env = call(t, srv, http.MethodDelete, "/api/posts/"+strconv.FormatUint(uint64(post.ID), 10)+"/like", aliceToken, nil)
	var removal struct {
		Success bool `json:"success"`
		Removed bool `json:"removed"`
	}
	json.Unmarshal(env.Data, &removal)
	if status != http.StatusOK || !removal.Success || removal.Removed {
		t.Fatalf("lenient unlike = %d %+v", status, removal)
	}

	profile, err := alice.Profile(ctx, "bob")
	if err != nil || !profile.IsFollowing || profile.Followers != 1 || profile.PostsCount != 1 {
		t.Fatalf("bob's profile = %+v, %v", profile, err)
	}
}

func TestCommentsAndSearchHistory(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	token := signup(t, srv, "alice")
	_, env := call(t, srv, http.MethodPost, "/api/posts", token, map[string]string{"content": "golang tips", "type": "text"})
	var post client.Post
	json.Unmarshal(env.Data, &post)

	alice := client.New(srv.URL, client.WithToken(token))
	top, err := alice.AddComment(ctx, post.ID, "first", nil)
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	reply, err := alice.AddComment(ctx, post.ID, "reply", &top.ID)
	if err != nil {
		t.Fatalf("AddComment reply: %v", err)
	}
	var apiErr *client.APIError
	if _, err := alice.AddComment(ctx, post.ID, "too deep", &reply.ID); !errors.As(err, &apiErr) || apiErr.Message != "Invalid parent comment" {
		t.Fatalf("nested reply: %v", err)
	}

	tree, err := client.New(srv.URL).Comments(ctx, post.ID)
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if len(tree) != 1 || len(tree[0].Replies) != 1 || tree[0].Replies[0].ID != reply.ID {
		t.Fatalf("comment tree = %+v", tree)
	}

	for _, term := range []string{"Go", "rust", "go"} {
		if err := alice.AddSearch(ctx, term); err != nil {
			t.Fatalf("AddSearch: %v", err)
		}
	}
	history, err := alice.SearchHistory(ctx)
	if err != nil {
		t.Fatalf("SearchHistory: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history = %+v", history)
	}
	if deduped := client.DedupeHistory(history); len(deduped) != 2 {
		t.Fatalf("deduped = %+v", deduped)
	}

	anon, err := client.New(srv.URL).SearchHistory(ctx)
	if err != nil || len(anon) != 0 {
		t.Fatalf("anonymous history = %+v, %v", anon, err)
	}
}

func TestUsernameRules(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "alice")

	for _, name := range []string{"   ", "a/b?c", "Alice", "ab"} {
		status, env := call(t, srv, http.MethodPatch, "/api/users/alice", token, map[string]string{"username": name})
		if status != http.StatusBadRequest {
			t.Errorf("PATCH username %q = %d %q, want 400", name, status, env.Error)
		}
	}
	if status, _ := call(t, srv, http.MethodGet, "/api/users/alice", "", nil); status != http.StatusOK {
		t.Fatalf("alice unreachable after rejected renames: %d", status)
	}

	status, env := call(t, srv, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Bob", "email": "bob@example.com", "username": "bob smith", "password": "password123",
	})
	if status != http.StatusBadRequest {
		t.Errorf("signup with spaced username = %d %q, want 400", status, env.Error)
	}

	status, env = call(t, srv, http.MethodPatch, "/api/users/alice", token, map[string]string{"username": " alice_b "})
	if status != http.StatusOK {
		t.Fatalf("rename: %d %s", status, env.Error)
	}
	var prof client.Profile
	json.Unmarshal(env.Data, &prof)
	if prof.Username != "alice_b" {
		t.Errorf("renamed to %q", prof.Username)
	}
	if status, _ := call(t, srv, http.MethodGet, "/api/users/alice_b", "", nil); status != http.StatusOK {
		t.Errorf("GET renamed profile = %d", status)
	}
}

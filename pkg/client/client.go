// Package client is a typed Go client for the Loop HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx response decoded from the {"error": ...} envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("loop api: %d %s", e.Status, e.Message)
}

// Client talks to the Loop API with an optional bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &env) != nil || env.Error == "" {
			env.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}

	if out == nil {
		return nil
	}
	env := struct {
		Data interface{} `json:"data"`
	}{Data: out}
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func limitQuery(limit int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func postPath(postID uint, suffix string) string {
	return "/api/posts/" + strconv.FormatUint(uint64(postID), 10) + suffix
}

// Feed fetches the home feed.
func (c *Client) Feed(ctx context.Context, limit int) ([]Post, error) {
	var posts []Post
	err := c.do(ctx, http.MethodGet, "/api/posts/feed", limitQuery(limit), nil, &posts)
	return posts, err
}

// Explore fetches trending posts and suggested accounts.
func (c *Client) Explore(ctx context.Context, limit int) (*Explore, error) {
	var out Explore
	if err := c.do(ctx, http.MethodGet, "/api/explore", limitQuery(limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Recommendations fetches the next page of reels, skipping ids already seen.
func (c *Client) Recommendations(ctx context.Context, limit int, seen []uint) ([]Post, error) {
	q := limitQuery(limit)
	if len(seen) > 0 {
		parts := make([]string, len(seen))
		for i, id := range seen {
			parts[i] = strconv.FormatUint(uint64(id), 10)
		}
		q.Set("excludeIds", strings.Join(parts, ","))
	}
	var posts []Post
	err := c.do(ctx, http.MethodGet, "/api/reels/recommendations", q, nil, &posts)
	return posts, err
}

// Comments fetches a post's comment tree.
func (c *Client) Comments(ctx context.Context, postID uint) ([]Comment, error) {
	var comments []Comment
	err := c.do(ctx, http.MethodGet, postPath(postID, "/comments"), nil, nil, &comments)
	return comments, err
}

// AddComment posts a comment, or a reply when parentID is set.
func (c *Client) AddComment(ctx context.Context, postID uint, content string, parentID *uint) (*Comment, error) {
	body := map[string]interface{}{"content": content}
	if parentID != nil {
		body["parentId"] = *parentID
	}
	var out Comment
	if err := c.do(ctx, http.MethodPost, postPath(postID, "/comments"), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Like(ctx context.Context, postID uint) error {
	return c.do(ctx, http.MethodPost, postPath(postID, "/like"), nil, nil, nil)
}

func (c *Client) Unlike(ctx context.Context, postID uint) error {
	return c.do(ctx, http.MethodDelete, postPath(postID, "/like"), nil, nil, nil)
}

func (c *Client) Bookmark(ctx context.Context, postID uint) error {
	return c.do(ctx, http.MethodPost, postPath(postID, "/bookmark"), nil, nil, nil)
}

func (c *Client) Unbookmark(ctx context.Context, postID uint) error {
	return c.do(ctx, http.MethodDelete, postPath(postID, "/bookmark"), nil, nil, nil)
}

func (c *Client) Follow(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodPost, "/api/users/"+url.PathEscape(username)+"/follow", nil, nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(username)+"/follow", nil, nil, nil)
}

// Profile fetches a user's profile.
func (c *Client) Profile(ctx context.Context, username string) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(username), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchHistory fetches the viewer's recent searches, newest first.
func (c *Client) SearchHistory(ctx context.Context) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := c.do(ctx, http.MethodGet, "/api/search/history", nil, nil, &entries)
	return entries, err
}

// AddSearch records a search term.
func (c *Client) AddSearch(ctx context.Context, term string) error {
	return c.do(ctx, http.MethodPost, "/api/search/history", nil, map[string]string{"term": term}, nil)
}

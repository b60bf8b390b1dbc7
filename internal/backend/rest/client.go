// Package rest implements the backend contract over the REST/JSON API.
// The client holds the token pair for the active session, refreshes it
// once transparently when the server reports an expired access token, and
// mirrors every session change into the local credential cache.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dkarklins/jobfolio/internal/backend"
	"github.com/dkarklins/jobfolio/internal/client/credcache"
	"github.com/dkarklins/jobfolio/internal/common"
	"github.com/dkarklins/jobfolio/internal/restapi"
)

type Client struct {
	baseURL  string
	http     *http.Client
	cache    *credcache.Store
	notifier *backend.Notifier

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	identity     backend.Identity
	expiresAt    time.Time
}

// New builds a client for the API at baseURL. cache may be nil, in which
// case sessions do not survive the process.
func New(baseURL string, timeout time.Duration, cache *credcache.Store) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		cache:    cache,
		notifier: backend.NewNotifier(),
	}
}

// RestoreFromCache seeds the client with a previously cached credential.
// An expired access token is kept as long as a refresh token exists; the
// next call will refresh it. Returns whether anything was restored.
func (c *Client) RestoreFromCache(ctx context.Context) (bool, error) {
	if c.cache == nil {
		return false, nil
	}
	cred, err := c.cache.Load(ctx)
	if err != nil {
		return false, err
	}
	if cred == nil {
		return false, nil
	}
	if cred.Expired() && cred.RefreshToken == "" {
		return false, nil
	}

	c.mu.Lock()
	c.accessToken = cred.AccessToken
	c.refreshToken = cred.RefreshToken
	c.identity = backend.Identity{ID: cred.UserID, Email: cred.Email}
	c.expiresAt = cred.ExpiresAt
	c.mu.Unlock()
	return true, nil
}

func (c *Client) SubscribeToSessionChanges(fn func(*backend.Session)) backend.Subscription {
	return c.notifier.Subscribe(fn)
}

// session returns the current session value, or nil without tokens.
// Caller must not hold c.mu.
func (c *Client) session() *backend.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken == "" {
		return nil
	}
	return &backend.Session{
		Identity:      c.identity,
		ExpiresAt:     c.expiresAt,
		RawCredential: c.accessToken,
	}
}

// adopt installs a token pair as the active session, persists it and
// notifies subscribers.
func (c *Client) adopt(ctx context.Context, pair *restapi.TokenPair) *backend.Session {
	c.mu.Lock()
	c.accessToken = pair.AccessToken
	c.refreshToken = pair.RefreshToken
	c.identity = backend.Identity{ID: pair.User.ID, Email: pair.User.Email}
	c.expiresAt = pair.ExpiresAt
	c.mu.Unlock()

	if c.cache != nil {
		// Cache failures do not invalidate the live session.
		_ = c.cache.Save(ctx, credcache.Credential{
			UserID:       pair.User.ID,
			Email:        pair.User.Email,
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresAt:    pair.ExpiresAt,
		})
	}

	s := c.session()
	c.notifier.Publish(s)
	return s
}

func (c *Client) dropSession(ctx context.Context, notify bool) {
	c.mu.Lock()
	had := c.accessToken != ""
	c.accessToken = ""
	c.refreshToken = ""
	c.identity = backend.Identity{}
	c.expiresAt = time.Time{}
	c.mu.Unlock()

	if c.cache != nil {
		_ = c.cache.Clear(ctx)
	}
	if notify && had {
		c.notifier.Publish(nil)
	}
}

// do issues one JSON request. A 401 reply triggers a single token refresh
// and retry; a second 401 maps to ErrUnauthorized like any other.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	err := c.doOnce(ctx, method, path, in, out)
	if err == nil || !isUnauthorized(err) {
		return err
	}

	c.mu.Lock()
	refresh := c.refreshToken
	c.mu.Unlock()
	if refresh == "" {
		return err
	}
	if rerr := c.refresh(ctx, refresh); rerr != nil {
		return err
	}
	return c.doOnce(ctx, method, path, in, out)
}

func (c *Client) doOnce(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()
	if token != "" {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return mapStatus(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", common.ErrRemote, err)
	}
	return nil
}

// refresh exchanges the refresh token for a new pair. On a definitive
// rejection the cached session is dropped so the gate redirects instead
// of looping on a dead token.
func (c *Client) refresh(ctx context.Context, refreshToken string) error {
	var pair restapi.TokenPair
	err := c.doOnce(ctx, http.MethodPost, "/api/auth/refresh", restapi.RefreshRequest{RefreshToken: refreshToken}, &pair)
	if err != nil {
		if isUnauthorized(err) {
			c.dropSession(ctx, true)
		}
		return err
	}
	c.adopt(ctx, &pair)
	return nil
}

func isUnauthorized(err error) bool {
	return errors.Is(err, common.ErrUnauthorized)
}

func mapStatus(resp *http.Response) error {
	var body restapi.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrAlreadyExists, msg)
	default:
		return fmt.Errorf("%w: %s", common.ErrRemote, msg)
	}
}

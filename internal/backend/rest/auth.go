package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/dkarklins/jobfolio/internal/backend"
	"github.com/dkarklins/jobfolio/internal/restapi"
)

func (c *Client) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	var pair restapi.TokenPair
	err := c.doOnce(ctx, http.MethodPost, "/api/auth/signin", restapi.Credentials{Email: email, Password: password}, &pair)
	if err != nil {
		return nil, err
	}
	return c.adopt(ctx, &pair), nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	var pair restapi.TokenPair
	err := c.doOnce(ctx, http.MethodPost, "/api/auth/signup", restapi.Credentials{Email: email, Password: password}, &pair)
	if err != nil {
		return nil, err
	}
	return c.adopt(ctx, &pair), nil
}

// SignOut revokes the refresh token server-side, then drops the local
// session regardless of the server's answer: sign-out must always leave
// the client signed out.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	refresh := c.refreshToken
	c.mu.Unlock()

	var err error
	if refresh != "" {
		err = c.doOnce(ctx, http.MethodPost, "/api/auth/signout", restapi.RefreshRequest{RefreshToken: refresh}, nil)
	}
	c.dropSession(ctx, true)
	return err
}

func (c *Client) RequestPasswordReset(ctx context.Context, email, redirectTarget string) error {
	return c.doOnce(ctx, http.MethodPost, "/api/auth/reset", restapi.ResetRequest{Email: email, RedirectTarget: redirectTarget}, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/password", restapi.PasswordUpdate{NewPassword: newPassword}, nil)
}

// CurrentSession reports the session the client holds. An expired access
// token with a live refresh token is refreshed here, so startup with a
// cached credential transparently resumes the session. No session at all
// is (nil, nil).
func (c *Client) CurrentSession(ctx context.Context) (*backend.Session, error) {
	c.mu.Lock()
	access := c.accessToken
	refresh := c.refreshToken
	expired := !c.expiresAt.IsZero() && time.Now().After(c.expiresAt)
	c.mu.Unlock()

	if access == "" && refresh == "" {
		return nil, nil
	}
	if !expired && access != "" {
		return c.session(), nil
	}
	if refresh == "" {
		c.dropSession(ctx, false)
		return nil, nil
	}
	if err := c.refresh(ctx, refresh); err != nil {
		if isUnauthorized(err) {
			return nil, nil
		}
		return nil, err
	}
	return c.session(), nil
}

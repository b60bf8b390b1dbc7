package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dkarklins/jobfolio/internal/common"
)

// Upload streams the object body to the server, which forwards it to the
// blob store. The body is sent raw, not JSON-wrapped.
func (c *Client) Upload(ctx context.Context, bucket, path string, r io.Reader) error {
	url := fmt.Sprintf("%s/api/blob/%s/%s", c.baseURL, bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

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
	return nil
}

// PublicURL returns the server's public redirect endpoint for the object.
// No remote call is made; the server resolves the real location when the
// URL is fetched.
func (c *Client) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/public/%s/%s", c.baseURL, bucket, path)
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/feedhub/internal/client/models"
	"github.com/dmitrijs2005/feedhub/internal/common"
)

// Client is the API contract used by the CLI.
type Client interface {
	Login(ctx context.Context, username string, password []byte) error
	Inbox(ctx context.Context) ([]models.Notification, error)
	Unread(ctx context.Context) (int64, error)
	Purge(ctx context.Context) (int64, error)
}

type HTTPClient struct {
	baseURL     string
	http        *http.Client
	accessToken string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Error string `json:"error"`
}

func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) error {
	body := struct {
		UserName string `json:"username"`
		Password string `json:"password"`
	}{UserName: username, Password: string(password)}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return fmt.Errorf("login response carries no token")
	}
	c.accessToken = resp.Token
	return nil
}

func (c *HTTPClient) Inbox(ctx context.Context) ([]models.Notification, error) {
	var resp struct {
		Notifications []models.Notification `json:"notifications"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

func (c *HTTPClient) Unread(ctx context.Context) (int64, error) {
	var resp struct {
		Unread int64 `json:"unread"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/notifications/unread", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Unread, nil
}

func (c *HTTPClient) Purge(ctx context.Context) (int64, error) {
	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/notifications", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", common.BearerScheme+" "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrUnavailable, readAPIError(resp.Body))
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("request failed (%d): %s", resp.StatusCode, readAPIError(resp.Body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readAPIError(r io.Reader) string {
	var e apiError
	if err := json.NewDecoder(r).Decode(&e); err != nil || e.Error == "" {
		return "unexpected response"
	}
	return e.Error
}

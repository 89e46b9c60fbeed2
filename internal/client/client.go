// Package client implements the notification data service contract
// over HTTP against the reference server API.
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

	"github.com/AzerQ/sed-notifications/internal/domain"
	"github.com/AzerQ/sed-notifications/internal/logging"
	"github.com/AzerQ/sed-notifications/internal/settings"
)

// Client talks to the notification server. It implements
// ports.DataService.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
	logger     logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserID sets the user identity sent with settings requests.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = id }
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) { c.logger = logger.With("component", "client") }
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetUnreadNotifications fetches one page of unread notifications.
func (c *Client) GetUnreadNotifications(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	var page domain.Page
	err := c.getJSON(ctx, "/api/notifications/unread", pageQuery(req), &page)
	return page, err
}

// GetAllNotifications fetches one page of the full history.
func (c *Client) GetAllNotifications(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	var page domain.Page
	err := c.getJSON(ctx, "/api/notifications", pageQuery(req), &page)
	return page, err
}

// MarkAsRead marks a single notification read.
func (c *Client) MarkAsRead(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodPost, "/api/notifications/"+strconv.FormatInt(id, 10)+"/read", nil)
}

// MarkMultipleAsRead marks a batch of notifications read in one call.
func (c *Client) MarkMultipleAsRead(ctx context.Context, ids []int64) error {
	return c.send(ctx, http.MethodPost, "/api/notifications/read", map[string][]int64{"ids": ids})
}

// GetUnreadCount returns the total number of unread notifications.
func (c *Client) GetUnreadCount(ctx context.Context) (int, error) {
	var body struct {
		Count int `json:"count"`
	}
	if err := c.getJSON(ctx, "/api/notifications/unread/count", nil, &body); err != nil {
		return 0, err
	}
	return body.Count, nil
}

// GetUserNotificationSettings fetches the per-event channel settings.
func (c *Client) GetUserNotificationSettings(ctx context.Context) (settings.UserNotificationSettings, error) {
	var us settings.UserNotificationSettings
	err := c.getJSON(ctx, "/api/settings/user", nil, &us)
	return us, err
}

// SaveUserNotificationSettings persists the per-event channel settings.
func (c *Client) SaveUserNotificationSettings(ctx context.Context, s settings.UserNotificationSettings) error {
	return c.send(ctx, http.MethodPut, "/api/settings/user", s)
}

// GetToastSettings fetches the toast display preferences.
func (c *Client) GetToastSettings(ctx context.Context) (settings.ToastSettings, error) {
	var ts settings.ToastSettings
	err := c.getJSON(ctx, "/api/settings/toast", nil, &ts)
	return ts, err
}

// SaveToastSettings persists the toast display preferences.
func (c *Client) SaveToastSettings(ctx context.Context, s settings.ToastSettings) error {
	return c.send(ctx, http.MethodPut, "/api/settings/toast", s)
}

// CreateNotification posts a new notification, which the server also
// broadcasts on the push channel. Used by producer-side tooling.
func (c *Client) CreateNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("client: encode notification: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/notifications", bytes.NewReader(data))
	if err != nil {
		return domain.Notification{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created domain.Notification
	if err := c.do(req, &created); err != nil {
		return domain.Notification{}, err
	}
	return created, nil
}

func pageQuery(req domain.PageRequest) url.Values {
	q := req.Filter.Values()
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("pageSize", strconv.Itoa(req.PageSize))
	return q
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userID != "" {
		req.Header.Set("X-User-Id", c.userID)
	}
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	fullPath := path
	if len(query) > 0 {
		fullPath += "?" + query.Encode()
	}
	req, err := c.newRequest(ctx, http.MethodGet, fullPath, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) send(ctx context.Context, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode body for %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("client: %s %s: %s", req.Method, req.URL.Path, serverError(resp))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// serverError extracts the error message from an error response body,
// falling back to the HTTP status.
func serverError(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return resp.Status
}

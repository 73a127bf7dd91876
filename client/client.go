// Package client is the board-side companion of the API: a typed HTTP
// client plus an in-memory store that mirrors the server's task list and
// applies drag-and-drop moves optimistically.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"kanban-lite/kanban/models"
)

// TaskPayload is the JSON body for POST /tasks and PUT /tasks/{id}.
type TaskPayload struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      models.Status    `json:"status,omitempty"`
	Images      models.ImageList `json:"images"`
	Order       *int             `json:"order,omitempty"`
}

// APIError is a structured non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// ErrUnauthorized signals the session is gone and the user must log in again.
var ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, password string) (models.UserIdentity, error) {
	var response struct {
		Success bool                `json:"success"`
		User    models.UserIdentity `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/login", map[string]string{"password": password}, &response)
	if err != nil {
		return models.UserIdentity{}, err
	}
	return response.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

func (c *Client) Check(ctx context.Context) (bool, models.UserIdentity, error) {
	var response struct {
		Authenticated bool                `json:"authenticated"`
		User          models.UserIdentity `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/check", nil, &response); err != nil {
		return false, models.UserIdentity{}, err
	}
	return response.Authenticated, response.User, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, payload TaskPayload) (uint, error) {
	var response struct {
		Success bool `json:"success"`
		ID      uint `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/tasks", payload, &response); err != nil {
		return 0, err
	}
	return response.ID, nil
}

func (c *Client) UpdateTask(ctx context.Context, id uint, payload TaskPayload) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), payload, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

// CleanupImages triggers the explicit orphaned-attachment sweep.
func (c *Client) CleanupImages(ctx context.Context) (int, []string, error) {
	var response struct {
		Success      bool     `json:"success"`
		DeletedCount int      `json:"deleted_count"`
		DeletedFiles []string `json:"deleted_files"`
	}
	if err := c.do(ctx, http.MethodPost, "/cleanup-images", nil, &response); err != nil {
		return 0, nil, err
	}
	return response.DeletedCount, response.DeletedFiles, nil
}

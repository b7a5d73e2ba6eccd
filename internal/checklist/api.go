package checklist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the REST API on behalf of a logged-in user.
type Client struct {
	base  string
	token string
	http  *http.Client
}

func NewClient(base, token string) *Client {
	return &Client{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Authenticated() bool { return true }

// Signup creates an account; the caller still has to log in.
func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/signup", body, nil)
}

// Login obtains a bearer token and keeps it for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (username string, err error) {
	var out struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Username, nil
}

func (c *Client) SaveTasks(ctx context.Context, tasks []Task) error {
	return c.do(ctx, http.MethodPost, "/api/tasks", map[string]any{"tasks": tasks}, nil)
}

func (c *Client) FetchTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FetchStats(ctx context.Context) ([]DayStat, error) {
	var out []DayStat
	if err := c.do(ctx, http.MethodGet, "/api/tasks/stats", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (c *Client) CreateEvent(ctx context.Context, title string, start, end time.Time) (*Event, error) {
	body := map[string]string{
		"title":      title,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}
	ev := &Event{}
	if err := c.do(ctx, http.MethodPost, "/api/schedule", body, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	var out []Event
	if err := c.do(ctx, http.MethodGet, "/api/schedule", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type BookingRequest struct {
	Email     string    `json:"email"`
	Time      string    `json:"time"`
	Msg       string    `json:"msg"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Client) CreateRequest(ctx context.Context, email, when, msg string) (*BookingRequest, error) {
	body := map[string]string{"email": email, "time": when, "msg": msg}
	br := &BookingRequest{}
	if err := c.do(ctx, http.MethodPost, "/api/requests", body, br); err != nil {
		return nil, err
	}
	return br, nil
}

func (c *Client) ListRequests(ctx context.Context) ([]BookingRequest, error) {
	var out []BookingRequest
	if err := c.do(ctx, http.MethodGet, "/api/requests", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

const guestTasksKey = "guest_tasks"

// Guest persists an anonymous visitor's checklist in session-scoped
// storage. Statistics are always empty, so completion is derived from
// local counts alone.
type Guest struct {
	store Storage
}

// NewGuest wires the session store and, when a legacy durable store is
// supplied, migrates any old guest list into the session once.
func NewGuest(session Storage, legacy Storage) *Guest {
	if legacy != nil {
		_ = MigrateLegacy(session, legacy, guestTasksKey)
	}
	return &Guest{store: session}
}

func (g *Guest) Authenticated() bool { return false }

func (g *Guest) SaveTasks(_ context.Context, tasks []Task) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return g.store.Set(guestTasksKey, string(raw))
}

func (g *Guest) FetchTasks(_ context.Context) ([]Task, error) {
	raw, ok := g.store.Get(guestTasksKey)
	if !ok {
		return nil, nil
	}
	var tasks []Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		// unreadable guest data is treated as absent
		return nil, nil
	}
	return tasks, nil
}

func (g *Guest) FetchStats(_ context.Context) ([]DayStat, error) {
	return nil, nil
}

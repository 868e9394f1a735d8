package userapi

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/tommy-mor/spare/internal/httpclient"
	"github.com/tommy-mor/spare/internal/logging"
)

// Client talks to the users REST API. API failures are returned as
// *httpclient.HTTPError carrying the server's error message.
type Client struct {
	http   *httpclient.Client
	logger logging.Logger
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

func New(baseURL string, timeout time.Duration, logger logging.Logger) (*Client, error) {
	httpCli, err := httpclient.New(baseURL, timeout, logger.With("component", "users_http"))
	if err != nil {
		return nil, err
	}

	return &Client{
		http:   httpCli,
		logger: logger,
	}, nil
}

// HTTP exposes the underlying client for raw requests.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

func (c *Client) Create(ctx context.Context, req CreateUserRequest) (User, error) {
	var res User
	err := c.http.PostJSON(ctx, "/users", req, &res)
	return res, err
}

func (c *Client) Get(ctx context.Context, id string) (User, error) {
	var res User
	err := c.http.GetJSON(ctx, userPath(id), nil, &res)
	return res, err
}

func (c *Client) Update(ctx context.Context, id string, req UpdateUserRequest) (User, error) {
	var res User
	err := c.http.PutJSON(ctx, userPath(id), req, &res)
	return res, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.http.Delete(ctx, userPath(id))
}

func (c *Client) List(ctx context.Context, limit, offset int) ([]User, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	var res []User
	err := c.http.GetJSON(ctx, "/users", query, &res)
	return res, err
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}

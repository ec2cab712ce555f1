// Package apiclient is a typed go-resty client for the users, statistics and
// settings endpoints of the words API.
package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/patric-chuzhbe/wordprofile/internal/logger"
	"github.com/patric-chuzhbe/wordprofile/internal/metrics"
	"github.com/patric-chuzhbe/wordprofile/internal/models"
)

const (
	pathUsers      = "/users"
	pathUser       = "/users/{id}"
	pathStatistics = "/users/{id}/statistics"
	pathSettings   = "/users/{id}/settings"

	requestIDHeader = "X-Request-ID"
)

type tokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ResponseError is returned for every non-2xx answer of the words API.
type ResponseError struct {
	StatusCode int
	Body       string
}

// StatusText is the reason phrase of StatusCode, e.g. "Not Found".
func (e *ResponseError) StatusText() string {
	return http.StatusText(e.StatusCode)
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %s", e.StatusText(), e.Body)
}

// Client talks to one words API server.
type Client struct {
	http   *resty.Client
	tokens tokenSource
}

// InitOption customizes New.
type InitOption func(*initOptions)

type initOptions struct {
	tokens     tokenSource
	httpClient *http.Client
}

// WithTokenSource makes every request carry the bearer token of source.
func WithTokenSource(source tokenSource) InitOption {
	return func(options *initOptions) {
		options.tokens = source
	}
}

// WithHTTPClient replaces the underlying *http.Client, e.g. with an httptest one.
func WithHTTPClient(httpClient *http.Client) InitOption {
	return func(options *initOptions) {
		options.httpClient = httpClient
	}
}

// New returns a Client for serverURL. A zero timeout means none.
func New(serverURL string, timeout time.Duration, optionsProto ...InitOption) *Client {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	var httpClient *resty.Client
	if options.httpClient != nil {
		httpClient = resty.NewWithClient(options.httpClient)
	} else {
		httpClient = resty.New()
	}

	httpClient.
		SetBaseURL(serverURL).
		SetHeader("Accept", "application/json").
		OnAfterResponse(logger.LogAPIResponse).
		OnError(logger.LogAPIError)
	if timeout > 0 {
		httpClient.SetTimeout(timeout)
	}

	return &Client{
		http:   httpClient,
		tokens: options.tokens,
	}
}

// GetUser fetches the user document.
func (c *Client) GetUser(ctx context.Context, userID string) (*models.UserResponse, error) {
	result := &models.UserResponse{}
	if err := c.do(ctx, http.MethodGet, pathUser, userID, nil, result); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateUser overwrites email and password of the user.
func (c *Client) UpdateUser(
	ctx context.Context,
	userID string,
	credentials models.Credentials,
) (*models.UserResponse, error) {
	result := &models.UserResponse{}
	if err := c.do(ctx, http.MethodPut, pathUser, userID, credentials, result); err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteUser removes the user on the server.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, pathUser, userID, nil, nil)
}

// CreateUser registers a new user.
func (c *Client) CreateUser(ctx context.Context, credentials models.Credentials) (*models.UserResponse, error) {
	result := &models.UserResponse{}
	if err := c.do(ctx, http.MethodPost, pathUsers, "", credentials, result); err != nil {
		return nil, err
	}

	return result, nil
}

// GetStatistics fetches the learning statistics of the user.
func (c *Client) GetStatistics(ctx context.Context, userID string) (*models.Statistics, error) {
	result := &models.Statistics{}
	if err := c.do(ctx, http.MethodGet, pathStatistics, userID, nil, result); err != nil {
		return nil, err
	}

	return result, nil
}

// PutStatistics overwrites the statistics and returns what the server stored.
func (c *Client) PutStatistics(
	ctx context.Context,
	userID string,
	statistics models.Statistics,
) (*models.Statistics, error) {
	result := &models.Statistics{}
	if err := c.do(ctx, http.MethodPut, pathStatistics, userID, statistics, result); err != nil {
		return nil, err
	}

	return result, nil
}

// GetSettings fetches the settings document as is; callers check completeness.
func (c *Client) GetSettings(ctx context.Context, userID string) (*models.ServerSettings, error) {
	result := &models.ServerSettings{}
	if err := c.do(ctx, http.MethodGet, pathSettings, userID, nil, result); err != nil {
		return nil, err
	}

	return result, nil
}

// PutSettings overwrites the settings and returns what the server stored.
func (c *Client) PutSettings(
	ctx context.Context,
	userID string,
	settings models.Settings,
) (*models.ServerSettings, error) {
	result := &models.ServerSettings{}
	if err := c.do(ctx, http.MethodPut, pathSettings, userID, settings, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	userID string,
	body any,
	result any,
) error {
	if path != pathUsers && userID == "" {
		return models.ErrNoUserID
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString())

	if path != pathUsers {
		req.SetPathParam("id", userID)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("in internal/apiclient/apiclient.go/do(): error while `c.tokens.Token()` calling: %w", err)
		}
		if token != "" {
			req.SetAuthToken(token)
		}
	}

	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		metrics.ObserveAPICall(method, path, 0, time.Since(start))
		return fmt.Errorf("in internal/apiclient/apiclient.go/do(): error while `req.Execute()` calling: %w", err)
	}
	metrics.ObserveAPICall(method, path, resp.StatusCode(), time.Since(start))

	if !resp.IsSuccess() {
		return &ResponseError{
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	return nil
}

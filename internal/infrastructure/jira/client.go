// Package jira adapts the Jira Cloud REST API to the workload domain
// ports: ticket store queries and mutations, and directory lookups.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/felixgeelhaar/teambalance/pkg/metrics"
)

const (
	apiPrefix        = "/rest/api/3"
	defaultTimeout   = 30 * time.Second
	searchPageSize   = 100
)

// Client is a thin Jira Cloud REST client with basic auth. Read calls are
// retried with exponential backoff; mutations get a single attempt under a
// timeout so a slow response cannot double-apply.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client

	retryConfig    retry.Config
	requestTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRequestTimeout overrides the per-request timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// WithRetryConfig overrides the read-retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) {
		c.retryConfig = cfg
	}
}

// NewClient creates a client for the given Jira base URL and credentials.
func NewClient(baseURL, email, apiToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		email:      email,
		apiToken:   apiToken,
		httpClient: http.DefaultClient,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  200 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
		requestTimeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a retried GET against an API path (already including query
// parameters).
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	t := timeout.New[[]byte](timeout.Config{DefaultTimeout: c.requestTimeout})
	r := retry.New[[]byte](c.retryConfig)

	return t.Execute(ctx, c.requestTimeout, func(ctx context.Context) ([]byte, error) {
		return r.Do(ctx, func(ctx context.Context) ([]byte, error) {
			return c.roundTrip(ctx, http.MethodGet, path, nil)
		})
	})
}

// send performs a single-attempt mutation under the request timeout.
func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	t := timeout.New[[]byte](timeout.Config{DefaultTimeout: c.requestTimeout})

	return t.Execute(ctx, c.requestTimeout, func(ctx context.Context) ([]byte, error) {
		return c.roundTrip(ctx, method, path, body)
	})
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	metrics.RecordTrackerRequest(method, err)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("jira api error (%d) on %s %s: %s", resp.StatusCode, method, path, string(respBody))
	}
	return respBody, nil
}

// SearchIssues runs a JQL search and returns the matching issues.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string) ([]Issue, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("maxResults", fmt.Sprint(searchPageSize))
	if len(fields) > 0 {
		q.Set("fields", strings.Join(fields, ","))
	}

	data, err := c.get(ctx, "/search?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return resp.decode()
}

// GetUser fetches the user record for an account ID.
func (c *Client) GetUser(ctx context.Context, accountID string) (User, error) {
	q := url.Values{}
	q.Set("accountId", accountID)

	data, err := c.get(ctx, "/user?"+q.Encode())
	if err != nil {
		return User{}, err
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

// AssignIssue sets or, with an empty accountID, clears the assignee.
func (c *Client) AssignIssue(ctx context.Context, key, accountID string) error {
	body := map[string]any{"accountId": nil}
	if accountID != "" {
		body["accountId"] = accountID
	}
	_, err := c.send(ctx, http.MethodPut, "/issue/"+url.PathEscape(key)+"/assignee", body)
	return err
}

// CommentIssue appends a plain-text comment in Atlassian document format.
func (c *Client) CommentIssue(ctx context.Context, key, text string) error {
	body := map[string]any{
		"body": map[string]any{
			"type":    "doc",
			"version": 1,
			"content": []any{
				map[string]any{
					"type": "paragraph",
					"content": []any{
						map[string]any{"type": "text", "text": text},
					},
				},
			},
		},
	}
	_, err := c.send(ctx, http.MethodPost, "/issue/"+url.PathEscape(key)+"/comment", body)
	return err
}

// ListTransitions returns the transitions currently available on an issue.
func (c *Client) ListTransitions(ctx context.Context, key string) ([]Transition, error) {
	data, err := c.get(ctx, "/issue/"+url.PathEscape(key)+"/transitions")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Transitions []Transition `json:"transitions"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode transitions: %w", err)
	}
	return resp.Transitions, nil
}

// TransitionIssue applies a workflow transition by ID.
func (c *Client) TransitionIssue(ctx context.Context, key, transitionID string) error {
	body := map[string]any{
		"transition": map[string]string{"id": transitionID},
	}
	_, err := c.send(ctx, http.MethodPost, "/issue/"+url.PathEscape(key)+"/transitions", body)
	return err
}

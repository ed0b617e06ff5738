package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"

	// AcceptJSON is the default REST media type.
	AcceptJSON = "application/vnd.github+json"
	// AcceptSarif requests the machine-readable representation of an analysis.
	AcceptSarif = "application/sarif+json"

	maxPerPage = 100
)

// APIError carries the status code and message of a failed API call.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api: %s returned %d: %s", e.URL, e.StatusCode, e.Message)
}

// IsNotFound reports whether err represents a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is a minimal typed GitHub REST client. It owns authentication, proxy
// resolution and pagination; callers own the response schemas.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.SugaredLogger
}

// APIBaseURL resolves the API base URL from an explicit value, the
// GITHUB_API_URL environment variable, or the public API default.
func APIBaseURL(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("GITHUB_API_URL"); env != "" {
		return env
	}
	return defaultBaseURL
}

// NewClient builds an authenticated client for the given API base URL.
// Proxy settings are taken from the environment, honoring no_proxy.
func NewClient(token, baseURL string, logger *zap.SugaredLogger) (*Client, error) {
	if token == "" {
		return nil, errors.New("a GitHub access token must be provided")
	}

	base, err := url.Parse(strings.TrimSuffix(APIBaseURL(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
	}

	transport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		Base:   &http.Transport{Proxy: http.ProxyFromEnvironment},
	}

	return &Client{
		baseURL: base,
		http:    &http.Client{Transport: transport},
		logger:  logger,
	}, nil
}

// Get performs a single GET against path, decoding the JSON response into v.
// A nil v discards the body.
func (c *Client) Get(ctx context.Context, path string, query url.Values, accept string, v interface{}) error {
	u := c.resolve(path, query)
	_, err := c.do(ctx, u, accept, v)
	return err
}

// GetPaginated fetches path page by page until the Link header reports no next
// page, invoking page with each response body. Pages are fetched sequentially;
// each request depends on the prior page's cursor.
func (c *Client) GetPaginated(ctx context.Context, path string, query url.Values, accept string, page func(body []byte) error) error {
	q := url.Values{}
	for k, vs := range query {
		q[k] = vs
	}
	q.Set("per_page", fmt.Sprintf("%d", maxPerPage))

	next := c.resolve(path, q)
	for next != "" {
		var body []byte
		resp, err := c.do(ctx, next, accept, &body)
		if err != nil {
			return err
		}
		if err := page(body); err != nil {
			return err
		}
		next = nextPageURL(resp.Header.Get("Link"))
	}
	return nil
}

// Paginate fetches every page of a JSON-array endpoint into one slice.
func Paginate[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var all []T
	err := c.GetPaginated(ctx, path, query, AcceptJSON, func(body []byte) error {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return fmt.Errorf("decoding page of %s: %w", path, err)
		}
		all = append(all, items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, rawURL, accept string, v interface{}) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if accept == "" {
		accept = AcceptJSON
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	c.logger.Debugf("GET %s", rawURL)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			URL:        rawURL,
		}
	}

	switch target := v.(type) {
	case nil:
	case *[]byte:
		*target = body
	default:
		if err := json.Unmarshal(body, v); err != nil {
			return nil, fmt.Errorf("decoding response from %s: %w", rawURL, err)
		}
	}
	return resp, nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

// nextPageURL extracts the rel="next" target from an RFC 5988 Link header.
func nextPageURL(link string) string {
	for _, part := range strings.Split(link, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		target := strings.Trim(strings.TrimSpace(section[0]), "<>")
		for _, param := range section[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return target
			}
		}
	}
	return ""
}

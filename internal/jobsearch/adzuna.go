// Package jobsearch wraps the Adzuna job postings API.
package jobsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jobsight/jobsight-go/internal/model"
)

// ErrSearchUnavailable wraps every failure to obtain a result page: missing
// credentials, network errors, non-2xx responses and malformed payloads.
var ErrSearchUnavailable = errors.New("job search unavailable")

const maxBodyBytes = 4 << 20

// Query describes one page request.
type Query struct {
	What     string
	Where    string
	Page     int
	PageSize int
}

// Client fetches job postings from Adzuna.
type Client struct {
	appID   string
	appKey  string
	baseURL string
	country string
	timeout time.Duration
	client  *http.Client
}

// NewClient constructs a Client. Each call, retry included, is bounded by timeout.
func NewClient(appID, appKey, baseURL, country string, timeout time.Duration) *Client {
	return &Client{
		appID:   appID,
		appKey:  appKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		country: country,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// Configured reports whether API credentials are present.
func (c *Client) Configured() bool {
	return c.appID != "" && c.appKey != ""
}

// Search fetches one page of postings for q. The page's TotalPages is derived
// from the API's total count and q.PageSize.
func (c *Client) Search(ctx context.Context, q Query) (model.JobPage, error) {
	if !c.Configured() {
		return model.JobPage{}, fmt.Errorf("%w: credentials not configured", ErrSearchUnavailable)
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		return model.JobPage{}, fmt.Errorf("%w: page size must be positive", ErrSearchUnavailable)
	}

	params := c.authParams()
	params.Set("what", strings.TrimSpace(q.What))
	if where := strings.TrimSpace(q.Where); where != "" {
		params.Set("where", where)
	}
	params.Set("results_per_page", strconv.Itoa(q.PageSize))
	params.Set("sort_by", "relevance")

	endpoint := fmt.Sprintf("%s/%s/search/%d", c.baseURL, c.country, q.Page)

	var apiResp searchResponse
	if err := c.getJSON(ctx, endpoint, params, &apiResp); err != nil {
		return model.JobPage{}, err
	}

	jobs := make([]model.JobResult, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		jobs = append(jobs, r.normalize())
	}

	return model.JobPage{
		Jobs:       jobs,
		TotalCount: apiResp.Count,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: TotalPages(apiResp.Count, q.PageSize),
	}, nil
}

// Categories lists the job categories Adzuna offers for the configured country.
func (c *Client) Categories(ctx context.Context) ([]model.JobCategory, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: credentials not configured", ErrSearchUnavailable)
	}

	endpoint := fmt.Sprintf("%s/%s/categories", c.baseURL, c.country)

	var apiResp categoriesResponse
	if err := c.getJSON(ctx, endpoint, c.authParams(), &apiResp); err != nil {
		return nil, err
	}

	categories := make([]model.JobCategory, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		categories = append(categories, model.JobCategory{Tag: r.Tag, Label: r.Label})
	}
	return categories, nil
}

// TotalPages is the ceiling of count / pageSize.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

func (c *Client) authParams() url.Values {
	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	return params
}

// getJSON performs the GET with at most one retry on a transient failure and
// decodes the body into out. Both attempts share one deadline.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := c.fetch(ctx, endpoint, params)
	if err != nil && isTransient(ctx, err) {
		slog.Warn("job search request failed, retrying once", "endpoint", endpoint, "error", err)
		body, err = c.fetch(ctx, endpoint, params)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: json unmarshal: %w", ErrSearchUnavailable, err)
	}
	return nil
}

// statusError is a non-2xx response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("adzuna returned %d: %s", e.code, e.body)
}

// fetch issues one GET. Errors name endpoint only, since the query string
// carries the API key.
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s failed", endpoint)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("http GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode, body: truncate(string(body), 200)}
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return nil, fmt.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	return body, nil
}

// isTransient reports whether err is a connection blip or gateway error worth
// one more attempt. Timeouts and caller cancellation are never retried.
func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var se *statusError
	if errors.As(err, &se) {
		switch se.code {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}

	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

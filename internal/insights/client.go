// Package insights produces AI-generated job market commentary through an
// OpenAI-compatible chat completion endpoint (Azure OpenAI in production).
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/jobsight/jobsight-go/internal/model"
)

// ErrSummaryUnavailable wraps every failure to obtain a completion.
var ErrSummaryUnavailable = errors.New("ai summary unavailable")

const (
	msgNotConfigured = "AI summary service is not configured."
	msgUnavailable   = "Unable to generate market summary at this time. Please try again later."
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client calls the completion endpoint.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	bearer   bool
	client   *http.Client
}

// NewClient creates a Client. Every call is bounded by timeout.
func NewClient(endpoint, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

// UseBearerAuth makes requests also carry the key as an OpenAI-style
// Authorization: Bearer header. The api-key header is always sent.
func (c *Client) UseBearerAuth(on bool) {
	c.bearer = on
}

// Configured reports whether an endpoint and key are present.
func (c *Client) Configured() bool {
	return c.endpoint != "" && c.apiKey != ""
}

// MarketSummary asks for a short market commentary on sample. It never fails:
// any problem is reported through the returned summary's error marker.
func (c *Client) MarketSummary(ctx context.Context, jobTitle, location string, sample []model.JobResult) model.AISummary {
	summary := model.AISummary{
		JobCount: len(sample),
		JobTitle: jobTitle,
		Location: location,
	}

	if !c.Configured() {
		summary.Error = true
		summary.ErrorText = msgNotConfigured
		return summary
	}

	text, err := c.complete(ctx, marketSystemPrompt, MarketPrompt(jobTitle, location, sample), 500, 0.7)
	if err != nil {
		slog.Warn("market summary failed", "job_title", jobTitle, "location", location, "error", err)
		summary.Error = true
		summary.ErrorText = msgUnavailable
		return summary
	}

	summary.Summary = text
	return summary
}

// DescriptionSummary condenses one job description into 2-3 sentences.
func (c *Client) DescriptionSummary(ctx context.Context, description string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: not configured", ErrSummaryUnavailable)
	}
	return c.complete(ctx, descriptionSystemPrompt, DescriptionPrompt(description), 150, 0.5)
}

func (c *Client) complete(ctx context.Context, system, prompt string, maxTokens int, temperature float64) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", ErrSummaryUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummaryUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)
	if c.bearer {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: http POST: %w", ErrSummaryUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", ErrSummaryUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: completion returned %d", ErrSummaryUnavailable, resp.StatusCode)
	}

	if mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediaType != "application/json" {
		return "", fmt.Errorf("%w: unexpected content type %q", ErrSummaryUnavailable, resp.Header.Get("Content-Type"))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: json unmarshal: %w", ErrSummaryUnavailable, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrSummaryUnavailable)
	}

	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrSummaryUnavailable)
	}
	return text, nil
}

package lyrics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrAPIKeyRequired is returned before any request when no key is set.
	ErrAPIKeyRequired = errors.New("API key is required")

	// ErrEmptyResponse reports a 2xx answer without candidate text.
	ErrEmptyResponse = errors.New("model returned no text")
)

// APIError is a non-2xx answer from the model endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
}

// Generator produces model text for a prompt. [*Client] is the real one.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	defaultAttempts = 3
	defaultBackoff  = 400 * time.Millisecond
	maxResponseBody = 16 << 20
)

// Client calls the Gemini generateContent endpoint.
type Client struct {
	Endpoint string // base URL, e.g. https://generativelanguage.googleapis.com/v1beta
	Model    string
	APIKey   string

	HTTP     *http.Client
	Attempts int           // tries for 429/5xx and transport errors
	Backoff  time.Duration // wait before retry n is n*Backoff
}

// NewClient returns a client with the default retry policy.
func NewClient(endpoint, model, apiKey string) *Client {
	return &Client{
		Endpoint: endpoint,
		Model:    model,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: 2 * time.Minute},
		Attempts: defaultAttempts,
		Backoff:  defaultBackoff,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends prompt and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", ErrAPIKeyRequired
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.Endpoint, "/"), url.PathEscape(c.Model), url.QueryEscape(c.APIKey))

	attempts := max(c.Attempts, 1)

	var lastErr error

	for i := 0; i < attempts; i++ {
		if i > 0 {
			err := sleep(ctx, time.Duration(i)*c.Backoff)
			if err != nil {
				return "", err
			}
		}

		data, retry, err := c.post(ctx, endpoint, body)
		if err == nil {
			return extractText(data)
		}

		if !retry || ctx.Err() != nil {
			return "", err
		}

		lastErr = err
	}

	return "", lastErr
}

// post performs one request. retry reports whether the failure is transient.
func (c *Client) post(ctx context.Context, endpoint string, body []byte) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, false, nil
	}

	apiErr := &APIError{Status: resp.StatusCode, Message: "unknown error"}

	var er errorResponse
	if json.Unmarshal(data, &er) == nil && er.Error.Message != "" {
		apiErr.Message = er.Error.Message
	}

	retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500

	return nil, retry, apiErr
}

func extractText(data []byte) (string, error) {
	var gr generateResponse

	err := json.Unmarshal(data, &gr)
	if err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	return gr.Candidates[0].Content.Parts[0].Text, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Song is the full output for one topic.
type Song struct {
	Result
	Suno string
}

// Compose builds the prompt, asks gen and parses the answer.
func Compose(ctx context.Context, gen Generator, topic, mood string) (Song, error) {
	prompt, err := BuildPrompt(topic, mood)
	if err != nil {
		return Song{}, err
	}

	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		return Song{}, err
	}

	res := ParseResponse(text)

	return Song{Result: res, Suno: SunoFormat(res.Lyrics, res.Style)}, nil
}

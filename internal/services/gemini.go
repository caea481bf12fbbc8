package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/fithub/internal/shared"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	apiVersion           = "v1beta"
	apiKeyHeader         = "x-goog-api-key"
)

// GeminiOptions configures a [GeminiClient].
type GeminiOptions struct {
	BaseURL     string
	Credentials Credentials
	// AccessToken switches authentication to an OAuth2 bearer token.
	AccessToken string
	HTTPClient  *http.Client
	// RequestsPerSecond of zero or less disables throttling.
	RequestsPerSecond float64
	Burst             int
}

// GeminiClient is a REST client for text and video generation.
type GeminiClient struct {
	baseURL     string
	httpClient  *http.Client
	credentials Credentials
	bearer      bool
	limiter     *rate.Limiter
}

// NewGeminiClient creates a [GeminiClient]. A nil Credentials behaves as an empty [StaticCredentials].
func NewGeminiClient(opts GeminiOptions) *GeminiClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	if opts.AccessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AccessToken, TokenType: "Bearer"}))
	}

	creds := opts.Credentials
	if creds == nil {
		creds = NewStaticCredentials("")
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &GeminiClient{
		baseURL:     baseURL,
		httpClient:  client,
		credentials: creds,
		bearer:      opts.AccessToken != "",
		limiter:     rate.NewLimiter(limit, burst),
	}
}

// Credentials returns the credential supplier used by the client.
func (c *GeminiClient) Credentials() Credentials { return c.credentials }

// apiError is the error envelope returned by the API.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// endpoint joins path segments onto the versioned API root.
func (c *GeminiClient) endpoint(path string) string {
	return c.baseURL + "/" + apiVersion + "/" + strings.TrimLeft(path, "/")
}

// authorize sets the API key header unless the transport already carries a bearer token.
func (c *GeminiClient) authorize(req *http.Request) error {
	if c.bearer {
		return nil
	}
	key := c.credentials.Credential()
	if key == "" {
		return fmt.Errorf("%w: gemini api key", shared.ErrMissingCredentials)
	}
	req.Header.Set(apiKeyHeader, key)
	return nil
}

// doRequest sends a JSON request and decodes a JSON response into result.
func (c *GeminiClient) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// send waits for the limiter, performs req, and converts non-2xx statuses to errors.
func (c *GeminiClient) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

		var envelope apiError
		if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, envelope.Error.Message)
		}
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return resp, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateText submits prompt to model and returns the first candidate's text.
//
// An empty string with a nil error means the model answered without text.
func (c *GeminiClient) GenerateText(ctx context.Context, model, prompt string, temperature float64) (string, error) {
	body := generateContentRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: temperature},
	}

	var resp generateContentResponse
	if err := c.doRequest(ctx, http.MethodPost, c.endpoint("models/"+model+":generateContent"), body, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

type videoInstance struct {
	Prompt string `json:"prompt"`
}

type videoParameters struct {
	SampleCount int    `json:"sampleCount"`
	Resolution  string `json:"resolution"`
	AspectRatio string `json:"aspectRatio"`
}

type predictRequest struct {
	Instances  []videoInstance `json:"instances"`
	Parameters videoParameters `json:"parameters"`
}

// GenerateVideo starts a video job. The returned operation is usually not done yet.
func (c *GeminiClient) GenerateVideo(ctx context.Context, model string, req VideoRequest) (*VideoOperation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := predictRequest{
		Instances: []videoInstance{{Prompt: req.Prompt}},
		Parameters: videoParameters{
			SampleCount: 1,
			Resolution:  string(req.Resolution),
			AspectRatio: string(req.AspectRatio),
		},
	}

	var op VideoOperation
	if err := c.doRequest(ctx, http.MethodPost, c.endpoint("models/"+model+":predictLongRunning"), body, &op); err != nil {
		return nil, err
	}
	if op.Name == "" {
		return nil, fmt.Errorf("%w: operation has no name", shared.ErrAPIRequest)
	}
	return &op, nil
}

// PollVideo fetches the current state of op.
func (c *GeminiClient) PollVideo(ctx context.Context, op *VideoOperation) (*VideoOperation, error) {
	if op == nil || op.Name == "" {
		return nil, fmt.Errorf("%w: operation name", shared.ErrMissingArgument)
	}

	var next VideoOperation
	if err := c.doRequest(ctx, http.MethodGet, c.endpoint(op.Name), nil, &next); err != nil {
		return nil, err
	}
	if next.Name == "" {
		next.Name = op.Name
	}
	return &next, nil
}

// DownloadVideo streams the asset at uri into w and returns the number of bytes written.
func (c *GeminiClient) DownloadVideo(ctx context.Context, uri string, w io.Writer) (int64, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return 0, fmt.Errorf("%w: asset uri: %v", shared.ErrInvalidArgument, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	if !c.bearer {
		key := c.credentials.Credential()
		if key == "" {
			return 0, fmt.Errorf("%w: gemini api key", shared.ErrMissingCredentials)
		}
		q := u.Query()
		q.Set("key", key)
		u.RawQuery = q.Encode()
		req.URL = u
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read video: %w", err)
	}
	return n, nil
}

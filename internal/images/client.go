// Package images commissions scene art from an OpenAI-compatible image
// generation gateway. Callers treat every failure as "no image": the
// progression flow never blocks on this service.
package images

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrNotConfigured is returned when no gateway is configured. Callers can
// skip commissioning entirely instead of logging a failed request.
var ErrNotConfigured = errors.New("images: gateway not configured")

// GatewayError is a non-2xx response from the gateway.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("images: gateway HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable reports whether the request can be retried (rate limits and
// server errors).
func (e *GatewayError) IsRetryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Config holds configuration for the gateway client.
type Config struct {
	// Gateway is either the gateway base URL or a bare token ("vck_..." /
	// "sk-..."), in which case the default public gateway URL is used.
	Gateway string

	// Token overrides the bearer token when Gateway is a URL.
	Token string

	// Model is the image model identifier. Defaults to Imagen fast.
	Model string

	// Size is the requested image size. Defaults to 512x512.
	Size string

	// MaxRetries caps retry attempts for retryable errors. Defaults to 2.
	MaxRetries uint64

	// BaseRetryDelay is the initial backoff delay. Defaults to 1 second.
	BaseRetryDelay time.Duration

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	// Defaults to a client with a 60s timeout; generation is slow.
	HTTPClient *http.Client
}

const defaultGatewayURL = "https://ai-gateway.vercel.sh/v1"

// Client is an image gateway client.
type Client struct {
	baseURL string
	token   string
	model   string
	size    string
	retries uint64
	delay   time.Duration
	http    *http.Client
}

// NewClient creates a gateway client with the given configuration.
func NewClient(cfg Config) *Client {
	baseURL, token := resolveGateway(cfg.Gateway, cfg.Token)
	if cfg.Model == "" {
		cfg.Model = "google/imagen-4.0-fast-generate-001"
	}
	if cfg.Size == "" {
		cfg.Size = "512x512"
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.BaseRetryDelay == 0 {
		cfg.BaseRetryDelay = time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		model:   cfg.Model,
		size:    cfg.Size,
		retries: cfg.MaxRetries,
		delay:   cfg.BaseRetryDelay,
		http:    httpClient,
	}
}

// resolveGateway accepts either a base URL or a bare access token in the
// gateway value, mirroring how deployments configure AI_GATEWAY.
func resolveGateway(gateway, token string) (string, string) {
	if gateway == "" {
		if token != "" {
			return defaultGatewayURL, token
		}
		return "", ""
	}
	if hasTokenPrefix(gateway) {
		return defaultGatewayURL, gateway
	}
	base := gateway
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	if len(base) < 3 || base[len(base)-3:] != "/v1" {
		base += "/v1"
	}
	return base, token
}

func hasTokenPrefix(s string) bool {
	return strings.HasPrefix(s, "vck_") || strings.HasPrefix(s, "sk-")
}

// Configured reports whether a gateway endpoint is set.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
	N      int    `json:"n"`
}

// generateResponse covers the two gateway response shapes: the OpenAI
// data-array form (url or b64_json) and the Imagen images-array form.
type generateResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Images []struct {
		ImageURL json.RawMessage `json:"image_url"`
		URL      string          `json:"url"`
	} `json:"images"`
	URL string `json:"url"`
}

// Generate renders the prompt and returns a durable image URL (or a data URI
// for base64 responses). Transient gateway failures are retried with
// exponential backoff before giving up.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Size:   c.size,
		N:      1,
	})
	if err != nil {
		return "", fmt.Errorf("images: encode request: %w", err)
	}

	var url string
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.delay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		url, err = c.doGenerate(ctx, body)
		var gerr *GatewayError
		if errors.As(err, &gerr) && gerr.IsRetryable() {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

func (c *Client) doGenerate(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("images: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("images: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", fmt.Errorf("images: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &GatewayError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("images: decode response: %w", err)
	}
	return extractURL(decoded)
}

// extractURL pulls the image URL out of whichever response shape the gateway
// used. Base64 payloads become data URIs.
func extractURL(resp generateResponse) (string, error) {
	if len(resp.Data) > 0 {
		d := resp.Data[0]
		if d.B64JSON != "" {
			return "data:image/png;base64," + d.B64JSON, nil
		}
		if d.URL != "" {
			return d.URL, nil
		}
	}
	if len(resp.Images) > 0 {
		img := resp.Images[0]
		if len(img.ImageURL) > 0 {
			// image_url is either a string or an object with a url field.
			var s string
			if err := json.Unmarshal(img.ImageURL, &s); err == nil && s != "" {
				return s, nil
			}
			var obj struct {
				URL string `json:"url"`
			}
			if err := json.Unmarshal(img.ImageURL, &obj); err == nil && obj.URL != "" {
				return obj.URL, nil
			}
		}
		if img.URL != "" {
			return img.URL, nil
		}
	}
	if resp.URL != "" {
		return resp.URL, nil
	}
	return "", errors.New("images: could not extract image URL from gateway response")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

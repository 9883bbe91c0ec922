package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/pkg/retry"
)

const defaultTimeout = 120 * time.Second

// Options tune the HTTP behaviour shared by all providers.
type Options struct {
	Timeout     time.Duration
	Temperature float64
	// MaxRetries applies to transient failures (network, 429, 5xx).
	MaxRetries int
	// Retry overrides the backoff delays. Its MaxRetries is ignored.
	Retry *retry.Config
}

type baseProvider struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	retrier     *retry.Retrier
}

func newBaseProvider(baseURL, apiKey, model string, opts Options) baseProvider {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rc := retry.NewDefaultConfig()
	if opts.Retry != nil {
		c := *opts.Retry
		rc = &c
	}
	rc.MaxRetries = opts.MaxRetries

	return baseProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: opts.Temperature,
		retrier:     retry.NewRetrier(rc),
	}
}

// statusError is a non-2xx response from the provider.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

func (e *statusError) transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

func (b *baseProvider) doRequest(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", core.AppUserAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	return resp, nil
}

// fetch performs the request and returns the body of a 200 response.
// Transient failures are retried with the same payload.
func (b *baseProvider) fetch(ctx context.Context, method, path string, body any, headers map[string]string) ([]byte, error) {
	var data []byte
	err := b.retrier.Do(ctx, func() error {
		resp, err := b.doRequest(ctx, method, path, body, headers)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			se := &statusError{Code: resp.StatusCode, Body: string(raw)}
			if se.transient() {
				return se
			}
			return retry.Permanent(se)
		}

		data = raw
		return nil
	})
	return data, err
}

// IsStatus reports whether err is a provider response with the given HTTP code.
func IsStatus(err error, code int) bool {
	var se *statusError
	return errors.As(err, &se) && se.Code == code
}

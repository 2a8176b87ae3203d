package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "threadscraper/pkg/errors"
	"threadscraper/pkg/logger"
	"threadscraper/pkg/retry"
)

// Client downloads media files referenced by collected posts
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	retryCfg   *retry.Config
	logger     logger.Logger
}

// NewClient creates a media download client with retry support
func NewClient(timeout time.Duration, maxRetries int, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Accept":     "image/webp,video/mp4,*/*",
			"Referer":    "https://www.threads.net/",
		},
		retryCfg: &retry.Config{
			MaxAttempts: maxRetries,
			Backoff:     retry.DefaultExponentialBackoff(),
			RetryIf:     retry.DefaultRetryIf,
			Context:     context.Background(),
			Logger:      log,
		},
		logger: log,
	}
}

// Download fetches the media at the URL, retrying transient failures
func (c *Client) Download(url string) ([]byte, error) {
	return retry.DoWithResult(func() ([]byte, error) {
		return c.download(url)
	}, c.retryCfg)
}

func (c *Client) download(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeUnknown, "failed to build request", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, fmt.Sprintf("request to %s failed", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := errs.ErrorTypeUnknown
		if errs.IsRetryableStatusCode(resp.StatusCode) {
			kind = errs.ErrorTypeNetwork
		}
		return nil, errs.New(kind, fmt.Sprintf("server returned status %d for %s", resp.StatusCode, url))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, "failed to read response body", err)
	}

	c.logger.DebugWithFields("media downloaded", map[string]interface{}{
		"url":      url,
		"size":     len(data),
		"duration": time.Since(start),
	})

	return data, nil
}

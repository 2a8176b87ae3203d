package browser

import (
	"fmt"
	"time"

	"threadscraper/pkg/config"
	"threadscraper/pkg/logger"
)

// DefaultWaitSelector is the container element whose presence signals that
// the server-rendered post content has been attached to the DOM.
const DefaultWaitSelector = "[data-pressable-container=true]"

// Fetcher loads pages through a shared browser session, one navigation at a
// time, and returns the rendered markup.
type Fetcher struct {
	browser      *Browser
	waitSelector string
	timeout      time.Duration
	settleDelay  time.Duration
	logger       logger.Logger
}

// NewFetcher creates a Fetcher bound to an existing browser session
func NewFetcher(b *Browser, cfg *config.ScraperConfig, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Fetcher{
		browser:      b,
		waitSelector: DefaultWaitSelector,
		timeout:      cfg.PageTimeout,
		settleDelay:  cfg.SettleDelay,
		logger:       log,
	}
}

// FetchHTML navigates to the URL, waits for the readiness selector (or the
// page timeout), and returns the fully rendered document markup. A missing
// readiness element within the timeout is a failure for this page only.
func (f *Fetcher) FetchHTML(url string) (string, error) {
	start := time.Now()

	page, err := f.browser.NewPage()
	if err != nil {
		return "", err
	}
	defer page.Close()

	if err := page.Timeout(f.timeout).Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	if f.settleDelay > 0 {
		time.Sleep(f.settleDelay)
	}

	if _, err := page.Timeout(f.timeout).Element(f.waitSelector); err != nil {
		return "", fmt.Errorf("timed out waiting for %q on %s: %w", f.waitSelector, url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}

	f.logger.DebugWithFields("page fetched", map[string]interface{}{
		"url":       url,
		"duration":  time.Since(start),
		"html_size": len(html),
	})

	return html, nil
}

package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"threadscraper/pkg/config"
)

// Browser wraps a rod.Browser instance as an explicitly owned, scoped
// resource. The owner must call Close on every exit path.
type Browser struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	userAgent string
}

// New creates and launches a browser according to the configuration
func New(cfg *config.BrowserConfig) (*Browser, error) {
	l := launcher.New().Headless(cfg.Headless)

	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		l = l.Set("window-size", fmt.Sprintf("%d,%d", cfg.Width, cfg.Height))
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{
		browser:   b,
		launcher:  l,
		userAgent: cfg.UserAgent,
	}, nil
}

// NewPage creates a new browser page with the configured user agent
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if b.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.userAgent}); err != nil {
			page.Close()
			return nil, fmt.Errorf("failed to set user agent: %w", err)
		}
	}

	return page, nil
}

// Close shuts down the browser and cleans up the launcher process
func (b *Browser) Close() error {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return err
		}
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return nil
}

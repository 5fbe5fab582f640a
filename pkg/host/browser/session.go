package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// SessionConfig describes the browser launched by [Open].
type SessionConfig struct {
	URL            string
	ViewportWidth  int64
	ViewportHeight int64
	Headless       bool
	// WaitSelector, when set, is awaited before the page is handed out.
	WaitSelector string
}

// Session owns a launched browser tab.
type Session struct {
	Page   *Page
	cancel []context.CancelFunc
}

// Close shuts the tab and the browser down.
func (s *Session) Close() {
	for i := len(s.cancel) - 1; i >= 0; i-- {
		s.cancel[i]()
	}
}

// Open launches Chrome, sizes the viewport and navigates to cfg.URL.
func Open(ctx context.Context, cfg SessionConfig, opts ...Option) (*Session, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	s := &Session{cancel: []context.CancelFunc{allocCancel, tabCancel}}

	tasks := chromedp.Tasks{
		emulation.SetDeviceMetricsOverride(cfg.ViewportWidth, cfg.ViewportHeight, 1, false),
		chromedp.Navigate(cfg.URL),
	}
	if cfg.WaitSelector != "" {
		tasks = append(tasks, chromedp.WaitReady(cfg.WaitSelector, chromedp.ByQuery))
	}
	if err := chromedp.Run(tabCtx, tasks); err != nil {
		s.Close()
		return nil, fmt.Errorf("open %s: %w", cfg.URL, err)
	}

	s.Page = NewPage(tabCtx, opts...)
	return s, nil
}

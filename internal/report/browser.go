package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Browser manages a lazily started headless Chrome instance shared across
// report renders. The mutex is held for the duration of a render, which
// serializes PDF generation and makes Close safe to call at any time: a
// teardown can never interleave with an in-flight render.
type Browser struct {
	mu          sync.Mutex
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
}

// NewBrowser returns an unstarted browser manager; Chrome launches on the
// first render.
func NewBrowser() *Browser {
	return &Browser{}
}

// ensure starts Chrome if it is not running. Callers must hold b.mu.
func (b *Browser) ensure() error {
	if b.browserCtx != nil && b.browserCtx.Err() == nil {
		return nil
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), chromedp.DefaultExecAllocatorOptions[:]...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return fmt.Errorf("start browser: %w", err)
	}
	b.allocCancel = allocCancel
	b.browserCtx = browserCtx
	b.cancel = cancel
	return nil
}

// RenderPDF renders the given HTML document to PDF in a fresh tab.
func (b *Browser) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensure(); err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		tabCtx, cancelDeadline = context.WithDeadline(tabCtx, deadline)
		defer cancelDeadline()
	}

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))
	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(dataURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

// Close tears the browser down. It is a no-op when Chrome never started and
// safe to call concurrently with renders.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	if b.allocCancel != nil {
		b.allocCancel()
		b.allocCancel = nil
	}
	b.browserCtx = nil
}

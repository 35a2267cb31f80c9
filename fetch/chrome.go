package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeFetcher renders pages in headless Chrome before returning markup.
// Storefronts that serve empty shells to plain HTTP clients are fetched
// through this path. One browser process is shared; each Fetch runs in its
// own tab.
type ChromeFetcher struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
}

// NewChromeFetcher starts a shared headless browser allocator.
func NewChromeFetcher(timeout time.Duration) *ChromeFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromeFetcher{
		allocCtx: allocCtx,
		cancel:   cancel,
		timeout:  timeout,
	}
}

// Close tears down the browser process.
func (f *ChromeFetcher) Close() {
	f.cancel()
}

// Fetch navigates a fresh tab to url, waits for the document to become
// ready, and returns the rendered markup.
func (f *ChromeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(f.allocCtx)
	defer cancelTab()

	runCtx, cancelRun := context.WithTimeout(tabCtx, f.timeout)
	defer cancelRun()

	// Propagate caller cancellation into the tab.
	stop := context.AfterFunc(ctx, cancelRun)
	defer stop()

	var markup string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &markup),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", Classify(err, 0)
	}
	return markup, nil
}

package scraper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"price-scout/utils"
)

const (
	defaultSettleDelay = 3 * time.Second
	defaultPageTimeout = 30 * time.Second
)

// BrowserFetcher renders pages in headless Chrome before handing back the HTML.
// Use it when a site serves its listing markup only to script-capable clients.
type BrowserFetcher struct {
	chromeBin   string
	settleDelay time.Duration
	pageTimeout time.Duration
	logger      *utils.Logger
}

// NewBrowserFetcher creates a BrowserFetcher. An empty chromeBin is auto-detected.
func NewBrowserFetcher(chromeBin string, logger *utils.Logger) *BrowserFetcher {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Info("[browser] Using browser binary: %q", chromeBin)
	return &BrowserFetcher{
		chromeBin:   chromeBin,
		settleDelay: defaultSettleDelay,
		pageTimeout: defaultPageTimeout,
		logger:      logger,
	}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(BrowserHeaders["User-Agent"]),
	)
	if f.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(f.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.pageTimeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(f.settleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp render %s: %w", pageURL, err)
	}

	f.logger.Debug("[browser] Rendered %s (%d bytes)", pageURL, len(html))
	return []byte(html), nil
}

// findChromeBinary locates a Chrome/Chromium binary, or returns "" to let
// chromedp use its own lookup.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

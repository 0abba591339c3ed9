package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// fetchHeadless renders the page in headless Chrome for sites that serve
// nothing useful without JavaScript, LinkedIn in particular.
func (v *Verifier) fetchHeadless(ctx context.Context, url string) (title, text string, err error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(verifierUserAgent),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, v.timeout)
	defer reqCancel()

	err = chromedp.Run(reqCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.Title(&title),
		chromedp.EvaluateAsDevTools(`document.body ? document.body.innerText : ""`, &text),
	)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(title), text, nil
}

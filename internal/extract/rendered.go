package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// defaultUserAgent mimics a desktop Chrome build; rendering-blocked sites
// reject obvious automation user agents.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// stealthScript masks the automation signals a controlled browser normally
// exposes. navigator.webdriver is the flag bot-detection scripts check first.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
Object.defineProperty(navigator, 'plugins', {get: () => [1, 2, 3, 4, 5]});
Object.defineProperty(navigator, 'languages', {get: () => ['en-IN', 'en-US', 'en']});
window.chrome = window.chrome || {runtime: {}};
`

// RenderedProduct is one product card scraped out of a rendered document.
type RenderedProduct struct {
	Name      string `json:"name"`
	Pack      string `json:"pack"`
	PriceText string `json:"priceText"`
	URL       string `json:"url"`
}

// RenderedDOM drives a headless Chrome to obtain script-populated content,
// waits for a product-bearing element, and extracts repeated card elements
// containing a name text node and a currency-prefixed number.
type RenderedDOM struct {
	// WaitSelector is the element whose appearance signals products rendered.
	WaitSelector string
	// CardSelector matches one product card; empty falls back to WaitSelector.
	CardSelector string
	// PreVisitURL, when set, is loaded before the search URL to acquire
	// session cookies from the site's home page.
	PreVisitURL string
	// WaitTimeout bounds the wait for WaitSelector before failing fast.
	WaitTimeout time.Duration
	// MaxProducts caps how many cards are extracted.
	MaxProducts int
	// UserAgent overrides the default desktop Chrome user agent.
	UserAgent string
}

// Products navigates to pageURL in a fresh headless browser and extracts
// product cards. The browser lives only for the duration of the call.
// A wait timeout is a structural failure (ErrContainerNotFound): the page
// loaded but never rendered products, and retrying will not change that.
func (r *RenderedDOM) Products(ctx context.Context, pageURL string) ([]RenderedProduct, error) {
	waitTimeout := r.WaitTimeout
	if waitTimeout <= 0 {
		waitTimeout = 8 * time.Second
	}
	userAgent := r.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	cardSelector := r.CardSelector
	if cardSelector == "" {
		cardSelector = r.WaitSelector
	}
	maxProducts := r.MaxProducts
	if maxProducts <= 0 {
		maxProducts = 5
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	setup := []chromedp.Action{
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
	}
	if r.PreVisitURL != "" {
		setup = append(setup,
			chromedp.Navigate(r.PreVisitURL),
			chromedp.Sleep(time.Second),
		)
	}
	setup = append(setup, chromedp.Navigate(pageURL))

	if err := chromedp.Run(browserCtx, setup...); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	// Bounded wait for products; fail fast when the selector never appears.
	waitCtx, cancelWait := context.WithTimeout(browserCtx, waitTimeout)
	defer cancelWait()
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(r.WaitSelector, chromedp.ByQuery)); err != nil {
		if waitCtx.Err() != nil && browserCtx.Err() == nil {
			return nil, fmt.Errorf("%w: selector %q never rendered", ErrContainerNotFound, r.WaitSelector)
		}
		return nil, fmt.Errorf("wait for %q: %w", r.WaitSelector, err)
	}

	var products []RenderedProduct
	if err := chromedp.Run(browserCtx,
		chromedp.Evaluate(cardExtractionJS(cardSelector, maxProducts), &products),
	); err != nil {
		return nil, fmt.Errorf("extract cards: %w", err)
	}

	return products, nil
}

// cardExtractionJS builds the in-page extraction script. Cards must expose a
// name-like text node and a currency-prefixed amount to count as products.
func cardExtractionJS(cardSelector string, maxProducts int) string {
	return fmt.Sprintf(`
(() => {
	const cards = Array.from(document.querySelectorAll(%q)).slice(0, %d);
	return cards.map(card => {
		const headings = card.querySelectorAll('h2, h3, .name');
		const name = headings[0] ? headings[0].textContent.trim() : '';
		const pack = headings[1] ? headings[1].textContent.trim() : '';

		let priceText = '';
		for (const p of card.querySelectorAll('p, span, div')) {
			const text = p.textContent || '';
			if (text.includes('₹') && text.length < 40) {
				priceText = text.trim();
				break;
			}
		}

		const anchor = card.tagName === 'A' ? card : card.querySelector('a');
		const url = anchor ? anchor.href : '';

		return {name: name, pack: pack, priceText: priceText, url: url};
	}).filter(p => p.name && p.priceText);
})()
`, cardSelector, maxProducts)
}

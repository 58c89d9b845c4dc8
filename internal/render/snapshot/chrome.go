package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// viewport is an A4 sheet at 96 CSS pixels per inch.
const (
	viewportWidth  = 794
	viewportHeight = 1123
)

// layoutSettled resolves after web fonts load and two animation frames pass,
// which is after the browser has laid out and painted the mounted document.
const layoutSettled = `new Promise(resolve => {
	document.fonts.ready.then(() => {
		requestAnimationFrame(() => requestAnimationFrame(() => resolve(true)));
	});
})`

const disposeRoot = `(() => {
	const root = document.getElementById("invoice-document");
	if (root) { root.remove(); }
	document.body.replaceChildren();
	return true;
})()`

type ChromeOptions struct {
	ExecPath  string
	NoSandbox bool
}

var errSurfaceClosed = errors.New("surface closed")

// ChromeSurface owns one headless browser, started by the first Open; every
// host is a fresh tab in it.
type ChromeSurface struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
	closed        bool
}

func NewChromeSurface(opts ChromeOptions) *ChromeSurface {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
	)

	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	return &ChromeSurface{allocCtx: allocCtx, allocCancel: cancel}
}

// Close shuts the browser down. Later Opens fail.
func (s *ChromeSurface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	if s.browserCancel != nil {
		s.browserCancel()
		s.browserCtx, s.browserCancel = nil, nil
	}

	s.allocCancel()
}

// browser returns the running browser context, launching it on first use or
// after it died.
func (s *ChromeSurface) browser() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errSurfaceClosed
	}

	if s.browserCtx != nil && s.browserCtx.Err() == nil {
		return s.browserCtx, nil
	}

	ctx, cancel := chromedp.NewContext(s.allocCtx)
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	s.browserCtx, s.browserCancel = ctx, cancel

	return ctx, nil
}

func (s *ChromeSurface) Open(ctx context.Context) (Host, error) {
	browserCtx, err := s.browser()
	if err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx)

	// Tie the tab to the request so cancellation reaches the browser.
	stop := context.AfterFunc(ctx, cancel)

	if err := chromedp.Run(tabCtx); err != nil {
		stop()
		cancel()

		return nil, fmt.Errorf("opening tab: %w", err)
	}

	return &chromeHost{ctx: tabCtx, cancel: cancel, stop: stop}, nil
}

type chromeHost struct {
	ctx    context.Context
	cancel context.CancelFunc
	stop   func() bool
}

func (h *chromeHost) Mount(_ context.Context, p *Presentation) error {
	html, err := HTML(p)
	if err != nil {
		return err
	}

	return chromedp.Run(h.ctx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("getting frame tree: %w", err)
			}

			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
	)
}

func (h *chromeHost) Ready(_ context.Context) error {
	var settled bool

	err := chromedp.Run(h.ctx,
		chromedp.WaitReady("#"+DocumentID, chromedp.ByQuery),
		chromedp.Evaluate(layoutSettled, &settled, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return fmt.Errorf("waiting for layout: %w", err)
	}

	if !settled {
		return errors.New("layout barrier did not resolve")
	}

	return nil
}

func (h *chromeHost) Rasterize(_ context.Context, scale float64) (image.Image, error) {
	var buf []byte

	err := chromedp.Run(h.ctx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight, chromedp.EmulateScale(scale)),
		chromedp.Screenshot("#"+DocumentID, &buf, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decoding screenshot: %w", err)
	}

	return img, nil
}

func (h *chromeHost) Unmount() error {
	if h.ctx.Err() != nil {
		return nil
	}

	var done bool
	if err := chromedp.Run(h.ctx, chromedp.Evaluate(disposeRoot, &done)); err != nil {
		return fmt.Errorf("disposing root: %w", err)
	}

	return nil
}

func (h *chromeHost) Close() error {
	h.stop()
	defer h.cancel()

	if h.ctx.Err() != nil {
		return nil
	}

	if err := chromedp.Cancel(h.ctx); err != nil {
		return fmt.Errorf("closing tab: %w", err)
	}

	return nil
}

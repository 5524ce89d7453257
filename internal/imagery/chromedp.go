package imagery

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const (
	// DefaultNavTimeout bounds the whole navigate-and-capture sequence.
	DefaultNavTimeout = 60 * time.Second

	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080

	// DefaultCropHalfSize is the half-side of the square window cut out of
	// the captured raster, centered on the raster's own center.
	DefaultCropHalfSize = 300

	// networkQuietWindow is how long the page must go without in-flight
	// requests before we consider it settled.
	networkQuietWindow = 500 * time.Millisecond
)

type ChromeOptions struct {
	ViewportWidth  int
	ViewportHeight int
	CropHalfSize   int // 0 disables cropping
	NavTimeout     time.Duration
}

// ChromeFetcher captures rasters by rendering the locator in headless Chrome.
// Each Fetch launches an isolated browser session and releases it before
// returning.
type ChromeFetcher struct {
	opts ChromeOptions
}

func NewChromeFetcher(opts ChromeOptions) *ChromeFetcher {
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = DefaultViewportHeight
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = DefaultNavTimeout
	}
	return &ChromeFetcher{opts: opts}
}

func (f *ChromeFetcher) Fetch(ctx context.Context, locator string) (image.Image, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.opts.NavTimeout)
	defer cancelTimeout()

	var shot []byte
	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.EmulateViewport(int64(f.opts.ViewportWidth), int64(f.opts.ViewportHeight)),
		chromedp.Navigate(locator),
		waitNetworkIdle(networkQuietWindow),
		chromedp.CaptureScreenshot(&shot),
	)
	if err != nil {
		slog.Error("raster capture failed", "locator", locator, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAcquisitionFailed, err)
	}

	full, _, err := image.Decode(bytes.NewReader(shot))
	if err != nil {
		slog.Error("could not decode captured raster", "error", err)
		return nil, fmt.Errorf("%w: decode: %v", ErrAcquisitionFailed, err)
	}

	if f.opts.CropHalfSize > 0 {
		// The full raster is dropped here; only the cropped window survives
		// the call.
		return CropCenter(full, f.opts.CropHalfSize), nil
	}
	return full, nil
}

// waitNetworkIdle resolves once the page has had no in-flight requests for
// the quiet window. The surrounding context deadline is the hard bound.
func waitNetworkIdle(quiet time.Duration) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		idle := make(chan struct{})
		var once sync.Once

		var mu sync.Mutex
		inflight := make(map[network.RequestID]struct{})
		timer := time.AfterFunc(quiet, func() {
			once.Do(func() { close(idle) })
		})
		defer timer.Stop()

		listenCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		chromedp.ListenTarget(listenCtx, func(ev interface{}) {
			mu.Lock()
			defer mu.Unlock()
			switch e := ev.(type) {
			case *network.EventRequestWillBeSent:
				inflight[e.RequestID] = struct{}{}
				timer.Stop()
			case *network.EventLoadingFinished:
				delete(inflight, e.RequestID)
				if len(inflight) == 0 {
					timer.Reset(quiet)
				}
			case *network.EventLoadingFailed:
				delete(inflight, e.RequestID)
				if len(inflight) == 0 {
					timer.Reset(quiet)
				}
			}
		})

		select {
		case <-idle:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

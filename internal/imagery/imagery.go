// Package imagery acquires a pixel raster for an AOI locator by driving a
// headless rendering session. The raster lives only for the duration of one
// verification attempt.
package imagery

import (
	"context"
	"errors"
	"image"
)

// ErrAcquisitionFailed is the single failure signal for this stage; renderer
// launch failures, navigation timeouts, and capture errors all collapse into
// it. Retrying is the caller's decision.
var ErrAcquisitionFailed = errors.New("imagery acquisition failed")

// Fetcher produces a raster for a locator. Implementations must not retain
// the returned image; each call is independent.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (image.Image, error)
}

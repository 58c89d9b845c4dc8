package snapshot

import (
	"context"
	"image"
)

// Surface hands out off-screen hosts, one per render.
type Surface interface {
	Open(ctx context.Context) (Host, error)
}

// Host is a transient off-screen rendering area owned by a single render.
// Unmount and Close are always called, in that order, whatever happened before.
type Host interface {
	// Mount builds the presentation inside the host.
	Mount(ctx context.Context, p *Presentation) error
	// Ready blocks until the mounted presentation has finished layout.
	Ready(ctx context.Context) error
	// Rasterize captures the presentation area at scale times its CSS pixel size.
	Rasterize(ctx context.Context, scale float64) (image.Image, error)
	// Unmount disposes the presentation root.
	Unmount() error
	// Close removes the host itself.
	Close() error
}

package interfaces

import (
	"context"
	"image"
)

// DebugSink persists diagnostic artifacts for a run. Every method is
// best effort: artifacts are never read back and a failed write must
// not disturb the flow.
type DebugSink interface {
	// CapturePage stores a full-page screenshot and the page markup under name
	CapturePage(ctx context.Context, page Page, name string)

	// SaveImage stores an intermediate image under name
	SaveImage(name string, img image.Image)
}

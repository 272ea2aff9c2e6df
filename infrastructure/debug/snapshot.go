package debug

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"ticket_rehearsal/domain/interfaces"
)

// Snapshot writes run artifacts into one directory. Writes are best
// effort, a broken artifact never interrupts the purchase flow.
type Snapshot struct {
	dir    string
	logger *logrus.Logger
}

var _ interfaces.DebugSink = (*Snapshot)(nil)

// NewSnapshot - creates the artifact directory and a sink over it
func NewSnapshot(dir string, logger *logrus.Logger) (*Snapshot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &Snapshot{dir: dir, logger: logger}, nil
}

// CapturePage - stores a full-page screenshot and the markup under name
func (s *Snapshot) CapturePage(ctx context.Context, page interfaces.Page, name string) {
	if shot, err := page.Screenshot(ctx, true); err != nil {
		s.logger.Warnf("Failed to screenshot for %s: %v", name, err)
	} else if err := os.WriteFile(s.path(name+".png"), shot, 0644); err != nil {
		s.logger.Warnf("Failed to write %s.png: %v", name, err)
	}

	if html, err := page.Content(ctx); err != nil {
		s.logger.Warnf("Failed to read markup for %s: %v", name, err)
	} else if err := os.WriteFile(s.path(name+".html"), []byte(html), 0644); err != nil {
		s.logger.Warnf("Failed to write %s.html: %v", name, err)
	}
}

// SaveImage - stores an intermediate image as PNG under name
func (s *Snapshot) SaveImage(name string, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.logger.Warnf("Failed to encode %s: %v", name, err)
		return
	}
	if err := os.WriteFile(s.path(name+".png"), buf.Bytes(), 0644); err != nil {
		s.logger.Warnf("Failed to write %s.png: %v", name, err)
	}
}

func (s *Snapshot) path(file string) string {
	return filepath.Join(s.dir, file)
}

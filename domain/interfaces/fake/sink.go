package fake

import (
	"context"
	"image"

	"ticket_rehearsal/domain/interfaces"
)

// Sink records debug artifact names in memory instead of writing files.
type Sink struct {
	PageCaptures []string
	ImageSaves   []string
	Images       []image.Image
}

func (s *Sink) CapturePage(ctx context.Context, page interfaces.Page, name string) {
	s.PageCaptures = append(s.PageCaptures, name)
}

func (s *Sink) SaveImage(name string, img image.Image) {
	s.ImageSaves = append(s.ImageSaves, name)
	s.Images = append(s.Images, img)
}

// Image returns the last image saved under the name, or nil
func (s *Sink) Image(name string) image.Image {
	for i := len(s.ImageSaves) - 1; i >= 0; i-- {
		if s.ImageSaves[i] == name {
			return s.Images[i]
		}
	}
	return nil
}

var _ interfaces.DebugSink = (*Sink)(nil)

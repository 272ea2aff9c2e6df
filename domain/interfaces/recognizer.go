package interfaces

import (
	"context"
	"image"
)

// Recognizer turns a captcha image into text through an external OCR engine.
// Implementations read the image as a single line of characters.
type Recognizer interface {
	// Recognize returns the raw engine output for the image
	Recognize(ctx context.Context, img image.Image) (string, error)
}

package fake

import (
	"context"
	"image"

	"ticket_rehearsal/domain/interfaces"
)

// Recognizer replays scripted OCR outputs in order. Once the queue
// drains the last entry repeats, so short scripts cover long variant
// runs.
type Recognizer struct {
	Outputs []string
	Err     error
	Calls   int
}

func (r *Recognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	r.Calls++
	if r.Err != nil {
		return "", r.Err
	}
	if len(r.Outputs) == 0 {
		return "", nil
	}
	out := r.Outputs[0]
	if len(r.Outputs) > 1 {
		r.Outputs = r.Outputs[1:]
	}
	return out, nil
}

var _ interfaces.Recognizer = (*Recognizer)(nil)

package captcha

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"ticket_rehearsal/application/locator"
	"ticket_rehearsal/domain/entities"
	"ticket_rehearsal/domain/interfaces"
)

// Each input or image candidate gets a short wait of its own
const candidateWait = 800 * time.Millisecond

// Pipeline reads the captcha off the page: locate the input, find the
// captcha image near it, screenshot it, and run every prepared image
// variant through the recognizer.
type Pipeline struct {
	recognizer interfaces.Recognizer
	sink       interfaces.DebugSink
	logger     *logrus.Logger
}

// NewPipeline - creates the captcha pipeline. A nil recognizer means no
// OCR engine is available; Acquire then returns empty without touching
// the page.
func NewPipeline(recognizer interfaces.Recognizer, sink interfaces.DebugSink, logger *logrus.Logger) *Pipeline {
	return &Pipeline{recognizer: recognizer, sink: sink, logger: logger}
}

// InputDescriptor describes the captcha text input across the layouts
// the practice site uses
func InputDescriptor() entities.Descriptor {
	return entities.Descriptor{
		Name: "captcha input",
		Matchers: []entities.Matcher{
			{Strategy: entities.StrategyPlaceholder, Value: "驗證碼"},
			{Strategy: entities.StrategySelector, Value: "input[name*='captcha' i]"},
			{Strategy: entities.StrategySelector, Value: "input[aria-label*='驗證碼']"},
			{Strategy: entities.StrategyLabel, Value: "驗證碼"},
		},
	}
}

// Acquire - tries to read the captcha text from the page. An empty
// result means the caller must ask the operator instead.
func (p *Pipeline) Acquire(ctx context.Context, page interfaces.Page, timeout time.Duration) string {
	if p.recognizer == nil {
		p.logger.Info("no OCR engine configured, captcha is left to the operator")
		return ""
	}

	p.sink.CapturePage(ctx, page, "_before_captcha")

	wait := candidateTimeout(timeout)
	input, found := locator.NewChain(page, p.logger).Resolve(ctx, InputDescriptor(), wait)
	if !found {
		p.logger.Warn("captcha input not found, nearest-image search degraded")
	}

	crop := p.captureCrop(ctx, page, input, wait)
	if crop == nil {
		p.logger.Warn("no captcha region available to capture")
		return ""
	}
	p.sink.SaveImage("_captcha_base", imaging.Grayscale(crop))

	code := p.recognize(ctx, crop)
	if code == "" {
		p.logger.Info("ocr produced no text, falling back to operator input")
	} else {
		p.logger.Infof("ocr captcha candidate: %s", code)
	}
	return code
}

// captureCrop returns the image region holding the captcha, preferring
// an element screenshot, then a full-page crop around the element box,
// then a fixed region left of the input.
func (p *Pipeline) captureCrop(ctx context.Context, page interfaces.Page, input interfaces.Element, wait time.Duration) image.Image {
	if img := p.findImage(ctx, page, input, wait); img != nil {
		_ = img.ScrollIntoView(ctx)
		if data, err := img.Screenshot(ctx); err == nil {
			if decoded, decodeErr := png.Decode(bytes.NewReader(data)); decodeErr == nil {
				return decoded
			}
		} else {
			p.logger.Debugf("element screenshot failed: %v", err)
		}
		if box, err := img.BoundingBox(ctx); err == nil && box != nil {
			return p.cropFromFullPage(ctx, page, *box)
		}
	}

	if input == nil {
		return nil
	}
	box, err := input.BoundingBox(ctx)
	if err != nil || box == nil {
		return nil
	}
	region := entities.Box{
		X:      math.Max(0, box.X-220),
		Y:      math.Max(0, box.Y-10),
		Width:  200,
		Height: math.Max(40, box.Height),
	}
	p.logger.Info("using the region left of the captcha input as capture fallback")
	return p.cropFromFullPage(ctx, page, region)
}

// findImage picks the visible image whose center is nearest to the
// input's center, falling back to any image marked by alt or title.
// The nearest-center heuristic can pick a decorative image when the
// page shows several near the form.
func (p *Pipeline) findImage(ctx context.Context, page interfaces.Page, input interfaces.Element, wait time.Duration) interfaces.Element {
	if input != nil {
		_ = input.ScrollIntoView(ctx)
		if inputBox, err := input.BoundingBox(ctx); err == nil && inputBox != nil {
			if nearest := p.nearestImage(ctx, page, *inputBox); nearest != nil {
				return nearest
			}
		}
	}

	keyed := page.FindBySelector("img[alt*='驗證'], img[title*='驗證']")
	if err := keyed.WaitVisible(ctx, wait); err == nil {
		return keyed
	}
	return nil
}

func (p *Pipeline) nearestImage(ctx context.Context, page interfaces.Page, inputBox entities.Box) interfaces.Element {
	images, err := page.FindAll(ctx, "img")
	if err != nil {
		return nil
	}

	inputX := inputBox.X + inputBox.Width/2
	inputY := inputBox.Y + inputBox.Height/2

	var nearest interfaces.Element
	var minDist float64
	for _, img := range images {
		box, boxErr := img.BoundingBox(ctx)
		if boxErr != nil || box == nil {
			continue
		}
		dx := box.X + box.Width/2 - inputX
		dy := box.Y + box.Height/2 - inputY
		dist := dx*dx + dy*dy
		if nearest == nil || dist < minDist {
			nearest = img
			minDist = dist
		}
	}
	return nearest
}

func (p *Pipeline) cropFromFullPage(ctx context.Context, page interfaces.Page, box entities.Box) image.Image {
	data, err := page.Screenshot(ctx, true)
	if err != nil {
		p.logger.Warnf("full page screenshot failed: %v", err)
		return nil
	}
	full, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		p.logger.Warnf("decoding page screenshot failed: %v", err)
		return nil
	}
	return cropRegion(full, box)
}

// cropRegion cuts the box out of a page screenshot with a two pixel
// margin, clamped to the image bounds
func cropRegion(full image.Image, box entities.Box) image.Image {
	left := int(box.X) - 2
	if left < 0 {
		left = 0
	}
	top := int(box.Y) - 2
	if top < 0 {
		top = 0
	}
	right := int(box.X+box.Width) + 2
	bottom := int(box.Y) + int(box.Height) + 2
	return imaging.Crop(full, image.Rect(left, top, right, bottom))
}

func (p *Pipeline) recognize(ctx context.Context, crop image.Image) string {
	variants := prepareVariants(crop)
	candidates := make([]string, 0, len(variants))
	for _, v := range variants {
		if ctx.Err() != nil {
			break
		}
		p.sink.SaveImage("_captcha_crop", v.img)
		raw, err := p.recognizer.Recognize(ctx, v.img)
		if err != nil {
			p.logger.Debugf("ocr failed at angle %.0f threshold %d: %v", v.angle, v.threshold, err)
			continue
		}
		candidates = append(candidates, stripNonAlnum(raw))
	}
	return bestCandidate(candidates)
}

func candidateTimeout(timeout time.Duration) time.Duration {
	if timeout > 0 && timeout < candidateWait {
		return timeout
	}
	return candidateWait
}

package captcha

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket_rehearsal/domain/entities"
	"ticket_rehearsal/domain/interfaces/fake"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func countName(names []string, want string) int {
	n := 0
	for _, name := range names {
		if name == want {
			n++
		}
	}
	return n
}

func TestAcquireWithoutRecognizerLeavesCaptchaToOperator(t *testing.T) {
	page := fake.NewPage()
	sink := &fake.Sink{}

	code := NewPipeline(nil, sink, newTestLogger()).Acquire(context.Background(), page, time.Second)

	assert.Equal(t, "", code)
	assert.Zero(t, page.ScreenshotCalls)
	assert.Empty(t, sink.PageCaptures)
	assert.Empty(t, sink.ImageSaves)
}

func TestAcquireScreenshotsNearestImage(t *testing.T) {
	page := fake.NewPage()

	input := fake.NewElement()
	input.Box = &entities.Box{X: 400, Y: 300, Width: 120, Height: 30}
	page.AddPlaceholder("驗證碼", input)

	far := fake.NewElement()
	far.Box = &entities.Box{X: 10, Y: 10, Width: 100, Height: 50}
	near := fake.NewElement()
	near.Box = &entities.Box{X: 280, Y: 295, Width: 90, Height: 36}
	near.PNG = pngBytes(t, grayImage(90, 36, 180))
	page.AddList("img", far, near)

	recognizer := &fake.Recognizer{Outputs: []string{"a-b", "xy 12!", "z"}}
	sink := &fake.Sink{}

	code := NewPipeline(recognizer, sink, newTestLogger()).Acquire(context.Background(), page, 15*time.Second)

	assert.Equal(t, "xy12", code)
	assert.Equal(t, 1, near.ScrollCalls)
	assert.Zero(t, far.ScrollCalls)
	assert.Zero(t, page.ScreenshotCalls)
	assert.Equal(t, len(rotationAngles)*len(thresholds), recognizer.Calls)

	assert.Equal(t, []string{"_before_captcha"}, sink.PageCaptures)
	assert.Equal(t, 1, countName(sink.ImageSaves, "_captcha_base"))
	assert.Equal(t, len(rotationAngles)*len(thresholds), countName(sink.ImageSaves, "_captcha_crop"))
}

func TestAcquireFallsBackToPageCropWhenElementShotFails(t *testing.T) {
	page := fake.NewPage()
	page.PNG = pngBytes(t, grayImage(800, 400, 255))

	input := fake.NewElement()
	input.Box = &entities.Box{X: 400, Y: 300, Width: 120, Height: 30}
	page.AddPlaceholder("驗證碼", input)

	img := fake.NewElement()
	img.Box = &entities.Box{X: 280, Y: 295, Width: 90, Height: 36}
	img.ShotErr = errors.New("screenshot refused")
	page.AddList("img", img)

	recognizer := &fake.Recognizer{Outputs: []string{"pq99"}}
	sink := &fake.Sink{}

	code := NewPipeline(recognizer, sink, newTestLogger()).Acquire(context.Background(), page, time.Second)

	assert.Equal(t, "pq99", code)
	assert.Equal(t, 1, page.ScreenshotCalls)
}

func TestAcquireFindsMarkedImageWithoutInput(t *testing.T) {
	page := fake.NewPage()

	marked := fake.NewElement()
	marked.PNG = pngBytes(t, grayImage(60, 24, 140))
	page.AddSelector("img[alt*='驗證'], img[title*='驗證']", marked)

	recognizer := &fake.Recognizer{Outputs: []string{"k3k3"}}
	sink := &fake.Sink{}

	code := NewPipeline(recognizer, sink, newTestLogger()).Acquire(context.Background(), page, 5*time.Second)

	assert.Equal(t, "k3k3", code)
	require.NotEmpty(t, marked.WaitTimeouts)
	assert.Equal(t, candidateWait, marked.WaitTimeouts[0])
}

func TestAcquireCropsRegionLeftOfInput(t *testing.T) {
	page := fake.NewPage()
	page.PNG = pngBytes(t, grayImage(800, 400, 255))

	input := fake.NewElement()
	input.Box = &entities.Box{X: 500, Y: 200, Width: 150, Height: 28}
	page.AddPlaceholder("驗證碼", input)

	recognizer := &fake.Recognizer{Outputs: []string{"w8w8"}}
	sink := &fake.Sink{}

	code := NewPipeline(recognizer, sink, newTestLogger()).Acquire(context.Background(), page, time.Second)

	assert.Equal(t, "w8w8", code)
	assert.Equal(t, 1, page.ScreenshotCalls)

	// 200x40 region plus the two pixel crop margin on each side
	base := sink.Image("_captcha_base")
	require.NotNil(t, base)
	assert.Equal(t, 204, base.Bounds().Dx())
	assert.Equal(t, 44, base.Bounds().Dy())
}

func TestAcquireReturnsEmptyWhenNothingCaptured(t *testing.T) {
	page := fake.NewPage()
	recognizer := &fake.Recognizer{Outputs: []string{"never"}}
	sink := &fake.Sink{}

	code := NewPipeline(recognizer, sink, newTestLogger()).Acquire(context.Background(), page, time.Second)

	assert.Equal(t, "", code)
	assert.Zero(t, recognizer.Calls)
	assert.Equal(t, []string{"_before_captcha"}, sink.PageCaptures)
}

func TestAcquireToleratesRecognizerErrors(t *testing.T) {
	page := fake.NewPage()

	input := fake.NewElement()
	input.Box = &entities.Box{X: 400, Y: 300, Width: 120, Height: 30}
	page.AddPlaceholder("驗證碼", input)

	img := fake.NewElement()
	img.Box = &entities.Box{X: 300, Y: 300, Width: 80, Height: 30}
	img.PNG = pngBytes(t, grayImage(80, 30, 120))
	page.AddList("img", img)

	recognizer := &fake.Recognizer{Err: errors.New("tesseract exploded")}
	sink := &fake.Sink{}

	code := NewPipeline(recognizer, sink, newTestLogger()).Acquire(context.Background(), page, time.Second)

	assert.Equal(t, "", code)
	assert.Equal(t, len(rotationAngles)*len(thresholds), recognizer.Calls)
}

func TestCandidateTimeoutCapsTheWait(t *testing.T) {
	assert.Equal(t, candidateWait, candidateTimeout(15*time.Second))
	assert.Equal(t, 300*time.Millisecond, candidateTimeout(300*time.Millisecond))
	assert.Equal(t, candidateWait, candidateTimeout(0))
}

package debug

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket_rehearsal/domain/interfaces/fake"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestNewSnapshotCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts", "run1")

	_, err := NewSnapshot(dir, newTestLogger())

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCapturePageWritesScreenshotAndMarkup(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewSnapshot(dir, newTestLogger())
	require.NoError(t, err)

	page := fake.NewPage()
	page.PNG = pngBytes(t)
	page.HTML = "<html><body>progress</body></html>"

	sink.CapturePage(context.Background(), page, "step3")

	shot, err := os.ReadFile(filepath.Join(dir, "step3.png"))
	require.NoError(t, err)
	assert.Equal(t, page.PNG, shot)

	html, err := os.ReadFile(filepath.Join(dir, "step3.html"))
	require.NoError(t, err)
	assert.Equal(t, page.HTML, string(html))
}

func TestCapturePageSwallowsPageFailures(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewSnapshot(dir, newTestLogger())
	require.NoError(t, err)

	page := fake.NewPage()
	page.ShotErr = errors.New("no screenshot")
	page.ContentErr = errors.New("no markup")

	sink.CapturePage(context.Background(), page, "broken")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveImageWritesDecodablePNG(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewSnapshot(dir, newTestLogger())
	require.NoError(t, err)

	sink.SaveImage("crop", image.NewGray(image.Rect(0, 0, 12, 5)))

	raw, err := os.ReadFile(filepath.Join(dir, "crop.png"))
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 12, decoded.Bounds().Dx())
	assert.Equal(t, 5, decoded.Bounds().Dy())
}

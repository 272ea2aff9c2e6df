package ocr

import (
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-ins need a unix shell")
	}
	path := filepath.Join(t.TempDir(), "tesseract")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestFindTesseractPrefersExplicitPath(t *testing.T) {
	path := writeScript(t, "exit 0")

	found, err := findTesseract(path)

	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindTesseractRejectsMissingExplicitPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")

	_, err := findTesseract(missing)

	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

func TestFindTesseractUsesEnvironment(t *testing.T) {
	path := writeScript(t, "exit 0")
	t.Setenv("TESSERACT_EXECUTABLE", path)

	found, err := findTesseract("")

	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindTesseractIgnoresBrokenEnvironment(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "absent")
	t.Setenv("TESSERACT_EXECUTABLE", broken)

	found, err := findTesseract("")

	// The host may or may not have a real install; either way the
	// broken path must not win.
	if err == nil {
		assert.NotEqual(t, broken, found)
	}
}

func TestNewTesseractFailsWithoutExecutable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")

	_, err := NewTesseract(missing, newTestLogger())

	require.Error(t, err)
}

func TestRecognizeTrimsEngineOutput(t *testing.T) {
	path := writeScript(t, "echo ' AB12 '")
	engine := &Tesseract{executable: path, logger: newTestLogger()}

	out, err := engine.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 8, 8)))

	require.NoError(t, err)
	assert.Equal(t, "AB12", out)
}

func TestRecognizeReportsEngineFailure(t *testing.T) {
	path := writeScript(t, "exit 3")
	engine := &Tesseract{executable: path, logger: newTestLogger()}

	_, err := engine.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 8, 8)))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract failed")
}

func TestRecognizeHonorsCancellation(t *testing.T) {
	path := writeScript(t, "echo AB12")
	engine := &Tesseract{executable: path, logger: newTestLogger()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Recognize(ctx, image.NewGray(image.Rect(0, 0, 8, 8)))

	require.Error(t, err)
}

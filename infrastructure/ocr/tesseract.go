package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"ticket_rehearsal/domain/interfaces"
)

// Tesseract recognizes captcha crops through the tesseract binary.
// The codes on the practice site are one short line, so the engine
// always runs with single-line page segmentation.
type Tesseract struct {
	executable string
	logger     *logrus.Logger
}

var _ interfaces.Recognizer = (*Tesseract)(nil)

// NewTesseract - locates the tesseract executable and wraps it
func NewTesseract(executable string, logger *logrus.Logger) (*Tesseract, error) {
	path, err := findTesseract(executable)
	if err != nil {
		return nil, err
	}
	logger.Infof("Using tesseract at %s", path)
	return &Tesseract{executable: path, logger: logger}, nil
}

// findTesseract - finds the tesseract executable path
func findTesseract(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("tesseract not found at %s", explicit)
	}

	if path := os.Getenv("TESSERACT_EXECUTABLE"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	commonPaths := []string{
		"/opt/homebrew/bin/tesseract",
		"/usr/local/bin/tesseract",
		"/usr/bin/tesseract",
		`C:\Program Files\Tesseract-OCR\tesseract.exe`,
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("tesseract"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("tesseract not found. Please install it or set TESSERACT_EXECUTABLE environment variable")
}

// Recognize - pipes the image through tesseract in single-line mode
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	var input bytes.Buffer
	if err := png.Encode(&input, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.executable, "stdin", "stdout", "--psm", "7")
	cmd.Stdin = &input

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

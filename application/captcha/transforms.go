package captcha

import (
	"image"
	"image/color"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/disintegration/imaging"
)

// Rotation angles and binarization thresholds tried on a captcha crop.
// Every combination becomes one OCR candidate.
var (
	rotationAngles = []float64{-6, -4, -2, 0, 2, 4, 6}
	thresholds     = []uint8{115, 160}
)

// variant is one prepared candidate image
type variant struct {
	angle     float64
	threshold uint8
	img       *image.Gray
}

// prepareVariants builds every rotation and threshold combination from
// the source crop: grayscale, rotate on an expanded white canvas,
// invert, binarize.
func prepareVariants(src image.Image) []variant {
	gray := imaging.Grayscale(src)
	variants := make([]variant, 0, len(rotationAngles)*len(thresholds))
	for _, angle := range rotationAngles {
		rotated := imaging.Rotate(gray, angle, color.White)
		inverted := imaging.Invert(rotated)
		for _, threshold := range thresholds {
			variants = append(variants, variant{
				angle:     angle,
				threshold: threshold,
				img:       binarize(inverted, threshold),
			})
		}
	}
	return variants
}

// binarize maps every pixel at or below the threshold to black and
// everything else to white
func binarize(img image.Image, threshold uint8) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if gray.Y <= threshold {
				out.SetGray(x, y, color.Gray{Y: 0})
			} else {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// stripNonAlnum keeps only letters and digits from raw OCR output
func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// bestCandidate picks the longest candidate, breaking length ties by
// taking the lexicographically larger string
func bestCandidate(candidates []string) string {
	best := ""
	bestLen := 0
	for _, candidate := range candidates {
		length := utf8.RuneCountInString(candidate)
		if length > bestLen || (length == bestLen && candidate > best) {
			best = candidate
			bestLen = length
		}
	}
	return best
}

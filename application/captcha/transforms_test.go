package captcha

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayImage(width, height int, value uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

func onlyValue(t *testing.T, img *image.Gray, want uint8) {
	t.Helper()
	for i, pix := range img.Pix {
		require.Equal(t, want, pix, "pixel %d", i)
	}
}

func TestBinarizeMapsThreshold(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.Pix = []uint8{0, 115, 116, 255}

	out := binarize(img, 115)

	assert.Equal(t, []uint8{0, 0, 255, 255}, out.Pix)
}

func TestBinarizeHigherThresholdDarkensMidtones(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.Pix = []uint8{160, 161}

	out := binarize(img, 160)

	assert.Equal(t, []uint8{0, 255}, out.Pix)
}

func TestPrepareVariantsCoversAllAngleThresholdPairs(t *testing.T) {
	variants := prepareVariants(grayImage(40, 12, 200))

	require.Len(t, variants, len(rotationAngles)*len(thresholds))

	i := 0
	for _, angle := range rotationAngles {
		for _, threshold := range thresholds {
			assert.Equal(t, angle, variants[i].angle)
			assert.Equal(t, threshold, variants[i].threshold)
			require.NotNil(t, variants[i].img)
			i++
		}
	}
}

func TestPrepareVariantsKeepSizeAtZeroAngle(t *testing.T) {
	variants := prepareVariants(grayImage(40, 12, 200))

	for _, v := range variants {
		if v.angle != 0 {
			continue
		}
		bounds := v.img.Bounds()
		assert.Equal(t, 40, bounds.Dx())
		assert.Equal(t, 12, bounds.Dy())
	}
}

func TestPrepareVariantsNeverClipWhenRotated(t *testing.T) {
	for _, v := range prepareVariants(grayImage(40, 12, 200)) {
		bounds := v.img.Bounds()
		assert.GreaterOrEqual(t, bounds.Dx(), 40, "angle %.0f", v.angle)
		assert.GreaterOrEqual(t, bounds.Dy(), 12, "angle %.0f", v.angle)
	}
}

func TestPrepareVariantsInvertBeforeThreshold(t *testing.T) {
	// A white source inverts to black everywhere, including the white
	// rotation fill, so every variant comes out fully black.
	for _, v := range prepareVariants(grayImage(30, 10, 255)) {
		onlyValue(t, v.img, 0)
	}

	// A black source inverts to white. Only the unrotated variants stay
	// uniform, rotation fills the corners with the opposite color.
	for _, v := range prepareVariants(grayImage(30, 10, 0)) {
		if v.angle != 0 {
			continue
		}
		onlyValue(t, v.img, 255)
	}
}

func TestStripNonAlnum(t *testing.T) {
	assert.Equal(t, "A1b2c", stripNonAlnum("A1-b2 c!"))
	assert.Equal(t, "驗證123", stripNonAlnum("驗證 123"))
	assert.Equal(t, "x7", stripNonAlnum("\n x7.\t"))
	assert.Equal(t, "", stripNonAlnum(" .,-\n"))
}

func TestBestCandidatePrefersLongest(t *testing.T) {
	assert.Equal(t, "abcd", bestCandidate([]string{"ab", "abcd", "xyz"}))
	assert.Equal(t, "", bestCandidate(nil))
	assert.Equal(t, "ab", bestCandidate([]string{"", "ab"}))
}

func TestBestCandidateCountsRunesNotBytes(t *testing.T) {
	// Three CJK runes lose to four ASCII runes even though they span
	// more bytes.
	assert.Equal(t, "abcd", bestCandidate([]string{"驗證碼", "abcd"}))
}

func TestBestCandidateBreaksTiesLexicographically(t *testing.T) {
	assert.Equal(t, "abce", bestCandidate([]string{"abcd", "abce"}))
	assert.Equal(t, "abce", bestCandidate([]string{"abce", "abcd"}))
}

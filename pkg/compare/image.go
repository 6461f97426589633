package compare

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/sdejongh/difflex/pkg/models"
)

// ImageComparator compares image files pixel-wise. Byte-identical
// files short-circuit as identical; decoded images must share
// dimensions, the second image is converted to the first's mode class
// before comparison, and pixel-equal images with differing bytes are
// reported as metadata-only differences.
type ImageComparator struct{}

// NewImageComparator creates an image comparator
func NewImageComparator() *ImageComparator {
	return &ImageComparator{}
}

// Compare compares two image files
func (c *ImageComparator) Compare(ctx context.Context, pathA, pathB string, threshold float64) *models.Outcome {
	dataA, err := os.ReadFile(pathA)
	if err != nil {
		return errorOutcome(err)
	}
	dataB, err := os.ReadFile(pathB)
	if err != nil {
		return errorOutcome(err)
	}

	if bytes.Equal(dataA, dataB) {
		return identicalOutcome()
	}

	imgA, _, err := image.Decode(bytes.NewReader(dataA))
	if err != nil {
		return errorOutcome(err)
	}
	imgB, _, err := image.Decode(bytes.NewReader(dataB))
	if err != nil {
		return errorOutcome(err)
	}

	if imgA.Bounds().Dx() != imgB.Bounds().Dx() || imgA.Bounds().Dy() != imgB.Bounds().Dy() {
		return &models.Outcome{Status: models.StatusDifferent, Similarity: 0, Details: "Different dimensions"}
	}

	// The first image's color model picks the comparison space; the
	// second image is rendered into it, lossy conversions accepted.
	class := classOf(imgA.ColorModel())
	valsA := channelValues(imgA, class)
	valsB := channelValues(imgB, class)

	var sum int64
	for i := range valsA {
		d := int64(valsA[i]) - int64(valsB[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}

	if sum == 0 {
		return &models.Outcome{
			Status:     models.StatusSimilarMeta,
			Similarity: 100,
			Details:    "Pixel data identical, metadata differs",
		}
	}

	// Mean absolute channel difference, normalized by the maximum
	// channel value of the 16-bit comparison space. For 8-bit sources
	// both sides scale by 257, so the ratio matches 8-bit math.
	mean := float64(sum) / float64(len(valsA))
	similarity := 100 - mean/65535*100

	if similarity >= threshold {
		return &models.Outcome{Status: models.StatusSimilar, Similarity: similarity, Details: "Pixels mostly similar"}
	}
	return &models.Outcome{Status: models.StatusDifferent, Similarity: similarity, Details: "Pixels differ significantly"}
}

// Name returns the comparator name
func (c *ImageComparator) Name() string {
	return "image"
}

// pixelClass is the comparison space derived from the first image's
// color model.
type pixelClass int

const (
	classGray   pixelClass = iota // 1 channel, 16-bit gray
	classOpaque                   // 3 channels, alpha discarded
	classAlpha                    // 4 channels, alpha compared like color
)

func classOf(m color.Model) pixelClass {
	switch m {
	case color.GrayModel, color.Gray16Model:
		return classGray
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model:
		return classAlpha
	default:
		// YCbCr, CMYK, paletted and everything else compares as
		// opaque color.
		return classOpaque
	}
}

func (pc pixelClass) channels() int {
	switch pc {
	case classGray:
		return 1
	case classAlpha:
		return 4
	default:
		return 3
	}
}

// channelValues renders img into the class's 16-bit comparison space
// and returns the per-pixel channel values in scanline order.
func channelValues(img image.Image, class pixelClass) []uint16 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if class == classGray {
		dst := image.NewGray16(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		vals := make([]uint16, w*h)
		for i := range vals {
			vals[i] = binary.BigEndian.Uint16(dst.Pix[2*i:])
		}
		return vals
	}

	dst := image.NewNRGBA64(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	ch := class.channels()
	vals := make([]uint16, 0, w*h*ch)
	for i := 0; i < w*h; i++ {
		o := 8 * i
		vals = append(vals,
			binary.BigEndian.Uint16(dst.Pix[o:]),
			binary.BigEndian.Uint16(dst.Pix[o+2:]),
			binary.BigEndian.Uint16(dst.Pix[o+4:]))
		if ch == 4 {
			vals = append(vals, binary.BigEndian.Uint16(dst.Pix[o+6:]))
		}
	}
	return vals
}

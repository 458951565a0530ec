package ocr

import (
	"image"
	"image/color"
)

const (
	// Small regions get upscaled before OCR so glyphs reach a size
	// Tesseract handles well.
	minOCRWidth  = 300
	minOCRHeight = 100
	maxScale     = 2.0
)

// Preprocess converts a frame to binarized grayscale suitable for OCR,
// upscaling small regions. It returns the processed image and the scale
// factor applied, so detection coordinates can be mapped back to region
// space.
func Preprocess(img *image.RGBA) (*image.Gray, float64) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*img.Stride + x*4
			r := img.Pix[idx]
			g := img.Pix[idx+1]
			b := img.Pix[idx+2]
			v := uint8((int(r)*299 + int(g)*587 + int(b)*114) / 1000)
			gray.SetGray(x, y, color.Gray{Y: v})
		}
	}

	scale := 1.0
	if width < minOCRWidth || height < minOCRHeight {
		sx := float64(minOCRWidth) / float64(width)
		sy := float64(minOCRHeight) / float64(height)
		scale = sx
		if sy > scale {
			scale = sy
		}
		if scale > maxScale {
			scale = maxScale
		}
		gray = upscale(gray, scale)
	}

	return binarize(gray), scale
}

// upscale resizes with nearest-neighbor sampling. Quality is adequate for
// binarized OCR input.
func upscale(img *image.Gray, factor float64) *image.Gray {
	bounds := img.Bounds()
	newW := int(float64(bounds.Dx()) * factor)
	newH := int(float64(bounds.Dy()) * factor)

	out := image.NewGray(image.Rect(0, 0, newW, newH))
	for y := 0; y < newH; y++ {
		srcY := int(float64(y) / factor)
		if srcY >= bounds.Dy() {
			srcY = bounds.Dy() - 1
		}
		for x := 0; x < newW; x++ {
			srcX := int(float64(x) / factor)
			if srcX >= bounds.Dx() {
				srcX = bounds.Dx() - 1
			}
			out.SetGray(x, y, img.GrayAt(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}
	return out
}

// binarize thresholds at the mean intensity, black text on white.
func binarize(img *image.Gray) *image.Gray {
	bounds := img.Bounds()
	var sum uint64
	count := uint64(bounds.Dx() * bounds.Dy())
	if count == 0 {
		return img
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += uint64(img.GrayAt(x, y).Y)
		}
	}
	threshold := uint8(sum / count)

	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.GrayAt(x, y).Y > threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

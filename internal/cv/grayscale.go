package cv

import (
	"image"
	"image/color"
)

// ToGray converts an RGBA image to 8-bit grayscale using the standard
// luminance weights.
func ToGray(img *image.RGBA) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			idx := (y-bounds.Min.Y)*img.Stride + (x-bounds.Min.X)*4
			r := img.Pix[idx]
			g := img.Pix[idx+1]
			b := img.Pix[idx+2]

			// Luminance formula
			v := uint8((int(r)*299 + int(g)*587 + int(b)*114) / 1000)
			gray.SetGray(x, y, color.Gray{Y: v})
		}
	}

	return gray
}

// CropGray extracts a horizontal band of rows [top, top+height) from a
// grayscale image. The result shares no storage with the source.
func CropGray(img *image.Gray, top, height int) *image.Gray {
	bounds := img.Bounds()
	rect := image.Rect(bounds.Min.X, bounds.Min.Y+top, bounds.Max.X, bounds.Min.Y+top+height)
	rect = rect.Intersect(bounds)

	out := image.NewGray(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			out.SetGray(x, y, img.GrayAt(rect.Min.X+x, rect.Min.Y+y))
		}
	}
	return out
}

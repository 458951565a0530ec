package cv

import (
	"image"
	"math"
)

// NormalizedCrossCorrelation computes the Pearson correlation coefficient
// between two equally sized grayscale images, in [-1, 1]. Returns 0 when the
// images differ in size or either has zero variance.
func NormalizedCrossCorrelation(a, b *image.Gray) float64 {
	ab := a.Bounds()
	bb := b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() || ab.Empty() {
		return 0
	}

	var sumA, sumB, sumAB, sumAA, sumBB float64
	n := float64(ab.Dx() * ab.Dy())

	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			va := float64(a.GrayAt(ab.Min.X+x, ab.Min.Y+y).Y)
			vb := float64(b.GrayAt(bb.Min.X+x, bb.Min.Y+y).Y)

			sumA += va
			sumB += vb
			sumAB += va * vb
			sumAA += va * va
			sumBB += vb * vb
		}
	}

	numerator := sumAB - (sumA * sumB / n)
	denomA := math.Sqrt(sumAA - (sumA * sumA / n))
	denomB := math.Sqrt(sumBB - (sumB * sumB / n))

	if denomA == 0 || denomB == 0 {
		return 0
	}

	return numerator / (denomA * denomB)
}

package cv

import (
	"image"
	"math/rand"
	"testing"
)

func noiseGray(width, height int, seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func TestNormalizedCrossCorrelationIdentical(t *testing.T) {
	img := noiseGray(50, 50, 1)
	score := NormalizedCrossCorrelation(img, img)
	if score < 0.999 {
		t.Errorf("identical images should correlate at 1.0, got %f", score)
	}
}

func TestNormalizedCrossCorrelationInverted(t *testing.T) {
	img := noiseGray(50, 50, 2)
	inverted := image.NewGray(img.Bounds())
	for i, v := range img.Pix {
		inverted.Pix[i] = 255 - v
	}
	score := NormalizedCrossCorrelation(img, inverted)
	if score > -0.999 {
		t.Errorf("inverted images should correlate at -1.0, got %f", score)
	}
}

func TestNormalizedCrossCorrelationUnrelated(t *testing.T) {
	score := NormalizedCrossCorrelation(noiseGray(50, 50, 3), noiseGray(50, 50, 4))
	if score > 0.2 || score < -0.2 {
		t.Errorf("independent noise should correlate near zero, got %f", score)
	}
}

func TestNormalizedCrossCorrelationBrightnessInvariant(t *testing.T) {
	img := noiseGray(50, 50, 5)
	brighter := image.NewGray(img.Bounds())
	for i, v := range img.Pix {
		b := int(v) + 40
		if b > 255 {
			b = 255
		}
		brighter.Pix[i] = uint8(b)
	}
	score := NormalizedCrossCorrelation(img, brighter)
	if score < 0.95 {
		t.Errorf("a brightness shift should barely affect correlation, got %f", score)
	}
}

func TestNormalizedCrossCorrelationDegenerate(t *testing.T) {
	if score := NormalizedCrossCorrelation(noiseGray(50, 50, 6), noiseGray(40, 50, 6)); score != 0 {
		t.Errorf("mismatched sizes should score 0, got %f", score)
	}

	flat := image.NewGray(image.Rect(0, 0, 50, 50))
	if score := NormalizedCrossCorrelation(flat, noiseGray(50, 50, 7)); score != 0 {
		t.Errorf("zero variance should score 0, got %f", score)
	}
}

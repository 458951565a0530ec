package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"namespotter.com/namespotter-go/internal/logging"
)

// charWhitelist restricts recognition to the characters names are made of.
const charWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz "

// DefaultMinConfidence is the word confidence below which detections are
// discarded.
const DefaultMinConfidence = 60.0

// TesseractExtractor runs Tesseract over preprocessed frames and groups the
// recognized words into name detections.
type TesseractExtractor struct {
	minConfidence float64
	language      string
	logger        *logging.Logger
}

// NewTesseractExtractor creates an extractor. Language is a Tesseract
// language code ("eng" by default).
func NewTesseractExtractor(minConfidence float64, language string) *TesseractExtractor {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	if language == "" {
		language = "eng"
	}
	return &TesseractExtractor{
		minConfidence: minConfidence,
		language:      language,
		logger:        logging.NewLogger("ocr"),
	}
}

// Extract runs OCR on a frame and returns grouped name detections in region
// coordinates. The context is checked around the Tesseract call; Tesseract
// itself is not interruptible.
func (e *TesseractExtractor) Extract(ctx context.Context, img *image.RGBA) ([]TextDetection, error) {
	if img == nil {
		return nil, fmt.Errorf("no image provided for OCR")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	processed, scale := Preprocess(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, processed); err != nil {
		return nil, fmt.Errorf("failed to encode frame for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("failed to set OCR language %q: %w", e.language, err)
	}
	if err := client.SetWhitelist(charWhitelist); err != nil {
		return nil, fmt.Errorf("failed to set OCR whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return nil, fmt.Errorf("failed to set OCR page mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to load image into OCR engine: %w", err)
	}

	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("OCR extraction failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := make([]word, 0, len(boxes))
	for _, box := range boxes {
		w := word{
			Text:       box.Word,
			Block:      box.BlockNum,
			Paragraph:  box.ParNum,
			X:          box.Box.Min.X,
			Y:          box.Box.Min.Y,
			Width:      box.Box.Dx(),
			Height:     box.Box.Dy(),
			Confidence: box.Confidence,
		}
		if usableWord(w, e.minConfidence) {
			words = append(words, w)
		}
	}

	detections := groupWords(words, scale)
	e.logger.DebugWithContext("OCR pass complete", map[string]interface{}{
		"words":      len(words),
		"detections": len(detections),
	})

	return detections, nil
}

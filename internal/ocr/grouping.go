package ocr

import (
	"sort"
	"strings"
	"unicode"
)

// word is a single OCR-recognized token with its layout position.
type word struct {
	Text       string
	Block      int
	Paragraph  int
	X          int
	Y          int
	Width      int
	Height     int
	Confidence float64
}

// usableWord filters out low-confidence, tiny, or purely numeric tokens.
func usableWord(w word, minConfidence float64) bool {
	text := strings.TrimSpace(w.Text)
	if w.Confidence < minConfidence {
		return false
	}
	if len(text) < 2 || isDigits(text) {
		return false
	}
	if w.Width < 10 || w.Height < 8 {
		return false
	}
	return true
}

// groupWords merges words that share a block and paragraph into multi-word
// name detections. Each group is read left-to-right, top-to-bottom, joined
// into a title-cased phrase with the union bounding box and the mean
// confidence. Coordinates are divided by scale to map back from the
// preprocessed image to region space.
func groupWords(words []word, scale float64) []TextDetection {
	type groupKey struct {
		block     int
		paragraph int
	}

	groups := make(map[groupKey][]word)
	var order []groupKey
	for _, w := range words {
		key := groupKey{w.Block, w.Paragraph}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], w)
	}

	if scale <= 0 {
		scale = 1
	}

	detections := make([]TextDetection, 0, len(order))
	for _, key := range order {
		group := groups[key]
		sort.Slice(group, func(i, j int) bool {
			if group[i].Y != group[j].Y {
				return group[i].Y < group[j].Y
			}
			return group[i].X < group[j].X
		})

		texts := make([]string, len(group))
		minX, minY := group[0].X, group[0].Y
		maxX, maxY := 0, 0
		var confSum float64
		for i, w := range group {
			texts[i] = w.Text
			if w.X < minX {
				minX = w.X
			}
			if w.Y < minY {
				minY = w.Y
			}
			if w.X+w.Width > maxX {
				maxX = w.X + w.Width
			}
			if w.Y+w.Height > maxY {
				maxY = w.Y + w.Height
			}
			confSum += w.Confidence
		}

		detections = append(detections, TextDetection{
			Text:       titleCase(strings.Join(texts, " ")),
			X:          int(float64(minX) / scale),
			Y:          int(float64(minY) / scale),
			Width:      int(float64(maxX-minX) / scale),
			Height:     int(float64(maxY-minY) / scale),
			Confidence: confSum / float64(len(group)),
		})
	}

	return detections
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// titleCase uppercases the first letter of every word and lowercases the
// rest, so OCR casing noise does not leak into display names.
func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		runes := []rune(strings.ToLower(f))
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}

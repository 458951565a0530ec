package ocr

import "testing"

func TestUsableWord(t *testing.T) {
	base := word{Text: "Alice", X: 10, Y: 10, Width: 50, Height: 14, Confidence: 85}

	tests := []struct {
		name   string
		modify func(w word) word
		want   bool
	}{
		{"good word", func(w word) word { return w }, true},
		{"low confidence", func(w word) word { w.Confidence = 30; return w }, false},
		{"single character", func(w word) word { w.Text = "A"; return w }, false},
		{"digits only", func(w word) word { w.Text = "1234"; return w }, false},
		{"too narrow", func(w word) word { w.Width = 5; return w }, false},
		{"too short", func(w word) word { w.Height = 4; return w }, false},
		{"whitespace padding", func(w word) word { w.Text = " Alice "; return w }, true},
	}

	for _, tt := range tests {
		if got := usableWord(tt.modify(base), 60); got != tt.want {
			t.Errorf("%s: usableWord = %v, expected %v", tt.name, got, tt.want)
		}
	}
}

func TestGroupWordsJoinsParagraph(t *testing.T) {
	words := []word{
		{Text: "SMITH", Block: 1, Paragraph: 1, X: 70, Y: 20, Width: 60, Height: 16, Confidence: 80},
		{Text: "alice", Block: 1, Paragraph: 1, X: 10, Y: 20, Width: 50, Height: 16, Confidence: 90},
	}

	detections := groupWords(words, 1.0)
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(detections))
	}
	d := detections[0]
	if d.Text != "Alice Smith" {
		t.Errorf("expected title-cased reading order, got %q", d.Text)
	}
	if d.X != 10 || d.Y != 20 || d.Width != 120 || d.Height != 16 {
		t.Errorf("unexpected union box: %+v", d)
	}
	if d.Confidence != 85 {
		t.Errorf("expected mean confidence 85, got %f", d.Confidence)
	}
}

func TestGroupWordsSeparatesParagraphs(t *testing.T) {
	words := []word{
		{Text: "Alice", Block: 1, Paragraph: 1, X: 10, Y: 20, Width: 50, Height: 16, Confidence: 90},
		{Text: "Bob", Block: 1, Paragraph: 2, X: 10, Y: 60, Width: 40, Height: 16, Confidence: 90},
		{Text: "Carol", Block: 2, Paragraph: 1, X: 10, Y: 100, Width: 50, Height: 16, Confidence: 90},
	}

	detections := groupWords(words, 1.0)
	if len(detections) != 3 {
		t.Fatalf("expected 3 detections, got %d", len(detections))
	}
	if detections[0].Text != "Alice" || detections[1].Text != "Bob" || detections[2].Text != "Carol" {
		t.Errorf("unexpected grouping: %+v", detections)
	}
}

func TestGroupWordsUnscalesCoordinates(t *testing.T) {
	words := []word{
		{Text: "Alice", Block: 1, Paragraph: 1, X: 40, Y: 80, Width: 100, Height: 32, Confidence: 90},
	}

	detections := groupWords(words, 2.0)
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(detections))
	}
	d := detections[0]
	if d.X != 20 || d.Y != 40 || d.Width != 50 || d.Height != 16 {
		t.Errorf("coordinates should map back to region space, got %+v", d)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"alice smith", "Alice Smith"},
		{"ALICE", "Alice"},
		{"aLiCe sMiTh", "Alice Smith"},
		{"alice", "Alice"},
	}
	for _, tt := range tests {
		if got := titleCase(tt.input); got != tt.expected {
			t.Errorf("titleCase(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

package widgets

import (
	"strings"
	"testing"
)

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && (r == 'm'):
			inEscape = false
		case !inEscape:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestSparklineWidth(t *testing.T) {
	got := stripANSI(Sparkline([]float64{0, 50, 100}, 3))
	if len([]rune(got)) != 3 {
		t.Errorf("sparkline %q has %d runes, want 3", got, len([]rune(got)))
	}
}

func TestSparklineScale(t *testing.T) {
	got := []rune(stripANSI(Sparkline([]float64{0, 100}, 2)))
	if got[0] != sparkBlocks[0] {
		t.Errorf("0%% rendered as %q, want %q", got[0], sparkBlocks[0])
	}
	if got[1] != sparkBlocks[len(sparkBlocks)-1] {
		t.Errorf("100%% rendered as %q, want %q", got[1], sparkBlocks[len(sparkBlocks)-1])
	}
}

func TestSparklineClampsOutOfRange(t *testing.T) {
	got := []rune(stripANSI(Sparkline([]float64{-20, 400}, 2)))
	if got[0] != sparkBlocks[0] || got[1] != sparkBlocks[len(sparkBlocks)-1] {
		t.Errorf("out-of-range values rendered as %q", string(got))
	}
}

func TestSparklinePadsShortSeries(t *testing.T) {
	got := stripANSI(Sparkline([]float64{50}, 5))
	if !strings.HasPrefix(got, "    ") {
		t.Errorf("short series not left-padded: %q", got)
	}
}

func TestSparklineTruncatesLongSeries(t *testing.T) {
	data := make([]float64, 100)
	data[99] = 100
	got := []rune(stripANSI(Sparkline(data, 4)))
	if len(got) != 4 {
		t.Fatalf("got %d runes, want 4", len(got))
	}
	// The most recent value must survive truncation.
	if got[3] != sparkBlocks[len(sparkBlocks)-1] {
		t.Errorf("latest value lost in truncation: %q", string(got))
	}
}

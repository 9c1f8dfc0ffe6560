package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name       string
		percent    float64
		wantFilled int
		wantLabel  string
	}{
		{"zero", 0, 0, "  0%"},
		{"half", 50, 5, " 50%"},
		{"full", 100, 10, "100%"},
		{"overshoot clamps bar keeps label", 120, 10, "120%"},
		{"negative clamps", -10, 0, "-10%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderProgress(tt.percent, 10))
			assert.Equal(t, tt.wantFilled, strings.Count(got, filledBlock))
			assert.Equal(t, 10, strings.Count(got, filledBlock)+strings.Count(got, emptyBlock))
			assert.True(t, strings.HasSuffix(got, tt.wantLabel), got)
		})
	}
}

func TestRenderCompactBar(t *testing.T) {
	for _, dim := range []bool{true, false} {
		got := stripANSI(RenderCompactBar(25, 4, dim))
		assert.Equal(t, filledBlock+strings.Repeat(emptyBlock, 3), got)
		assert.NotContains(t, got, "[")
		assert.NotContains(t, got, "%")
	}
	assert.Equal(t, 2, strings.Count(stripANSI(RenderCompactBar(0, 1, true)), emptyBlock),
		"width below 2 is raised to 2")
}

func TestRenderSparkline(t *testing.T) {
	assert.Empty(t, RenderSparkline(nil))
	got := []rune(stripANSI(RenderSparkline([]float64{0, 50, 100, 150})))
	assert.Len(t, got, 4)
	assert.Equal(t, '▁', got[0])
	assert.Equal(t, '█', got[2])
	assert.Equal(t, '█', got[3])
}

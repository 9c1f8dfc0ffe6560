package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func progressStyle(p float64) func(...string) string {
	switch {
	case p >= 100:
		return StyleBlue.Render
	case p < 33:
		return StyleRed.Render
	case p < 66:
		return StyleYellow.Render
	}
	return StyleGreen.Render
}

func blocks(p float64, width int) (int, int) {
	if width < 2 {
		width = 2
	}
	filled := int(p / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return filled, width - filled
}

// RenderProgress renders a progress percentage (0-100) as [████░░░░]  45%.
// Values outside the range are drawn clamped but labelled as given, so an
// overshoot like 120% stays visible.
func RenderProgress(percent float64, width int) string {
	p := clampPercent(percent)
	filled, empty := blocks(p, width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, empty)
	return fmt.Sprintf("[%s] %s", progressStyle(p)(bar), FormatPercent(percent))
}

// RenderCompactBar renders a bracketless bar for dense rows.
func RenderCompactBar(percent float64, width int, dim bool) string {
	p := clampPercent(percent)
	filled, empty := blocks(p, width)
	if dim {
		return Dim(strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, empty))
	}
	return progressStyle(p)(strings.Repeat(filledBlock, filled)) + Dim(strings.Repeat(emptyBlock, empty))
}

// FormatPercent prints a percentage without decimals, right-aligned to 4.
func FormatPercent(percent float64) string {
	return fmt.Sprintf("%3.0f%%", percent)
}

// RenderSparkline draws one block per value on a 0-100 scale.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	top := len(sparkLevels) - 1
	for _, v := range values {
		idx := int(clampPercent(v) / 100 * float64(top))
		b.WriteRune(sparkLevels[idx])
	}
	return StyleGreen.Render(b.String())
}

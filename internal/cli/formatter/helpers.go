package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/okrdesk/okrdesk/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDate returns a human-friendly relative date string.
func RelativeDate(t time.Time) string {
	return RelativeDateFrom(t, time.Now())
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// Deadline renders an OKR deadline relative to now, red once it is within
// two days or past. Unparseable deadlines are shown as given.
func Deadline(raw string) string {
	if raw == "" {
		return Dim("—")
	}
	o := domain.Objective{Deadline: raw}
	t, ok := o.DeadlineTime()
	if !ok {
		return StyleFg.Render(raw)
	}
	text := t.Format("2006-01-02") + " (" + RelativeDate(t) + ")"
	days := int(math.Round(time.Until(t).Hours() / 24))
	switch {
	case days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	}
	return StyleFg.Render(text)
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	y3, m3, d3 := now.AddDate(0, 0, -1).Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)

	switch {
	case diff < 0:
		return HumanDate(t)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t)
	}
}

// StatusPill returns a colored indicator for a team OKR status.
func StatusPill(status domain.OKRStatus) string {
	switch status {
	case domain.OKRActive:
		return StyleGreen.Render("● Active")
	case domain.OKRDraft:
		return StyleYellow.Render("○ Draft")
	case domain.OKRDone:
		return StyleDim.Render("✔ Done")
	case "":
		return StyleDim.Render("—")
	default:
		return StyleDim.Render(string(status))
	}
}

// FrozenBadge marks frozen OKRs; unfrozen ones render empty.
func FrozenBadge(frozen bool) string {
	if !frozen {
		return ""
	}
	return StyleBlue.Render("❄ frozen")
}

// CreatorBadge marks companies the user created.
func CreatorBadge(isCreator bool) string {
	if !isCreator {
		return ""
	}
	return StylePurple.Render("★ creator")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// IDCell renders a full ID for table columns, where it must stay copyable.
func IDCell(id string) string {
	return StyleDim.Render(id)
}

// FormatNumber prints a value without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatValue prints a key-result value in its metric's notation.
func FormatValue(v float64, metric domain.MetricType, unit string) string {
	n := FormatNumber(v)
	switch metric {
	case domain.MetricPercentage:
		return n + "%"
	case domain.MetricCurrency:
		if unit == "" {
			unit = "$"
		}
		return unit + n
	}
	if unit != "" {
		return n + " " + unit
	}
	return n
}

// RoleList joins role names, or a dim dash when there are none.
func RoleList(roles []string) string {
	if len(roles) == 0 {
		return Dim("—")
	}
	return strings.Join(roles, ", ")
}

// Truncate shortens s to width runes with a trailing ellipsis.
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes escape codes so assertions are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestHumanTimestamp(t *testing.T) {
	assert.Equal(t, "Just now", HumanTimestamp(time.Now()))
	assert.Equal(t, "5m ago", HumanTimestamp(time.Now().Add(-5*time.Minute)))
	assert.Equal(t, "—", HumanTimestamp(time.Time{}))
	assert.Equal(t, "Sep 30, 2022", HumanTimestamp(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC)))
}

func TestDeadline(t *testing.T) {
	assert.Equal(t, "—", stripANSI(Deadline("")))
	assert.Equal(t, "next quarter", stripANSI(Deadline("next quarter")))
	assert.Contains(t, stripANSI(Deadline("2020-01-15")), "2020-01-15")
	assert.Contains(t, stripANSI(Deadline("2020-01-15T00:00:00Z")), "ago")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		metric domain.MetricType
		unit   string
		want   string
	}{
		{"number with unit", 50, domain.MetricNumber, "tasks", "50 tasks"},
		{"number bare", 12.5, domain.MetricNumber, "", "12.5"},
		{"percentage", 75, domain.MetricPercentage, "", "75%"},
		{"currency default symbol", 1000, domain.MetricCurrency, "", "$1000"},
		{"currency unit", 20, domain.MetricCurrency, "€", "€20"},
		{"custom", 3, domain.MetricCustom, "nps", "3 nps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.v, tt.metric, tt.unit))
		})
	}
}

func TestStatusPill(t *testing.T) {
	assert.Contains(t, stripANSI(StatusPill(domain.OKRActive)), "Active")
	assert.Contains(t, stripANSI(StatusPill(domain.OKRDraft)), "Draft")
	assert.Contains(t, stripANSI(StatusPill(domain.OKRDone)), "Done")
	assert.Equal(t, "—", stripANSI(StatusPill("")))
}

func TestHealthIndicator(t *testing.T) {
	assert.Contains(t, stripANSI(HealthIndicator(domain.HealthOnTrack)), "ON TRACK")
	assert.Contains(t, stripANSI(HealthIndicator(domain.HealthAtRisk)), "AT RISK")
	assert.Contains(t, stripANSI(HealthIndicator(domain.HealthCompleted)), "COMPLETED")
}

func TestBadgesEmptyWhenUnset(t *testing.T) {
	assert.Empty(t, FrozenBadge(false))
	assert.Empty(t, CreatorBadge(false))
	assert.Contains(t, stripANSI(FrozenBadge(true)), "frozen")
	assert.Contains(t, stripANSI(CreatorBadge(true)), "creator")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "żółw…", Truncate("żółwik", 5))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "12345678", stripANSI(TruncID("1234567890")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))
}

func TestHeaderAndTitle(t *testing.T) {
	assert.Equal(t, "KEY RESULTS\n───────────", stripANSI(Header("Key results")))
	assert.Equal(t, "Acme Corp\n─────────", stripANSI(Title("Acme Corp")))
}

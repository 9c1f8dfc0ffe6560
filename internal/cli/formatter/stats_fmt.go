package formatter

import (
	"fmt"
	"strings"

	"github.com/okrdesk/okrdesk/internal/domain"
)

type counter struct {
	label string
	value int
	style func(...string) string
}

func renderCounters(cs []counter) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, fmt.Sprintf("%s %s", c.style(fmt.Sprintf("%d", c.value)), Dim(c.label)))
	}
	return "  " + strings.Join(parts, Dim("  ·  ")) + "\n"
}

// FormatCompanyStats renders a company statistics snapshot.
func FormatCompanyStats(s *domain.CompanyStats) string {
	var b strings.Builder
	b.WriteString(Header("Corporate OKRs"))
	b.WriteString("\n")
	b.WriteString(renderCounters([]counter{
		{"total", s.TotalOKRs, StyleBold.Render},
		{"completed", s.CompletedOKRs, StyleBlue.Render},
		{"at risk", s.AtRiskOKRs, StyleRed.Render},
		{"frozen", s.FrozenOKRs, StyleDim.Render},
	}))
	b.WriteString(Dim("  Team OKRs:") + renderCounters([]counter{
		{"total", s.TotalTeamOKRs, StyleBold.Render},
		{"active", s.ActiveTeamOKRs, StyleGreen.Render},
		{"frozen", s.FrozenTeamOKRs, StyleDim.Render},
	}))
	b.WriteString("\n")
	b.WriteString(formatOKRStats(s.Stats))
	return b.String()
}

// FormatTeamStats renders a team statistics snapshot.
func FormatTeamStats(s *domain.TeamStats) string {
	var b strings.Builder
	b.WriteString(Header("Team OKRs"))
	b.WriteString("\n")
	b.WriteString(renderCounters([]counter{
		{"total", s.TotalOKRs, StyleBold.Render},
		{"completed", s.CompletedOKRs, StyleBlue.Render},
		{"at risk", s.AtRiskOKRs, StyleRed.Render},
		{"frozen", s.FrozenOKRs, StyleDim.Render},
	}))
	b.WriteString("\n")
	b.WriteString(formatOKRStats(s.Stats))
	return b.String()
}

func formatOKRStats(stats []domain.OKRStats) string {
	if len(stats) == 0 {
		return Dim("No OKRs found.") + "\n"
	}
	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		history := make([]float64, 0, len(st.ProgressHistory))
		for _, p := range st.ProgressHistory {
			history = append(history, p.Value)
		}
		rows = append(rows, []string{
			Bold(Truncate(st.OKR.Objective, 36)),
			HealthIndicator(st.Status),
			RenderProgress(st.Progress, 12),
			RenderSparkline(history),
			FrozenBadge(st.IsFrozen),
			Deadline(domain.CoalesceStr(st.Deadline, st.OKR.Deadline)),
		})
		for _, kr := range st.KeyResultsProgress {
			rows = append(rows, []string{
				Dim("  " + Truncate(kr.Title, 34)),
				"",
				RenderCompactBar(kr.Progress, 12, true) + " " + Dim(FormatPercent(kr.Progress)),
				Dim(FormatValue(kr.ActualValue, kr.MetricType, kr.Unit) + " / " + FormatValue(kr.TargetValue, kr.MetricType, kr.Unit)),
			})
		}
	}
	return RenderTable([]string{"OBJECTIVE", "HEALTH", "PROGRESS", "HISTORY", "", "DEADLINE"}, rows)
}

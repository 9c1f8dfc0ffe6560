package formatter

import (
	"fmt"
	"strings"

	"github.com/okrdesk/okrdesk/internal/domain"
)

func objectiveRow(o *domain.Objective, corporate bool) []string {
	state := FrozenBadge(o.IsFrozen)
	if !corporate {
		state = strings.TrimSpace(StatusPill(o.Status) + " " + state)
	}
	return []string{
		Bold(Truncate(o.Objective, 40)),
		RenderCompactBar(o.Progress, 12, o.IsFrozen) + " " + FormatPercent(o.Progress),
		state,
		fmt.Sprintf("%d", len(o.KeyResults)),
		Deadline(o.Deadline),
		IDCell(o.ID),
	}
}

var objectiveHeaders = []string{"OBJECTIVE", "PROGRESS", "STATE", "KRS", "DEADLINE", "ID"}

// FormatCorporateOKRs renders a company's corporate objectives.
func FormatCorporateOKRs(okrs []domain.Objective) string {
	rows := make([][]string, 0, len(okrs))
	for i := range okrs {
		rows = append(rows, objectiveRow(&okrs[i], true))
	}
	return RenderTableOr("No corporate OKRs found.", objectiveHeaders, rows)
}

// FormatTeamOKRs renders team objectives with the corporate key result each
// one is attached to, when known.
func FormatTeamOKRs(okrs []domain.TeamOKR) string {
	if len(okrs) == 0 {
		return Dim("No OKRs found.") + "\n"
	}
	rows := make([][]string, 0, len(okrs)*2)
	for i := range okrs {
		rows = append(rows, objectiveRow(&okrs[i].Objective, false))
		if a := okrs[i].Attached; a != nil {
			rows = append(rows, []string{
				Dim("  ↳ " + Truncate(a.KeyResult.Title, 36)),
				Dim(FormatPercent(a.KeyResult.Progress)),
			})
		}
	}
	return RenderTable(objectiveHeaders, rows)
}

// FormatObjective renders one objective with its key results.
func FormatObjective(o *domain.Objective) string {
	var b strings.Builder

	b.WriteString(Title(o.Objective))
	b.WriteString("\n")
	if o.Description != "" {
		b.WriteString("  " + o.Description + "\n")
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("ID:"), o.ID))
	if o.Status != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Status:"), StatusPill(o.Status)))
	}
	if o.IsFrozen {
		b.WriteString("  " + FrozenBadge(true) + "\n")
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Deadline:"), Deadline(o.Deadline)))
	if o.IsLinked() {
		b.WriteString(fmt.Sprintf("  %s %s #%d\n", Dim("Linked to:"), TruncID(o.ParentOKR), *o.ParentKRIndex))
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Progress:"), RenderProgress(o.Progress, 20)))

	b.WriteString("\n")
	b.WriteString(Header("Key results"))
	b.WriteString("\n")
	b.WriteString(FormatKeyResults(o.KeyResults))
	return b.String()
}

// FormatKeyResults renders key results with their current and target values.
func FormatKeyResults(krs []domain.KeyResult) string {
	rows := make([][]string, 0, len(krs))
	for i, kr := range krs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			kr.Title,
			FormatValue(kr.ActualValue, kr.MetricType, kr.Unit) + Dim(" / "+FormatValue(kr.TargetValue, kr.MetricType, kr.Unit)),
			RenderProgress(kr.Progress, 10),
		})
	}
	return RenderTableOr("No key results found.", []string{"#", "KEY RESULT", "VALUE", "PROGRESS"}, rows)
}

// FormatKeyResultView renders a corporate key result with the team OKRs
// linked to it.
func FormatKeyResultView(v *domain.CorporateKeyResultView) string {
	var b strings.Builder
	b.WriteString(Title(v.KeyResult.Title))
	b.WriteString("\n")
	if v.KeyResult.Description != "" {
		b.WriteString("  " + v.KeyResult.Description + "\n")
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Progress:"), RenderProgress(v.KeyResult.Progress, 20)))

	teams := make([]string, 0, len(v.KeyResult.Teams))
	for _, t := range v.KeyResult.Teams {
		teams = append(teams, t.Name)
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Teams:"), RoleList(teams)))

	b.WriteString("\n")
	b.WriteString(Header("Linked team OKRs"))
	b.WriteString("\n")
	rows := make([][]string, 0, len(v.LinkedOKRs))
	for _, l := range v.LinkedOKRs {
		rows = append(rows, []string{l.Team.Name, l.Objective, FormatPercent(l.Progress), IDCell(l.ID)})
	}
	b.WriteString(RenderTableOr("No linked OKRs found.", []string{"TEAM", "OBJECTIVE", "PROGRESS", "ID"}, rows))
	return b.String()
}

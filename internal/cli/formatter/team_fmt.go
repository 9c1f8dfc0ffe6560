package formatter

import (
	"fmt"
	"strings"

	"github.com/okrdesk/okrdesk/internal/domain"
)

// FormatTeams renders a company's teams.
func FormatTeams(teams []domain.Team) string {
	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, []string{
			Bold(t.Name),
			Dim(Truncate(t.Description, 40)),
			fmt.Sprintf("%d", len(t.Members)),
			RoleList(t.RequiredRoles),
			IDCell(t.ID),
		})
	}
	return RenderTableOr("No teams found.",
		[]string{"TEAM", "DESCRIPTION", "MEMBERS", "REQUIRED ROLES", "ID"}, rows)
}

// FormatTeamDetail renders a team with its member profiles.
func FormatTeamDetail(t *domain.Team, members []domain.UserDetail) string {
	var b strings.Builder
	b.WriteString(Title(t.Name))
	b.WriteString("\n")
	if t.Description != "" {
		b.WriteString("  " + t.Description + "\n")
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("ID:"), t.ID))
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Required roles:"), RoleList(t.RequiredRoles)))
	b.WriteString("\n")
	b.WriteString(Header(fmt.Sprintf("Members (%d)", len(members))))
	b.WriteString("\n")

	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{m.DisplayName(), Dim(m.Email), RoleList(m.Roles), IDCell(m.ID)})
	}
	b.WriteString(RenderTableOr("No members found.", []string{"NAME", "EMAIL", "ROLES", "ID"}, rows))
	return b.String()
}

// FormatAssignedKeyResults renders the corporate key results a team may
// attach OKRs to.
func FormatAssignedKeyResults(krs []domain.AssignedKeyResult) string {
	rows := make([][]string, 0, len(krs))
	for _, kr := range krs {
		rows = append(rows, []string{
			kr.CorporateOKR.Objective,
			fmt.Sprintf("#%d %s", kr.KRIndex, kr.Title),
			RenderCompactBar(kr.Progress, 10, false) + " " + FormatPercent(kr.Progress),
			IDCell(kr.CorporateOKRID),
		})
	}
	return RenderTableOr("No assigned key results found.",
		[]string{"CORPORATE OKR", "KEY RESULT", "PROGRESS", "OKR ID"}, rows)
}

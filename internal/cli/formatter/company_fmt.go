package formatter

import (
	"fmt"
	"strings"

	"github.com/okrdesk/okrdesk/internal/domain"
)

// FormatCompanyCards renders the companies screen as a table.
func FormatCompanyCards(cards []domain.CompanyCard) string {
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []string{
			Bold(c.Name),
			RoleList(c.Roles),
			fmt.Sprintf("%d", c.MemberCount),
			CreatorBadge(c.IsCreator),
			IDCell(c.ID),
		})
	}
	return RenderTableOr("No companies found.",
		[]string{"COMPANY", "YOUR ROLES", "MEMBERS", "", "ID"}, rows)
}

// FormatCompany renders a company overview for the signed-in user.
func FormatCompany(c *domain.Company, sess domain.Session) string {
	var b strings.Builder

	b.WriteString(Title(c.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("ID:"), c.ID))
	if me, ok := c.Member(sess.User.ID); ok {
		b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Your roles:"), RoleList(me.Roles)))
	}
	if domain.IsCreator(c, sess) {
		b.WriteString("  " + CreatorBadge(true) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(Header(fmt.Sprintf("Members (%d)", len(c.Users))))
	b.WriteString("\n")
	b.WriteString(FormatCompanyUsers(c.Users))

	b.WriteString("\n")
	b.WriteString(Header(fmt.Sprintf("Roles (%d)", len(c.Roles))))
	b.WriteString("\n")
	b.WriteString(FormatRoles(c.Roles))
	return b.String()
}

// FormatRoles renders company roles.
func FormatRoles(roles []domain.Role) string {
	rows := make([][]string, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, []string{StyleGreen.Render(r.Name), Dim(r.Description)})
	}
	return RenderTableOr("No roles found.", []string{"ROLE", "DESCRIPTION"}, rows)
}

// FormatCompanyUsers renders company members with their roles.
func FormatCompanyUsers(users []domain.CompanyUser) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			domain.CoalesceStr(u.Name, u.Email),
			Dim(u.Email),
			RoleList(u.Roles),
			IDCell(u.ID),
		})
	}
	return RenderTableOr("No users found.", []string{"NAME", "EMAIL", "ROLES", "ID"}, rows)
}

// FormatUsers renders user lookup results.
func FormatUsers(users []domain.UserDetail) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.DisplayName(), Dim(u.Email), IDCell(u.ID)})
	}
	return RenderTableOr("No users found.", []string{"NAME", "EMAIL", "ID"}, rows)
}

// FormatWhoAmI renders the session user plus the token claims, when the
// token could be decoded.
func FormatWhoAmI(u domain.User, subject string, expires string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", Bold(domain.CoalesceStr(u.Name, u.Email)), Dim("<"+u.Email+">")))
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("User ID:"), u.ID))
	if subject != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Token subject:"), subject))
	}
	if expires != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Token expires:"), expires))
	}
	return b.String()
}

package formatter

import (
	"fmt"
	"strings"

	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
)

// FormatCheckIns renders check-in history, oldest first. Key-result titles
// are looked up by index in krs; unknown indexes print as "#i".
func FormatCheckIns(checkIns []domain.CheckIn, krs []domain.KeyResult) string {
	if len(checkIns) == 0 {
		return Dim("No check-ins found.") + "\n"
	}
	var b strings.Builder
	for i, c := range checkIns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", StyleYellow.Render("●"), Dim(HumanTimestamp(c.CreatedAt))))
		b.WriteString("  " + c.Comment + "\n")
		for _, u := range c.Updates {
			if u.NewProgress == u.PreviousProgress {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
				Dim(krTitle(krs, u.Index)+":"),
				FormatPercent(u.PreviousProgress),
				Dim("→"),
				StyleGreen.Render(FormatPercent(u.NewProgress)),
			))
		}
	}
	return b.String()
}

func krTitle(krs []domain.KeyResult, i int) string {
	if i >= 0 && i < len(krs) && krs[i].Title != "" {
		return krs[i].Title
	}
	return fmt.Sprintf("#%d", i)
}

// FormatDraft renders a pending check-in. Changed entries are highlighted.
func FormatDraft(d *progress.Draft) string {
	rows := make([][]string, 0, d.Len())
	for i, e := range d.Entries() {
		kr := e.KeyResult
		value := FormatValue(e.NewActual, kr.MetricType, kr.Unit)
		if e.Changed() {
			value = StyleGreen.Render(value)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			kr.Title,
			value + Dim(" / "+FormatValue(kr.TargetValue, kr.MetricType, kr.Unit)),
			RenderProgress(e.NewProgress, 10),
		})
	}
	return RenderTableOr("No key results found.", []string{"#", "KEY RESULT", "VALUE", "PROGRESS"}, rows)
}

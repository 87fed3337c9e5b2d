package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/reflekt/internal/selection"
)

// FormatPrompts renders a numbered prompt list.
func FormatPrompts(prompts []string) string {
	if len(prompts) == 0 {
		return Dim("No prompts fit right now.") + "\n"
	}
	var b strings.Builder
	for i, p := range prompts {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(fmt.Sprintf("%2d.", i+1)), p))
	}
	return b.String()
}

// FormatExplain renders scored templates with the factors behind each weight.
func FormatExplain(scored []selection.ScoredTemplate, limit int) string {
	if len(scored) == 0 {
		return Dim("No eligible templates.") + "\n"
	}
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	rows := make([][]string, 0, len(scored))
	for _, s := range scored {
		reasons := make([]string, 0, len(s.Reasons))
		for _, r := range s.Reasons {
			reasons = append(reasons, fmt.Sprintf("%s %+.2f", strings.ToLower(string(r.Code)), r.Delta))
		}
		rows = append(rows, []string{
			strconv.FormatFloat(s.Score, 'f', 2, 64),
			s.Template.ID,
			Dim(strings.Join(reasons, ", ")),
		})
	}
	return RenderTable([]string{"WEIGHT", "TEMPLATE", "FACTORS"}, rows)
}

// FormatPick renders the chosen prompt with its soft status.
func FormatPick(res selection.PickResult) string {
	out := StylePrompt.Render(res.Prompt) + "\n"
	if badge := StatusBadge(res.Status); badge != "" {
		out += fmt.Sprintf("%s %s\n", badge, Dim(res.Status.Message()))
	}
	return out
}

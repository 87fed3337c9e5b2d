package formatter

import (
	"fmt"
	"strings"
)

// FormatTitles lists title suggestions, marking the current one.
func FormatTitles(titles []string, current string) string {
	if len(titles) == 0 {
		return Dim("No title suggestions.") + "\n"
	}
	var b strings.Builder
	for _, t := range titles {
		marker := "  "
		if current != "" && strings.EqualFold(t, current) {
			marker = StyleGreen.Render("● ")
		}
		b.WriteString(fmt.Sprintf("%s%s\n", marker, t))
	}
	return b.String()
}

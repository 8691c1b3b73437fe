package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
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

// RelativeDateFrom describes t relative to now, e.g. "3d ago" or "Today".
func RelativeDateFrom(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == -1:
		return "Yesterday"
	case days == 1:
		return "Tomorrow"
	case days > 0:
		return fmt.Sprintf("In %dd", days)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// HumanTimestamp renders t as an absolute UTC time followed by its age.
func HumanTimestamp(t time.Time, now time.Time) string {
	if t.IsZero() {
		return Dim("never")
	}
	return fmt.Sprintf("%s %s", t.UTC().Format("Jan 2, 2006 15:04"), Dim("("+RelativeDateFrom(t, now)+")"))
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Bullets renders one "• item" line per entry, or a dimmed dash when empty.
func Bullets(items []string, indent int) string {
	pad := strings.Repeat(" ", indent)
	if len(items) == 0 {
		return pad + Dim("--") + "\n"
	}
	var b strings.Builder
	for _, it := range items {
		b.WriteString(pad + StyleDim.Render("•") + " " + it + "\n")
	}
	return b.String()
}

// Money formats a budget estimate in whole dollars.
func Money(v float64) string {
	if v == 0 {
		return Dim("$0")
	}
	return fmt.Sprintf("$%.0f", v)
}

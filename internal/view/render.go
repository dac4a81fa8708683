package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Styles are the terminal attributes applied by [Renderer].
type Styles struct {
	Title       lipgloss.Style
	Header      lipgloss.Style
	Today       lipgloss.Style
	OtherMonth  lipgloss.Style
	Completed   lipgloss.Style
	Pending     lipgloss.Style
	ID          lipgloss.Style
	Editing     lipgloss.Style
	Placeholder lipgloss.Style
}

// DefaultStyles returns the styles used on a terminal. lipgloss drops the
// attributes itself when output is not a TTY.
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true),
		Header:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		Today:       lipgloss.NewStyle().Underline(true).Bold(true),
		OtherMonth:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true),
		Completed:   lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("244")),
		Pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		ID:          lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Editing:     lipgloss.NewStyle().Reverse(true),
		Placeholder: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244")),
	}
}

// PlainStyles returns styles that add no attributes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()

	return Styles{
		Title:       plain,
		Header:      plain,
		Today:       plain,
		OtherMonth:  plain,
		Completed:   plain,
		Pending:     plain,
		ID:          plain,
		Editing:     plain,
		Placeholder: plain,
	}
}

const (
	defaultCellWidth = 12
	defaultCellTasks = 2

	markDone    = "✓"
	markPending = "·"
)

// Renderer turns view projections into terminal text.
type Renderer struct {
	Locale    Locale
	Styles    Styles
	CellWidth int // display columns per calendar cell
	CellTasks int // task lines per calendar cell before "+N"
}

// NewRenderer returns a renderer with default cell geometry.
func NewRenderer(loc Locale, styles Styles) Renderer {
	return Renderer{
		Locale:    loc,
		Styles:    styles,
		CellWidth: defaultCellWidth,
		CellTasks: defaultCellTasks,
	}
}

// List renders the list view, one task per line, or the placeholder.
func (r Renderer) List(l List) string {
	if l.Empty() {
		return r.Styles.Placeholder.Render(r.Locale.NoTasks) + "\n"
	}

	labelWidth := 0
	for _, item := range l.Items {
		labelWidth = max(labelWidth, runewidth.StringWidth(item.Label))
	}

	var b strings.Builder

	for _, item := range l.Items {
		box := "[ ]"
		text := r.Styles.Pending.Render(item.Task.Text)

		if item.Task.Completed {
			box = "[x]"
			text = r.Styles.Completed.Render(item.Task.Text)
		}

		line := fmt.Sprintf("%s %s  %s  %s",
			box,
			r.Styles.ID.Render(item.ShortID),
			runewidth.FillRight(item.Label, labelWidth),
			text,
		)

		if item.Editing {
			line = r.Styles.Editing.Render(line + "  (editing)")
		}

		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String()
}

// Calendar renders the 6x7 grid with a title and weekday header.
func (r Renderer) Calendar(g Grid) string {
	width := max(r.CellWidth, 4)
	sep := " │ "

	var b strings.Builder

	b.WriteString(r.Styles.Title.Render(r.Locale.MonthTitle(g.Cursor.Year, g.Cursor.Month)))
	b.WriteByte('\n')

	header := make([]string, GridDays)
	for i, name := range r.Locale.Weekdays {
		header[i] = r.Styles.Header.Render(runewidth.FillRight(name, width))
	}

	b.WriteString(strings.Join(header, sep))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("─", (width+runewidth.StringWidth(sep))*GridDays-runewidth.StringWidth(sep)))
	b.WriteByte('\n')

	for w := 0; w < GridWeeks; w++ {
		week := g.Week(w)

		lines := make([][]string, 1+max(r.CellTasks, 0))
		for i := range lines {
			lines[i] = make([]string, GridDays)
		}

		for d, cell := range week {
			for i, text := range r.cellLines(cell, width) {
				lines[i][d] = r.styleCell(cell, i, text)
			}
		}

		for _, line := range lines {
			b.WriteString(strings.TrimRight(strings.Join(line, sep), " "))
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// cellLines returns 1+CellTasks padded lines: the day number, then tasks.
func (r Renderer) cellLines(cell Cell, width int) []string {
	n := max(r.CellTasks, 0)
	out := make([]string, 0, 1+n)

	day := fmt.Sprintf("%2d", cell.Day)
	if cell.Today {
		day += " " + r.Locale.Today
	}

	out = append(out, fit(day, width))

	if n == 0 {
		return out
	}

	shown := cell.Tasks
	overflow := 0

	if len(shown) > n {
		keep := n - 1
		overflow = len(shown) - keep
		shown = shown[:keep]
	}

	for _, t := range shown {
		mark := markPending
		if t.Completed {
			mark = markDone
		}

		out = append(out, fit(mark+" "+t.Text, width))
	}

	if overflow > 0 {
		out = append(out, fit(fmt.Sprintf("+%d", overflow), width))
	}

	for len(out) < 1+n {
		out = append(out, strings.Repeat(" ", width))
	}

	return out
}

func (r Renderer) styleCell(cell Cell, line int, text string) string {
	switch {
	case cell.OtherMonth:
		return r.Styles.OtherMonth.Render(text)
	case line == 0 && cell.Today:
		return r.Styles.Today.Render(text)
	case line > 0 && strings.HasPrefix(text, markDone):
		return r.Styles.Completed.Render(text)
	default:
		return text
	}
}

// fit truncates s to width display columns and pads it to exactly width.
func fit(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

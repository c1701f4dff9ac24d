package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/satishbabariya/sqlcrud/runtime/types"
	"github.com/spf13/cast"
)

var (
	// Out receives regular output
	Out io.Writer = os.Stdout
	// ErrOut receives errors
	ErrOut io.Writer = os.Stderr
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// NullText is how NULL values are shown
const NullText = "NULL"

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	fmt.Fprintln(ErrOut, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	fmt.Fprintln(Out, SecondaryStyle.Render(fmt.Sprintf(format, args...)))
}

// PrintSection prints a section header
func PrintSection(title string) {
	width := 80
	if w := pterm.GetTerminalWidth(); w > 0 && w < width {
		width = w
	}

	section := lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Render(TitleStyle.Render(title))

	fmt.Fprintln(Out, section)
}

// PrintRowCount prints the row count of the last statement
func PrintRowCount(n int64) {
	c := color.New(color.FgCyan, color.Bold)
	c.Fprintf(Out, "%d", n)
	if n == 1 {
		fmt.Fprintln(Out, " row")
		return
	}
	fmt.Fprintln(Out, " rows")
}

// FormatValue renders a scanned value for display
func FormatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return NullText
	case time.Time:
		return t.Format(time.RFC3339)
	case []byte:
		return string(t)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// RowsTable builds table data for rows. The header is the union of all
// columns in order of first appearance; missing cells are empty.
func RowsTable(rows []*types.Row) pterm.TableData {
	var headers []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, col := range row.Columns() {
			if !seen[col] {
				seen[col] = true
				headers = append(headers, col)
			}
		}
	}

	data := pterm.TableData{headers}
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, col := range headers {
			if v, ok := row.Get(col); ok {
				cells[i] = FormatValue(v)
			}
		}
		data = append(data, cells)
	}
	return data
}

// ColumnTable builds single-column table data for values
func ColumnTable(header string, values []interface{}) pterm.TableData {
	data := pterm.TableData{{header}}
	for _, v := range values {
		data = append(data, []string{FormatValue(v)})
	}
	return data
}

// PrintTable prints a table with a header row
func PrintTable(data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, out)
	return nil
}

// SQLMarkdown formats a statement and its arguments as markdown
func SQLMarkdown(title, query string, args []interface{}) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n```sql\n%s\n```\n", title, query)
	if len(args) > 0 {
		b.WriteString("\n| # | value |\n|---|-------|\n")
		for i, a := range args {
			fmt.Fprintf(&b, "| %d | `%s` |\n", i+1, FormatValue(a))
		}
	}
	return b.String()
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(content)
	if err != nil {
		return err
	}

	fmt.Fprint(Out, out)
	return nil
}

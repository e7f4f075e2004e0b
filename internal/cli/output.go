package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Writers used by the output helpers. Tests swap them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"})
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"})
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// colorsEnabled determines if color output is enabled
var colorsEnabled = true

func init() {
	// Disable colors if NO_COLOR environment variable is set
	if os.Getenv("NO_COLOR") != "" {
		colorsEnabled = false
	}
}

// colorize renders text with style when colors are enabled.
func colorize(text string, style lipgloss.Style) string {
	if !colorsEnabled {
		return text
	}
	return style.Render(text)
}

// Success prints a success message with a green checkmark
func Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(stdout, "%s %s\n", colorize("✓", successStyle), msg)
}

// Error prints an error message with a red X to stderr
func Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(stderr, "%s Error: %s\n", colorize("✗", errorStyle), msg)
}

// Warning prints a warning message with a yellow warning sign to stderr
func Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(stderr, "%s Warning: %s\n", colorize("⚠", warningStyle), msg)
}

// Info prints an informational message
func Info(format string, args ...interface{}) {
	fmt.Fprintln(stdout, fmt.Sprintf(format, args...))
}

// Header prints a section header with underline
func Header(text string) {
	fmt.Fprintln(stdout, colorize(text, boldStyle))
	fmt.Fprintln(stdout, strings.Repeat("=", len(text)))
	fmt.Fprintln(stdout)
}

// Section prints a simple section divider
func Section(text string) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, colorize(text, boldStyle))
	fmt.Fprintln(stdout, strings.Repeat("-", len(text)))
}

// Field prints a labeled field (key-value pair)
func Field(label, value string) {
	labelFormatted := fmt.Sprintf("%-16s", label+":")
	fmt.Fprintf(stdout, "%s %s\n", colorize(labelFormatted, mutedStyle), value)
}

// Table represents a simple text table
type Table struct {
	Headers []string
	Rows    [][]string
	writer  io.Writer
}

// NewTable creates a new table with the given headers
func NewTable(headers ...string) *Table {
	return &Table{
		Headers: headers,
		Rows:    [][]string{},
		writer:  stdout,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(values ...string) {
	t.Rows = append(t.Rows, values)
}

// Print renders the table
func (t *Table) Print() {
	if len(t.Headers) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		widths[i] = lipgloss.Width(header)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	// Headers are padded before styling so escape codes don't skew alignment
	headerCells := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		headerCells[i] = colorize(pad(h, widths[i]), boldStyle)
	}
	_, _ = fmt.Fprintln(t.writer, strings.TrimRight(strings.Join(headerCells, "  "), " ")) // Ignore write errors - main operation succeeded

	totalWidth := 0
	for _, w := range widths {
		totalWidth += w
	}
	totalWidth += 2 * (len(widths) - 1)
	_, _ = fmt.Fprintln(t.writer, strings.Repeat("-", totalWidth))

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i < len(widths) {
				cell = pad(cell, widths[i])
			}
			cells[i] = cell
		}
		_, _ = fmt.Fprintln(t.writer, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// JSON marshals and prints data as indented JSON
func JSON(v interface{}) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatBytes formats byte sizes in human-readable format (B, KB, MB, etc.)
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// TruncateString truncates a string to maxLen with ellipsis
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// EnableColors enables color output
func EnableColors() {
	colorsEnabled = true
}

// DisableColors disables color output
func DisableColors() {
	colorsEnabled = false
}

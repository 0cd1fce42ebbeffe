package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/logparser/logparser-go/pkg/logparser"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"table": true,
	"csv":   true,
	"jsonl": true,
}

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Underline(true)
	styleDebug  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleInfo   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleFatal  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true)
)

// OutputTable writes the visible rows as aligned columns separated by two
// spaces. With color set the header and the level column are styled.
func OutputTable(t *logparser.Table, visible []bool, color bool, out io.Writer) error {
	if t.Len() == 0 {
		return nil
	}
	rows, err := logparser.VisibleRecords(t.Records, visible)
	if err != nil {
		return err
	}

	widths := make([]int, len(t.Columns))
	for i, name := range t.Columns {
		widths[i] = lipgloss.Width(name)
	}
	for _, rec := range rows {
		for i := range widths {
			if w := lipgloss.Width(cell(rec, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var buf bytes.Buffer
	header := make([]string, len(t.Columns))
	for i, name := range t.Columns {
		header[i] = pad(name, widths[i])
		if color {
			header[i] = styleHeader.Render(header[i])
		}
	}
	writeLine(&buf, header)

	line := make([]string, len(t.Columns))
	for _, rec := range rows {
		for i := range line {
			v := pad(cell(rec, i), widths[i])
			if color && i == t.LevelPosition {
				v = styleLevel(strings.TrimSpace(v)).Render(v)
			}
			line[i] = v
		}
		writeLine(&buf, line)
	}

	_, err = out.Write(buf.Bytes())
	return err
}

// OutputCSV writes the visible rows as delimited text.
func OutputCSV(t *logparser.Table, visible []bool, delimiter rune, out io.Writer) error {
	return logparser.WriteDelimited(out, t, visible, logparser.WithDelimiter(delimiter))
}

// OutputJSONL writes one JSON object per visible row. Keys follow column
// order.
func OutputJSONL(t *logparser.Table, visible []bool, out io.Writer) error {
	if t.Len() == 0 {
		return nil
	}
	rows, err := logparser.VisibleRecords(t.Records, visible)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, rec := range rows {
		buf.WriteByte('{')
		for i, name := range t.Columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(name)
			if err != nil {
				return err
			}
			v, err := json.Marshal(cell(rec, i))
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteString("}\n")
	}
	_, err = out.Write(buf.Bytes())
	return err
}

// styleLevel picks a style by the usual severity names, case-insensitively.
func styleLevel(level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "DEBUG", "TRACE":
		return styleDebug
	case "WARN", "WARNING":
		return styleWarn
	case "ERROR", "ERR":
		return styleError
	case "FATAL", "CRITICAL", "PANIC":
		return styleFatal
	default:
		return styleInfo
	}
}

func cell(rec logparser.Record, i int) string {
	if i < len(rec) {
		return strings.ReplaceAll(strings.TrimSpace(rec[i]), "\n", " ")
	}
	return ""
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func writeLine(buf *bytes.Buffer, cells []string) {
	buf.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
	buf.WriteByte('\n')
}

// parseDelimiter accepts a single character, or "\t" and "tab" for a tab.
func parseDelimiter(s string) (rune, error) {
	switch s {
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r[0], nil
}

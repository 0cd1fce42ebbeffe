package logparser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// DefaultDelimiter separates fields in exported text.
const DefaultDelimiter = ';'

// ExportOption configures WriteDelimited.
type ExportOption func(*exportConfig)

type exportConfig struct {
	delimiter rune
	crlf      bool
}

// WithDelimiter sets the field delimiter. Default is ';'.
func WithDelimiter(d rune) ExportOption {
	return func(c *exportConfig) {
		c.delimiter = d
	}
}

// WithCRLF terminates lines with "\r\n" instead of the default "\n".
func WithCRLF(enabled bool) ExportOption {
	return func(c *exportConfig) {
		c.crlf = enabled
	}
}

// WriteDelimited writes a header line of column names followed by every
// visible record of t, in record order. A nil visible slice exports every
// record. Nothing is written for an empty table.
//
// Each cell is trimmed and "\r\n" inside it becomes "\n". Lines end in
// "\n" unless WithCRLF is given. Write failures are returned as *ExportError.
func WriteDelimited(w io.Writer, t *Table, visible []bool, opts ...ExportOption) error {
	cfg := exportConfig{delimiter: DefaultDelimiter}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !validDelimiter(cfg.delimiter) {
		return fmt.Errorf("invalid delimiter %q", cfg.delimiter)
	}
	if t.Len() == 0 {
		return nil
	}
	rows, err := VisibleRecords(t.Records, visible)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = cfg.delimiter
	cw.UseCRLF = cfg.crlf

	if err := cw.Write(t.Columns); err != nil {
		return exportError(err)
	}
	line := make([]string, len(t.Columns))
	for _, rec := range rows {
		for i := range line {
			line[i] = ""
			if i < len(rec) {
				line[i] = normalizeCell(rec[i])
			}
		}
		if err := cw.Write(line); err != nil {
			return exportError(err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return exportError(err)
	}
	return nil
}

// ToDelimitedText is WriteDelimited into a byte slice.
func ToDelimitedText(t *Table, visible []bool, opts ...ExportOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDelimited(&buf, t, visible, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normalizeCell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n")
}

func exportError(err error) error {
	return &ExportError{Cause: fmt.Errorf("writing delimited text: %w", err)}
}

func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError && utf8.ValidRune(r)
}

package logparser

import (
	"regexp"
	"sort"
	"strings"
)

// Record is one extracted row. Cells are in the order of Table.Columns.
type Record []string

// LevelSet is the set of distinct level values observed in one extraction
// pass.
type LevelSet map[string]struct{}

// Add records a level value.
func (s LevelSet) Add(level string) {
	s[level] = struct{}{}
}

// Has reports whether level was observed.
func (s LevelSet) Has(level string) bool {
	_, ok := s[level]
	return ok
}

// Sorted returns the observed levels in lexical order.
func (s LevelSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Table is the result of one extraction pass.
type Table struct {
	Columns []string
	Records []Record
	Levels  LevelSet

	// LevelPosition is the index of the level column, or -1.
	LevelPosition int
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Value returns the cell of record row in the named column.
func (t *Table) Value(row int, column string) (string, bool) {
	if row < 0 || row >= len(t.Records) {
		return "", false
	}
	for i, name := range t.Columns {
		if name == column && i < len(t.Records[row]) {
			return t.Records[row][i], true
		}
	}
	return "", false
}

// Extract applies pattern to text and builds one record per non-overlapping
// match, in text order. pattern is used instead of cfg.Pattern so callers can
// try an edited expression without reloading the configuration.
//
// Returns:
//   - (*Table, nil): extraction succeeded; zero matches yield an empty table
//     with its columns set
//   - (nil, *RegexError): pattern does not compile
//   - (nil, *IndexError): a column references a group the pattern lacks
//   - (nil, *DateFormatError): a time value does not match the time format
//
// Any error aborts the whole pass; no partial table is returned.
func Extract(pattern string, cfg *Config, text string) (*Table, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &RegexError{Pattern: pattern, Cause: err}
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	matches := re.FindAllStringSubmatch(text, -1)

	t := &Table{
		Columns:       cfg.ColumnNames(),
		Records:       make([]Record, 0, len(matches)),
		Levels:        make(LevelSet),
		LevelPosition: cfg.LevelPosition,
	}

	groups := re.NumSubexp()
	for _, m := range matches {
		rec := make(Record, len(cfg.Columns))
		for i, col := range cfg.Columns {
			// m[0] is the whole match, capture groups start at 1.
			if col.Group < 1 || col.Group >= len(m) {
				return nil, &IndexError{Column: col.Name, Group: col.Group, Groups: groups}
			}
			cell := m[col.Group]

			switch col.Kind {
			case ColumnTime:
				formatted, err := ReformatDate(cell, cfg.Time.Format, cfg.Time.Layout)
				if err != nil {
					return nil, &DateFormatError{
						Column: col.Name,
						Value:  cell,
						Format: cfg.Time.Format,
						Cause:  err,
					}
				}
				cell = formatted
			case ColumnLevel:
				t.Levels.Add(cell)
			}
			rec[i] = cell
		}
		t.Records = append(t.Records, rec)
	}

	return t, nil
}

package logparser

import (
	"fmt"
	"io"
	"log/slog"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SessionOption configures a Session using the functional options pattern.
type SessionOption func(*Session)

// WithLogger sets the logger for debug output. Default discards everything.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithExportDelimiter sets the delimiter used by Session.Export.
func WithExportDelimiter(d rune) SessionOption {
	return func(s *Session) {
		s.delimiter = d
	}
}

// Session holds the state one operator works on: the loaded configuration,
// the pattern to extract with, the extracted table, the level selection and
// the visibility computed by the last Filter.
//
// Every state-changing method either fully replaces the affected state or
// leaves it untouched. A Session is not safe for concurrent use.
type Session struct {
	log       *slog.Logger
	delimiter rune

	cfg        *Config
	pattern    string
	table      *Table
	selection  Selection
	visibility []bool
}

// NewSession returns an empty session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		log:       discardLogger,
		delimiter: DefaultDelimiter,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// LoadConfig replaces the current configuration with one built from raw.
// The pattern is reset to the configured one, the selection is seeded with
// every non-numeric label hidden, and any extracted table is dropped.
// On error the session is unchanged.
func (s *Session) LoadConfig(raw *RawConfig) error {
	cfg, err := LoadConfig(raw)
	if err != nil {
		s.log.Error("config load failed", "error", err)
		return err
	}
	s.install(cfg)
	return nil
}

// SetConfig installs an already loaded configuration, like LoadConfig.
func (s *Session) SetConfig(cfg *Config) error {
	if cfg == nil {
		return ErrNoConfig
	}
	s.install(cfg)
	return nil
}

func (s *Session) install(cfg *Config) {
	s.cfg = cfg
	s.pattern = cfg.Pattern
	s.selection = NewSelection(cfg.Levels)
	s.table = nil
	s.visibility = nil
	s.log.Debug("config loaded",
		"columns", cfg.ColumnNames(),
		"level_position", cfg.LevelPosition,
		"time_group", cfg.Time.Group,
		"level_group", cfg.Levels.Group)
}

// Reset drops the configuration and everything derived from it.
func (s *Session) Reset() {
	s.cfg = nil
	s.pattern = ""
	s.table = nil
	s.selection = nil
	s.visibility = nil
	s.log.Debug("session reset")
}

// Config returns the loaded configuration, or nil.
func (s *Session) Config() *Config {
	return s.cfg
}

// Pattern returns the pattern the next Extract will use.
func (s *Session) Pattern() string {
	return s.pattern
}

// SetPattern overrides the pattern for subsequent extractions without
// touching the loaded configuration.
func (s *Session) SetPattern(pattern string) {
	s.pattern = pattern
}

// Table returns the current table, or nil.
func (s *Session) Table() *Table {
	return s.table
}

// Selection returns a copy of the level selection.
func (s *Session) Selection() Selection {
	return s.selection.Clone()
}

// Visibility returns the flags computed by the last Filter, or nil when the
// current table has not been filtered.
func (s *Session) Visibility() []bool {
	return s.visibility
}

// Extract runs the extraction engine over text with the session pattern.
// On success the table is replaced and previous visibility is cleared.
// On error the previous table stays in place.
func (s *Session) Extract(text string) (*Table, error) {
	if s.cfg == nil {
		return nil, ErrNoConfig
	}
	t, err := Extract(s.pattern, s.cfg, text)
	if err != nil {
		s.log.Error("extraction failed", "error", err)
		return nil, err
	}
	s.table = t
	s.visibility = nil
	s.log.Debug("extraction done", "records", len(t.Records), "levels", t.Levels.Sorted())
	return t, nil
}

// SetVisible sets the visibility of one level label.
func (s *Session) SetVisible(label string, visible bool) error {
	if s.cfg == nil {
		return ErrNoConfig
	}
	if _, ok := s.selection[label]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, label)
	}
	s.selection[label] = visible
	return nil
}

// Toggle flips the visibility of one level label and returns the new value.
func (s *Session) Toggle(label string) (bool, error) {
	if s.cfg == nil {
		return false, ErrNoConfig
	}
	v, ok := s.selection[label]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownLevel, label)
	}
	s.selection[label] = !v
	return !v, nil
}

// MissingLevels returns the observed levels of the current table that the
// configuration does not know.
func (s *Session) MissingLevels() []string {
	if s.cfg == nil || s.table == nil {
		return nil
	}
	return CheckMissing(s.table.Levels, s.cfg.Levels)
}

// Filter computes row visibility from the current selection and stores it.
// It is refused with *MissingLevelError while any observed level is not
// configured.
func (s *Session) Filter() ([]bool, error) {
	if s.cfg == nil {
		return nil, ErrNoConfig
	}
	if s.table == nil {
		return nil, ErrNoTable
	}
	if missing := s.MissingLevels(); len(missing) > 0 {
		err := &MissingLevelError{Labels: missing}
		s.log.Warn("filter refused", "error", err)
		return nil, err
	}
	visible, err := ComputeVisibility(s.table.Records, s.table.LevelPosition, s.selection, s.cfg.Levels)
	if err != nil {
		s.log.Error("filter failed", "error", err)
		return nil, err
	}
	s.visibility = visible
	return visible, nil
}

// VisibleRecords returns the rows that Export would write.
func (s *Session) VisibleRecords() []Record {
	if s.table == nil {
		return nil
	}
	rows, err := VisibleRecords(s.table.Records, s.visibility)
	if err != nil {
		return nil
	}
	return rows
}

// Export writes the visible rows of the current table to w. It is a no-op
// when nothing has been extracted or the table is empty.
func (s *Session) Export(w io.Writer) error {
	if s.table.Len() == 0 {
		s.log.Debug("export skipped, table is empty")
		return nil
	}
	if err := WriteDelimited(w, s.table, s.visibility, WithDelimiter(s.delimiter)); err != nil {
		s.log.Error("export failed", "error", err)
		return err
	}
	return nil
}

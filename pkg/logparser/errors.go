package logparser

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by Session when an action is invoked out of order.
var (
	ErrNoConfig     = errors.New("no configuration loaded")
	ErrNoTable      = errors.New("no extracted table")
	ErrUnknownLevel = errors.New("unknown level label")
)

// ConfigError represents a missing or malformed configuration section or key.
// A load that fails with ConfigError leaves no partial configuration behind.
type ConfigError struct {
	Section string
	Key     string // may be empty when the whole section is at fault
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error: [%s] %s: %s", e.Section, e.Key, e.Message)
	}
	return fmt.Sprintf("config error: [%s]: %s", e.Section, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// RegexError is returned when the extraction pattern does not compile.
type RegexError struct {
	Pattern string
	Cause   error
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("invalid regular expression %q: %v", e.Pattern, e.Cause)
}

// Unwrap returns the underlying compile error.
func (e *RegexError) Unwrap() error {
	return e.Cause
}

// IndexError reports a column whose capture group does not exist in the
// pattern. It aborts the whole extraction pass.
type IndexError struct {
	Column string
	Group  int
	Groups int // number of capture groups the pattern actually has
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("column %q references capture group %d, pattern has %d", e.Column, e.Group, e.Groups)
}

// DateFormatError reports a time value that does not match the configured
// input format. It aborts the whole extraction pass.
type DateFormatError struct {
	Column string
	Value  string
	Format string
	Cause  error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("column %q: value %q does not match date format %q", e.Column, e.Value, e.Format)
}

// Unwrap returns the underlying parse error.
func (e *DateFormatError) Unwrap() error {
	return e.Cause
}

// MissingLevelError lists observed level labels that the level map does not
// know about. Filtering is refused until they are configured.
type MissingLevelError struct {
	Labels []string
}

func (e *MissingLevelError) Error() string {
	return fmt.Sprintf("missing levels in config: %s", strings.Join(e.Labels, ", "))
}

// IncompleteTableError is returned when filtering a table that has no level
// cell for some row, or no level column at all.
type IncompleteTableError struct {
	Row      int
	Position int
}

func (e *IncompleteTableError) Error() string {
	if e.Position < 0 {
		return "table has no level column"
	}
	return fmt.Sprintf("row %d has no value at level column %d", e.Row, e.Position)
}

// ExportError wraps a failure to write exported rows to their destination.
type ExportError struct {
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed: %v", e.Cause)
}

// Unwrap returns the underlying write error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

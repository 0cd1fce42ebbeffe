package logparser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Section and key names of a configuration.
const (
	SectionRegexp    = "regexp"
	SectionLevelMap  = "log_level_map"
	SectionTimeMap   = "time_map"
	SectionColumnMap = "regexp_column_map"

	KeyRegexp     = "regexp"
	KeyLevelGroup = "log_map_fid"
	KeyTimeGroup  = "log_time_fid"
	KeyTimeFormat = "time_format"
	KeyReqFormat  = "req_format"
)

// MaxPatternLength is the maximum allowed length for a configured pattern.
const MaxPatternLength = 4096

// ColumnKind tells how a column's cell value is derived from a match.
type ColumnKind int

const (
	// ColumnLiteral copies the captured group as is.
	ColumnLiteral ColumnKind = iota
	// ColumnTime reformats the captured group from the time format to the
	// requested format.
	ColumnTime
	// ColumnLevel copies the captured group and records it as a level label.
	ColumnLevel
)

func (k ColumnKind) String() string {
	switch k {
	case ColumnLiteral:
		return "literal"
	case ColumnTime:
		return "time"
	case ColumnLevel:
		return "level"
	default:
		return fmt.Sprintf("ColumnKind(%d)", int(k))
	}
}

// Column is a resolved output column.
type Column struct {
	Name  string
	Kind  ColumnKind
	Group int // 1-based capture group index
}

// TimeMap describes the time field of a configuration.
type TimeMap struct {
	Group  int    // log_time_fid
	Format string // time_format, strftime directives
	Layout string // req_format, strftime directives
}

// LevelEntry is one key/label pair of the level map.
type LevelEntry struct {
	Key   string
	Label string
}

// LevelMap describes the level field of a configuration.
type LevelMap struct {
	Group   int // log_map_fid
	Entries []LevelEntry
}

// Labels returns the configured level labels in configuration order.
func (m LevelMap) Labels() []string {
	labels := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		labels = append(labels, e.Label)
	}
	return labels
}

// Has reports whether label is one of the configured labels.
func (m LevelMap) Has(label string) bool {
	for _, e := range m.Entries {
		if e.Label == label {
			return true
		}
	}
	return false
}

// Config is a loaded extraction configuration. It is never modified after
// LoadConfig returns it.
type Config struct {
	Pattern string
	Columns []Column
	Time    TimeMap
	Levels  LevelMap

	// LevelPosition is the index in Columns of the level column, or -1.
	LevelPosition int
}

// ColumnNames returns the column names in output order.
func (c *Config) ColumnNames() []string {
	names := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		names[i] = col.Name
	}
	return names
}

// IsNumericLabel reports whether a level label is numeric. Numeric labels
// bypass classification: they get no selection entry and are always shown.
func IsNumericLabel(label string) bool {
	if label == "" {
		return false
	}
	for _, r := range label {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// LoadConfig builds a Config from already-parsed configuration sections.
//
// Required sections are regexp, log_level_map, time_map and
// regexp_column_map. Every failure is a *ConfigError and no Config is
// returned with it.
func LoadConfig(raw *RawConfig) (*Config, error) {
	if raw == nil {
		return nil, &ConfigError{Message: "configuration is nil"}
	}

	pattern, err := loadPattern(raw)
	if err != nil {
		return nil, err
	}
	levels, err := loadLevelMap(raw)
	if err != nil {
		return nil, err
	}
	tm, err := loadTimeMap(raw)
	if err != nil {
		return nil, err
	}
	if tm.Group == levels.Group {
		return nil, &ConfigError{
			Section: SectionTimeMap,
			Key:     KeyTimeGroup,
			Message: fmt.Sprintf("group %d is also the level group (%s)", tm.Group, KeyLevelGroup),
		}
	}

	cfg := &Config{
		Pattern:       pattern,
		Time:          tm,
		Levels:        levels,
		LevelPosition: -1,
	}
	if err := cfg.loadColumns(raw); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadPattern(raw *RawConfig) (string, error) {
	sec, err := requireSection(raw, SectionRegexp)
	if err != nil {
		return "", err
	}
	pattern, err := requireKey(sec, KeyRegexp)
	if err != nil {
		return "", err
	}
	if len(pattern) > MaxPatternLength {
		return "", &ConfigError{
			Section: SectionRegexp,
			Key:     KeyRegexp,
			Message: fmt.Sprintf("pattern too long: %d bytes (max %d)", len(pattern), MaxPatternLength),
		}
	}
	return pattern, nil
}

func loadLevelMap(raw *RawConfig) (LevelMap, error) {
	sec, err := requireSection(raw, SectionLevelMap)
	if err != nil {
		return LevelMap{}, err
	}

	lm := LevelMap{Entries: make([]LevelEntry, 0, len(sec.Entries))}
	groupSet := false
	for _, e := range sec.Entries {
		value := unquote(e.Value)
		if strings.EqualFold(e.Key, KeyLevelGroup) {
			g, err := parseGroup(SectionLevelMap, KeyLevelGroup, value)
			if err != nil {
				return LevelMap{}, err
			}
			lm.Group = g
			groupSet = true
			continue
		}
		if value == "" {
			return LevelMap{}, &ConfigError{Section: SectionLevelMap, Key: e.Key, Message: "level label is empty"}
		}
		lm.Entries = append(lm.Entries, LevelEntry{Key: e.Key, Label: value})
	}
	if !groupSet {
		return LevelMap{}, &ConfigError{Section: SectionLevelMap, Key: KeyLevelGroup, Message: "key is required"}
	}
	return lm, nil
}

func loadTimeMap(raw *RawConfig) (TimeMap, error) {
	sec, err := requireSection(raw, SectionTimeMap)
	if err != nil {
		return TimeMap{}, err
	}

	fid, err := requireKey(sec, KeyTimeGroup)
	if err != nil {
		return TimeMap{}, err
	}
	g, err := parseGroup(SectionTimeMap, KeyTimeGroup, unquote(fid))
	if err != nil {
		return TimeMap{}, err
	}
	format, err := requireKey(sec, KeyTimeFormat)
	if err != nil {
		return TimeMap{}, err
	}
	layout, err := requireKey(sec, KeyReqFormat)
	if err != nil {
		return TimeMap{}, err
	}
	return TimeMap{Group: g, Format: format, Layout: layout}, nil
}

// loadColumns resolves each column entry into a tagged Column.
// Digits-only values are literal group indexes; a value naming a time map
// key, any key of the time_map section, selects the time group; any other
// word selects the level group.
// Literal columns pointing at the time or level group take that role.
func (c *Config) loadColumns(raw *RawConfig) error {
	sec, err := requireSection(raw, SectionColumnMap)
	if err != nil {
		return err
	}
	if len(sec.Entries) == 0 {
		return &ConfigError{Section: SectionColumnMap, Message: "at least one column is required"}
	}
	timeSec, err := requireSection(raw, SectionTimeMap)
	if err != nil {
		return err
	}

	seen := make(map[string]int, len(sec.Entries))
	c.Columns = make([]Column, 0, len(sec.Entries))
	for i, e := range sec.Entries {
		if e.Key == "" {
			return &ConfigError{Section: SectionColumnMap, Message: fmt.Sprintf("column %d has no name", i)}
		}
		if prev, ok := seen[e.Key]; ok {
			return &ConfigError{
				Section: SectionColumnMap,
				Key:     e.Key,
				Message: fmt.Sprintf("duplicate column (previously defined at position %d)", prev),
			}
		}
		seen[e.Key] = i

		value := strings.TrimSpace(unquote(e.Value))
		col := Column{Name: e.Key}
		switch {
		case isDigits(value):
			g, err := parseGroup(SectionColumnMap, e.Key, value)
			if err != nil {
				return err
			}
			col.Group = g
			switch g {
			case c.Time.Group:
				col.Kind = ColumnTime
			case c.Levels.Group:
				col.Kind = ColumnLevel
			default:
				col.Kind = ColumnLiteral
			}
		case isTimeKey(timeSec, value):
			col.Kind = ColumnTime
			col.Group = c.Time.Group
		default:
			col.Kind = ColumnLevel
			col.Group = c.Levels.Group
		}
		if col.Kind == ColumnLevel {
			c.LevelPosition = i
		}
		c.Columns = append(c.Columns, col)
	}
	return nil
}

func requireSection(raw *RawConfig, name string) (*RawSection, error) {
	sec, ok := raw.Section(name)
	if !ok {
		return nil, &ConfigError{Section: name, Message: "section is required"}
	}
	return sec, nil
}

func requireKey(sec *RawSection, key string) (string, error) {
	v, ok := sec.Get(key)
	if !ok {
		return "", &ConfigError{Section: sec.Name, Key: key, Message: "key is required"}
	}
	if strings.TrimSpace(v) == "" {
		return "", &ConfigError{Section: sec.Name, Key: key, Message: "value is empty"}
	}
	return v, nil
}

func parseGroup(section, key, value string) (int, error) {
	g, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &ConfigError{
			Section: section,
			Key:     key,
			Message: fmt.Sprintf("%q is not a group index", value),
			Cause:   err,
		}
	}
	return g, nil
}

// isTimeKey reports whether value names a key of the time_map section,
// compared case-insensitively.
func isTimeKey(timeSec *RawSection, value string) bool {
	if value == "" {
		return false
	}
	_, ok := timeSec.Get(value)
	return ok
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func unquote(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

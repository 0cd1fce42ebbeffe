package logparser

import "strings"

// RawConfig is a configuration as read from its source: named sections of
// ordered key/value entries, with no interpretation applied. Package
// configfile decodes INI and YAML files into this form.
type RawConfig struct {
	Sections []RawSection
}

// RawSection is one named section of a RawConfig.
type RawSection struct {
	Name    string
	Entries []RawEntry
}

// RawEntry is one key/value pair. Entry order is significant for the
// column map.
type RawEntry struct {
	Key   string
	Value string
}

// Section returns the section with the given name, compared
// case-insensitively.
func (r *RawConfig) Section(name string) (*RawSection, bool) {
	for i := range r.Sections {
		if strings.EqualFold(r.Sections[i].Name, name) {
			return &r.Sections[i], true
		}
	}
	return nil, false
}

// Set adds or replaces an entry, creating the section when needed.
func (r *RawConfig) Set(section, key, value string) {
	sec, ok := r.Section(section)
	if !ok {
		r.Sections = append(r.Sections, RawSection{Name: section})
		sec = &r.Sections[len(r.Sections)-1]
	}
	sec.Set(key, value)
}

// Get returns the value for key, compared case-insensitively.
func (s *RawSection) Get(key string) (string, bool) {
	for _, e := range s.Entries {
		if strings.EqualFold(e.Key, key) {
			return e.Value, true
		}
	}
	return "", false
}

// Set adds an entry or replaces the value of an existing one in place.
func (s *RawSection) Set(key, value string) {
	for i := range s.Entries {
		if strings.EqualFold(s.Entries[i].Key, key) {
			s.Entries[i].Value = value
			return
		}
	}
	s.Entries = append(s.Entries, RawEntry{Key: key, Value: value})
}

package configfile

import (
	"fmt"
	"strings"

	"github.com/logparser/logparser-go/pkg/logparser"
	"gopkg.in/ini.v1"
)

// iniOptions mirror Python configparser defaults: names are case-insensitive,
// '#' and ';' only start comments at the beginning of a line, and quotes
// around values are kept.
var iniOptions = ini.LoadOptions{
	Insensitive:             true,
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
}

func decodeINI(data []byte) (*logparser.RawConfig, error) {
	f, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse INI: %w", err)
	}

	raw := &logparser.RawConfig{}
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		rs := logparser.RawSection{Name: sec.Name()}
		for _, k := range sec.Keys() {
			rs.Entries = append(rs.Entries, logparser.RawEntry{
				Key:   k.Name(),
				Value: unescapePercent(k.Value()),
			})
		}
		raw.Sections = append(raw.Sections, rs)
	}
	return raw, nil
}

// unescapePercent turns "%%" into "%", the escape configparser requires for
// strftime directives in values.
func unescapePercent(s string) string {
	return strings.ReplaceAll(s, "%%", "%")
}

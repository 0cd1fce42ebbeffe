package configfile

import (
	"errors"
	"fmt"

	"github.com/logparser/logparser-go/pkg/logparser"
	"gopkg.in/yaml.v3"
)

// decodeYAML walks the document node by node so the order of the column map
// is preserved; decoding into a Go map would lose it.
func decodeYAML(data []byte) (*logparser.RawConfig, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("failed to parse YAML: empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to parse YAML: line %d: top level must be a mapping of sections", root.Line)
	}

	raw := &logparser.RawConfig{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name, body := root.Content[i], root.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("failed to parse YAML: line %d: section %q must be a mapping", body.Line, name.Value)
		}
		rs := logparser.RawSection{Name: name.Value}
		for j := 0; j+1 < len(body.Content); j += 2 {
			key, value := body.Content[j], body.Content[j+1]
			if value.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("failed to parse YAML: line %d: %s.%s must be a scalar", value.Line, name.Value, key.Value)
			}
			rs.Entries = append(rs.Entries, logparser.RawEntry{Key: key.Value, Value: value.Value})
		}
		raw.Sections = append(raw.Sections, rs)
	}
	return raw, nil
}

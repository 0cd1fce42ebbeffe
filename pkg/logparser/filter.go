package logparser

import "fmt"

// Selection maps level labels to their visibility.
type Selection map[string]bool

// NewSelection returns a selection with every non-numeric label of lm
// hidden.
func NewSelection(lm LevelMap) Selection {
	sel := make(Selection, len(lm.Entries))
	for _, e := range lm.Entries {
		if IsNumericLabel(e.Label) {
			continue
		}
		sel[e.Label] = false
	}
	return sel
}

// Labels returns the selectable labels in configuration order of lm.
func (s Selection) Labels(lm LevelMap) []string {
	var out []string
	seen := make(map[string]bool, len(s))
	for _, e := range lm.Entries {
		if _, ok := s[e.Label]; ok && !seen[e.Label] {
			out = append(out, e.Label)
			seen[e.Label] = true
		}
	}
	return out
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ComputeVisibility returns one visibility flag per record, in record order.
// A record is visible iff sel[record[levelPosition]] is true; records with a
// numeric level registered in lm are always visible.
//
// Returns *IncompleteTableError when levelPosition is negative or a record
// has no cell at levelPosition, and *MissingLevelError for a level that is
// neither in sel nor a numeric label of lm.
func ComputeVisibility(records []Record, levelPosition int, sel Selection, lm LevelMap) ([]bool, error) {
	if len(records) == 0 {
		return []bool{}, nil
	}
	if levelPosition < 0 {
		return nil, &IncompleteTableError{Row: 0, Position: levelPosition}
	}

	visible := make([]bool, len(records))
	for i, rec := range records {
		if levelPosition >= len(rec) {
			return nil, &IncompleteTableError{Row: i, Position: levelPosition}
		}
		level := rec[levelPosition]
		if show, ok := sel[level]; ok {
			visible[i] = show
			continue
		}
		if IsNumericLabel(level) && lm.Has(level) {
			visible[i] = true
			continue
		}
		return nil, &MissingLevelError{Labels: []string{level}}
	}
	return visible, nil
}

// VisibleRecords returns the records whose flag is set. A nil visibility
// slice means every record is visible.
func VisibleRecords(records []Record, visible []bool) ([]Record, error) {
	if visible == nil {
		return records, nil
	}
	if len(visible) != len(records) {
		return nil, fmt.Errorf("visibility has %d entries for %d records", len(visible), len(records))
	}
	out := make([]Record, 0, len(records))
	for i, rec := range records {
		if visible[i] {
			out = append(out, rec)
		}
	}
	return out, nil
}

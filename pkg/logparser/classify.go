package logparser

// CheckMissing returns the observed levels that are not labels of lm, sorted.
// Filtering must not proceed while the result is non-empty, so rows whose
// level was never classified are not hidden silently. A numeric level is
// missing too unless lm registers it.
func CheckMissing(levels LevelSet, lm LevelMap) []string {
	var missing []string
	for _, l := range levels.Sorted() {
		if !lm.Has(l) {
			missing = append(missing, l)
		}
	}
	return missing
}

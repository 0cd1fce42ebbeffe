package logparser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/itchyny/timefmt-go"
)

// ErrInvalidDate is returned by ReformatDate for a value that matches the
// format but names a day the calendar does not have, like 2023-02-29.
var ErrInvalidDate = errors.New("day is out of range for month")

// ReformatDate parses value with the strftime format from and renders it with
// the strftime format to. Parsing is strict: the whole value must match and
// the date must exist.
func ReformatDate(value, from, to string) (string, error) {
	t, err := timefmt.Parse(value, from)
	if err != nil {
		return "", err
	}
	// time.Date normalizes Feb 30 into Mar 1; rendering back exposes it.
	if !sameNumbers(value, timefmt.Format(t, from)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return timefmt.Format(t, to), nil
}

// sameNumbers reports whether a and b carry the same digit runs in the same
// order. Runs compare by value, so padding does not matter, and fractions
// compare without trailing zeros. Strings with a different number of runs
// are not comparable and count as the same.
func sameNumbers(a, b string) bool {
	ra, rb := digitRuns(a), digitRuns(b)
	if len(ra) != len(rb) {
		return true
	}
	for i := range ra {
		if ra[i] == rb[i] {
			continue
		}
		na, errA := strconv.Atoi(ra[i])
		nb, errB := strconv.Atoi(rb[i])
		if errA == nil && errB == nil && na == nb {
			continue
		}
		if strings.TrimRight(ra[i], "0") == strings.TrimRight(rb[i], "0") {
			continue
		}
		return false
	}
	return true
}

func digitRuns(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r < '0' || r > '9' })
}

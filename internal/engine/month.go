package engine

import (
	"time"

	"github.com/rotisserie/eris"
)

// NormalizeMonth accepts a month token as "YYYY-MM" or "YYYY-MM-DD" and
// returns the full date form; 7-character month strings get "-01"
// appended.
func NormalizeMonth(s string) (string, error) {
	if len(s) == 7 {
		s += "-01"
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", eris.Wrapf(err, "engine: invalid month token %q", s)
	}
	return s, nil
}

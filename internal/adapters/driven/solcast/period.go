package solcast

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parsePeriod parses the ISO 8601 time durations Solcast reports, such as
// "PT30M", "PT1H" or "PT1H30M". An empty value yields zero.
func parsePeriod(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	rest, ok := strings.CutPrefix(strings.ToUpper(s), "PT")
	if !ok || rest == "" {
		return 0, fmt.Errorf("solcast: unsupported period %q", s)
	}

	var total time.Duration
	for rest != "" {
		i := strings.IndexAny(rest, "HMS")
		if i <= 0 {
			return 0, fmt.Errorf("solcast: unsupported period %q", s)
		}
		n, err := strconv.ParseFloat(rest[:i], 64)
		if err != nil {
			return 0, fmt.Errorf("solcast: unsupported period %q", s)
		}
		var unit time.Duration
		switch rest[i] {
		case 'H':
			unit = time.Hour
		case 'M':
			unit = time.Minute
		default:
			unit = time.Second
		}
		total += time.Duration(n * float64(unit))
		rest = rest[i+1:]
	}
	return total, nil
}

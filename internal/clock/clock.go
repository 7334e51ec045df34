package clock

import (
	"strings"
	"time"
)

const (
	minutesPerDay  = 24 * 60
	halfDayMinutes = 12 * 60
)

var clockFormats = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3:04 pm",
	"3:04pm",
	"15:04:05",
}

// ParseClock reads a time-of-day from strings such as "10:25 EDT" or
// "3:05 PM CDT" and returns minutes after midnight. Trailing tokens (zone
// abbreviations, annotations) are ignored.
func ParseClock(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, &time.ParseError{Value: s, Message: "empty time string"}
	}

	candidates := []string{fields[0]}
	if len(fields) > 1 {
		candidates = append([]string{fields[0] + " " + fields[1]}, candidates...)
	}

	for _, candidate := range candidates {
		for _, format := range clockFormats {
			if t, err := time.Parse(format, candidate); err == nil {
				return t.Hour()*60 + t.Minute(), nil
			}
		}
	}

	return 0, &time.ParseError{
		Value:   s,
		Message: "unable to parse time of day",
	}
}

// DeltaMinutes returns actual minus scheduled in minutes. Differences larger
// than twelve hours are taken to cross midnight, so 23:50 -> 00:10 is +20.
func DeltaMinutes(scheduled, actual string) (int, error) {
	s, err := ParseClock(scheduled)
	if err != nil {
		return 0, err
	}
	a, err := ParseClock(actual)
	if err != nil {
		return 0, err
	}
	return wrap(a - s), nil
}

func wrap(delta int) int {
	switch {
	case delta > halfDayMinutes:
		return delta - minutesPerDay
	case delta < -halfDayMinutes:
		return delta + minutesPerDay
	default:
		return delta
	}
}

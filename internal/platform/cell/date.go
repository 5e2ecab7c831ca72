package cell

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateKey is a (year, month, day) ordering key for DD/MM/YYYY sheet dates.
// The zero value is the smallest possible key and is what every malformed
// date maps to.
type DateKey struct {
	Year  int
	Month int
	Day   int
}

// ParseDateDMY parses a DD/MM/YYYY literal. Non-conforming input returns the
// zero key.
func ParseDateDMY(raw string) DateKey {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 {
		return DateKey{}
	}

	values := [3]int{}
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return DateKey{}
		}
		values[i] = n
	}

	return DateKey{Year: values[2], Month: values[1], Day: values[0]}
}

// Compare returns -1, 0 or 1 ordering by year, then month, then day.
func (k DateKey) Compare(other DateKey) int {
	switch {
	case k.Year != other.Year:
		return cmpInt(k.Year, other.Year)
	case k.Month != other.Month:
		return cmpInt(k.Month, other.Month)
	default:
		return cmpInt(k.Day, other.Day)
	}
}

func (k DateKey) Before(other DateKey) bool {
	return k.Compare(other) < 0
}

func (k DateKey) IsZero() bool {
	return k == DateKey{}
}

// Valid reports whether the key names a real calendar day.
func (k DateKey) Valid() bool {
	if k.Year < 1 || k.Month < 1 || k.Month > 12 || k.Day < 1 {
		return false
	}
	t := k.Time()
	return t.Year() == k.Year && int(t.Month()) == k.Month && t.Day() == k.Day
}

// Time converts the key to midnight UTC. Out-of-range parts are normalized
// the way time.Date does.
func (k DateKey) Time() time.Time {
	return time.Date(k.Year, time.Month(k.Month), k.Day, 0, 0, 0, 0, time.UTC)
}

// String renders the key back in DD/MM/YYYY form.
func (k DateKey) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", k.Day, k.Month, k.Year)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

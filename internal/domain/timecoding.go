package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeCodec converts between numeric time values and time.Time using a
// CF-style units declaration such as "days since 1950-01-01T00:00:00Z".
type TimeCodec struct {
	epoch time.Time
	unit  time.Duration
}

// epochLayouts covers the date formats seen in CTD archive files. All are
// interpreted as UTC unless the string carries an explicit offset.
var epochLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimeUnits parses a "<unit> since <epoch>" declaration.
func ParseTimeUnits(units string) (TimeCodec, error) {
	fields := strings.Fields(strings.TrimSpace(units))
	if len(fields) < 3 || !strings.EqualFold(fields[1], "since") {
		return TimeCodec{}, fmt.Errorf("time units %q: expected \"<unit> since <epoch>\"", units)
	}

	var unit time.Duration
	switch strings.ToLower(strings.TrimSuffix(fields[0], "s")) + "s" {
	case "seconds", "secs":
		unit = time.Second
	case "minutes", "mins":
		unit = time.Minute
	case "hours", "hrs":
		unit = time.Hour
	case "days":
		unit = 24 * time.Hour
	default:
		return TimeCodec{}, fmt.Errorf("time units %q: unsupported unit %q", units, fields[0])
	}

	epochStr := strings.Join(fields[2:], " ")
	for _, layout := range epochLayouts {
		if epoch, err := time.Parse(layout, epochStr); err == nil {
			return TimeCodec{epoch: epoch.UTC(), unit: unit}, nil
		}
	}
	return TimeCodec{}, fmt.Errorf("time units %q: cannot parse epoch %q", units, epochStr)
}

// Decode converts a numeric offset from the epoch to a UTC time,
// rounded to the nearest second.
func (c TimeCodec) Decode(v float64) time.Time {
	seconds := v * c.unit.Seconds()
	return c.epoch.Add(time.Duration(seconds * float64(time.Second))).Round(time.Second)
}

// Encode converts a time to a numeric offset from the epoch.
func (c TimeCodec) Encode(t time.Time) float64 {
	return t.Sub(c.epoch).Seconds() / c.unit.Seconds()
}

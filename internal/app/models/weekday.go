package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Weekday is a teaching day. Courses only meet Monday through Friday.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// Weekdays lists the teaching days in declaration order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayLabels = map[Weekday]string{
	Monday:    "Lunes",
	Tuesday:   "Martes",
	Wednesday: "Miércoles",
	Thursday:  "Jueves",
	Friday:    "Viernes",
}

// ErrUnknownWeekday is returned when a day label is not a teaching day.
var ErrUnknownWeekday = errors.New("unknown weekday")

// Label returns the localized label shown in the catalog screens.
func (d Weekday) Label() string {
	return weekdayLabels[d]
}

// IsValid reports whether d is one of the teaching days.
func (d Weekday) IsValid() bool {
	_, ok := weekdayLabels[d]
	return ok
}

func (d Weekday) index() int {
	for i, w := range Weekdays {
		if w == d {
			return i
		}
	}
	return -1
}

// ParseWeekday accepts either the canonical value or the localized label, ignoring case.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for _, d := range Weekdays {
		if strings.EqualFold(s, string(d)) || strings.EqualFold(s, d.Label()) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// DaySet is an ordered set of weekdays. On the wire it is a single comma-joined string.
type DaySet []Weekday

// ParseDaySet splits a stored comma-joined value, keeping the stored order.
// Blank entries and repeated days are dropped.
func ParseDaySet(s string) (DaySet, error) {
	set := DaySet{}
	if strings.TrimSpace(s) == "" {
		return set, nil
	}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		if !set.Contains(d) {
			set = append(set, d)
		}
	}
	return set, nil
}

// String serializes the set as the comma-joined wire value.
func (s DaySet) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

// Len returns the number of selected days.
func (s DaySet) Len() int {
	return len(s)
}

// Contains reports whether d is selected.
func (s DaySet) Contains(d Weekday) bool {
	for _, x := range s {
		if x == d {
			return true
		}
	}
	return false
}

// Toggle returns a new set with d turned on or off. Turning a day on inserts it at its
// declaration-order position and never duplicates it.
func (s DaySet) Toggle(d Weekday, on bool) DaySet {
	out := make(DaySet, 0, len(s)+1)
	if !on {
		for _, x := range s {
			if x != d {
				out = append(out, x)
			}
		}
		return out
	}

	out = append(out, s...)
	if s.Contains(d) || !d.IsValid() {
		return out
	}
	pos := len(out)
	for i, x := range out {
		if x.index() > d.index() {
			pos = i
			break
		}
	}
	out = append(out, "")
	copy(out[pos+1:], out[pos:])
	out[pos] = d
	return out
}

// MarshalJSON encodes the set as its comma-joined string.
func (s DaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the comma-joined string or an array of day labels.
func (s *DaySet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		set, err := ParseDaySet(joined)
		if err != nil {
			return err
		}
		*s = set
		return nil
	}

	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return fmt.Errorf("days must be a comma separated string or a list of days: %w", err)
	}
	set, err := ParseDaySet(strings.Join(labels, ","))
	if err != nil {
		return err
	}
	*s = set
	return nil
}

package helpers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		// Use the global logger here, assuming logger might not be configured when this is called.
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// splitClock splits "HH:MM" into integer hour and minute.
func splitClock(clock string) (hours, minutes int, ok bool) {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return 0, 0, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	minutes, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return hours, minutes, true
}

// To24Hour converts a time picker value such as "01:05 PM" into "13:05".
// Values without both a clock and an AM/PM marker, or with a non-numeric clock, are
// returned unchanged. Hour and minute ranges are not checked.
func To24Hour(hhmmAmPm string) string {
	if hhmmAmPm == "" {
		return ""
	}
	parts := strings.Split(hhmmAmPm, " ")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return hhmmAmPm
	}
	hours, minutes, ok := splitClock(parts[0])
	if !ok {
		return hhmmAmPm
	}

	marker := strings.ToUpper(parts[1])
	if marker == "PM" && hours < 12 {
		hours += 12
	}
	if marker == "AM" && hours == 12 {
		hours = 0
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// To12Hour converts a stored "HH:MM" value into the picker form "hh:mm AM|PM".
// Midnight and noon both render as 12.
func To12Hour(hhmm string) string {
	if hhmm == "" {
		return ""
	}
	hours, minutes, ok := splitClock(hhmm)
	if !ok {
		return hhmm
	}

	marker := "AM"
	if hours >= 12 {
		marker = "PM"
	}
	hours %= 12
	if hours == 0 {
		hours = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hours, minutes, marker)
}

// ClockMinutes returns the minutes since midnight of an "HH:MM" value.
// ok is false when the value is not a clock between 00:00 and 23:59.
func ClockMinutes(hhmm string) (minutes int, ok bool) {
	h, m, ok := splitClock(strings.TrimSpace(hhmm))
	if !ok || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation rule patterns
var (
	// NRC pattern - exactly 6 digits
	NRCPattern = `^[0-9]{6}$`

	// Course names: Latin letters, accented vowels, ü, ñ and spaces
	CourseNamePattern = `^[A-Za-zÁÉÍÓÚáéíóúÜüÑñ ]+$`

	// Rooms: same letters as names plus digits
	RoomPattern = `^[A-Za-z0-9ÁÉÍÓÚáéíóúÜüÑñ ]+$`

	// Section: up to 3 digits
	SectionPattern = `^[0-9]{1,3}$`

	// Credits: up to 2 digits
	CreditsPattern = `^[0-9]{1,2}$`

	// Room max length (characters, not bytes)
	RoomMaxLength = 15
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	NRC        *regexp.Regexp
	CourseName *regexp.Regexp
	Room       *regexp.Regexp
	Section    *regexp.Regexp
	Credits    *regexp.Regexp
}{
	NRC:        regexp.MustCompile(NRCPattern),
	CourseName: regexp.MustCompile(CourseNamePattern),
	Room:       regexp.MustCompile(RoomPattern),
	Section:    regexp.MustCompile(SectionPattern),
	Credits:    regexp.MustCompile(CreditsPattern),
}

// Failure identifies which check of a rule rejected a value.
type Failure int

const (
	// Passed means every check accepted the value.
	Passed Failure = iota
	// Missing means the value was blank.
	Missing
	// BadPattern means the value did not match the pattern.
	BadPattern
	// TooLong means the value exceeded the maximum length.
	TooLong
)

// StringValidation checks a required, trimmed string. Checks run in order: required, pattern, max length,
// so a value with bad characters is never also reported as too long.
type StringValidation struct {
	Value   string
	MaxLen  int
	Pattern *regexp.Regexp
}

// NewStringValidation creates a new string validation of the trimmed value
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value: strings.TrimSpace(value),
	}
}

// WithMaxLength sets maximum length in characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// Check returns the first failing check, or Passed.
func (v *StringValidation) Check() Failure {
	if v.Value == "" {
		return Missing
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return BadPattern
	}

	if v.MaxLen > 0 && utf8.RuneCountInString(v.Value) > v.MaxLen {
		return TooLong
	}

	return Passed
}

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringValidation_Check(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Failure
	}{
		{"blank", "   ", Missing},
		{"ok", " A101 ", Passed},
		{"bad characters", "A-101", BadPattern},
		{"too long", "Edificio Central 12", TooLong},
		{"bad characters and too long", "Aula #3 Edificio Central", BadPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewStringValidation(tt.value).
				WithPattern(CompiledPatterns.Room).
				WithMaxLength(RoomMaxLength).
				Check()
			assert.Equal(t, tt.want, got)
		})
	}
}

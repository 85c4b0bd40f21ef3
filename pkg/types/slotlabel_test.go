package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlotLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "english weekday", input: "Monday 18:00"},
		{name: "lowercase weekday", input: "friday 09:30"},
		{name: "spanish weekday", input: "Lunes 18:00"},
		{name: "spanish accented weekday", input: "Miércoles 20:15"},
		{name: "surrounding whitespace", input: "  Tuesday 10:00  "},
		{name: "missing time", input: "Monday", wantErr: true},
		{name: "unknown weekday", input: "Someday 18:00", wantErr: true},
		{name: "invalid hour", input: "Monday 25:00", wantErr: true},
		{name: "invalid minute", input: "Monday 18:60", wantErr: true},
		{name: "no colon in time", input: "Monday 1800", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := NewSlotLabel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSlotLabel)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, label.Validate())
		})
	}
}

func TestSlotLabel_Weekday(t *testing.T) {
	label := SlotLabel("Friday 18:00")
	wd, err := label.Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Friday, wd)

	// Испанское название дня отображается в тот же день недели
	spanish := SlotLabel("Viernes 18:00")
	wd, err = spanish.Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Friday, wd)
}

func TestSlotLabel_TimeOfDay(t *testing.T) {
	label := SlotLabel("Monday 09:45")
	hour, minute, err := label.TimeOfDay()
	require.NoError(t, err)
	assert.Equal(t, 9, hour)
	assert.Equal(t, 45, minute)
}

func TestSlotLabel_MatchesDate(t *testing.T) {
	label := SlotLabel("Wednesday 18:00")

	// 2025-10-15 - среда
	wednesday := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, label.MatchesDate(wednesday))

	thursday := wednesday.AddDate(0, 0, 1)
	assert.False(t, label.MatchesDate(thursday))
}

func TestSlotLabel_StartOn(t *testing.T) {
	label := SlotLabel("Wednesday 18:30")
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	start, err := label.StartOn(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 15, 18, 30, 0, 0, time.UTC), start)
}

func TestSlotLabel_EqualFold(t *testing.T) {
	assert.True(t, SlotLabel("Monday 18:00").EqualFold("monday 18:00"))
	assert.True(t, SlotLabel(" Monday 18:00 ").EqualFold("Monday 18:00"))
	assert.False(t, SlotLabel("Monday 18:00").EqualFold("Monday 19:00"))
}

package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotValid(t *testing.T) {
	for _, s := range []Slot{SlotMorning, SlotAfternoon, SlotEvening, SlotFullDay} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Slot("midnight").Valid())
	assert.False(t, Slot("").Valid())
}

func TestSlotOccupies(t *testing.T) {
	assert.Equal(t, []Slot{SlotMorning}, SlotMorning.occupies())
	assert.Equal(t, []Slot{SlotMorning, SlotAfternoon, SlotEvening}, SlotFullDay.occupies())
}

func TestSlotsConflict(t *testing.T) {
	tests := []struct {
		name      string
		requested Slot
		existing  Slot
		want      bool
	}{
		{name: "same slot conflicts", requested: SlotMorning, existing: SlotMorning, want: true},
		{name: "different slots coexist", requested: SlotMorning, existing: SlotEvening, want: false},
		{name: "full-day blocks any slot", requested: SlotMorning, existing: SlotFullDay, want: true},
		{name: "any slot blocks full-day", requested: SlotFullDay, existing: SlotEvening, want: true},
		{name: "full-day blocks full-day", requested: SlotFullDay, existing: SlotFullDay, want: true},
		{name: "afternoon and evening coexist", requested: SlotAfternoon, existing: SlotEvening, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlotsConflict(tt.requested, tt.existing))
		})
	}
}

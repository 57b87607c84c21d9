package booking

// Slot is a booking time window. Full-day is mutually exclusive with every
// other slot on the same hall and date.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
	SlotFullDay   Slot = "full-day"
)

// SlotInfo describes a slot for availability listings.
type SlotInfo struct {
	ID        Slot
	Label     string
	StartTime string
	EndTime   string
}

// AllSlots lists every bookable slot in display order.
var AllSlots = []SlotInfo{
	{ID: SlotMorning, Label: "Morning", StartTime: "06:00", EndTime: "12:00"},
	{ID: SlotAfternoon, Label: "Afternoon", StartTime: "12:00", EndTime: "18:00"},
	{ID: SlotEvening, Label: "Evening", StartTime: "18:00", EndTime: "23:59"},
	{ID: SlotFullDay, Label: "Full Day", StartTime: "06:00", EndTime: "23:59"},
}

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	switch s {
	case SlotMorning, SlotAfternoon, SlotEvening, SlotFullDay:
		return true
	}
	return false
}

// occupies maps a slot to the physical sub-slots it takes up on a hall/date.
// A full-day booking takes up all three sub-slots, which is what makes it
// mutually exclusive with everything else under the unique claim constraint.
func (s Slot) occupies() []Slot {
	if s == SlotFullDay {
		return []Slot{SlotMorning, SlotAfternoon, SlotEvening}
	}
	return []Slot{s}
}

// SlotsConflict reports whether a requested slot conflicts with an existing
// booked slot on the same hall and date: full-day conflicts with anything,
// a specific slot conflicts with the same slot or an existing full-day.
func SlotsConflict(requested, existing Slot) bool {
	if requested == SlotFullDay || existing == SlotFullDay {
		return true
	}
	return requested == existing
}

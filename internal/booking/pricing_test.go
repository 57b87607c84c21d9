package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmyhall/banquet-booking-backend/internal/hall"
)

func testHall(name string, evening int64) *hall.Hall {
	return &hall.Hall{
		ID:   name,
		Name: name,
		Capacity: hall.Capacity{
			Minimum: 50,
			Maximum: 500,
		},
		Pricing: hall.Pricing{
			Morning:   evening / 2,
			Afternoon: evening / 2,
			Evening:   evening,
			FullDay:   evening * 2,
		},
		IsActive: true,
	}
}

func TestComputePrice(t *testing.T) {
	tests := []struct {
		name   string
		halls  []*hall.Hall
		slot   Slot
		addOns []AddOn
		want   Pricing
	}{
		{
			name:  "single hall, no discount",
			halls: []*hall.Hall{testHall("A", 40000)},
			slot:  SlotEvening,
			want: Pricing{
				BasePrice:   40000,
				Discount:    0,
				Taxes:       7200,
				TotalAmount: 47200,
			},
		},
		{
			name:  "two halls get the combo discount",
			halls: []*hall.Hall{testHall("A", 40000), testHall("B", 50000)},
			slot:  SlotEvening,
			want: Pricing{
				BasePrice:   90000,
				Discount:    4500,
				Taxes:       15390,
				TotalAmount: 100890,
			},
		},
		{
			name:   "add-ons are taxed but not part of the base price",
			halls:  []*hall.Hall{testHall("A", 40000)},
			slot:   SlotEvening,
			addOns: []AddOn{{Name: "decoration", Price: 5000}, {Name: "free pass", Price: 0}},
			want: Pricing{
				BasePrice:   40000,
				Discount:    0,
				Taxes:       8100,
				TotalAmount: 53100,
			},
		},
		{
			name:   "discount applies to hall prices plus add-ons",
			halls:  []*hall.Hall{testHall("A", 40000), testHall("B", 50000)},
			slot:   SlotEvening,
			addOns: []AddOn{{Name: "catering", Price: 10000}},
			want: Pricing{
				BasePrice:   90000,
				Discount:    5000,
				Taxes:       17100,
				TotalAmount: 112100,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputePrice(tt.halls, tt.slot, tt.addOns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputePriceIsDeterministic(t *testing.T) {
	halls := []*hall.Hall{testHall("A", 40000), testHall("B", 50000)}

	first, err := ComputePrice(halls, SlotFullDay, nil)
	require.NoError(t, err)
	second, err := ComputePrice(halls, SlotFullDay, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputePriceMissingSlotPrice(t *testing.T) {
	h := testHall("A", 40000)
	h.Pricing.Morning = 0

	_, err := ComputePrice([]*hall.Hall{h}, SlotMorning, nil)
	assert.ErrorIs(t, err, hall.ErrNoSlotPrice)
}

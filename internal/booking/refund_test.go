package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntilEvent(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		eventDate time.Time
		want      int
	}{
		{
			name:      "same day",
			eventDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			want:      0,
		},
		{
			name:      "partial day rounds up",
			eventDate: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
			want:      1,
		},
		{
			name:      "ten days out",
			eventDate: time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
			want:      10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilEvent(tt.eventDate, now))
		})
	}
}

func TestRefundAmount(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		days  int
		want  int64
	}{
		{name: "more than a week out refunds 90%", total: 100000, days: 10, want: 90000},
		{name: "exactly eight days refunds 90%", total: 100000, days: 8, want: 90000},
		{name: "a week out refunds 50%", total: 100000, days: 7, want: 50000},
		{name: "three days out refunds 50%", total: 100000, days: 3, want: 50000},
		{name: "two days out refunds nothing", total: 100000, days: 2, want: 0},
		{name: "same day refunds nothing", total: 100000, days: 0, want: 0},
		{name: "rounding to whole units", total: 100001, days: 10, want: 90001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RefundAmount(tt.total, tt.days))
		})
	}
}

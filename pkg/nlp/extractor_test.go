package nlp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SunsetBayBot/pkg/hotel"
)

func newTestExtractor(t *testing.T) *EntityExtractor {
	t.Helper()
	knowledge, err := hotel.LoadDefault()
	require.NoError(t, err)

	e := NewEntityExtractor(knowledge)
	e.now = func() time.Time {
		return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	}
	return e
}

func TestExtractDates(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "iso date defaults to check-in",
			input: "do you have rooms on 2026-12-10",
			want:  map[string]string{SlotCheckInDate: "2026-12-10"},
		},
		{
			name:  "month day with ordinal",
			input: "check-in on december 10th please",
			want:  map[string]string{SlotCheckInDate: "2026-12-10"},
		},
		{
			name:  "past month rolls to next year",
			input: "i will arrive on march 5",
			want:  map[string]string{SlotCheckInDate: "2027-03-05"},
		},
		{
			name:  "day before month",
			input: "arriving on the 3rd of october",
			want:  map[string]string{SlotCheckInDate: "2026-10-03"},
		},
		{
			name:  "lone date with checkout cue",
			input: "i need to check out on 2026-09-12",
			want:  map[string]string{SlotCheckOutDate: "2026-09-12"},
		},
		{
			name:  "two dates become check-in and check-out",
			input: "from 2026-12-10 to 2026-12-14",
			want: map[string]string{
				SlotCheckInDate:  "2026-12-10",
				SlotCheckOutDate: "2026-12-14",
			},
		},
		{
			name:  "tomorrow is relative to the clock",
			input: "i want to arrive tomorrow",
			want:  map[string]string{SlotCheckInDate: "2026-08-30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.input)
			for slot, value := range tt.want {
				assert.Equal(t, value, got[slot], "slot %s", slot)
			}
		})
	}
}

func TestExtractCounts(t *testing.T) {
	e := newTestExtractor(t)

	got := e.Extract("staying 3 nights with two adults and one child")
	assert.Equal(t, "3", got[SlotNights])
	assert.Equal(t, "2", got[SlotAdults])
	assert.Equal(t, "1", got[SlotChildren])
	assert.Equal(t, "3", got[SlotGuestsTotal])

	got = e.Extract("a room for 5 guests")
	assert.Equal(t, "5", got[SlotGuestsTotal])
	assert.False(t, got.Has(SlotAdults))
	assert.False(t, got.Has(SlotChildren))
}

func TestExtractRoom(t *testing.T) {
	e := newTestExtractor(t)

	got := e.Extract("i want to book a deluxe room")
	assert.Equal(t, "DLX", got[SlotRoomCode])
	assert.Equal(t, "Deluxe King Room", got[SlotRoomType])

	got = e.Extract("how much is the ocean view suite")
	assert.Equal(t, "STE", got[SlotRoomCode])

	got = e.Extract("any rooms left")
	assert.False(t, got.Has(SlotRoomCode))
}

func TestExtractAmenity(t *testing.T) {
	e := newTestExtractor(t)

	got := e.Extract("is there a pool")
	assert.Equal(t, "pool", got[SlotAmenity])

	got = e.Extract("do you offer room service")
	assert.Equal(t, "room service", got[SlotAmenity])
}

func TestExtractReservationIDAndTime(t *testing.T) {
	e := newTestExtractor(t)

	got := e.Extract("my reservation id is 4f9a2b7c")
	assert.Equal(t, "4f9a2b7c", got[SlotReservationID])

	got = e.Extract("can i get a late checkout at 2:30 pm")
	assert.Equal(t, "2:30 pm", got[SlotTimeRequest])

	got = e.Extract("we will arrive around 2 pm tomorrow")
	assert.Equal(t, "2 pm", got[SlotTimeRequest])
}

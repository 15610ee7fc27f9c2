package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SunsetBayBot/pkg/nlp"
)

func TestContextStartsIdle(t *testing.T) {
	ctx := NewConversationContext()
	assert.Equal(t, StateIdle, ctx.State())
	assert.Equal(t, "no details collected yet", ctx.Summary())
}

func TestMergeAccumulatesSlots(t *testing.T) {
	ctx := NewConversationContext()

	ctx.Merge(nlp.EntitySet{nlp.SlotCheckInDate: "2026-12-10"})
	assert.Equal(t, StateCollecting, ctx.State())

	ctx.Merge(nlp.EntitySet{nlp.SlotRoomCode: "DLX", nlp.SlotRoomType: "Deluxe King Room"})
	got, ok := ctx.Slot(nlp.SlotCheckInDate)
	assert.True(t, ok)
	assert.Equal(t, "2026-12-10", got)
	assert.Equal(t, StateCollecting, ctx.State())

	ctx.Merge(nlp.EntitySet{nlp.SlotGuestsTotal: "3"})
	assert.Equal(t, StateReadyToQuote, ctx.State())
}

func TestMergeEmptyIsNoOp(t *testing.T) {
	ctx := NewConversationContext()
	ctx.Merge(nlp.EntitySet{nlp.SlotNights: "2"})
	before := ctx.Snapshot()

	ctx.Merge(nlp.EntitySet{})
	assert.Equal(t, before, ctx.Snapshot())
}

func TestMergeOverwritesButNeverRemoves(t *testing.T) {
	ctx := NewConversationContext()
	ctx.Merge(nlp.EntitySet{nlp.SlotCheckInDate: "2026-12-10", nlp.SlotNights: "2"})
	ctx.Merge(nlp.EntitySet{nlp.SlotNights: "4"})

	nights, _ := ctx.Slot(nlp.SlotNights)
	assert.Equal(t, "4", nights)
	checkIn, ok := ctx.Slot(nlp.SlotCheckInDate)
	assert.True(t, ok)
	assert.Equal(t, "2026-12-10", checkIn)
}

func TestConfirmIsExplicitOnly(t *testing.T) {
	ctx := NewConversationContext()
	ctx.Merge(nlp.EntitySet{
		nlp.SlotCheckInDate: "2026-12-10",
		nlp.SlotRoomCode:    "DLX",
		nlp.SlotGuestsTotal: "2",
	})
	assert.Equal(t, StateReadyToQuote, ctx.State())

	ctx.Merge(nlp.EntitySet{nlp.SlotNights: "3"})
	assert.Equal(t, StateReadyToQuote, ctx.State(), "full slots alone must not confirm")

	ctx.Confirm()
	assert.Equal(t, StateConfirmed, ctx.State())
}

func TestMergeAfterConfirmReopensBooking(t *testing.T) {
	ctx := NewConversationContext()
	ctx.Merge(nlp.EntitySet{
		nlp.SlotCheckInDate: "2026-12-10",
		nlp.SlotRoomCode:    "DLX",
		nlp.SlotGuestsTotal: "2",
	})
	ctx.Confirm()

	ctx.Merge(nlp.EntitySet{nlp.SlotNights: "3"})
	assert.NotEqual(t, StateConfirmed, ctx.State())
	assert.Equal(t, StateReadyToQuote, ctx.State())
}

func TestResetClearsEverything(t *testing.T) {
	ctx := NewConversationContext()
	ctx.Merge(nlp.EntitySet{nlp.SlotCheckInDate: "2026-12-10"})
	ctx.RecordTurn(SpeakerGuest, "any rooms on 2026-12-10", "inquire_availability")
	ctx.Confirm()

	ctx.Reset()
	assert.Equal(t, StateIdle, ctx.State())
	assert.Equal(t, "", ctx.LastIntent())
	assert.Equal(t, "no details collected yet", ctx.Summary())
	assert.Empty(t, ctx.History())
	assert.Equal(t, 0, ctx.Snapshot().Turns)
}

func TestRecordTurn(t *testing.T) {
	ctx := NewConversationContext()
	ctx.RecordTurn(SpeakerGuest, "hello", "greet")
	ctx.RecordTurn(SpeakerBot, "Welcome!", "")
	ctx.RecordTurn(SpeakerGuest, "how much is a room", "inquire_price")

	assert.Equal(t, "inquire_price", ctx.LastIntent())
	assert.Equal(t, 2, ctx.Snapshot().Turns, "only guest turns advance the counter")

	history := ctx.History()
	require.Len(t, history, 3)
	assert.Equal(t, SpeakerGuest, history[0].Speaker)
	assert.Equal(t, "hello", history[0].Text)
	assert.Equal(t, SpeakerBot, history[1].Speaker)
}

func TestHistoryIsBounded(t *testing.T) {
	ctx := NewConversationContext()
	for i := 0; i < 80; i++ {
		ctx.RecordTurn(SpeakerGuest, "hello again", "greet")
	}

	assert.Len(t, ctx.History(), 50)
	assert.Equal(t, 80, ctx.Snapshot().Turns)
}

func TestSummaryOrdering(t *testing.T) {
	ctx := NewConversationContext()
	ctx.Merge(nlp.EntitySet{
		nlp.SlotGuestsTotal: "3",
		nlp.SlotRoomType:    "Deluxe King Room",
		nlp.SlotCheckInDate: "2026-12-10",
	})

	assert.Equal(t, "check in: 2026-12-10 | room: Deluxe King Room | guests: 3", ctx.Summary())
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	ctx := NewConversationContext()
	ctx.Merge(nlp.EntitySet{
		nlp.SlotCheckInDate: "2026-12-10",
		nlp.SlotRoomCode:    "STD",
		nlp.SlotGuestsTotal: "2",
	})
	ctx.RecordTurn(SpeakerGuest, "book the standard room", "make_reservation")
	ctx.Confirm()

	restored := Restore(ctx.Snapshot())
	assert.Equal(t, StateConfirmed, restored.State())
	assert.Equal(t, "make_reservation", restored.LastIntent())
	assert.Equal(t, ctx.Summary(), restored.Summary())
	assert.Equal(t, ctx.History(), restored.History())
	assert.Equal(t, 1, restored.Snapshot().Turns)
}

func TestSnapshotIsDetached(t *testing.T) {
	ctx := NewConversationContext()
	ctx.Merge(nlp.EntitySet{nlp.SlotNights: "2"})

	snap := ctx.Snapshot()
	snap.Slots[nlp.SlotNights] = "9"

	nights, _ := ctx.Slot(nlp.SlotNights)
	assert.Equal(t, "2", nights)
}

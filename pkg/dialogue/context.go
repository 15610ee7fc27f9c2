package dialogue

import (
	"fmt"
	"strings"
	"time"

	"SunsetBayBot/pkg/nlp"
)

// BookingState is the coarse progress of a booking conversation.
type BookingState string

const (
	StateIdle         BookingState = "idle"
	StateCollecting   BookingState = "collecting_details"
	StateReadyToQuote BookingState = "ready_to_quote"
	StateConfirmed    BookingState = "confirmed"
)

// Turn speakers.
const (
	SpeakerGuest = "guest"
	SpeakerBot   = "bot"
)

// maxHistory bounds the per-session dialogue history kept in memory and in
// snapshots; the full transcript lives in storage.
const maxHistory = 50

// Turn is one utterance in the dialogue history.
type Turn struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// summaryOrder fixes the slot order used when summarizing a context so the
// summary line is stable across turns.
var summaryOrder = []string{
	nlp.SlotCheckInDate,
	nlp.SlotCheckOutDate,
	nlp.SlotNights,
	nlp.SlotRoomType,
	nlp.SlotAdults,
	nlp.SlotChildren,
	nlp.SlotGuestsTotal,
	nlp.SlotReservationID,
	nlp.SlotAmenity,
	nlp.SlotTimeRequest,
}

// ConversationContext accumulates what the guest has told us across turns.
// Merging is additive: a new turn can add or overwrite slots but never
// silently remove one. Only Reset clears slots, and only Confirm moves the
// booking to its terminal state.
//
// A context is owned by exactly one session and is not safe for concurrent
// use; the session layer serializes turns.
type ConversationContext struct {
	slots      nlp.EntitySet
	history    []Turn
	state      BookingState
	lastIntent string
	turns      int
}

// Snapshot is a read-only copy of a context, safe to hand out after the
// session lock is released.
type Snapshot struct {
	Slots      map[string]string `json:"slots"`
	History    []Turn            `json:"history,omitempty"`
	State      BookingState      `json:"booking_state"`
	LastIntent string            `json:"last_intent,omitempty"`
	Turns      int               `json:"turns"`
}

func NewConversationContext() *ConversationContext {
	return &ConversationContext{
		slots: nlp.EntitySet{},
		state: StateIdle,
	}
}

// Restore rebuilds a context from a previously taken snapshot, used to
// rehydrate a session after a restart.
func Restore(snapshot Snapshot) *ConversationContext {
	c := NewConversationContext()
	for key, value := range snapshot.Slots {
		c.slots.Set(key, value)
	}
	c.history = append(c.history, snapshot.History...)
	if snapshot.State != "" {
		c.state = snapshot.State
	} else {
		c.refreshState()
	}
	c.lastIntent = snapshot.LastIntent
	c.turns = snapshot.Turns
	return c
}

// Merge folds newly extracted entities into the context. Merging an empty
// set is a no-op, so calling it twice with the same input is safe.
func (c *ConversationContext) Merge(entities nlp.EntitySet) {
	if len(entities) == 0 {
		return
	}
	for key, value := range entities {
		c.slots.Set(key, value)
	}
	if c.state == StateConfirmed {
		// New booking details after a confirmation reopen the conversation.
		c.state = StateCollecting
	}
	c.refreshState()
}

// RecordTurn appends an utterance to the dialogue history. Guest turns
// advance the turn counter and set the last resolved intent; bot turns pass
// an empty intent.
func (c *ConversationContext) RecordTurn(speaker, text, intent string) {
	c.history = append(c.history, Turn{Speaker: speaker, Text: text, At: time.Now()})
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
	if intent != "" {
		c.lastIntent = intent
	}
	if speaker == SpeakerGuest {
		c.turns++
	}
}

// History returns a copy of the recorded dialogue turns, oldest first.
func (c *ConversationContext) History() []Turn {
	out := make([]Turn, len(c.history))
	copy(out, c.history)
	return out
}

// Confirm marks the booking confirmed. It is only called on an explicit
// confirmation signal from the guest, never inferred from slot state.
func (c *ConversationContext) Confirm() {
	c.state = StateConfirmed
}

// Reset clears every slot and returns the context to idle.
func (c *ConversationContext) Reset() {
	c.slots = nlp.EntitySet{}
	c.history = nil
	c.state = StateIdle
	c.lastIntent = ""
	c.turns = 0
}

func (c *ConversationContext) State() BookingState { return c.state }

func (c *ConversationContext) LastIntent() string { return c.lastIntent }

// Slot returns a single remembered value.
func (c *ConversationContext) Slot(key string) (string, bool) {
	return c.slots.Get(key)
}

// Snapshot copies the context for serialization.
func (c *ConversationContext) Snapshot() Snapshot {
	return Snapshot{
		Slots:      c.slots.Clone(),
		History:    c.History(),
		State:      c.state,
		LastIntent: c.lastIntent,
		Turns:      c.turns,
	}
}

// Summary renders the remembered slots as a single human-readable line,
// e.g. "check in: 2026-09-10 | room: Deluxe King Room | guests: 3".
func (c *ConversationContext) Summary() string {
	labels := map[string]string{
		nlp.SlotCheckInDate:   "check in",
		nlp.SlotCheckOutDate:  "check out",
		nlp.SlotNights:        "nights",
		nlp.SlotRoomType:      "room",
		nlp.SlotAdults:        "adults",
		nlp.SlotChildren:      "children",
		nlp.SlotGuestsTotal:   "guests",
		nlp.SlotReservationID: "reservation",
		nlp.SlotAmenity:       "amenity",
		nlp.SlotTimeRequest:   "requested time",
	}
	parts := make([]string, 0, len(c.slots))
	for _, key := range summaryOrder {
		if value, ok := c.slots.Get(key); ok {
			parts = append(parts, fmt.Sprintf("%s: %s", labels[key], value))
		}
	}
	if len(parts) == 0 {
		return "no details collected yet"
	}
	return strings.Join(parts, " | ")
}

// refreshState derives the booking state from the collected slots. The
// confirmed state is sticky and never derived here.
func (c *ConversationContext) refreshState() {
	if c.state == StateConfirmed {
		return
	}
	hasDates := c.slots.Has(nlp.SlotCheckInDate) || c.slots.Has(nlp.SlotCheckOutDate) || c.slots.Has(nlp.SlotNights)
	hasRoom := c.slots.Has(nlp.SlotRoomCode)
	hasGuests := c.slots.Has(nlp.SlotGuestsTotal)
	switch {
	case hasDates && hasRoom && hasGuests:
		c.state = StateReadyToQuote
	case len(c.slots) > 0:
		c.state = StateCollecting
	default:
		c.state = StateIdle
	}
}

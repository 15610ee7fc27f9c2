package dialogue

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"SunsetBayBot/pkg/hotel"
	"SunsetBayBot/pkg/nlp"
)

const (
	surgeFloor = 0.95
	surgeCeil  = 1.15
)

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// Renderer turns a resolved intent plus conversation state into the reply
// sent back to the guest. Templates come from the knowledge base and use
// {placeholder} markers filled from the current turn's entities first, then
// from the remembered context.
type Renderer struct {
	knowledge *hotel.Knowledge
	rng       *rand.Rand
}

func NewRenderer(knowledge *hotel.Knowledge) *Renderer {
	return &Renderer{
		knowledge: knowledge,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Render fills the template registered for the intent. When the intent has
// no template, or a placeholder cannot be resolved from entities, context or
// the knowledge base, the fallback reply is returned instead of a reply with
// holes in it.
func (r *Renderer) Render(intent string, entities nlp.EntitySet, ctx *ConversationContext) string {
	tpl, ok := r.knowledge.Template(intent)
	if !ok {
		return r.Fallback()
	}

	complete := true
	reply := placeholderPattern.ReplaceAllStringFunc(tpl, func(marker string) string {
		key := strings.Trim(marker, "{}")
		if value, ok := r.resolve(key, entities, ctx); ok {
			return value
		}
		complete = false
		return marker
	})
	if !complete {
		return r.Fallback()
	}
	return reply
}

// Fallback is the reply for anything the bot could not handle.
func (r *Renderer) Fallback() string {
	if tpl, ok := r.knowledge.Template(nlp.FallbackIntent); ok {
		return tpl
	}
	return "I'm not sure I understood that. Could you rephrase?"
}

func (r *Renderer) resolve(key string, entities nlp.EntitySet, ctx *ConversationContext) (string, bool) {
	switch key {
	case "hotel_name":
		return r.knowledge.Metadata.Name, true
	case "hotel_address":
		return r.knowledge.Metadata.Address, true
	case "hotel_phone":
		return r.knowledge.Metadata.Phone, true
	case "context_summary":
		return ctx.Summary(), true
	case "amenity_answer":
		return r.amenityAnswer(entities, ctx)
	case "price_estimate":
		return r.priceEstimate(entities, ctx)
	}
	if value, ok := entities.Get(key); ok {
		return value, true
	}
	if value, ok := ctx.Slot(key); ok {
		return value, true
	}
	return "", false
}

func (r *Renderer) amenityAnswer(entities nlp.EntitySet, ctx *ConversationContext) (string, bool) {
	name, ok := entities.Get(nlp.SlotAmenity)
	if !ok {
		name, ok = ctx.Slot(nlp.SlotAmenity)
	}
	if ok {
		if answer, found := r.knowledge.AmenityAnswer(name); found {
			return answer, true
		}
	}
	names := r.knowledge.AmenityNames()
	if len(names) == 0 {
		return "", false
	}
	return fmt.Sprintf("Our amenities include %s. Which one would you like to know more about?",
		strings.Join(names, ", ")), true
}

// priceEstimate quotes a nightly rate for the remembered room. Weekday and
// weekend base prices come from the catalog; a small demand factor between
// 0.95 and 1.15 is applied on top, so quotes for the same stay may vary
// slightly between turns.
func (r *Renderer) priceEstimate(entities nlp.EntitySet, ctx *ConversationContext) (string, bool) {
	code, ok := entities.Get(nlp.SlotRoomCode)
	if !ok {
		code, ok = ctx.Slot(nlp.SlotRoomCode)
	}
	if !ok {
		return "", false
	}
	room, ok := r.knowledge.RoomByCode(code)
	if !ok {
		return "", false
	}

	base := room.BasePriceWeekday
	if date, found := r.stayDate(entities, ctx); found && isWeekend(date) {
		base = room.BasePriceWeekend
	}
	surge := surgeFloor + r.rng.Float64()*(surgeCeil-surgeFloor)
	return fmt.Sprintf("$%.2f", base*surge), true
}

func (r *Renderer) stayDate(entities nlp.EntitySet, ctx *ConversationContext) (time.Time, bool) {
	raw, ok := entities.Get(nlp.SlotCheckInDate)
	if !ok {
		raw, ok = ctx.Slot(nlp.SlotCheckInDate)
	}
	if !ok {
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func isWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

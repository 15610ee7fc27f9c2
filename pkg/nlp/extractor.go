package nlp

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"SunsetBayBot/pkg/hotel"
)

var spelledNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

const numberAlt = `\d+|one|two|three|four|five|six|seven|eight|nine|ten`

// roomSynonym maps a phrase found in user text to a catalog room code.
type roomSynonym struct {
	Phrase string
	Code   string
}

// EntityExtractor pulls booking slots out of a raw utterance. It is built
// from the hotel knowledge base so the room and amenity vocabularies always
// track the catalog instead of a hardcoded list.
type EntityExtractor struct {
	knowledge *hotel.Knowledge
	rooms     []roomSynonym
	amenities []string

	isoDate       *regexp.Regexp
	monthDayDate  *regexp.Regexp
	dayMonthDate  *regexp.Regexp
	relativeDate  *regexp.Regexp
	nights        *regexp.Regexp
	adults        *regexp.Regexp
	children      *regexp.Regexp
	guests        *regexp.Regexp
	reservationID *regexp.Regexp
	timeOfDay     *regexp.Regexp
	checkinCue    *regexp.Regexp
	checkoutCue   *regexp.Regexp

	now func() time.Time
}

func NewEntityExtractor(knowledge *hotel.Knowledge) *EntityExtractor {
	e := &EntityExtractor{
		knowledge: knowledge,
		rooms:     buildRoomSynonyms(knowledge),
		amenities: knowledge.AmenityNames(),

		isoDate:       regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
		monthDayDate:  regexp.MustCompile(`\b([a-z]+)\s+(\d{1,2})(?:st|nd|rd|th)?\b`),
		dayMonthDate:  regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?([a-z]+)\b`),
		relativeDate:  regexp.MustCompile(`\b(today|tomorrow)\b`),
		nights:        regexp.MustCompile(`\b(` + numberAlt + `)\s+nights?\b`),
		adults:        regexp.MustCompile(`\b(` + numberAlt + `)\s+adults?\b`),
		children:      regexp.MustCompile(`\b(` + numberAlt + `)\s+(?:children|child|kids?)\b`),
		guests:        regexp.MustCompile(`\b(` + numberAlt + `)\s+(?:guests?|people|persons?)\b`),
		reservationID: regexp.MustCompile(`\b[a-f0-9]{8}\b`),
		timeOfDay:     regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`),
		checkinCue:    regexp.MustCompile(`check[\s-]?in|arriv(?:e|al|ing)`),
		checkoutCue:   regexp.MustCompile(`check[\s-]?out|depart(?:ure|ing)?|leav(?:e|ing)`),

		now: time.Now,
	}
	return e
}

// Extract scans an utterance and returns every slot it can find. Keys are
// only present when a value was actually detected.
func (e *EntityExtractor) Extract(text string) EntitySet {
	entities := EntitySet{}
	lowered := strings.ToLower(text)

	e.extractDates(lowered, entities)
	e.extractCounts(lowered, entities)
	e.extractRoom(lowered, entities)
	e.extractAmenity(lowered, entities)

	if m := e.reservationID.FindString(lowered); m != "" {
		entities.Set(SlotReservationID, m)
	}
	if m := e.timeOfDay.FindStringSubmatch(lowered); m != nil {
		if m[2] != "" {
			entities.Set(SlotTimeRequest, fmt.Sprintf("%s:%s %s", m[1], m[2], m[3]))
		} else {
			entities.Set(SlotTimeRequest, fmt.Sprintf("%s %s", m[1], m[3]))
		}
	}
	return entities
}

// dateMention is a candidate date together with where it appeared, so the
// first mention can be treated as check-in and the second as check-out.
type dateMention struct {
	pos   int
	value string
}

func (e *EntityExtractor) extractDates(lowered string, entities EntitySet) {
	var mentions []dateMention
	seen := map[string]bool{}
	add := func(pos int, value string) {
		if value == "" || seen[value] {
			return
		}
		seen[value] = true
		mentions = append(mentions, dateMention{pos: pos, value: value})
	}

	for _, loc := range e.isoDate.FindAllStringIndex(lowered, -1) {
		add(loc[0], lowered[loc[0]:loc[1]])
	}
	for _, loc := range e.monthDayDate.FindAllStringSubmatchIndex(lowered, -1) {
		month, ok := monthsByName[lowered[loc[2]:loc[3]]]
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(lowered[loc[4]:loc[5]])
		add(loc[0], e.calendarDate(month, day))
	}
	for _, loc := range e.dayMonthDate.FindAllStringSubmatchIndex(lowered, -1) {
		month, ok := monthsByName[lowered[loc[4]:loc[5]]]
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(lowered[loc[2]:loc[3]])
		add(loc[0], e.calendarDate(month, day))
	}
	for _, loc := range e.relativeDate.FindAllStringIndex(lowered, -1) {
		day := e.now()
		if lowered[loc[0]:loc[1]] == "tomorrow" {
			day = day.AddDate(0, 0, 1)
		}
		add(loc[0], day.Format("2006-01-02"))
	}

	if len(mentions) == 0 {
		return
	}
	sort.Slice(mentions, func(i, j int) bool { return mentions[i].pos < mentions[j].pos })

	if len(mentions) >= 2 {
		entities.Set(SlotCheckInDate, mentions[0].value)
		entities.Set(SlotCheckOutDate, mentions[1].value)
		return
	}
	// A lone date defaults to check-in unless the message only talks about
	// checking out.
	if e.checkoutCue.MatchString(lowered) && !e.checkinCue.MatchString(lowered) {
		entities.Set(SlotCheckOutDate, mentions[0].value)
		return
	}
	entities.Set(SlotCheckInDate, mentions[0].value)
}

// calendarDate resolves a month and day to the next occurrence of that date,
// rolling into next year when the date has already passed.
func (e *EntityExtractor) calendarDate(month time.Month, day int) string {
	if day < 1 || day > 31 {
		return ""
	}
	now := e.now()
	candidate := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	if candidate.Month() != month {
		return ""
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if candidate.Before(today) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate.Format("2006-01-02")
}

func (e *EntityExtractor) extractCounts(lowered string, entities EntitySet) {
	if n, ok := matchCount(e.nights, lowered); ok {
		entities.Set(SlotNights, strconv.Itoa(n))
	}

	adults, hasAdults := matchCount(e.adults, lowered)
	children, hasChildren := matchCount(e.children, lowered)
	if hasAdults {
		entities.Set(SlotAdults, strconv.Itoa(adults))
	}
	if hasChildren {
		entities.Set(SlotChildren, strconv.Itoa(children))
	}
	switch {
	case hasAdults || hasChildren:
		entities.Set(SlotGuestsTotal, strconv.Itoa(adults+children))
	default:
		if n, ok := matchCount(e.guests, lowered); ok {
			entities.Set(SlotGuestsTotal, strconv.Itoa(n))
		}
	}
}

func matchCount(re *regexp.Regexp, lowered string) (int, bool) {
	m := re.FindStringSubmatch(lowered)
	if m == nil {
		return 0, false
	}
	return parseCount(m[1])
}

func parseCount(raw string) (int, bool) {
	if n, ok := spelledNumbers[raw]; ok {
		return n, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (e *EntityExtractor) extractRoom(lowered string, entities EntitySet) {
	for _, syn := range e.rooms {
		if containsPhrase(lowered, syn.Phrase) {
			entities.Set(SlotRoomCode, syn.Code)
			entities.Set(SlotRoomType, e.knowledge.RoomName(syn.Code))
			return
		}
	}
}

func (e *EntityExtractor) extractAmenity(lowered string, entities EntitySet) {
	best := ""
	for _, amenity := range e.amenities {
		name := strings.ToLower(amenity)
		if containsPhrase(lowered, name) && len(name) > len(best) {
			best = name
		}
	}
	entities.Set(SlotAmenity, best)
}

// buildRoomSynonyms merges the hand-maintained synonym table with the room
// names and codes from the catalog, longest phrase first so "family suite"
// wins over "suite".
func buildRoomSynonyms(knowledge *hotel.Knowledge) []roomSynonym {
	base := []roomSynonym{
		{"standard", "STD"},
		{"queen", "STD"},
		{"deluxe", "DLX"},
		{"king", "DLX"},
		{"twin", "DLX"},
		{"family", "FAM"},
		{"ocean", "STE"},
		{"suite", "STE"},
	}
	for _, room := range knowledge.RoomTypes {
		base = append(base,
			roomSynonym{strings.ToLower(room.Name), room.Code},
			roomSynonym{strings.ToLower(room.Code), room.Code},
		)
	}
	sort.SliceStable(base, func(i, j int) bool {
		return len(base[i].Phrase) > len(base[j].Phrase)
	})
	return base
}

// containsPhrase reports whether phrase occurs in text on word boundaries.
func containsPhrase(text, phrase string) bool {
	for from := 0; ; {
		idx := strings.Index(text[from:], phrase)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(phrase)
		before := start == 0 || !isWordByte(text[start-1])
		after := end == len(text) || !isWordByte(text[end])
		if before && after {
			return true
		}
		from = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

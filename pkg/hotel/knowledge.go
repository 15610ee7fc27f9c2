package hotel

import (
	"sort"
	"strings"
)

// Metadata is the hotel identity block from hotel_info.csv.
type Metadata struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// RoomType is one row of the room catalog.
type RoomType struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	Capacity         int      `json:"capacity"`
	Beds             string   `json:"beds"`
	BasePriceWeekday float64  `json:"base_price_weekday"`
	BasePriceWeekend float64  `json:"base_price_weekend"`
	ViewOptions      []string `json:"view_options"`
	Amenities        []string `json:"amenities"`
}

// TrainingRow is one labeled utterance from training_data.csv.
type TrainingRow struct {
	Utterance string `json:"utterance"`
	Intent    string `json:"intent"`
}

// Knowledge aggregates every static table the bot consumes. It is loaded
// once and treated as immutable for the lifetime of the process.
type Knowledge struct {
	Metadata     Metadata          `json:"metadata"`
	RoomTypes    []RoomType        `json:"room_types"`
	AmenityFAQ   map[string]string `json:"amenity_faq"`
	Responses    map[string]string `json:"responses"`
	TrainingRows []TrainingRow     `json:"-"`
}

// RoomByCode looks a room up by its catalog code.
func (k *Knowledge) RoomByCode(code string) (RoomType, bool) {
	for _, room := range k.RoomTypes {
		if room.Code == code {
			return room, true
		}
	}
	return RoomType{}, false
}

// RoomName resolves a room code to its display name, falling back to the
// code itself for unknown codes.
func (k *Knowledge) RoomName(code string) string {
	if room, ok := k.RoomByCode(code); ok {
		return room.Name
	}
	return code
}

// AmenityNames lists the amenities the FAQ knows about, sorted so replies
// built from the list are stable across runs.
func (k *Knowledge) AmenityNames() []string {
	names := make([]string, 0, len(k.AmenityFAQ))
	for name := range k.AmenityFAQ {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AmenityAnswer returns the FAQ answer for an amenity, case-insensitively.
func (k *Knowledge) AmenityAnswer(name string) (string, bool) {
	for amenity, answer := range k.AmenityFAQ {
		if strings.EqualFold(amenity, name) {
			return answer, true
		}
	}
	return "", false
}

// Template returns the response template for an intent.
func (k *Knowledge) Template(intent string) (string, bool) {
	tpl, ok := k.Responses[intent]
	return tpl, ok
}

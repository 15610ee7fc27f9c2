package hotel

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed data/*.csv
var defaultData embed.FS

// Paths points the loader at external CSV files. Empty fields fall back to
// the embedded defaults so the server runs without any data directory.
type Paths struct {
	HotelInfo         string
	RoomTypes         string
	AmenityFAQ        string
	ResponseTemplates string
	TrainingData      string
}

// Load reads every knowledge table. It fails only on malformed data; a
// missing optional path silently uses the embedded default.
func Load(paths Paths) (*Knowledge, error) {
	k := &Knowledge{
		AmenityFAQ: map[string]string{},
		Responses:  map[string]string{},
	}

	infoRows, err := readTable(paths.HotelInfo, "data/hotel_info.csv")
	if err != nil {
		return nil, fmt.Errorf("hotel info: %w", err)
	}
	if len(infoRows) > 0 {
		k.Metadata = Metadata{
			Name:    infoRows[0]["name"],
			Address: infoRows[0]["address"],
			Phone:   infoRows[0]["phone"],
			Email:   infoRows[0]["email"],
		}
	}

	roomRows, err := readTable(paths.RoomTypes, "data/room_types.csv")
	if err != nil {
		return nil, fmt.Errorf("room types: %w", err)
	}
	for _, row := range roomRows {
		room := RoomType{
			Code:        row["code"],
			Name:        row["name"],
			Beds:        row["beds"],
			ViewOptions: splitList(row["view_options"]),
			Amenities:   splitList(row["amenities"]),
		}
		room.Capacity, _ = strconv.Atoi(row["capacity"])
		room.BasePriceWeekday, _ = strconv.ParseFloat(row["base_price_weekday"], 64)
		room.BasePriceWeekend, _ = strconv.ParseFloat(row["base_price_weekend"], 64)
		if room.Code == "" {
			continue
		}
		k.RoomTypes = append(k.RoomTypes, room)
	}

	faqRows, err := readTable(paths.AmenityFAQ, "data/amenity_faq.csv")
	if err != nil {
		return nil, fmt.Errorf("amenity faq: %w", err)
	}
	for _, row := range faqRows {
		if row["amenity"] != "" {
			k.AmenityFAQ[row["amenity"]] = row["answer"]
		}
	}

	responseRows, err := readTable(paths.ResponseTemplates, "data/response_templates.csv")
	if err != nil {
		return nil, fmt.Errorf("response templates: %w", err)
	}
	for _, row := range responseRows {
		if row["intent"] != "" {
			k.Responses[row["intent"]] = row["template"]
		}
	}

	trainingRows, err := readTable(paths.TrainingData, "data/training_data.csv")
	if err != nil {
		return nil, fmt.Errorf("training data: %w", err)
	}
	for _, row := range trainingRows {
		if row["utterance"] == "" || row["intent"] == "" {
			continue
		}
		k.TrainingRows = append(k.TrainingRows, TrainingRow{
			Utterance: row["utterance"],
			Intent:    row["intent"],
		})
	}

	return k, nil
}

// LoadDefault loads the embedded dataset.
func LoadDefault() (*Knowledge, error) {
	return Load(Paths{})
}

func readTable(path, embedded string) ([]map[string]string, error) {
	var reader io.Reader
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	} else {
		f, err := defaultData.Open(embedded)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(record) {
				row[strings.TrimSpace(key)] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

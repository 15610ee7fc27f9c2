package hotel

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	k, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, "Sunset Bay Hotel", k.Metadata.Name)
	assert.NotEmpty(t, k.Metadata.Address)
	assert.NotEmpty(t, k.Metadata.Phone)

	require.Len(t, k.RoomTypes, 4)
	std, ok := k.RoomByCode("STD")
	require.True(t, ok)
	assert.Equal(t, "Standard Queen Room", std.Name)
	assert.Equal(t, 2, std.Capacity)
	assert.Equal(t, 120.0, std.BasePriceWeekday)
	assert.Equal(t, 150.0, std.BasePriceWeekend)
	assert.Contains(t, std.Amenities, "wifi")

	answer, ok := k.AmenityAnswer("wifi")
	require.True(t, ok)
	assert.Contains(t, answer, "WiFi")

	tpl, ok := k.Template("greet")
	require.True(t, ok)
	assert.Contains(t, tpl, "{hotel_name}")

	assert.Greater(t, len(k.TrainingRows), 100)
}

func TestRoomLookups(t *testing.T) {
	k, err := LoadDefault()
	require.NoError(t, err)

	_, ok := k.RoomByCode("XYZ")
	assert.False(t, ok)

	assert.Equal(t, "Deluxe King Room", k.RoomName("DLX"))
	assert.Equal(t, "XYZ", k.RoomName("XYZ"))
}

func TestAmenityAnswerIsCaseInsensitive(t *testing.T) {
	k, err := LoadDefault()
	require.NoError(t, err)

	answer, ok := k.AmenityAnswer("Pool")
	require.True(t, ok)
	assert.Contains(t, answer, "pool")

	_, ok = k.AmenityAnswer("helipad")
	assert.False(t, ok)
}

func TestAmenityNamesAreSorted(t *testing.T) {
	k, err := LoadDefault()
	require.NoError(t, err)

	names := k.AmenityNames()
	assert.Len(t, names, 10)
	assert.True(t, sort.StringsAreSorted(names))
}

func TestLoadWithPathOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hotel_info.csv")
	content := "name,address,phone,email\nHarbor Inn,1 Pier Rd,+1-555-0100,front@harborinn.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	k, err := Load(Paths{HotelInfo: path})
	require.NoError(t, err)

	assert.Equal(t, "Harbor Inn", k.Metadata.Name)
	// Tables without an override still come from the embedded defaults.
	assert.Len(t, k.RoomTypes, 4)
}

func TestLoadWithMissingOverrideFails(t *testing.T) {
	_, err := Load(Paths{RoomTypes: filepath.Join(t.TempDir(), "missing.csv")})
	assert.Error(t, err)
}

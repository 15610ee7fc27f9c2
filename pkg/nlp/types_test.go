package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntitySetAccess(t *testing.T) {
	set := EntitySet{}
	set.Set(SlotNights, "2")
	set.Set(SlotAdults, "")

	value, ok := set.Get(SlotNights)
	assert.True(t, ok)
	assert.Equal(t, "2", value)

	value, ok = set.Get(SlotAdults)
	assert.False(t, ok)
	assert.Empty(t, value)
	assert.False(t, set.Has(SlotAdults))
}

func TestEntitySetInt(t *testing.T) {
	set := EntitySet{SlotNights: "3", SlotAdults: "many"}

	assert.Equal(t, 3, set.Int(SlotNights))
	assert.Equal(t, 0, set.Int(SlotAdults))
	assert.Equal(t, 0, set.Int(SlotChildren))
}

func TestEntitySetCloneIsDetached(t *testing.T) {
	set := EntitySet{SlotNights: "3"}
	clone := set.Clone()
	clone.Set(SlotNights, "5")

	value, _ := set.Get(SlotNights)
	assert.Equal(t, "3", value)
}

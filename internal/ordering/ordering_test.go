package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestSorted_Ascending(t *testing.T) {
	var c Checker

	assert.True(t, c.Sorted([]string{"Apple", "banana", "Cherry"}, Ascending),
		"collation must ignore case at primary strength")
	assert.False(t, c.Sorted([]string{"banana", "Apple"}, Ascending))
}

func TestSorted_Descending(t *testing.T) {
	var c Checker

	assert.True(t, c.Sorted([]string{"Cherry", "banana", "Apple"}, Descending))
	assert.False(t, c.Sorted([]string{"Apple", "banana"}, Descending))
}

func TestSorted_TiesNeverViolate(t *testing.T) {
	var c Checker
	values := []string{"Lamp", "Lamp", "Lamp"}

	assert.True(t, c.Sorted(values, Ascending))
	assert.True(t, c.Sorted(values, Descending))
}

func TestSorted_ShortSequences(t *testing.T) {
	var c Checker

	for _, dir := range []Direction{Ascending, Descending} {
		assert.True(t, c.Sorted(nil, dir))
		assert.True(t, c.Sorted([]string{"only"}, dir))
	}
}

func TestSorted_Accents(t *testing.T) {
	var c Checker

	// Byte order would place "Éclair" after "Zebra".
	assert.True(t, c.Sorted([]string{"Cake", "Éclair", "Zebra"}, Ascending))
}

func TestFirstViolation(t *testing.T) {
	var c Checker

	i, ok := c.FirstViolation([]string{"a", "b", "d", "c", "e"}, Ascending)
	assert.False(t, ok)
	assert.Equal(t, 3, i)

	i, ok = c.FirstViolation([]string{"a", "b"}, Ascending)
	assert.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("asc")
	require.NoError(t, err)
	assert.Equal(t, Ascending, d)

	d, err = ParseDirection("desc")
	require.NoError(t, err)
	assert.Equal(t, Descending, d)

	d, err = ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Ascending, d)

	_, err = ParseDirection("up")
	assert.Error(t, err)
}

func TestFirstViolation_UnknownDirection(t *testing.T) {
	c := New(language.English)
	for _, dir := range []Direction{"", "up"} {
		assert.Panics(t, func() { c.FirstViolation([]string{"b", "a"}, dir) }, string(dir))
		assert.Panics(t, func() { c.Sorted(nil, dir) }, string(dir))
	}
}

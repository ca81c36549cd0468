package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_CopiesInput(t *testing.T) {
	names := []string{"Jane Doe", "John Smith"}
	d := New(names)

	names[0] = "mutated"
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, d.Names())
}

func TestNames_ReturnsCopy(t *testing.T) {
	d := New([]string{"Jane Doe"})

	out := d.Names()
	out[0] = "mutated"
	assert.Equal(t, []string{"Jane Doe"}, d.Names())
}

func TestLen(t *testing.T) {
	assert.Equal(t, 0, New(nil).Len())
	assert.Equal(t, 2, New([]string{"a", "b"}).Len())
}

func TestDefaultNames_OrderAndContent(t *testing.T) {
	assert.Greater(t, len(DefaultNames), 100)
	assert.Equal(t, "Ellen Bataglia", DefaultNames[0])
	// Duplicated first names are expected and tolerated.
	assert.Contains(t, DefaultNames, "Ellen Richardson")
}

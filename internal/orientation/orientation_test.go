package orientation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_Order(t *testing.T) {
	assert.Equal(t, []Orientation{Front, Left, Right, Top, Bottom}, All())
	assert.Equal(t, 5, Count())
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all[0] = "sideways"

	first, ok := At(0)
	require.True(t, ok)
	assert.Equal(t, Front, first)
}

func TestAt_OutOfRange(t *testing.T) {
	_, ok := At(-1)
	assert.False(t, ok)
	_, ok = At(5)
	assert.False(t, ok)
}

func TestInstruction(t *testing.T) {
	assert.Equal(t, "Look directly at the camera", Front.Instruction())
	assert.Equal(t, "Tilt your head slightly DOWN", Bottom.Instruction())
	for _, o := range All() {
		assert.NotEmpty(t, o.Instruction(), "orientation %s", o)
	}
}

func TestParse(t *testing.T) {
	o, err := Parse("right")
	require.NoError(t, err)
	assert.Equal(t, Right, o)

	_, err = Parse("back")
	assert.Error(t, err)
	_, err = Parse("")
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Front", Front.Label())
	assert.Equal(t, "Bottom", Bottom.Label())
}

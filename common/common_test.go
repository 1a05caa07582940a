package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "vs_main", Coalesce("", "vs_main"))
	assert.Equal(t, uint32(0), Coalesce[uint32]())
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))

	vertices := []float32{1, 2, 3}
	b := SliceToBytes(vertices)
	assert.Len(t, b, 12)

	indices := []uint16{1, 2}
	assert.Len(t, SliceToBytes(indices), 4)
}

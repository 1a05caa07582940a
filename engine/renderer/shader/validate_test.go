package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEntryPoints(t *testing.T) {
	m, err := Validate(triangleWGSL)
	require.NoError(t, err)
	require.Len(t, m.EntryPoints, 2)

	vs, err := m.EntryPoint(StageVertex)
	require.NoError(t, err)
	assert.Equal(t, "vs_main", vs)

	fs, err := m.EntryPoint(StageFragment)
	require.NoError(t, err)
	assert.Equal(t, "fs_main", fs)

	_, err = m.EntryPoint(StageCompute)
	assert.ErrorIs(t, err, ErrEntryPointNotFound)
}

func TestValidateCustomEntryPoint(t *testing.T) {
	m, err := Validate(customEntryWGSL)
	require.NoError(t, err)
	name, err := m.EntryPoint(StageVertex)
	require.NoError(t, err)
	assert.Equal(t, "main", name)
}

func TestValidateInvalidSource(t *testing.T) {
	_, err := Validate(`
@vertex
fn main( -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`)
	assert.ErrorIs(t, err, ErrInvalidSource)

	_, err = Validate("")
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestModuleErr(t *testing.T) {
	assert.NoError(t, (&Module{}).Err())
	assert.Error(t, (&Module{Issues: []error{assert.AnError}}).Err())
}

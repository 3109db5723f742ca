package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarField(t *testing.T) {
	fr := NewFieldRegistry()
	f := fr.RegisterScalar("pressure", Triangle)
	h := Handle{Kind: Triangle, ID: 3}
	assert.True(t, math.IsNaN(f.Get(h)))
	assert.False(t, f.IsSet(h))
	require.NoError(t, f.Set(h, 2.5))
	assert.Equal(t, 2.5, f.Get(h))
	assert.True(t, f.IsSet(h))

	vals := f.Values(5)
	assert.Len(t, vals, 5)
	assert.True(t, math.IsNaN(vals[0]))
	assert.Equal(t, 2.5, vals[3])

	assert.True(t, errors.Is(f.Set(Handle{Kind: Vertex, ID: 0}, 1), ErrInvalidHandle))
	assert.True(t, errors.Is(f.Set(NoHandle, 1), ErrInvalidHandle))

	got, ok := fr.Scalar("pressure", Triangle)
	assert.True(t, ok)
	assert.True(t, got == f)
	_, ok = fr.Scalar("pressure", Vertex)
	assert.False(t, ok)

	// Re-registration replaces
	f2 := fr.RegisterScalar("pressure", Triangle)
	assert.False(t, f2.IsSet(h))
	got, _ = fr.Scalar("pressure", Triangle)
	assert.True(t, got == f2)

	fr.RegisterScalar("density", Triangle)
	assert.Equal(t, []string{"density", "pressure"}, fr.ScalarNames(Triangle))
	fr.Unregister("density", Triangle)
	assert.Equal(t, []string{"pressure"}, fr.ScalarNames(Triangle))
	assert.Empty(t, fr.ScalarNames(Tet))
}

func TestVectorField(t *testing.T) {
	m := NewMesh()
	f := m.Fields().RegisterVector("velocity", Vertex, 3)
	h := Handle{Kind: Vertex, ID: 1}
	assert.Nil(t, f.Get(h))
	in := []float64{1, 2, 3}
	require.NoError(t, f.Set(h, in))
	in[0] = 9
	assert.Equal(t, []float64{1, 2, 3}, f.Get(h))
	assert.True(t, errors.Is(f.Set(h, []float64{1, 2}), ErrDimensionMismatch))
	assert.True(t, errors.Is(f.Set(Handle{Kind: Line}, in), ErrInvalidHandle))
	assert.Equal(t, []string{"velocity"}, m.Fields().VectorNames(Vertex))
	_, ok := m.Fields().Vector("velocity", Vertex)
	assert.True(t, ok)
}

func TestFieldReplacesAcrossKinds(t *testing.T) {
	fr := NewMesh().Fields()
	fr.RegisterVector("flux", Line, 2)
	fr.RegisterScalar("flux", Line)
	_, ok := fr.Vector("flux", Line)
	assert.False(t, ok)
	_, ok = fr.Scalar("flux", Line)
	assert.True(t, ok)
	assert.Empty(t, fr.VectorNames(Line))

	fr.RegisterVector("flux", Line, 3)
	_, ok = fr.Scalar("flux", Line)
	assert.False(t, ok)
	v, ok := fr.Vector("flux", Line)
	require.True(t, ok)
	assert.Equal(t, 3, v.Components)
	assert.Empty(t, fr.ScalarNames(Line))

	// Other element kinds keep their own entry
	fr.RegisterScalar("flux", Triangle)
	_, ok = fr.Vector("flux", Line)
	assert.True(t, ok)
}

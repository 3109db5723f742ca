package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/gomesh/types"
)

type fieldKey struct {
	name string
	kind ElementType
}

/*
FieldRegistry holds named dense data attached to the elements of one kind, indexed by
element id. A name is unique per kind, registering it again replaces the old field.
*/
type FieldRegistry struct {
	scalars map[fieldKey]*ScalarField
	vectors map[fieldKey]*VectorField
}

func NewFieldRegistry() *FieldRegistry {
	return &FieldRegistry{
		scalars: make(map[fieldKey]*ScalarField),
		vectors: make(map[fieldKey]*VectorField),
	}
}

// ScalarField values default to NaN until set
type ScalarField struct {
	Name   string
	Kind   ElementType
	values []float64
}

type VectorField struct {
	Name       string
	Kind       ElementType
	Components int
	values     [][]float64
}

func (fr *FieldRegistry) RegisterScalar(name string, kind ElementType) *ScalarField {
	f := &ScalarField{Name: name, Kind: kind}
	fr.Unregister(name, kind)
	fr.scalars[fieldKey{name, kind}] = f
	return f
}

func (fr *FieldRegistry) RegisterVector(name string, kind ElementType, components int) *VectorField {
	f := &VectorField{Name: name, Kind: kind, Components: components}
	fr.Unregister(name, kind)
	fr.vectors[fieldKey{name, kind}] = f
	return f
}

func (fr *FieldRegistry) Scalar(name string, kind ElementType) (*ScalarField, bool) {
	f, ok := fr.scalars[fieldKey{name, kind}]
	return f, ok
}

func (fr *FieldRegistry) Vector(name string, kind ElementType) (*VectorField, bool) {
	f, ok := fr.vectors[fieldKey{name, kind}]
	return f, ok
}

func (fr *FieldRegistry) Unregister(name string, kind ElementType) {
	delete(fr.scalars, fieldKey{name, kind})
	delete(fr.vectors, fieldKey{name, kind})
}

// ScalarNames lists the scalar fields of kind, sorted
func (fr *FieldRegistry) ScalarNames(kind ElementType) (names []string) {
	for k := range fr.scalars {
		if k.kind == kind {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return
}

func (fr *FieldRegistry) VectorNames(kind ElementType) (names []string) {
	for k := range fr.vectors {
		if k.kind == kind {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return
}

func (f *ScalarField) checkKind(h Handle) error {
	if h.Kind != f.Kind || h.ID < 0 {
		return fmt.Errorf("%w: field %q holds %s values, got %v", ErrInvalidHandle, f.Name, f.Kind, h)
	}
	return nil
}

func (f *ScalarField) Set(h Handle, v float64) error {
	if err := f.checkKind(h); err != nil {
		return err
	}
	f.values = types.GrowSliceFill(f.values, h.ID+1, math.NaN())
	f.values[h.ID] = v
	return nil
}

// Get returns NaN for ids never set
func (f *ScalarField) Get(h Handle) float64 {
	if h.Kind != f.Kind || h.ID < 0 || h.ID >= len(f.values) {
		return math.NaN()
	}
	return f.values[h.ID]
}

func (f *ScalarField) IsSet(h Handle) bool {
	return !math.IsNaN(f.Get(h))
}

// Values is the dense array sized to upper, indexed by id
func (f *ScalarField) Values(upper int) []float64 {
	f.values = types.GrowSliceFill(f.values, upper, math.NaN())
	return f.values[:upper]
}

func (f *VectorField) Set(h Handle, v []float64) error {
	if h.Kind != f.Kind || h.ID < 0 {
		return fmt.Errorf("%w: field %q holds %s values, got %v", ErrInvalidHandle, f.Name, f.Kind, h)
	}
	if len(v) != f.Components {
		return fmt.Errorf("%w: field %q has %d components, got %d", ErrDimensionMismatch, f.Name, f.Components, len(v))
	}
	f.values = types.GrowSlice(f.values, h.ID+1)
	f.values[h.ID] = append([]float64(nil), v...)
	return nil
}

// Get returns nil for ids never set
func (f *VectorField) Get(h Handle) []float64 {
	if h.Kind != f.Kind || h.ID < 0 || h.ID >= len(f.values) {
		return nil
	}
	return f.values[h.ID]
}

// remap rewrites the arrays after a compaction, ids maps old id to new id or -1
func (fr *FieldRegistry) remap(kind ElementType, ids []int, newLen int) {
	for k, f := range fr.scalars {
		if k.kind != kind {
			continue
		}
		vals := types.GrowSliceFill([]float64(nil), newLen, math.NaN())
		for old, v := range f.values {
			if old < len(ids) && ids[old] >= 0 {
				vals[ids[old]] = v
			}
		}
		f.values = vals
	}
	for k, f := range fr.vectors {
		if k.kind != kind {
			continue
		}
		vals := make([][]float64, newLen)
		for old, v := range f.values {
			if old < len(ids) && ids[old] >= 0 {
				vals[ids[old]] = v
			}
		}
		f.values = vals
	}
}

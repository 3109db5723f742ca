package refine

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/gomesh/mesh"
)

var ErrNoField = errors.New("no such field")

// childrenOf returns the destination elements covering a source element
func (res *Result) childrenOf(src, dst *mesh.Mesh, h mesh.Handle) ([]mesh.Handle, error) {
	if kids, ok := res.Children[h]; ok {
		return kids, nil
	}
	if h.Kind == mesh.Vertex {
		if h.ID < 0 || h.ID >= len(res.VertexMap) || res.VertexMap[h.ID].IsNull() {
			return nil, fmt.Errorf("%w: %v was not transferred", mesh.ErrInvalidHandle, h)
		}
		return []mesh.Handle{res.VertexMap[h.ID]}, nil
	}
	r := &refiner{src: src, dst: dst, res: res}
	vss, err := r.children(h)
	if err != nil {
		return nil, err
	}
	kids := make([]mesh.Handle, len(vss))
	for i, vs := range vss {
		if kids[i], err = dst.MakeElement(h.Kind, vs); err != nil {
			return nil, err
		}
	}
	return kids, nil
}

/*
TransferRegions recreates the regions of src in dst. Each member is replaced by the
elements covering it: the children of a refined cell, the halves of a split line, the
split pieces of a boundary face.
*/
func TransferRegions(src, dst *mesh.Mesh, res *Result) error {
	for _, sr := range src.Regions() {
		dr, err := dst.GetOrCreateRegion(sr.ID())
		if err != nil {
			return err
		}
		if sr.Name() != "" {
			if err = dr.SetName(sr.Name()); err != nil {
				return err
			}
		}
		for _, h := range sr.Members() {
			kids, err := res.childrenOf(src, dst, h)
			if err != nil {
				return fmt.Errorf("region %d: %w", sr.ID(), err)
			}
			for _, k := range kids {
				if err = dr.Add(k); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func mean(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

/*
InterpolateVertexField copies a named vertex field of src onto dst. Reused vertices keep
their values, introduced vertices take the mean over the vertices of the element they
were placed on, which is exact for fields linear along edges.
*/
func InterpolateVertexField(src, dst *mesh.Mesh, res *Result, name string) error {
	sources := func(v mesh.Handle) ([]mesh.Handle, error) {
		return src.Vertices(res.IntroducedBy[v])
	}
	if f, ok := src.Fields().Scalar(name, mesh.Vertex); ok {
		out := dst.Fields().RegisterScalar(name, mesh.Vertex)
		for id, dv := range res.VertexMap {
			sv := mesh.Handle{Kind: mesh.Vertex, ID: id, Epoch: src.Epoch()}
			if !dv.IsNull() && f.IsSet(sv) {
				if err := out.Set(dv, f.Get(sv)); err != nil {
					return err
				}
			}
		}
		for dv := range res.IntroducedBy {
			vs, err := sources(dv)
			if err != nil {
				return err
			}
			vals := make([]float64, len(vs))
			for i, v := range vs {
				vals[i] = f.Get(v)
			}
			if m := mean(vals); !math.IsNaN(m) {
				if err = out.Set(dv, m); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if f, ok := src.Fields().Vector(name, mesh.Vertex); ok {
		out := dst.Fields().RegisterVector(name, mesh.Vertex, f.Components)
		for id, dv := range res.VertexMap {
			sv := mesh.Handle{Kind: mesh.Vertex, ID: id, Epoch: src.Epoch()}
			if val := f.Get(sv); !dv.IsNull() && val != nil {
				if err := out.Set(dv, val); err != nil {
					return err
				}
			}
		}
	next:
		for dv := range res.IntroducedBy {
			vs, err := sources(dv)
			if err != nil {
				return err
			}
			avg := make([]float64, f.Components)
			for _, v := range vs {
				val := f.Get(v)
				if val == nil {
					continue next
				}
				for c := range avg {
					avg[c] += val[c] / float64(len(vs))
				}
			}
			if err = out.Set(dv, avg); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: vertex field %q", ErrNoField, name)
}

// InjectCellField gives every refined cell the value of its parent
func InjectCellField(src, dst *mesh.Mesh, res *Result, name string) error {
	kind := res.CellKind
	if f, ok := src.Fields().Scalar(name, kind); ok {
		out := dst.Fields().RegisterScalar(name, kind)
		for h, p := range res.Provenance {
			if f.IsSet(p.Parent) {
				if err := out.Set(h, f.Get(p.Parent)); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if f, ok := src.Fields().Vector(name, kind); ok {
		out := dst.Fields().RegisterVector(name, kind, f.Components)
		for h, p := range res.Provenance {
			if val := f.Get(p.Parent); val != nil {
				if err := out.Set(h, val); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %s field %q", ErrNoField, kind, name)
}

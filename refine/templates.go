package refine

import (
	"fmt"

	"github.com/notargets/gomesh/geometry"
	"github.com/notargets/gomesh/mesh"
)

type pair [2]int

func sorted(i, j int) pair {
	if i > j {
		i, j = j, i
	}
	return pair{i, j}
}

// tetFaceOmitting returns the local vertex opposite the face holding all three split edges, -1 otherwise
func tetFaceOmitting(edges []mesh.Handle, split []bool) int {
	table, _ := mesh.Tet.BoundaryTable(1, 4)
	var touched [4]bool
	var n int
	for k, l := range edges {
		if split[l.ID] {
			n++
			touched[table[k].Local[0]] = true
			touched[table[k].Local[1]] = true
		}
	}
	omitted := -1
	for i, t := range touched {
		if !t {
			if omitted >= 0 {
				return -1
			}
			omitted = i
		}
	}
	if n != 3 {
		return -1
	}
	return omitted
}

// corners maps the vertices of a source element into the destination
func (r *refiner) corners(h mesh.Handle) ([]mesh.Handle, error) {
	vs, err := r.src.Vertices(h)
	if err != nil {
		return nil, err
	}
	out := make([]mesh.Handle, len(vs))
	for i, v := range vs {
		out[i] = r.res.VertexMap[v.ID]
	}
	return out, nil
}

// midpoints of the split edges of a source element, by sorted local vertex pair
func (r *refiner) midpoints(h mesh.Handle) (map[pair]mesh.Handle, error) {
	mids := make(map[pair]mesh.Handle)
	if h.Kind == mesh.Line {
		if m := r.res.Midpoint(h); !m.IsNull() {
			mids[pair{0, 1}] = m
		}
		return mids, nil
	}
	e, err := r.src.Element(h)
	if err != nil {
		return nil, err
	}
	edges, err := e.Boundary(1)
	if err != nil {
		return nil, err
	}
	table, err := h.Kind.BoundaryTable(1, e.NumVertices())
	if err != nil {
		return nil, err
	}
	for k, l := range edges {
		if m := r.res.Midpoint(l); !m.IsNull() {
			mids[sorted(table[k].Local[0], table[k].Local[1])] = m
		}
	}
	return mids, nil
}

// children returns the destination vertex lists of the subdivision of a source element
func (r *refiner) children(h mesh.Handle) ([][]mesh.Handle, error) {
	c, err := r.corners(h)
	if err != nil {
		return nil, err
	}
	mids, err := r.midpoints(h)
	if err != nil {
		return nil, err
	}
	if len(mids) == 0 {
		return [][]mesh.Handle{c}, nil
	}
	switch h.Kind {
	case mesh.Line:
		m := mids[pair{0, 1}]
		return [][]mesh.Handle{{c[0], m}, {m, c[1]}}, nil
	case mesh.Triangle:
		return r.triangleChildren(c, mids)
	case mesh.Quad:
		return r.quadChildren(h, c, mids)
	case mesh.Tet:
		return r.tetChildren(c, mids)
	case mesh.Hex:
		return r.hexChildren(h, c, mids)
	}
	return nil, fmt.Errorf("%w: subdivision of %v", mesh.ErrUnsupported, h)
}

/*
triangleChildren keeps the winding of the parent. With r the vertex opposite the unsplit
edge (or the split edge for a single split), p and q follow r in cyclic order.
*/
func (r *refiner) triangleChildren(c []mesh.Handle, mids map[pair]mesh.Handle) ([][]mesh.Handle, error) {
	mid := func(i, j int) (mesh.Handle, bool) {
		m, ok := mids[sorted(i, j)]
		return m, ok
	}
	switch len(mids) {
	case 1:
		for k := 0; k < 3; k++ {
			i, j := (k+1)%3, (k+2)%3
			if m, ok := mid(i, j); ok {
				return [][]mesh.Handle{{c[k], c[i], m}, {c[k], m, c[j]}}, nil
			}
		}
	case 2:
		for k := 0; k < 3; k++ {
			i, j := (k+1)%3, (k+2)%3
			if _, ok := mid(i, j); ok {
				continue
			}
			mrp, _ := mid(k, i)
			mqr, _ := mid(j, k)
			corner := []mesh.Handle{c[k], mrp, mqr}
			// quad mrp, p, q, mqr cut along its shorter diagonal
			d1, err := r.distance(mrp, c[j])
			if err != nil {
				return nil, err
			}
			d2, err := r.distance(c[i], mqr)
			if err != nil {
				return nil, err
			}
			if d1 <= d2 {
				return [][]mesh.Handle{corner, {mrp, c[i], c[j]}, {mrp, c[j], mqr}}, nil
			}
			return [][]mesh.Handle{corner, {mrp, c[i], mqr}, {c[i], c[j], mqr}}, nil
		}
	case 3:
		m01, _ := mid(0, 1)
		m02, _ := mid(0, 2)
		m12, _ := mid(1, 2)
		return [][]mesh.Handle{
			{c[0], m01, m02},
			{m01, c[1], m12},
			{m02, m12, c[2]},
			{m01, m12, m02},
		}, nil
	}
	return nil, fmt.Errorf("%w: triangle with %d split edges", mesh.ErrUnsupported, len(mids))
}

func (r *refiner) distance(a, b mesh.Handle) (float64, error) {
	pa, err := r.dst.Point(a)
	if err != nil {
		return 0, err
	}
	pb, err := r.dst.Point(b)
	if err != nil {
		return 0, err
	}
	return geometry.Distance(pa, pb), nil
}

// faceCenter returns the destination vertex at the center of a source quad, created once per quad
func (r *refiner) faceCenter(q mesh.Handle) (mesh.Handle, error) {
	if h, ok := r.res.FaceMap[q]; ok {
		return h, nil
	}
	pts, err := r.src.Points(q)
	if err != nil {
		return mesh.NoHandle, err
	}
	h, err := r.introduce(geometry.Average(pts...), q, nil)
	if err != nil {
		return mesh.NoHandle, err
	}
	r.res.FaceMap[q] = h
	return h, nil
}

// quadChildren splits in tensor order around the face center
func (r *refiner) quadChildren(q mesh.Handle, c []mesh.Handle, mids map[pair]mesh.Handle) ([][]mesh.Handle, error) {
	if len(mids) != 4 {
		return nil, fmt.Errorf("%w: quad with %d split edges", mesh.ErrUnsupported, len(mids))
	}
	ctr, err := r.faceCenter(q)
	if err != nil {
		return nil, err
	}
	m01, m02, m13, m23 := mids[pair{0, 1}], mids[pair{0, 2}], mids[pair{1, 3}], mids[pair{2, 3}]
	return [][]mesh.Handle{
		{c[0], m01, m02, ctr},
		{m01, c[1], ctr, m13},
		{m02, ctr, c[2], m23},
		{ctr, m13, m23, c[3]},
	}, nil
}

// Opposite edge pairs of a tetrahedron, each as (a, b, c, d) for the diagonal m_ab - m_cd
var tetDiagonals = [3][4]int{{0, 1, 2, 3}, {0, 2, 1, 3}, {0, 3, 1, 2}}

func (r *refiner) tetChildren(c []mesh.Handle, mids map[pair]mesh.Handle) (kids [][]mesh.Handle, err error) {
	mid := func(i, j int) mesh.Handle { return mids[sorted(i, j)] }
	switch len(mids) {
	case 1:
		for p := range mids {
			i, j := p[0], p[1]
			a := append([]mesh.Handle(nil), c...)
			b := append([]mesh.Handle(nil), c...)
			a[j], b[i] = mids[p], mids[p]
			kids = [][]mesh.Handle{a, b}
		}
	case 3:
		var omitted int
		for omitted = 0; omitted < 4; omitted++ {
			if _, ok := mids[sorted((omitted+1)%4, (omitted+2)%4)]; !ok {
				continue
			}
			if _, ok := mids[sorted((omitted+1)%4, (omitted+3)%4)]; !ok {
				continue
			}
			if _, ok := mids[sorted((omitted+2)%4, (omitted+3)%4)]; ok {
				break
			}
		}
		if omitted == 4 {
			return nil, fmt.Errorf("%w: tetrahedron split pattern is not a face", mesh.ErrUnsupported)
		}
		var (
			apex    = c[omitted]
			a, b, d = (omitted + 1) % 4, (omitted + 2) % 4, (omitted + 3) % 4
		)
		for _, tri := range [][3]mesh.Handle{
			{c[a], mid(a, b), mid(a, d)},
			{mid(a, b), c[b], mid(b, d)},
			{mid(a, d), mid(b, d), c[d]},
			{mid(a, b), mid(b, d), mid(a, d)},
		} {
			kids = append(kids, []mesh.Handle{tri[0], tri[1], tri[2], apex})
		}
	case 6:
		for i := 0; i < 4; i++ {
			kid := []mesh.Handle{c[i]}
			for j := 0; j < 4; j++ {
				if j != i {
					kid = append(kid, mid(i, j))
				}
			}
			kids = append(kids, kid)
		}
		best, bestLen := 0, 0.
		for k, dg := range tetDiagonals {
			l, err := r.distance(mid(dg[0], dg[1]), mid(dg[2], dg[3]))
			if err != nil {
				return nil, err
			}
			if k == 0 || l < bestLen {
				best, bestLen = k, l
			}
		}
		dg := tetDiagonals[best]
		var (
			a, b, cc, d = dg[0], dg[1], dg[2], dg[3]
			p0, p1      = mid(a, b), mid(cc, d)
			cycle       = []mesh.Handle{mid(a, cc), mid(a, d), mid(b, d), mid(b, cc)}
		)
		for i := range cycle {
			kids = append(kids, []mesh.Handle{p0, p1, cycle[i], cycle[(i+1)%4]})
		}
	default:
		return nil, fmt.Errorf("%w: tetrahedron with %d split edges", mesh.ErrUnsupported, len(mids))
	}
	return r.orient(c, kids)
}

// orient swaps two vertices of every child tetrahedron whose orientation differs from the parent's
func (r *refiner) orient(parent []mesh.Handle, kids [][]mesh.Handle) ([][]mesh.Handle, error) {
	sign := func(vs []mesh.Handle) (float64, error) {
		var p [4]geometry.Point
		for i, v := range vs {
			pt, err := r.dst.Point(v)
			if err != nil {
				return 0, err
			}
			p[i] = pt
		}
		return geometry.OrientedVolume(p[0], p[1], p[2], p[3]), nil
	}
	ps, err := sign(parent)
	if err != nil {
		return nil, err
	}
	for _, kid := range kids {
		ks, err := sign(kid)
		if err != nil {
			return nil, err
		}
		if (ks < 0) != (ps < 0) {
			kid[2], kid[3] = kid[3], kid[2]
		}
	}
	return kids, nil
}

/*
hexChildren builds the 3x3x3 lattice of corners, edge midpoints, face centers and the
body center, then cuts it into 8 hexes in tensor order.
*/
func (r *refiner) hexChildren(h mesh.Handle, c []mesh.Handle, mids map[pair]mesh.Handle) ([][]mesh.Handle, error) {
	if len(mids) != 12 {
		return nil, fmt.Errorf("%w: hex with %d split edges", mesh.ErrUnsupported, len(mids))
	}
	faces, err := r.src.BoundaryElements(h, 2)
	if err != nil {
		return nil, err
	}
	faceTable, _ := mesh.Hex.BoundaryTable(2, 8)
	local := func(i, j, k int) int { return i/2 + 2*(j/2) + 4*(k/2) }
	var grid [3][3][3]mesh.Handle
	for k := 0; k < 3; k++ {
		for j := 0; j < 3; j++ {
			for i := 0; i < 3; i++ {
				var ones int
				for _, x := range []int{i, j, k} {
					if x == 1 {
						ones++
					}
				}
				switch ones {
				case 0:
					grid[i][j][k] = c[local(i, j, k)]
				case 1:
					lo, hi := [3]int{i, j, k}, [3]int{i, j, k}
					for d := range lo {
						if lo[d] == 1 {
							lo[d], hi[d] = 0, 2
						}
					}
					grid[i][j][k] = mids[sorted(local(lo[0], lo[1], lo[2]), local(hi[0], hi[1], hi[2]))]
				case 2:
					// the face is the one whose four corners all share the fixed coordinate
					var fixedDim, fixedVal int
					for d, x := range []int{i, j, k} {
						if x != 1 {
							fixedDim, fixedVal = d, x/2
						}
					}
					for f, sub := range faceTable {
						bit := 1 << fixedDim
						on := true
						for _, l := range sub.Local {
							if (l&bit != 0) != (fixedVal == 1) {
								on = false
								break
							}
						}
						if on {
							ctr, err := r.faceCenter(faces[f])
							if err != nil {
								return nil, err
							}
							grid[i][j][k] = ctr
							break
						}
					}
				case 3:
					pts, err := r.src.Points(h)
					if err != nil {
						return nil, err
					}
					body, err := r.introduce(geometry.Average(pts...), h, nil)
					if err != nil {
						return nil, err
					}
					grid[1][1][1] = body
				}
			}
		}
	}
	var kids [][]mesh.Handle
	for z := 0; z < 2; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				kid := make([]mesh.Handle, 8)
				for l := 0; l < 8; l++ {
					kid[l] = grid[x+l&1][y+(l>>1)&1][z+(l>>2)&1]
				}
				kids = append(kids, kid)
			}
		}
	}
	return kids, nil
}

package segmentation

import (
	"fmt"
	"math"

	"github.com/notargets/gomesh/geometry"
	"github.com/notargets/gomesh/logger"
	"github.com/notargets/gomesh/mesh"
	"github.com/notargets/gomesh/types"
)

// Norms below normEps are degenerate
const normEps = 1.e-14

// Seed is a point inside the region Region
type Seed struct {
	Region int
	Point  geometry.Point
}

type SeedReport struct {
	Region  int
	Visited int // triangles marked
	Seeds   int // triangles with line of sight to the seed point that started a walk
	Skipped int // triangles whose ray to the seed point lies in their own plane
}

type Report struct {
	Seeds []SeedReport
}

type segmenter struct {
	m       *mesh.Mesh
	fs      *FaceSegmentation
	region  int
	visited []bool
	report  *SeedReport
}

type step struct {
	tri     mesh.Handle
	outward bool
}

/*
MarkFaceSegments assigns the triangles of an oriented surface mesh to the regions of the
seed points, with no prior labeling. For each seed, in order, every triangle that can see
the seed point along the ray from its centroid without crossing another triangle starts a
walk. The walk crosses each edge to the neighbour making the smallest turn toward the
region's interior, which keeps a region closed at edges shared by more than two triangles.
The side of a triangle facing the seed is given by the sign of the ray on its normal, and
is carried across edges by comparing edge directions.
*/
func MarkFaceSegments(m *mesh.Mesh, fs *FaceSegmentation, seeds []Seed) (Report, error) {
	var report Report
	if m.GeometricDimension() != 3 {
		return report, fmt.Errorf("%w: face segmentation needs a 3D mesh, have dimension %d",
			mesh.ErrDimensionMismatch, m.GeometricDimension())
	}
	if fs.mesh != m {
		return report, fmt.Errorf("%w: segmentation belongs to another mesh", mesh.ErrInvalidParent)
	}
	fs.grow()
	tris := m.Elements(mesh.Triangle)
	pts := make([][]geometry.Point, len(tris))
	for i, tri := range tris {
		p, err := m.Points(tri)
		if err != nil {
			return report, err
		}
		pts[i] = p
	}
	for _, seed := range seeds {
		if len(seed.Point) != 3 {
			return report, fmt.Errorf("%w: seed point %v", mesh.ErrDimensionMismatch, seed.Point)
		}
		if seed.Region < 0 {
			return report, fmt.Errorf("%w: region id %d", mesh.ErrOutOfRange, seed.Region)
		}
		sr := SeedReport{Region: seed.Region}
		s := &segmenter{
			m:       m,
			fs:      fs,
			region:  seed.Region,
			visited: make([]bool, m.IDUpperBound(mesh.Triangle)),
			report:  &sr,
		}
		if err := s.detect(tris, pts, seed.Point); err != nil {
			return report, err
		}
		logger.Debug("marked face segment", "region", sr.Region, "visited", sr.Visited,
			"seeds", sr.Seeds, "skipped", sr.Skipped)
		report.Seeds = append(report.Seeds, sr)
	}
	return report, nil
}

func (s *segmenter) detect(tris []mesh.Handle, pts [][]geometry.Point, seed geometry.Point) error {
	for i, tri := range tris {
		if s.visited[tri.ID] {
			continue
		}
		p := pts[i]
		r := geometry.Average(p...)
		n, err := geometry.Normalize(geometry.TriangleNormal(p[0], p[1], p[2]), normEps)
		if err != nil {
			return fmt.Errorf("triangle %v: %w", tri, err)
		}
		d := geometry.Sub(seed, r)
		dn := geometry.Norm(d)
		if dn < normEps {
			s.report.Skipped++
			continue
		}
		proj := geometry.Dot(d, n) / dn
		if math.Abs(proj) < geometry.RayEps {
			s.report.Skipped++
			continue
		}
		var blocked bool
		for j := range tris {
			if j == i {
				continue
			}
			if geometry.IntersectRayTriangle(r, d, pts[j][0], pts[j][1], pts[j][2]) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		s.report.Seeds++
		if err = s.flood(step{tri: tri, outward: proj < 0}); err != nil {
			return err
		}
	}
	return nil
}

// flood walks depth first, each step pushing its edge winners in reverse edge order
func (s *segmenter) flood(start step) error {
	stack := []step{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.visited[cur.tri.ID] {
			continue
		}
		s.visited[cur.tri.ID] = true
		s.report.Visited++
		if err := s.fs.assign(cur.tri, s.region, cur.outward); err != nil {
			return err
		}
		next, err := s.winners(cur)
		if err != nil {
			return err
		}
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}
	return nil
}

/*
winners picks, for each edge of the current triangle, the neighbour with the smallest
oriented angle. The angle is measured in the plane normal to the edge, from the direction
toward the current triangle's centroid (x) around the inverted normal (y).
*/
func (s *segmenter) winners(cur step) (next []step, err error) {
	p, err := s.m.Points(cur.tri)
	if err != nil {
		return
	}
	center := geometry.Average(p...)
	normal, err := geometry.Normalize(geometry.TriangleNormal(p[0], p[1], p[2]), normEps)
	if err != nil {
		return nil, fmt.Errorf("triangle %v: %w", cur.tri, err)
	}
	if !cur.outward {
		normal = geometry.Scale(-1, normal)
	}
	inverted := geometry.Scale(-1, normal)
	edges, err := s.m.BoundaryElements(cur.tri, 1)
	if err != nil {
		return
	}
	for _, edge := range edges {
		lp, err := s.m.Points(edge)
		if err != nil {
			return nil, err
		}
		lineVec, err := geometry.Normalize(geometry.Sub(lp[1], lp[0]), normEps)
		if err != nil {
			return nil, fmt.Errorf("edge %v: %w", edge, err)
		}
		lineCenter := geometry.Mid(lp[0], lp[1])
		toTri, err := geometry.Normalize(geometry.Cross(inverted, lineVec), normEps)
		if err != nil {
			return nil, fmt.Errorf("edge %v: %w", edge, err)
		}
		if geometry.Dot(toTri, geometry.Sub(center, lineCenter)) < 0 {
			toTri = geometry.Scale(-1, toTri)
		}
		cob, err := s.m.CoboundaryOfType(edge, mesh.Triangle)
		if err != nil {
			return nil, err
		}
		var (
			smallest = math.MaxFloat64
			best     step
		)
		for _, nb := range cob {
			if nb == cur.tri {
				continue
			}
			np, err := s.m.Points(nb)
			if err != nil {
				return nil, err
			}
			toNb, err := geometry.Normalize(geometry.Sub(geometry.Average(np...), lineCenter), normEps)
			if err != nil {
				return nil, fmt.Errorf("triangle %v: %w", nb, err)
			}
			x, y := geometry.Dot(toTri, toNb), geometry.Dot(inverted, toNb)
			l := math.Hypot(x, y)
			if l < normEps {
				return nil, fmt.Errorf("%w: triangle %v projects onto edge %v", geometry.ErrDegenerate, nb, edge)
			}
			x, y = x/l, y/l
			angle := math.Acos(math.Max(-1, math.Min(1, x)))
			if !(y > 0) {
				angle = 2*math.Pi - angle
			}
			if angle < smallest {
				smallest = angle
				same, err := s.sameDirection(cur.tri, nb, edge)
				if err != nil {
					return nil, err
				}
				best = step{tri: nb, outward: cur.outward != same}
			}
		}
		if smallest != math.MaxFloat64 {
			next = append(next, best)
		}
	}
	return
}

// sameDirection is true when both triangles traverse the shared edge the same way, so their windings disagree
func (s *segmenter) sameDirection(a, b, edge mesh.Handle) (bool, error) {
	ev, err := s.m.Vertices(edge)
	if err != nil {
		return false, err
	}
	key := types.NewEdgeKey([2]int{ev[0].ID, ev[1].ID})
	da, err := s.directed(a, key)
	if err != nil {
		return false, err
	}
	db, err := s.directed(b, key)
	if err != nil {
		return false, err
	}
	return da.SameDirection(db), nil
}

func (s *segmenter) directed(tri mesh.Handle, key types.EdgeKey) (types.EdgeInt, error) {
	vs, err := s.m.Vertices(tri)
	if err != nil {
		return 0, err
	}
	ids := make([]int, len(vs))
	for i, v := range vs {
		ids[i] = v.ID
	}
	for _, e := range types.CycleEdges(ids) {
		if e.GetKey() == key {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: edge %v is not on triangle %v", mesh.ErrInvalidHandle, key.GetVertices(false), tri)
}

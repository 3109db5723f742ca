package mesh

import (
	"fmt"

	"github.com/notargets/gomesh/geometry"
)

// TestMeshes provides a collection of standard meshes shared by the tests of the mesh,
// reader, writer, refinement and segmentation packages
type TestMeshes struct {
	// Node definitions
	CubeNodes   NodeSet
	SquareNodes NodeSet

	// Complete mesh definitions
	SingleTriangle  CompleteMesh
	UnitSquare      CompleteMesh // two triangles
	QuadGrid        CompleteMesh // 2x2 quads
	UnitCubeSurface CompleteMesh // 12 outward oriented triangles
	SingleTet       CompleteMesh
	TwoTetMesh      CompleteMesh
	CubeTets        CompleteMesh // the unit cube cut into 6 tets around the 0-7 diagonal
	SingleHex       CompleteMesh
	SinglePrism     CompleteMesh
	SinglePyramid   CompleteMesh
	LineChain       CompleteMesh // 1D
}

// NodeSet represents a set of nodes with their coordinates
type NodeSet struct {
	Nodes   [][]float64    // Coordinates
	NodeMap map[string]int // Logical name -> array index
	Names   []string       // array index -> logical name
}

// ElementSet represents a set of elements with connectivity by logical node name
type ElementSet struct {
	Type     ElementType
	Elements [][]string
	Regions  []int // optional region id per element
}

// CompleteMesh represents a complete mesh with nodes and elements
type CompleteMesh struct {
	Nodes     NodeSet
	Elements  []ElementSet
	Dimension int
}

// GetStandardTestMeshes returns a set of standard test meshes
func GetStandardTestMeshes() *TestMeshes {
	tm := &TestMeshes{}
	tm.CubeNodes = createCubeNodes()
	tm.SquareNodes = createSquareNodes()

	tm.SingleTriangle = CompleteMesh{
		Nodes:     tm.SquareNodes,
		Elements:  []ElementSet{{Type: Triangle, Elements: [][]string{{"origin", "x", "y"}}}},
		Dimension: 2,
	}
	tm.UnitSquare = CompleteMesh{
		Nodes: tm.SquareNodes,
		Elements: []ElementSet{{Type: Triangle,
			Elements: [][]string{{"origin", "x", "xy"}, {"origin", "xy", "y"}},
			Regions:  []int{1, 2},
		}},
		Dimension: 2,
	}
	tm.QuadGrid = createQuadGrid()
	tm.UnitCubeSurface = CompleteMesh{
		Nodes: tm.CubeNodes,
		Elements: []ElementSet{{Type: Triangle, Elements: [][]string{
			{"origin", "y", "xy"}, {"origin", "xy", "x"}, // z = 0
			{"z", "xz", "xyz"}, {"z", "xyz", "yz"}, // z = 1
			{"origin", "x", "xz"}, {"origin", "xz", "z"}, // y = 0
			{"y", "yz", "xyz"}, {"y", "xyz", "xy"}, // y = 1
			{"origin", "z", "yz"}, {"origin", "yz", "y"}, // x = 0
			{"x", "xy", "xyz"}, {"x", "xyz", "xz"}, // x = 1
		}}},
		Dimension: 3,
	}
	tm.SingleTet = CompleteMesh{
		Nodes:     tm.CubeNodes,
		Elements:  []ElementSet{{Type: Tet, Elements: [][]string{{"origin", "x", "y", "z"}}}},
		Dimension: 3,
	}
	tm.TwoTetMesh = CompleteMesh{
		Nodes: tm.CubeNodes,
		Elements: []ElementSet{{Type: Tet,
			Elements: [][]string{{"origin", "x", "y", "z"}, {"x", "xy", "y", "z"}},
			Regions:  []int{1, 2},
		}},
		Dimension: 3,
	}
	var cubeTets [][]string
	for _, t := range hexTets {
		cubeTets = append(cubeTets, []string{
			tm.CubeNodes.Names[t[0]], tm.CubeNodes.Names[t[1]], tm.CubeNodes.Names[t[2]], tm.CubeNodes.Names[t[3]]})
	}
	tm.CubeTets = CompleteMesh{
		Nodes:     tm.CubeNodes,
		Elements:  []ElementSet{{Type: Tet, Elements: cubeTets}},
		Dimension: 3,
	}
	tm.SingleHex = CompleteMesh{
		Nodes: tm.CubeNodes,
		Elements: []ElementSet{{Type: Hex,
			Elements: [][]string{{"origin", "x", "y", "xy", "z", "xz", "yz", "xyz"}}}},
		Dimension: 3,
	}
	tm.SinglePrism = CompleteMesh{
		Nodes: tm.CubeNodes,
		Elements: []ElementSet{{Type: Prism,
			Elements: [][]string{{"origin", "x", "y", "z", "xz", "yz"}}}},
		Dimension: 3,
	}
	tm.SinglePyramid = CompleteMesh{
		Nodes: tm.CubeNodes,
		Elements: []ElementSet{{Type: Pyramid,
			Elements: [][]string{{"origin", "x", "y", "xy", "center_top"}}}},
		Dimension: 3,
	}
	tm.LineChain = CompleteMesh{
		Nodes: NodeSet{
			Nodes:   [][]float64{{2}, {3}, {5}, {6}},
			NodeMap: map[string]int{"a": 0, "b": 1, "c": 2, "d": 3},
			Names:   []string{"a", "b", "c", "d"},
		},
		Elements:  []ElementSet{{Type: Line, Elements: [][]string{{"a", "b"}, {"c", "d"}}}},
		Dimension: 1,
	}
	return tm
}

// Cube corners in tensor order, index = x + 2y + 4z
func createCubeNodes() NodeSet {
	nodes := [][]float64{
		{0, 0, 0}, // 0: origin
		{1, 0, 0}, // 1: x
		{0, 1, 0}, // 2: y
		{1, 1, 0}, // 3: xy
		{0, 0, 1}, // 4: z
		{1, 0, 1}, // 5: xz
		{0, 1, 1}, // 6: yz
		{1, 1, 1}, // 7: xyz
		{0.5, 0.5, 0.5}, // 8: center
		{0.5, 0.5, 1},   // 9: center_top
	}
	names := []string{"origin", "x", "y", "xy", "z", "xz", "yz", "xyz", "center", "center_top"}
	return newNodeSet(nodes, names)
}

func createSquareNodes() NodeSet {
	nodes := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	return newNodeSet(nodes, []string{"origin", "x", "y", "xy"})
}

func createQuadGrid() CompleteMesh {
	var (
		nodes [][]float64
		names []string
		name  = func(i, j int) string { return fmt.Sprintf("n%d%d", i, j) }
		quads [][]string
	)
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			nodes = append(nodes, []float64{float64(i), float64(j)})
			names = append(names, name(i, j))
		}
	}
	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			quads = append(quads, []string{name(i, j), name(i+1, j), name(i, j+1), name(i+1, j+1)})
		}
	}
	return CompleteMesh{
		Nodes:     newNodeSet(nodes, names),
		Elements:  []ElementSet{{Type: Quad, Elements: quads}},
		Dimension: 2,
	}
}

func newNodeSet(nodes [][]float64, names []string) NodeSet {
	nodeMap := make(map[string]int, len(names))
	for i, name := range names {
		nodeMap[name] = i
	}
	return NodeSet{Nodes: nodes, NodeMap: nodeMap, Names: names}
}

// BuiltMesh is a CompleteMesh loaded into a Mesh
type BuiltMesh struct {
	Mesh     *Mesh
	Vertices map[string]Handle
	Elements [][]Handle // per element set, in definition order
}

/*
Build loads the mesh. Only the nodes referenced by elements become vertices, in node
array order, so vertex ids match node indices for meshes that use every node.
*/
func (cm CompleteMesh) Build() (*BuiltMesh, error) {
	bm := &BuiltMesh{Mesh: NewMesh(), Vertices: make(map[string]Handle)}
	used := make(map[string]bool)
	for _, es := range cm.Elements {
		for _, elem := range es.Elements {
			for _, name := range elem {
				used[name] = true
			}
		}
	}
	for i, coords := range cm.Nodes.Nodes {
		name := cm.Nodes.Names[i]
		if !used[name] {
			continue
		}
		v, err := bm.Mesh.MakeVertex(geometry.NewPoint(coords...))
		if err != nil {
			return nil, err
		}
		bm.Vertices[name] = v
	}
	for _, es := range cm.Elements {
		hs := make([]Handle, len(es.Elements))
		for i, elem := range es.Elements {
			vs := make([]Handle, len(elem))
			for j, name := range elem {
				vs[j] = bm.Vertices[name]
			}
			h, err := bm.Mesh.MakeElement(es.Type, vs)
			if err != nil {
				return nil, err
			}
			hs[i] = h
			if i < len(es.Regions) {
				r, err := bm.Mesh.GetOrCreateRegion(es.Regions[i])
				if err != nil {
					return nil, err
				}
				if err = r.Add(h); err != nil {
					return nil, err
				}
			}
		}
		bm.Elements = append(bm.Elements, hs)
	}
	return bm, nil
}

// MustBuild panics on error, for fixtures known to be valid
func (cm CompleteMesh) MustBuild() *BuiltMesh {
	bm, err := cm.Build()
	if err != nil {
		panic(err)
	}
	return bm
}

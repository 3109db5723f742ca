package readers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/gomesh/geometry"
	"github.com/notargets/gomesh/mesh"
)

// gmshElementType22 maps the first order Gmsh v2.2 element type numbers
var gmshElementType22 = map[int]mesh.ElementType{
	1:  mesh.Line,     // 2-node line
	2:  mesh.Triangle, // 3-node triangle
	3:  mesh.Quad,     // 4-node quadrangle
	4:  mesh.Tet,      // 4-node tetrahedron
	5:  mesh.Hex,      // 8-node hexahedron
	6:  mesh.Prism,    // 6-node prism
	7:  mesh.Pyramid,  // 5-node pyramid
	15: mesh.Vertex,   // 1-node point
}

type gmsh22 struct {
	scanner *bufio.Scanner
	t       Target
	names   map[int]string // physical tag -> name
	nodes   nodeTable
}

/*
ReadGmsh22 reads an ASCII Gmsh MSH 2.2 file. Each element joins the region numbered by its
physical tag, named from $PhysicalNames when present. Points carrying a physical tag add
their vertex to the region.
*/
func ReadGmsh22(r io.Reader, t Target) error {
	g := &gmsh22{scanner: bufio.NewScanner(r), t: t, names: make(map[int]string)}
	var hasFormat bool
	for g.scanner.Scan() {
		line := strings.TrimSpace(g.scanner.Text())
		if line == "" {
			continue
		}
		var err error
		switch line {
		case "$MeshFormat":
			hasFormat = true
			err = g.readMeshFormat()
		case "$PhysicalNames":
			err = g.readPhysicalNames()
		case "$Nodes":
			err = g.readNodes()
		case "$Elements":
			if !hasFormat || g.nodes == nil {
				return fmt.Errorf("%w: $Elements before $MeshFormat and $Nodes", ErrFileFormat)
			}
			err = g.readElements()
		default:
			// $Periodic and data sections are skipped
			if strings.HasPrefix(line, "$") {
				err = g.skipTo("$End" + line[1:])
			}
		}
		if err != nil {
			return err
		}
	}
	if err := g.scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	if !hasFormat {
		return fmt.Errorf("%w: could not find $MeshFormat section", ErrFileFormat)
	}
	return nil
}

func (g *gmsh22) skipTo(end string) error {
	for g.scanner.Scan() {
		if strings.TrimSpace(g.scanner.Text()) == end {
			return nil
		}
	}
	return fmt.Errorf("%w: missing %s", ErrFileFormat, end)
}

func (g *gmsh22) count(section string) (int, error) {
	if !g.scanner.Scan() {
		return 0, fmt.Errorf("%w: unexpected EOF in %s", ErrFileFormat, section)
	}
	n, err := strconv.Atoi(strings.TrimSpace(g.scanner.Text()))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s count: %v", ErrFileFormat, section, err)
	}
	return n, nil
}

func (g *gmsh22) readMeshFormat() error {
	if !g.scanner.Scan() {
		return fmt.Errorf("%w: unexpected EOF in MeshFormat", ErrFileFormat)
	}
	parts := strings.Fields(g.scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("%w: invalid MeshFormat line", ErrFileFormat)
	}
	if !strings.HasPrefix(parts[0], "2.") {
		return fmt.Errorf("%w: unsupported Gmsh format version: %s", ErrFileFormat, parts[0])
	}
	if parts[1] != "0" {
		return fmt.Errorf("%w: binary Gmsh files are not supported", ErrFileFormat)
	}
	return g.skipTo("$EndMeshFormat")
}

func (g *gmsh22) readPhysicalNames() error {
	numNames, err := g.count("PhysicalNames")
	if err != nil {
		return err
	}
	for i := 0; i < numNames; i++ {
		if !g.scanner.Scan() {
			return fmt.Errorf("%w: unexpected EOF reading physical names", ErrFileFormat)
		}
		parts := strings.Fields(g.scanner.Text())
		if len(parts) < 3 {
			return fmt.Errorf("%w: invalid physical name line: %s", ErrFileFormat, g.scanner.Text())
		}
		tag, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("%w: invalid physical tag: %v", ErrFileFormat, err)
		}
		// names may contain spaces
		g.names[tag] = strings.Trim(strings.Join(parts[2:], " "), "\"")
	}
	return g.skipTo("$EndPhysicalNames")
}

// readNodes creates planar vertices when every z coordinate is zero
func (g *gmsh22) readNodes() error {
	numNodes, err := g.count("Nodes")
	if err != nil {
		return err
	}
	var (
		ids    = make([]int, numNodes)
		coords = make([]geometry.Point, numNodes)
		planar = true
	)
	for i := 0; i < numNodes; i++ {
		if !g.scanner.Scan() {
			return fmt.Errorf("%w: unexpected EOF reading nodes", ErrFileFormat)
		}
		parts := strings.Fields(g.scanner.Text())
		if len(parts) < 4 {
			return fmt.Errorf("%w: invalid node line: %s", ErrFileFormat, g.scanner.Text())
		}
		if ids[i], err = strconv.Atoi(parts[0]); err != nil {
			return fmt.Errorf("%w: invalid node id: %v", ErrFileFormat, err)
		}
		p := make(geometry.Point, 3)
		for j := range p {
			if p[j], err = strconv.ParseFloat(parts[1+j], 64); err != nil {
				return fmt.Errorf("%w: invalid coordinate: %v", ErrFileFormat, err)
			}
		}
		planar = planar && p[2] == 0
		coords[i] = p
	}
	g.nodes = make(nodeTable, numNodes)
	for i, p := range coords {
		if planar {
			p = p[:2]
		}
		if g.nodes[ids[i]], err = g.t.MakeVertex(p); err != nil {
			return err
		}
	}
	return g.skipTo("$EndNodes")
}

func (g *gmsh22) region(tag int) (*mesh.Region, error) {
	region, err := g.t.GetOrCreateRegion(tag)
	if err != nil {
		return nil, err
	}
	if name, ok := g.names[tag]; ok && region.Name() == "" {
		if err = region.SetName(name); err != nil {
			return nil, err
		}
	}
	return region, nil
}

func (g *gmsh22) readElements() error {
	numElements, err := g.count("Elements")
	if err != nil {
		return err
	}
	for i := 0; i < numElements; i++ {
		if !g.scanner.Scan() {
			return fmt.Errorf("%w: unexpected EOF reading elements", ErrFileFormat)
		}
		parts := strings.Fields(g.scanner.Text())
		if len(parts) < 4 {
			return fmt.Errorf("%w: invalid element line: %s", ErrFileFormat, g.scanner.Text())
		}
		elemID, _ := strconv.Atoi(parts[0])
		elemType, _ := strconv.Atoi(parts[1])
		numTags, _ := strconv.Atoi(parts[2])
		kind, ok := gmshElementType22[elemType]
		if !ok {
			return fmt.Errorf("%w: element %d: gmsh element type %d", mesh.ErrUnsupported, elemID, elemType)
		}
		n := kind.GetNumVertices()
		nodeStart := 3 + numTags
		if len(parts) < nodeStart+n {
			return fmt.Errorf("%w: element %d: expected %d nodes, got %d",
				ErrFileFormat, elemID, n, len(parts)-nodeStart)
		}
		ids := make([]int, n)
		for j := range ids {
			ids[j], _ = strconv.Atoi(parts[nodeStart+j])
		}
		vs, err := g.nodes.lookup(ids)
		if err != nil {
			return err
		}

		h := vs[0]
		if kind != mesh.Vertex {
			if h, err = makeElement(g.t, kind, vs); err != nil {
				return fmt.Errorf("element %d: %w", elemID, err)
			}
		}
		// the first tag is the physical group, zero when unassigned
		if numTags == 0 {
			continue
		}
		physical, _ := strconv.Atoi(parts[3])
		if physical <= 0 {
			continue
		}
		region, err := g.region(physical)
		if err != nil {
			return err
		}
		if err = addToRegion(region, h); err != nil {
			return err
		}
	}
	return g.skipTo("$EndElements")
}

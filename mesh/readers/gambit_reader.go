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

// gambitElementType maps Gambit NTYPE codes
var gambitElementType = map[int]mesh.ElementType{
	1: mesh.Line,
	2: mesh.Quad,
	3: mesh.Triangle,
	4: mesh.Hex,
	5: mesh.Prism,
	6: mesh.Tet,
	7: mesh.Pyramid,
}

// gambitFaces lists the faces of each solid by file local vertex number, face ids are one based in the file
var gambitFaces = map[mesh.ElementType][][]int{
	mesh.Tet:      {{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {0, 3, 2}},
	mesh.Hex:      {{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7}},
	mesh.Prism:    {{0, 2, 1}, {3, 4, 5}, {0, 1, 4, 3}, {1, 2, 5, 4}, {2, 0, 3, 5}},
	mesh.Pyramid:  {{0, 3, 2, 1}, {0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}},
	mesh.Quad:     {{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	mesh.Triangle: {{0, 1}, {1, 2}, {2, 0}},
}

type gambitElement struct {
	kind  mesh.ElementType
	verts []mesh.Handle // file order
	h     mesh.Handle
}

func gambitFace(e gambitElement, face int) (mesh.ElementType, []mesh.Handle, error) {
	table, ok := gambitFaces[e.kind]
	if !ok || face < 1 || face > len(table) {
		return 0, nil, fmt.Errorf("%w: face %d of a %s", ErrFileFormat, face, e.kind)
	}
	local := table[face-1]
	vs := make([]mesh.Handle, len(local))
	for i, l := range local {
		vs[i] = e.verts[l]
	}
	switch len(vs) {
	case 2:
		return mesh.Line, vs, nil
	case 3:
		return mesh.Triangle, vs, nil
	}
	return mesh.Quad, vs, nil
}

// ReadGambitNeutral reads a Gambit neutral file (.neu), element groups and boundary sets become regions
func ReadGambitNeutral(r io.Reader, t Target) error {
	scanner := bufio.NewScanner(r)

	// Control variables from header
	var numnp, nelem, ndfcd int
	var hasControl bool
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM") {
			if !scanner.Scan() {
				return fmt.Errorf("%w: unexpected EOF after control header", ErrFileFormat)
			}
			values := strings.Fields(scanner.Text())
			if len(values) < 4 {
				return fmt.Errorf("%w: invalid control line", ErrFileFormat)
			}
			numnp, _ = strconv.Atoi(values[0]) // Number of nodes
			nelem, _ = strconv.Atoi(values[1]) // Number of elements
			ndfcd = 3
			if len(values) >= 5 {
				ndfcd, _ = strconv.Atoi(values[4])
			}
			hasControl = true
			break
		}
	}
	if !hasControl {
		return fmt.Errorf("%w: missing NUMNP control section", ErrFileFormat)
	}
	if ndfcd < 1 || ndfcd > 3 {
		return fmt.Errorf("%w: NDFCD=%d", ErrFileFormat, ndfcd)
	}

	var (
		nodes    = make(nodeTable, numnp)
		elements = make(map[int]gambitElement, nelem)
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "ENDOFSECTION":
			continue

		case strings.Contains(line, "NODAL COORDINATES"):
			for i := 0; i < numnp; i++ {
				if !scanner.Scan() {
					return fmt.Errorf("%w: unexpected EOF reading nodes", ErrFileFormat)
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 1+ndfcd {
					return fmt.Errorf("%w: invalid node line: %s", ErrFileFormat, scanner.Text())
				}
				nodeID, err := strconv.Atoi(fields[0])
				if err != nil {
					return fmt.Errorf("%w: invalid node id: %v", ErrFileFormat, err)
				}
				p := make(geometry.Point, ndfcd)
				for j := range p {
					if p[j], err = strconv.ParseFloat(fields[1+j], 64); err != nil {
						return fmt.Errorf("%w: invalid coordinate: %v", ErrFileFormat, err)
					}
				}
				if nodes[nodeID], err = t.MakeVertex(p); err != nil {
					return err
				}
			}

		case strings.Contains(line, "ELEMENTS/CELLS"):
			for i := 0; i < nelem; i++ {
				if !scanner.Scan() {
					return fmt.Errorf("%w: unexpected EOF reading elements", ErrFileFormat)
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 3 {
					return fmt.Errorf("%w: invalid element line: %s", ErrFileFormat, scanner.Text())
				}
				elemID, _ := strconv.Atoi(fields[0])
				gambitType, _ := strconv.Atoi(fields[1])
				numNodes, _ := strconv.Atoi(fields[2])
				kind, ok := gambitElementType[gambitType]
				if !ok {
					return fmt.Errorf("%w: unknown element type: %d", ErrFileFormat, gambitType)
				}
				if numNodes != kind.GetNumVertices() {
					return fmt.Errorf("%w: %s with %d nodes", ErrFileFormat, kind, numNodes)
				}
				// connectivity may continue on following lines
				for len(fields) < 3+numNodes {
					if !scanner.Scan() {
						return fmt.Errorf("%w: unexpected EOF reading element %d", ErrFileFormat, elemID)
					}
					fields = append(fields, strings.Fields(scanner.Text())...)
				}
				ids := make([]int, numNodes)
				for j := range ids {
					ids[j], _ = strconv.Atoi(fields[3+j])
				}
				vs, err := nodes.lookup(ids)
				if err != nil {
					return err
				}
				h, err := makeElement(t, kind, vs)
				if err != nil {
					return fmt.Errorf("element %d: %w", elemID, err)
				}
				elements[elemID] = gambitElement{kind: kind, verts: vs, h: h}
			}

		case strings.Contains(line, "ELEMENT GROUP"):
			if err := readGambitGroup(scanner, t, elements); err != nil {
				return err
			}

		case strings.Contains(line, "BOUNDARY CONDITIONS"):
			if err := readGambitBoundary(scanner, t, nodes, elements); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	return nil
}

// readGambitGroup reads one ELEMENT GROUP section into the region with the group id
func readGambitGroup(scanner *bufio.Scanner, t Target, elements map[int]gambitElement) error {
	if !scanner.Scan() {
		return fmt.Errorf("%w: unexpected EOF reading element group", ErrFileFormat)
	}
	var groupID, numElems, nflags int
	parts := strings.Fields(scanner.Text())
	for i := 0; i < len(parts)-1; i++ {
		switch parts[i] {
		case "GROUP:":
			groupID, _ = strconv.Atoi(parts[i+1])
		case "ELEMENTS:":
			numElems, _ = strconv.Atoi(parts[i+1])
		case "NFLAGS:":
			nflags, _ = strconv.Atoi(parts[i+1])
		}
	}
	if !scanner.Scan() {
		return fmt.Errorf("%w: unexpected EOF reading group %d name", ErrFileFormat, groupID)
	}
	name := strings.TrimSpace(scanner.Text())
	// the flags line is present even with no flags
	if !scanner.Scan() {
		return fmt.Errorf("%w: unexpected EOF reading group %d flags", ErrFileFormat, groupID)
	}
	if got := len(strings.Fields(scanner.Text())); got != nflags {
		return fmt.Errorf("%w: group %d expects %d flags, got %d", ErrFileFormat, groupID, nflags, got)
	}

	region, err := t.GetOrCreateRegion(groupID)
	if err != nil {
		return err
	}
	if name != "" && region.Name() == "" {
		if err = region.SetName(name); err != nil {
			return err
		}
	}
	for read := 0; read < numElems; {
		if !scanner.Scan() {
			return fmt.Errorf("%w: unexpected EOF reading group %d elements", ErrFileFormat, groupID)
		}
		for _, field := range strings.Fields(scanner.Text()) {
			elemID, err := strconv.Atoi(field)
			if err != nil {
				return fmt.Errorf("%w: invalid element id in group %d: %v", ErrFileFormat, groupID, err)
			}
			e, ok := elements[elemID]
			if !ok {
				return fmt.Errorf("%w: group %d references element %d", ErrFileFormat, groupID, elemID)
			}
			if err = addToRegion(region, e.h); err != nil {
				return err
			}
			read++
		}
	}
	return nil
}

/*
readGambitBoundary reads one BOUNDARY CONDITIONS section. Element boundary sets list
(element, type, face) triples and become a region of faces named after the set, node sets
become a region of vertices.
*/
func readGambitBoundary(scanner *bufio.Scanner, t Target, nodes nodeTable, elements map[int]gambitElement) error {
	if !scanner.Scan() {
		return fmt.Errorf("%w: unexpected EOF reading boundary conditions", ErrFileFormat)
	}
	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("%w: invalid boundary condition line: %s", ErrFileFormat, scanner.Text())
	}
	name := parts[0]
	itype, _ := strconv.Atoi(parts[1])
	nentry, _ := strconv.Atoi(parts[2])
	region := t.GetOrCreateRegionByName(name)
	for i := 0; i < nentry; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("%w: unexpected EOF reading boundary %s", ErrFileFormat, name)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 1 {
			return fmt.Errorf("%w: empty entry in boundary %s", ErrFileFormat, name)
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("%w: invalid entry in boundary %s: %v", ErrFileFormat, name, err)
		}
		var h mesh.Handle
		if itype == 0 {
			vs, err := nodes.lookup([]int{id})
			if err != nil {
				return err
			}
			h = vs[0]
		} else {
			if len(fields) < 3 {
				return fmt.Errorf("%w: boundary %s entry needs element, type and face", ErrFileFormat, name)
			}
			e, ok := elements[id]
			if !ok {
				return fmt.Errorf("%w: boundary %s references element %d", ErrFileFormat, name, id)
			}
			face, _ := strconv.Atoi(fields[2])
			kind, vs, err := gambitFace(e, face)
			if err != nil {
				return err
			}
			if h, err = makeElement(t, kind, vs); err != nil {
				return err
			}
		}
		if err = addToRegion(region, h); err != nil {
			return err
		}
	}
	return nil
}

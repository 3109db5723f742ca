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

// su2Lines skips blank lines and % comments
type su2Lines struct {
	sc *bufio.Scanner
}

func (l *su2Lines) next() (string, bool) {
	for l.sc.Scan() {
		line := l.sc.Text()
		if idx := strings.Index(line, "%"); idx >= 0 {
			line = line[:idx]
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, true
		}
	}
	return "", false
}

func su2Count(line, key string) (int, error) {
	fields := strings.Fields(strings.TrimPrefix(line, key+"="))
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: invalid %s line: %s", ErrFileFormat, key, line)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s line: %s", ErrFileFormat, key, line)
	}
	return n, nil
}

// ReadSU2 reads an SU2 native format file, markers become named regions of boundary elements
func ReadSU2(r io.Reader, t Target) error {
	lines := &su2Lines{sc: bufio.NewScanner(r)}
	var (
		ndime              int
		hasNDIME, hasNPOIN bool
		cells              [][]int
		cellKinds          []mesh.ElementType
		nodes              = make(nodeTable)
	)
	flush := func() error {
		for i, ids := range cells {
			vs, err := nodes.lookup(ids)
			if err != nil {
				return err
			}
			if _, err = makeElement(t, cellKinds[i], vs); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		cells, cellKinds = nil, nil
		return nil
	}

	for {
		line, ok := lines.next()
		if !ok {
			break
		}
		var err error
		switch {
		case strings.HasPrefix(line, "NDIME="):
			hasNDIME = true
			if ndime, err = su2Count(line, "NDIME"); err != nil {
				return err
			}
			if ndime != 2 && ndime != 3 {
				return fmt.Errorf("%w: unsupported dimension: NDIME=%d", ErrFileFormat, ndime)
			}

		case strings.HasPrefix(line, "NELEM="):
			// cells are kept until the points they reference are read
			nelem, err := su2Count(line, "NELEM")
			if err != nil {
				return err
			}
			for i := 0; i < nelem; i++ {
				line, ok := lines.next()
				if !ok {
					return fmt.Errorf("%w: unexpected EOF reading elements", ErrFileFormat)
				}
				kind, ids, err := su2Element(line)
				if err != nil {
					return err
				}
				cells = append(cells, ids)
				cellKinds = append(cellKinds, kind)
			}
			if hasNPOIN {
				if err = flush(); err != nil {
					return err
				}
			}

		case strings.HasPrefix(line, "NPOIN="):
			if !hasNDIME {
				return fmt.Errorf("%w: NPOIN= before NDIME=", ErrFileFormat)
			}
			hasNPOIN = true
			npoin, err := su2Count(line, "NPOIN")
			if err != nil {
				return err
			}
			for i := 0; i < npoin; i++ {
				line, ok := lines.next()
				if !ok {
					return fmt.Errorf("%w: unexpected EOF reading nodes", ErrFileFormat)
				}
				fields := strings.Fields(line)
				if len(fields) < ndime {
					return fmt.Errorf("%w: invalid node line: expected at least %d coordinates", ErrFileFormat, ndime)
				}
				p := make(geometry.Point, ndime)
				for j := range p {
					if p[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return fmt.Errorf("%w: invalid coordinate: %v", ErrFileFormat, err)
					}
				}
				// node ids are implicit, a trailing explicit id is ignored
				if nodes[i], err = t.MakeVertex(p); err != nil {
					return err
				}
			}
			if err = flush(); err != nil {
				return err
			}

		case strings.HasPrefix(line, "NMARK="):
			if !hasNPOIN {
				return fmt.Errorf("%w: NMARK= before NPOIN=", ErrFileFormat)
			}
			nmark, err := su2Count(line, "NMARK")
			if err != nil {
				return err
			}
			for i := 0; i < nmark; i++ {
				if err = readMarker(lines, t, nodes); err != nil {
					return err
				}
			}
		}
	}

	if err := lines.sc.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	if !hasNDIME {
		return fmt.Errorf("%w: missing required NDIME= section", ErrFileFormat)
	}
	if !hasNPOIN {
		return fmt.Errorf("%w: missing required NPOIN= section", ErrFileFormat)
	}
	return nil
}

func su2Element(line string) (mesh.ElementType, []int, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, nil, fmt.Errorf("%w: invalid element line", ErrFileFormat)
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, nil, fmt.Errorf("%w: invalid element type: %v", ErrFileFormat, err)
	}
	kind, ok := mesh.FromVTKType(code)
	if !ok || kind == mesh.Vertex || kind == mesh.Polygon {
		return 0, nil, fmt.Errorf("%w: unknown element type: %d", ErrFileFormat, code)
	}
	n := kind.GetNumVertices()
	if len(fields) < n+1 {
		return 0, nil, fmt.Errorf("%w: element type %v expects %d nodes, got %d fields",
			ErrFileFormat, kind, n, len(fields)-1)
	}
	ids := make([]int, n)
	for j := range ids {
		if ids[j], err = strconv.Atoi(fields[1+j]); err != nil {
			return 0, nil, fmt.Errorf("%w: invalid node index: %v", ErrFileFormat, err)
		}
	}
	return kind, ids, nil
}

func readMarker(lines *su2Lines, t Target, nodes nodeTable) error {
	line, ok := lines.next()
	if !ok || !strings.HasPrefix(line, "MARKER_TAG=") {
		return fmt.Errorf("%w: expected MARKER_TAG=, got: %s", ErrFileFormat, line)
	}
	tag := strings.TrimSpace(strings.TrimPrefix(line, "MARKER_TAG="))
	line, ok = lines.next()
	if !ok {
		return fmt.Errorf("%w: unexpected EOF reading marker elements for %s", ErrFileFormat, tag)
	}
	n, err := su2Count(line, "MARKER_ELEMS")
	if err != nil {
		return err
	}
	region := t.GetOrCreateRegionByName(tag)
	for j := 0; j < n; j++ {
		line, ok := lines.next()
		if !ok {
			return fmt.Errorf("%w: unexpected EOF reading boundary elements", ErrFileFormat)
		}
		kind, ids, err := su2Element(line)
		if err != nil {
			return err
		}
		vs, err := nodes.lookup(ids)
		if err != nil {
			return err
		}
		h, err := makeElement(t, kind, vs)
		if err != nil {
			return fmt.Errorf("marker %s: %w", tag, err)
		}
		if err = addToRegion(region, h); err != nil {
			return err
		}
	}
	return nil
}

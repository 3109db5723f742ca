package readers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/notargets/gomesh/geometry"
	"github.com/notargets/gomesh/mesh"
)

// tokens reads whitespace separated words
type tokens struct {
	sc   *bufio.Scanner
	what string
}

func newTokens(r io.Reader) *tokens {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokens{sc: sc}
}

func (tk *tokens) more() bool { return tk.sc.Scan() }

func (tk *tokens) nextInt() (int, error) {
	if !tk.sc.Scan() {
		return 0, fmt.Errorf("%w: unexpected EOF reading %s", ErrFileFormat, tk.what)
	}
	i, err := strconv.Atoi(tk.sc.Text())
	if err != nil {
		return 0, fmt.Errorf("%w: invalid integer in %s: %v", ErrFileFormat, tk.what, err)
	}
	return i, nil
}

func (tk *tokens) nextFloat() (float64, error) {
	if !tk.sc.Scan() {
		return 0, fmt.Errorf("%w: unexpected EOF reading %s", ErrFileFormat, tk.what)
	}
	f, err := strconv.ParseFloat(tk.sc.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid coordinate: %v", ErrFileFormat, err)
	}
	return f, nil
}

func (tk *tokens) ids(n int) ([]int, error) {
	ids := make([]int, n)
	for i := range ids {
		var err error
		if ids[i], err = tk.nextInt(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

/*
ReadNetgen reads the Netgen neutral format: the node count and dim coordinates per node,
the cell count and one line per cell holding its region index and its one based vertex
numbers. An optional surface element section follows with a count and lines of boundary
condition number and facet vertices, each boundary condition becomes a region named
"boundary <bc>".
*/
func ReadNetgen(r io.Reader, t Target, dim int, cellKind mesh.ElementType) error {
	if cellKind == mesh.Vertex || cellKind.GetDimension() > dim || !cellKind.IsSimplex() {
		return fmt.Errorf("%w: netgen %dD cells of kind %s", mesh.ErrUnsupported, dim, cellKind)
	}
	tk := newTokens(r)

	tk.what = "node count"
	numNodes, err := tk.nextInt()
	if err != nil {
		return err
	}
	tk.what = "nodes"
	nodes := make(nodeTable, numNodes)
	for i := 1; i <= numNodes; i++ {
		p := make(geometry.Point, dim)
		for j := range p {
			if p[j], err = tk.nextFloat(); err != nil {
				return err
			}
		}
		if nodes[i], err = t.MakeVertex(p); err != nil {
			return err
		}
	}

	tk.what = "cell count"
	numCells, err := tk.nextInt()
	if err != nil {
		return err
	}
	tk.what = "cells"
	n := cellKind.GetNumVertices()
	for i := 0; i < numCells; i++ {
		regionID, err := tk.nextInt()
		if err != nil {
			return err
		}
		ids, err := tk.ids(n)
		if err != nil {
			return err
		}
		vs, err := nodes.lookup(ids)
		if err != nil {
			return err
		}
		h, err := t.MakeElement(cellKind, vs)
		if err != nil {
			return fmt.Errorf("cell %d: %w", i+1, err)
		}
		region, err := t.GetOrCreateRegion(regionID)
		if err != nil {
			return err
		}
		if err = addToRegion(region, h); err != nil {
			return err
		}
	}

	if cellKind == mesh.Line || !tk.more() {
		return nil
	}
	numFacets, err := strconv.Atoi(tk.sc.Text())
	if err != nil {
		return fmt.Errorf("%w: invalid surface element count: %v", ErrFileFormat, err)
	}
	tk.what = "surface elements"
	facetKind := mesh.Line
	if cellKind == mesh.Tet {
		facetKind = mesh.Triangle
	}
	for i := 0; i < numFacets; i++ {
		bc, err := tk.nextInt()
		if err != nil {
			return err
		}
		ids, err := tk.ids(facetKind.GetNumVertices())
		if err != nil {
			return err
		}
		vs, err := nodes.lookup(ids)
		if err != nil {
			return err
		}
		h, err := t.MakeElement(facetKind, vs)
		if err != nil {
			return fmt.Errorf("surface element %d: %w", i+1, err)
		}
		if err = addToRegion(t.GetOrCreateRegionByName(fmt.Sprintf("boundary %d", bc)), h); err != nil {
			return err
		}
	}
	return nil
}

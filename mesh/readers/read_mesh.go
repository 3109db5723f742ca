// Package readers loads mesh files into anything that can create vertices, elements and regions.
package readers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/notargets/gomesh/geometry"
	"github.com/notargets/gomesh/logger"
	"github.com/notargets/gomesh/mesh"
)

var ErrFileFormat = errors.New("file format error")

// Target is what a reader builds into, *mesh.Mesh satisfies it
type Target interface {
	MakeVertex(p geometry.Point) (mesh.Handle, error)
	MakeElement(kind mesh.ElementType, vs []mesh.Handle) (mesh.Handle, error)
	GetOrCreateRegion(id int) (*mesh.Region, error)
	GetOrCreateRegionByName(name string) *mesh.Region
}

type readerFunc func(r io.Reader, t Target) error

func formatOf(filename string) (readerFunc, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mesh":
		return func(r io.Reader, t Target) error { return ReadNetgen(r, t, 3, mesh.Tet) }, nil
	case ".neu":
		return ReadGambitNeutral, nil
	case ".msh":
		return ReadGmsh22, nil
	case ".su2":
		return ReadSU2, nil
	default:
		return nil, fmt.Errorf("%w: unsupported mesh format: %s", ErrFileFormat, ext)
	}
}

// ReadFile reads a mesh file into t, the format is chosen by extension
func ReadFile(filename string, t Target) error {
	read, err := formatOf(filename)
	if err != nil {
		return err
	}
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	if err = read(file, t); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*mesh.Mesh, error) {
	m := mesh.NewMesh()
	if err := ReadFile(filename, m); err != nil {
		return nil, err
	}
	logger.Debug("read mesh", "file", filename, "vertices", m.Count(mesh.Vertex), "cells", len(m.Cells()),
		"regions", m.RegionCount())
	return m, nil
}

/*
makeElement creates an element from vertices listed in the perimeter order used by the
file formats, which for quads, hexes and pyramids differs from the tensor order of mesh.
*/
func makeElement(t Target, kind mesh.ElementType, fileVerts []mesh.Handle) (mesh.Handle, error) {
	order := kind.VTKOrder(len(fileVerts))
	vs := make([]mesh.Handle, len(fileVerts))
	for i, l := range order {
		vs[l] = fileVerts[i]
	}
	return t.MakeElement(kind, vs)
}

// nodeTable maps the node ids of a file to vertex handles
type nodeTable map[int]mesh.Handle

func (nt nodeTable) lookup(ids []int) ([]mesh.Handle, error) {
	vs := make([]mesh.Handle, len(ids))
	for i, id := range ids {
		v, ok := nt[id]
		if !ok {
			return nil, fmt.Errorf("%w: node %d not defined", ErrFileFormat, id)
		}
		vs[i] = v
	}
	return vs, nil
}

func addToRegion(r *mesh.Region, h mesh.Handle) error {
	if err := r.Add(h); err != nil {
		return fmt.Errorf("region %d: %w", r.ID(), err)
	}
	return nil
}

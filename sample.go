/*
Copyright © 2026 the calvingmip authors.
This file is part of calvingmip.

calvingmip is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

calvingmip is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with calvingmip.  If not, see <http://www.gnu.org/licenses/>.
*/

package calvingmip

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
)

// Stencil is the interpolation support of a SamplePoint: the lower cell
// indices I and J and the fractional offsets DI and DJ, both in [0, 1).
type Stencil struct {
	I, J   int
	DI, DJ float64
}

// CoordinateOrder fixes how a SamplePoint is split into a Stencil and how
// stencil corners map onto two-dimensional arrays. Meshes and fields are
// sampled through the same order so that the transposed coordinate meshes
// and the (y, x) field arrays stay aligned.
type CoordinateOrder interface {
	// Stencil decomposes p.
	Stencil(p SamplePoint) Stencil
	// Index returns the array index of the stencil corner that is a steps
	// along DI and b steps along DJ from the lower corner.
	Index(s Stencil, a, b int) (axis0, axis1 int)
}

type transectOrder struct{}

// TransectOrder is the coordinate order of the CalvingMIP profiles:
// I = floor(P1), J = floor(P0), DI = frac(P0), DJ = frac(P1), and corner
// (a, b) is array element [J+a, I+b].
var TransectOrder CoordinateOrder = transectOrder{}

func (transectOrder) Stencil(p SamplePoint) Stencil {
	f0, f1 := math.Floor(p.P0), math.Floor(p.P1)
	return Stencil{I: int(f1), J: int(f0), DI: p.P0 - f0, DJ: p.P1 - f1}
}

func (transectOrder) Index(s Stencil, a, b int) (int, int) { return s.J + a, s.I + b }

// Sampler evaluates a two-dimensional array at a stencil.
type Sampler interface {
	Sample(data *sparse.DenseArray, s Stencil) (float64, error)
}

// Bilinear interpolates continuous fields between the four cells
// surrounding a stencil.
type Bilinear struct {
	Order CoordinateOrder
}

// Sample implements Sampler.
func (b Bilinear) Sample(data *sparse.DenseArray, s Stencil) (float64, error) {
	order := orderOrDefault(b.Order)
	wa := [2]float64{1 - s.DI, s.DI}
	wb := [2]float64{1 - s.DJ, s.DJ}
	var v float64
	for a := 0; a < 2; a++ {
		for c := 0; c < 2; c++ {
			i0, i1 := order.Index(s, a, c)
			if err := checkIndex(data, i0, i1); err != nil {
				return math.NaN(), fmt.Errorf("calvingmip: bilinear sample at %+v: %w", s, err)
			}
			w := wa[a] * wb[c]
			if w == 0 {
				continue // keeps exact values at cell centers next to missing cells
			}
			v += w * data.Get(i0, i1)
		}
	}
	return v, nil
}

// Nearest returns the raw value of the cell closest to a stencil, for
// categorical fields that must not be blended.
type Nearest struct {
	Order CoordinateOrder
}

// Sample implements Sampler.
func (n Nearest) Sample(data *sparse.DenseArray, s Stencil) (float64, error) {
	order := orderOrDefault(n.Order)
	for _, c := range [][2]int{{0, 0}, {1, 1}} {
		i0, i1 := order.Index(s, c[0], c[1])
		if err := checkIndex(data, i0, i1); err != nil {
			return math.NaN(), fmt.Errorf("calvingmip: nearest sample at %+v: %w", s, err)
		}
	}
	i0, i1 := order.Index(s, roundHalfUp(s.DI), roundHalfUp(s.DJ))
	return data.Get(i0, i1), nil
}

func roundHalfUp(d float64) int {
	if d >= 0.5 {
		return 1
	}
	return 0
}

func orderOrDefault(o CoordinateOrder) CoordinateOrder {
	if o == nil {
		return TransectOrder
	}
	return o
}

func checkIndex(data *sparse.DenseArray, i0, i1 int) error {
	if len(data.Shape) != 2 {
		return fmt.Errorf("%d-d array, need 2-d: %w", len(data.Shape), ErrSampleOutOfRange)
	}
	if i0 < 0 || i1 < 0 || i0 >= data.Shape[0] || i1 >= data.Shape[1] {
		return fmt.Errorf("index [%d,%d] outside %dx%d array: %w",
			i0, i1, data.Shape[0], data.Shape[1], ErrSampleOutOfRange)
	}
	return nil
}

// ProfileField is a field that is sampled along every transect.
type ProfileField struct {
	Name    string
	Data    *sparse.DenseArray
	Sampler Sampler
}

// Sample is the result of sampling every registered field at one point.
type Sample struct {
	// Point is the physical (x, y) coordinate of the sample.
	Point geom.Point
	// Distance is the radial distance of Point from the grid origin.
	Distance float64
	// Values holds one value per registered field, in registration order.
	Values []float64
}

// FieldSampler samples a set of fields along transects.
type FieldSampler struct {
	Mesh   *Mesh
	Points PointGenerator
	// Step is the spacing of points along a transect in grid cells.
	Step   float64
	Fields []ProfileField
	Order  CoordinateOrder
}

// NewFieldSampler returns a FieldSampler that uses LinePoints and the
// TransectOrder, after checking that every field matches the mesh.
func NewFieldSampler(m *Mesh, step float64, fields ...ProfileField) (*FieldSampler, error) {
	rows, cols := m.Shape()
	for _, f := range fields {
		if f.Data == nil {
			return nil, preconditionf("field %s has no data", f.Name)
		}
		if len(f.Data.Shape) != 2 || f.Data.Shape[0] != rows || f.Data.Shape[1] != cols {
			return nil, preconditionf("field %s has shape %v but the coordinate mesh is %dx%d",
				f.Name, f.Data.Shape, rows, cols)
		}
		if f.Sampler == nil {
			return nil, preconditionf("field %s has no sampler", f.Name)
		}
	}
	return &FieldSampler{
		Mesh:   m,
		Points: LinePoints{},
		Step:   step,
		Fields: fields,
		Order:  TransectOrder,
	}, nil
}

// Sample samples the coordinates and all fields along t. Any sampling
// error aborts the transect.
func (fs *FieldSampler) Sample(t TransectSpec) ([]Sample, error) {
	pts, err := fs.Points.Points(t.Start, t.End, fs.Step)
	if err != nil {
		return nil, fmt.Errorf("calvingmip: transect %s: %w", t.Name, err)
	}
	order := orderOrDefault(fs.Order)
	coords := Bilinear{Order: order}
	out := make([]Sample, len(pts))
	for k, p := range pts {
		s := order.Stencil(p)
		// The mesh axes are transposed relative to the fields: the x
		// coordinate varies along the columns of YMesh.
		x, err := coords.Sample(fs.Mesh.YMesh, s)
		if err != nil {
			return nil, fmt.Errorf("calvingmip: transect %s point %d: %w", t.Name, k, err)
		}
		y, err := coords.Sample(fs.Mesh.XMesh, s)
		if err != nil {
			return nil, fmt.Errorf("calvingmip: transect %s point %d: %w", t.Name, k, err)
		}
		smp := Sample{
			Point:    geom.Point{X: x, Y: y},
			Distance: math.Hypot(x, y),
			Values:   make([]float64, len(fs.Fields)),
		}
		for i, f := range fs.Fields {
			v, err := f.Sampler.Sample(f.Data, s)
			if err != nil {
				return nil, fmt.Errorf("calvingmip: transect %s point %d field %s: %w", t.Name, k, f.Name, err)
			}
			smp.Values[i] = v
		}
		out[k] = smp
	}
	return out, nil
}

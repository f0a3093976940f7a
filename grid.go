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
	"github.com/ctessum/sparse"
)

// Mesh holds the two-dimensional coordinate arrays of a grid. XMesh
// repeats x along each row and YMesh repeats y along each column, so both
// have shape (len(x), len(y)).
type Mesh struct {
	XMesh, YMesh *sparse.DenseArray
}

// NewMesh expands the axis arrays x and y into full coordinate meshes.
func NewMesh(x, y []float64) (*Mesh, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, preconditionf("empty axis (len(x)=%d, len(y)=%d)", len(x), len(y))
	}
	m := &Mesh{
		XMesh: sparse.ZerosDense(len(x), len(y)),
		YMesh: sparse.ZerosDense(len(x), len(y)),
	}
	// Elements are assigned directly: DenseArray.Set skips zero values,
	// which would leave stale data in a reused array.
	for i, xv := range x {
		for j, yv := range y {
			m.XMesh.Elements[i*len(y)+j] = xv
			m.YMesh.Elements[i*len(y)+j] = yv
		}
	}
	return m, nil
}

// Shape returns the number of rows and columns of the mesh.
func (m *Mesh) Shape() (rows, cols int) {
	return m.XMesh.Shape[0], m.XMesh.Shape[1]
}

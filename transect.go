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
)

// TransectNames are the names of the eight CalvingMIP profiles, in the
// order they are written to the exchange file.
var TransectNames = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// DefaultMargin is the distance, in grid cells, between the end of a
// transect and the domain boundary.
const DefaultMargin = 2

// IndexPoint is an integer (row, column) position in a grid.
type IndexPoint struct {
	Row, Col int
}

func (p IndexPoint) String() string { return fmt.Sprintf("[%d,%d]", p.Row, p.Col) }

// TransectSpec defines a straight transect in grid index space.
type TransectSpec struct {
	Name       string
	Start, End IndexPoint
}

// PlanTransects returns the eight CalvingMIP transects for a grid with
// mx rows and my columns. All transects start at the center cell and end
// margin cells from the boundary: A, C, E and G at edge midpoints and
// B, D, F and H near the corners.
func PlanTransects(mx, my, margin int) ([]TransectSpec, error) {
	if mx%2 == 0 || my%2 == 0 {
		return nil, preconditionf("grid dimensions %dx%d have no center cell; both must be odd", mx, my)
	}
	if margin < 0 {
		return nil, preconditionf("negative transect margin %d", margin)
	}
	mp, np := (mx-1)/2, (my-1)/2
	if margin > mp || margin > np {
		// The ends would cross the center and point away from their
		// own edge or corner.
		return nil, preconditionf("transect margin %d is larger than the center index of the %dx%d grid",
			margin, mx, my)
	}
	center := IndexPoint{Row: mp, Col: np}
	farRow, farCol := mx-margin, my-margin
	ends := map[string]IndexPoint{
		"A": {Row: mp, Col: farCol},
		"B": {Row: farRow, Col: farCol},
		"C": {Row: farRow, Col: np},
		"D": {Row: farRow, Col: margin},
		"E": {Row: mp, Col: margin},
		"F": {Row: margin, Col: margin},
		"G": {Row: margin, Col: np},
		"H": {Row: margin, Col: farCol},
	}
	specs := make([]TransectSpec, len(TransectNames))
	for i, name := range TransectNames {
		end := ends[name]
		if end.Row < 0 || end.Row > mx-2 || end.Col < 0 || end.Col > my-2 {
			return nil, preconditionf("transect %s end %v is outside the %dx%d grid interior (margin %d)",
				name, end, mx, my, margin)
		}
		specs[i] = TransectSpec{Name: name, Start: center, End: end}
	}
	return specs, nil
}

// SamplePoint is a fractional (row, column) position in a grid.
type SamplePoint struct {
	P0, P1 float64
}

// PointGenerator produces the ordered sample points of a transect,
// including both end points, spaced step grid cells apart.
type PointGenerator interface {
	Points(start, end IndexPoint, step float64) ([]SamplePoint, error)
}

// LinePoints places points along the straight line between the ends of
// a transect at a fixed spacing. The last point is always the exact end.
type LinePoints struct{}

const lineTolerance = 1.e-9

// Points implements PointGenerator.
func (LinePoints) Points(start, end IndexPoint, step float64) ([]SamplePoint, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, preconditionf("invalid profile step %g", step)
	}
	d0, d1 := float64(end.Row-start.Row), float64(end.Col-start.Col)
	length := math.Hypot(d0, d1)
	s := SamplePoint{P0: float64(start.Row), P1: float64(start.Col)}
	if length < lineTolerance {
		return []SamplePoint{s}, nil
	}
	n := int(math.Ceil(length/step - lineTolerance)) // points before the end
	pts := make([]SamplePoint, 0, n+1)
	for k := 0; k < n; k++ {
		f := float64(k) * step / length
		pts = append(pts, SamplePoint{P0: s.P0 + f*d0, P1: s.P1 + f*d1})
	}
	pts = append(pts, SamplePoint{P0: float64(end.Row), P1: float64(end.Col)})
	return pts, nil
}

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
	"math"

	"github.com/ctessum/sparse"
)

// Missing is the marker written for cells without valid data.
var Missing = math.NaN()

// IsMissing reports whether v is the missing-data marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// NormalizeMissing returns a copy of a in which every value that is
// exactly zero is replaced by Missing. a itself is not modified.
//
// A cell with ice but exactly zero velocity cannot be told apart from an
// ice-free cell by this rule; compare with the thickness or mask field.
func NormalizeMissing(a *sparse.DenseArray) *sparse.DenseArray {
	o := a.Copy()
	o.Shape = append([]int(nil), a.Shape...)
	for i, v := range o.Elements {
		if v == 0 {
			o.Elements[i] = Missing
		}
	}
	return o
}

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
	"testing"

	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

func TestPerYear(t *testing.T) {
	for _, d := range []unit.Dimensions{unit.MeterPerSecond, KilogramPerSecond} {
		f, err := perYear(d)
		if err != nil {
			t.Fatal(err)
		}
		if f != SecondsPerYear {
			t.Errorf("%v: factor %g, want %g", d, f, SecondsPerYear)
		}
	}
	if _, err := perYear(unit.Meter); err == nil {
		t.Error("length was accepted as a rate")
	}
}

func TestToPerYear(t *testing.T) {
	a := sparse.ZerosDense(3)
	copy(a.Elements, []float64{1, -2, 0})
	if err := ToPerYear(a, unit.MeterPerSecond); err != nil {
		t.Fatal(err)
	}
	want := []float64{SecondsPerYear, -2 * SecondsPerYear, 0}
	for i, v := range a.Elements {
		if v != want[i] {
			t.Errorf("element %d: %g != %g", i, v, want[i])
		}
	}
}

func TestProfileVariables(t *testing.T) {
	vars := ProfileVariables("C")
	if len(vars) != len(ProfileFieldNames)+1 {
		t.Fatalf("%d variables", len(vars))
	}
	want := []string{"sC", "lithkC", "xvelmeanC", "yvelmeanC", "maskC"}
	for i, v := range vars {
		if v.Name != want[i] {
			t.Errorf("variable %d is %s, want %s", i, v.Name, want[i])
		}
	}
	if vars[1].StandardName != "land_ice_thickness_along_profile_C" {
		t.Errorf("standard name %s", vars[1].StandardName)
	}
	if !vars[4].Flags || vars[4].Fill {
		t.Error("mask profile should carry flags and no fill value")
	}
}

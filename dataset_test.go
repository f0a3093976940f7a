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
	"path/filepath"
	"testing"

	"github.com/pism/calvingmip/internal/pismtest"
)

func TestDatasetRecords(t *testing.T) {
	spatial, series := writeFixtures(t, DefaultNameSets[0])
	if n := spatial.NumRecords(); n != fixtureRecords {
		t.Errorf("spatial file has %d records, want %d", n, fixtureRecords)
	}
	if n := series.NumRecords(); n != seriesRecords {
		t.Errorf("series file has %d records, want %d", n, seriesRecords)
	}

	thk, err := spatial.ReadRecord("lithk", -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(thk.Shape) != 2 || thk.Shape[0] != fixtureN || thk.Shape[1] != fixtureN {
		t.Fatalf("shape %v", thk.Shape)
	}
	if v := thk.Get(0, 0); v != 101 {
		t.Errorf("last record thickness %g, want 101", v)
	}
	thk, err = spatial.ReadRecord("lithk", 0)
	if err != nil {
		t.Fatal(err)
	}
	if v := thk.Get(4, 1); v != 100 {
		t.Errorf("first record thickness %g, want 100", v)
	}

	for _, index := range []int{2, -3} {
		if _, err := spatial.ReadRecord("lithk", index); err == nil {
			t.Errorf("record %d was read from a file with %d records", index, fixtureRecords)
		}
	}
	if _, err := spatial.ReadRecord("nothere", 0); err == nil {
		t.Error("missing variable was read")
	}
}

func TestDatasetTypes(t *testing.T) {
	spatial, series := writeFixtures(t, DefaultNameSets[0])

	// topg is a static FLOAT variable.
	topg, err := spatial.ReadRecord("topg", -1)
	if err != nil {
		t.Fatal(err)
	}
	if v := topg.Get(3, 0); v != -300 {
		t.Errorf("topg %g, want -300", v)
	}
	// mask is a BYTE variable.
	mask, err := spatial.ReadRecord("mask", 0)
	if err != nil {
		t.Fatal(err)
	}
	if v := mask.Get(2, 2); v != 3 {
		t.Errorf("mask %g, want 3", v)
	}

	x, err := spatial.ReadVariable("x")
	if err != nil {
		t.Fatal(err)
	}
	if x.Elements[0] != -2*fixtureDx || x.Elements[fixtureN-1] != 2*fixtureDx {
		t.Errorf("x axis %v", x.Elements)
	}
	if _, err := spatial.ReadVariable("time"); err == nil {
		t.Error("record variable read as a static variable")
	}
	if u := spatial.Units("x"); u != "m" {
		t.Errorf("units %q", u)
	}

	v, err := series.Scalar("lim", -6)
	if err != nil {
		t.Fatal(err)
	}
	if want := seriesValue("lim", 2); v != want {
		t.Errorf("lim = %g, want %g", v, want)
	}
	if _, err := spatial.Scalar("lithk", 0); err == nil {
		t.Error("field was read as a scalar")
	}
}

func TestDatasetShort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.nc")
	f := &pismtest.File{
		Dims:    []string{"n"},
		Lengths: []int{3},
		Vars: map[string]pismtest.Var{
			"s": {Dims: []string{"n"}, Data: []int16{-1, 0, 7}},
			"i": {Dims: []string{"n"}, Data: []int32{1 << 20, 2, 3}},
		},
	}
	if err := f.Write(path); err != nil {
		t.Fatal(err)
	}
	ds, ff, err := OpenDatasetFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	s, err := ds.ReadVariable("s")
	if err != nil {
		t.Fatal(err)
	}
	if s.Elements[0] != -1 || s.Elements[2] != 7 {
		t.Errorf("short values %v", s.Elements)
	}
	i, err := ds.ReadVariable("i")
	if err != nil {
		t.Fatal(err)
	}
	if i.Elements[0] != 1<<20 {
		t.Errorf("int values %v", i.Elements)
	}
}

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

	"github.com/pism/calvingmip/internal/pismtest"
)

const (
	fixtureN       = 5
	fixtureDx      = 5000.
	fixtureRecords = 2
	seriesRecords  = 8
)

// fixtureSpatial describes a small snapshot file whose center cell is
// ice-free open ocean.
func fixtureSpatial(names NameSet) *pismtest.Spatial {
	c := (fixtureN - 1) / 2
	center := func(i, j int) bool { return i == c && j == c }
	return &pismtest.Spatial{
		N:         fixtureN,
		Dx:        fixtureDx,
		Records:   fixtureRecords,
		Times:     []float64{110000, 110010},
		XVel:      names.XVelocity,
		YVel:      names.YVelocity,
		Thickness: names.Thickness,
		Velocity: func(r, i, j int) float64 {
			if center(i, j) {
				return 0
			}
			return float64(j+1) * 1.e-7
		},
		Thick: func(r, i, j int) float64 {
			if center(i, j) {
				return 0
			}
			return 100 + float64(r)
		},
		Mask: func(r, i, j int) float64 {
			switch {
			case center(i, j):
				return 3
			case i == 0:
				return 2
			}
			return 1
		},
		CalvingRate: func(r, i, j int) float64 { return 1.e-8 },
		Topg:        func(i, j int) float64 { return -100 * float64(i) },
	}
}

// seriesValue is the value of scalar name at record r of the series
// fixture.
func seriesValue(name string, r int) float64 {
	for i, n := range pismtest.SeriesNames {
		if n == name {
			return float64(10*(i+1) + r)
		}
	}
	return 0
}

// writeFixtures writes a snapshot and a time series file to a temporary
// directory and opens them.
func writeFixtures(t *testing.T, names NameSet) (spatial, series *Dataset) {
	t.Helper()
	dir := t.TempDir()
	sp, err := fixtureSpatial(names).Write(dir)
	if err != nil {
		t.Fatal(err)
	}
	tp, err := pismtest.Series(dir, seriesRecords, seriesValue)
	if err != nil {
		t.Fatal(err)
	}
	spatial, f1, err := OpenDatasetFile(sp)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f1.Close() })
	series, f2, err := OpenDatasetFile(tp)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f2.Close() })
	return spatial, series
}

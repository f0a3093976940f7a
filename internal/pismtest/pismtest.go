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

// Package pismtest writes small synthetic PISM output files for tests.
package pismtest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ctessum/cdf"
)

// SecondsPerYear matches the conversion constant of the exchange file.
const SecondsPerYear = 365 * 24 * 3600.

// Var is one variable of a synthetic file. Data holds every record of a
// record variable, one after the other, and may be []float64, []float32,
// []int32, []int16 or []uint8.
type Var struct {
	Dims  []string
	Units string
	Data  interface{}
}

// File describes a synthetic NetCDF file. A dimension of length 0 is
// the record dimension.
type File struct {
	Dims    []string
	Lengths []int
	Vars    map[string]Var
}

// Write writes f to path.
func (f *File) Write(path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pismtest: %v", r)
		}
	}()
	h := cdf.NewHeader(f.Dims, f.Lengths)
	names := make([]string, 0, len(f.Vars))
	for n := range f.Vars {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		v := f.Vars[n]
		var zero interface{}
		switch v.Data.(type) {
		case []float64:
			zero = []float64{0}
		case []float32:
			zero = []float32{0}
		case []int32:
			zero = []int32{0}
		case []int16:
			zero = []int16{0}
		case []uint8:
			zero = []uint8{0}
		default:
			return fmt.Errorf("pismtest: variable %s has unsupported type %T", n, v.Data)
		}
		h.AddVariable(n, v.Dims, zero)
		if v.Units != "" {
			h.AddAttribute(n, "units", v.Units)
		}
	}
	h.Define()

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	ff, err := cdf.Create(w, h)
	if err != nil {
		return err
	}
	for _, n := range names {
		// Fixed-size variables are written with an end past their last
		// element, so the writer does not report io.EOF.
		var start, end []int
		if !ff.Header.IsRecordVariable(n) {
			end = ff.Header.Lengths(n)
			start = make([]int, len(end))
		}
		if _, err = ff.Writer(n, start, end).Write(f.Vars[n].Data); err != nil {
			return fmt.Errorf("pismtest: writing %s: %v", n, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

// Grid returns a square axis of n points spaced dx apart and centered on
// zero.
func Grid(n int, dx float64) []float64 {
	a := make([]float64, n)
	for i := range a {
		a[i] = float64(i-(n-1)/2) * dx
	}
	return a
}

// Spatial describes a synthetic PISM spatial snapshot file on a square
// grid. Field functions receive the record, row (y) and column (x) index
// and return values in PISM units.
type Spatial struct {
	N       int
	Dx      float64
	Records int

	// Times are the model times of the records in years.
	Times []float64

	// XVel, YVel and Thickness are the names of the velocity and
	// thickness variables.
	XVel, YVel, Thickness string

	Velocity    func(r, i, j int) float64 // m/s, both components
	Thick       func(r, i, j int) float64 // m
	Mask        func(r, i, j int) float64 // PISM mask codes
	CalvingRate func(r, i, j int) float64 // m/s
	Topg        func(i, j int) float64    // m, static
}

func (s *Spatial) field(f func(r, i, j int) float64) []float64 {
	out := make([]float64, 0, s.Records*s.N*s.N)
	for r := 0; r < s.Records; r++ {
		for i := 0; i < s.N; i++ {
			for j := 0; j < s.N; j++ {
				out = append(out, f(r, i, j))
			}
		}
	}
	return out
}

// Write writes the snapshot file to dir and returns its path.
func (s *Spatial) Write(dir string) (string, error) {
	axis := Grid(s.N, s.Dx)
	times := make([]float64, s.Records)
	for r := range times {
		times[r] = s.Times[r] * SecondsPerYear
	}
	topg := make([]float32, 0, s.N*s.N)
	for i := 0; i < s.N; i++ {
		for j := 0; j < s.N; j++ {
			topg = append(topg, float32(s.Topg(i, j)))
		}
	}
	mask := s.field(s.Mask)
	mask8 := make([]uint8, len(mask))
	for i, m := range mask {
		mask8[i] = uint8(int8(m))
	}
	field := []string{"time", "y", "x"}
	f := &File{
		Dims:    []string{"time", "y", "x"},
		Lengths: []int{0, s.N, s.N},
		Vars: map[string]Var{
			"time":                    {Dims: []string{"time"}, Units: "seconds since 1-1-1", Data: times},
			"x":                       {Dims: []string{"x"}, Units: "m", Data: axis},
			"y":                       {Dims: []string{"y"}, Units: "m", Data: append([]float64(nil), axis...)},
			s.XVel:                    {Dims: field, Units: "m s-1", Data: s.field(s.Velocity)},
			s.YVel:                    {Dims: field, Units: "m s-1", Data: s.field(s.Velocity)},
			s.Thickness:               {Dims: field, Units: "m", Data: s.field(s.Thick)},
			"mask":                    {Dims: field, Data: mask8},
			"calvingmip_calving_rate": {Dims: field, Units: "m s-1", Data: s.field(s.CalvingRate)},
			"topg":                    {Dims: []string{"y", "x"}, Units: "m", Data: topg},
		},
	}
	path := filepath.Join(dir, "extra.nc")
	return path, f.Write(path)
}

// SeriesNames are the scalar variables of a PISM time series file.
var SeriesNames = []string{"iareafl", "iareagr", "lim", "limnsw", "tendlicalvf", "tendligroundf"}

// Series writes a time series file with records records to dir and
// returns its path. Record r has time (110000+r) years and every scalar
// equal to value(name, r).
func Series(dir string, records int, value func(name string, r int) float64) (string, error) {
	f := &File{
		Dims:    []string{"time"},
		Lengths: []int{0},
		Vars:    make(map[string]Var),
	}
	times := make([]float64, records)
	for r := range times {
		times[r] = (110000 + float64(r)) * SecondsPerYear
	}
	f.Vars["time"] = Var{Dims: []string{"time"}, Units: "seconds since 1-1-1", Data: times}
	for _, n := range SeriesNames {
		d := make([]float64, records)
		for r := range d {
			d[r] = value(n, r)
		}
		f.Vars[n] = Var{Dims: []string{"time"}, Data: d}
	}
	path := filepath.Join(dir, "ts.nc")
	return path, f.Write(path)
}

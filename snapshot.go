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

	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

// PISM variable names read from the spatial snapshot.
const (
	pismX           = "x"
	pismY           = "y"
	pismTime        = "time"
	pismMask        = "mask"
	pismCalvingRate = "calvingmip_calving_rate"
	pismTopg        = "topg"
)

// MaskOffset is subtracted from the stored mask value to obtain the
// exchange-file categories.
const MaskOffset = 1.

// Snapshot holds the spatial fields of one model time, converted to the
// units of the exchange file.
type Snapshot struct {
	X, Y []float64 // grid axes [m]
	Time float64   // model time [a], after subtracting the time offset

	// Names is the name set the velocities and thickness were read with.
	Names NameSet

	XVel, YVel  *sparse.DenseArray // vertically averaged velocity [m/a]
	Thickness   *sparse.DenseArray // ice thickness [m]
	Mask        *sparse.DenseArray // grounding mask categories
	CalvingRate *sparse.DenseArray // calving rate [m/a]
	Topg        *sparse.DenseArray // bedrock elevation [m]
}

// Fields returns the two-dimensional fields in the order of
// FieldVariables.
func (s *Snapshot) Fields() []*sparse.DenseArray {
	return []*sparse.DenseArray{s.XVel, s.YVel, s.Thickness, s.Mask, s.CalvingRate, s.Topg}
}

// TimeSeries holds the scalar diagnostics of one model time, in the order
// and units of ScalarVariables.
type TimeSeries struct {
	Time   float64 // [a], after subtracting the time offset
	Values []float64
}

// LoadSnapshot reads record index of the spatial snapshot ds. The
// velocity and thickness names are resolved from sets before anything
// is read.
func LoadSnapshot(ds *Dataset, sets []NameSet, index int, timeOffset float64) (*Snapshot, error) {
	names, err := ResolveNames(ds, sets)
	if err != nil {
		return nil, err
	}
	s := &Snapshot{Names: names}
	x, err := ds.ReadVariable(pismX)
	if err != nil {
		return nil, err
	}
	y, err := ds.ReadVariable(pismY)
	if err != nil {
		return nil, err
	}
	s.X, s.Y = x.Elements, y.Elements

	t, err := ds.Scalar(pismTime, index)
	if err != nil {
		return nil, err
	}
	s.Time = t/SecondsPerYear - timeOffset

	read := func(name string) (*sparse.DenseArray, error) {
		a, err := ds.ReadRecord(name, index)
		if err != nil {
			return nil, err
		}
		if len(a.Shape) != 2 || a.Shape[0] != len(s.Y) || a.Shape[1] != len(s.X) {
			return nil, preconditionf("variable %s has shape %v, need [%d %d] (y, x)",
				name, a.Shape, len(s.Y), len(s.X))
		}
		return a, nil
	}
	rate := func(name string) (*sparse.DenseArray, error) {
		a, err := read(name)
		if err != nil {
			return nil, err
		}
		if err = ToPerYear(a, unit.MeterPerSecond); err != nil {
			return nil, err
		}
		return a, nil
	}

	if s.XVel, err = rate(names.XVelocity); err != nil {
		return nil, err
	}
	if s.YVel, err = rate(names.YVelocity); err != nil {
		return nil, err
	}
	if s.Thickness, err = read(names.Thickness); err != nil {
		return nil, err
	}
	if s.Mask, err = read(pismMask); err != nil {
		return nil, err
	}
	for i := range s.Mask.Elements {
		s.Mask.Elements[i] -= MaskOffset
	}
	if s.CalvingRate, err = rate(pismCalvingRate); err != nil {
		return nil, err
	}
	if s.Topg, err = read(pismTopg); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadTimeSeries reads record index of the scalar time series ds.
// Tendencies are converted from kg/s to kg/a.
func LoadTimeSeries(ds *Dataset, index int, timeOffset float64) (*TimeSeries, error) {
	t, err := ds.Scalar(pismTime, index)
	if err != nil {
		return nil, err
	}
	ts := &TimeSeries{
		Time:   t/SecondsPerYear - timeOffset,
		Values: make([]float64, len(ScalarVariables)),
	}
	for i, v := range ScalarVariables {
		val, err := ds.Scalar(v.Name, index)
		if err != nil {
			return nil, err
		}
		switch v.Name {
		case TendCalving, TendGroundMass:
			f, err := perYear(KilogramPerSecond)
			if err != nil {
				return nil, err
			}
			val *= f
		}
		ts.Values[i] = val
	}
	return ts, nil
}

// Value returns the named scalar.
func (ts *TimeSeries) Value(name string) (float64, error) {
	for i, v := range ScalarVariables {
		if v.Name == name {
			return ts.Values[i], nil
		}
	}
	return 0, fmt.Errorf("calvingmip: no scalar variable %s", name)
}

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
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Exchange holds everything written to a CalvingMIP exchange file.
type Exchange struct {
	Snapshot *Snapshot
	Series   *TimeSeries
	Profiles ProfileCollection

	// Transects are the planned transects, in output order.
	Transects []TransectSpec
}

// Stage is one step of a conversion. Stages are run in order and any
// error stops the conversion.
type Stage func(c *Converter, e *Exchange) error

// Converter turns a PISM spatial snapshot and scalar time series into
// an Exchange.
type Converter struct {
	// Spatial is the spatial snapshot; Series is the scalar time series.
	Spatial, Series *Dataset

	// Names are the candidate names of the velocity and thickness
	// fields, tried in order.
	Names []NameSet

	// SnapshotIndex and SeriesIndex select the records to read. Negative
	// indices count from the last record.
	SnapshotIndex, SeriesIndex int

	// Resolution is the grid spacing and Step the spacing of profile
	// points, both in km.
	Resolution, Step float64

	// Margin is the number of cells between the transect ends and the
	// grid edge.
	Margin int

	// TimeOffset [a] is subtracted from the model time.
	TimeOffset float64

	// Stages run in order by Convert. If nil, DefaultStages is used.
	Stages []Stage

	Log logrus.FieldLogger
}

// DefaultStages are the stages of a complete conversion.
var DefaultStages = []Stage{LoadSpatial, LoadSeries, NormalizeFields, ExtractProfiles}

// Convert runs the stages of c and returns the result. No partial
// result is returned on error.
func (c *Converter) Convert() (*Exchange, error) {
	if c.Log == nil {
		c.Log = logrus.StandardLogger()
	}
	stages := c.Stages
	if stages == nil {
		stages = DefaultStages
	}
	start := time.Now()
	e := new(Exchange)
	for _, s := range stages {
		if err := s(c, e); err != nil {
			return nil, err
		}
	}
	c.Log.WithFields(logrus.Fields{
		"time":     e.time(),
		"profiles": len(e.Profiles),
		"walltime": time.Since(start),
	}).Info("conversion complete")
	return e, nil
}

func (e *Exchange) time() float64 {
	if e.Snapshot != nil {
		return e.Snapshot.Time
	}
	return 0
}

// LoadSpatial reads the spatial snapshot.
func LoadSpatial(c *Converter, e *Exchange) error {
	s, err := LoadSnapshot(c.Spatial, c.Names, c.SnapshotIndex, c.TimeOffset)
	if err != nil {
		return err
	}
	c.Log.WithFields(logrus.Fields{
		"names": s.Names.String(),
		"nx":    len(s.X),
		"ny":    len(s.Y),
		"time":  s.Time,
	}).Info("read spatial snapshot")
	if u := c.Spatial.Units(s.Names.XVelocity); u != "" && u != "m s-1" && u != "m/s" {
		c.Log.WithField("units", u).Warnf("velocity %s is assumed to be in m/s", s.Names.XVelocity)
	}
	for _, v := range []struct {
		name string
		data []float64
	}{{s.Names.Thickness, s.Thickness.Elements}, {s.Names.XVelocity, s.XVel.Elements}, {s.Names.YVelocity, s.YVel.Elements}} {
		if len(v.data) == 0 {
			continue
		}
		c.Log.WithFields(logrus.Fields{
			"variable": v.name,
			"min":      floats.Min(v.data),
			"max":      floats.Max(v.data),
		}).Debug("field range")
	}
	e.Snapshot = s
	return nil
}

// LoadSeries reads the scalar time series.
func LoadSeries(c *Converter, e *Exchange) error {
	ts, err := LoadTimeSeries(c.Series, c.SeriesIndex, c.TimeOffset)
	if err != nil {
		return err
	}
	c.Log.WithField("time", ts.Time).Info("read scalar time series")
	e.Series = ts
	return nil
}

// NormalizeFields marks exact zeros of the thickness and velocity fields
// as missing. It runs before the profiles are sampled, so the missing
// marker propagates into the profiles.
func NormalizeFields(c *Converter, e *Exchange) error {
	if e.Snapshot == nil {
		return preconditionf("no snapshot to normalize")
	}
	s := e.Snapshot
	s.XVel = NormalizeMissing(s.XVel)
	s.YVel = NormalizeMissing(s.YVel)
	s.Thickness = NormalizeMissing(s.Thickness)
	return nil
}

// ExtractProfiles samples the snapshot along the eight radial
// transects.
func ExtractProfiles(c *Converter, e *Exchange) error {
	s := e.Snapshot
	if s == nil {
		return preconditionf("no snapshot to sample")
	}
	if c.Resolution <= 0 || c.Step <= 0 {
		return preconditionf("resolution (%g km) and profile step (%g km) must be positive",
			c.Resolution, c.Step)
	}
	m, err := NewMesh(s.X, s.Y)
	if err != nil {
		return err
	}
	specs, err := PlanTransects(len(s.X), len(s.Y), c.Margin)
	if err != nil {
		return err
	}
	fs, err := NewFieldSampler(m, c.Step/c.Resolution,
		ProfileField{Name: Thickness, Data: s.Thickness, Sampler: Bilinear{}},
		ProfileField{Name: XVelMean, Data: s.XVel, Sampler: Bilinear{}},
		ProfileField{Name: YVelMean, Data: s.YVel, Sampler: Bilinear{}},
		ProfileField{Name: MaskName, Data: s.Mask, Sampler: Nearest{}},
	)
	if err != nil {
		return err
	}
	pc, err := AssembleProfiles(specs, fs)
	if err != nil {
		return err
	}
	for _, t := range specs {
		c.Log.WithFields(logrus.Fields{
			"transect": t.Name,
			"start":    t.Start.String(),
			"end":      t.End.String(),
			"points":   pc[t.Name].Len(),
		}).Debug("sampled profile")
	}
	e.Profiles = pc
	e.Transects = specs
	return nil
}

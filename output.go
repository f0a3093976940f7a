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
	"os"
	"time"

	"github.com/ctessum/cdf"
)

// Metadata holds the global attributes of the exchange file.
type Metadata struct {
	Comment     string `toml:"comment" json:"comment"`
	Institution string `toml:"institution" json:"institution"`
	InputData   string `toml:"inputdata" json:"inputdata"`
}

// DefaultMetadata returns the global attributes used when no metadata
// file is given.
func DefaultMetadata() Metadata {
	return Metadata{
		Comment:     "CalvingMIP experiment 1, converted from PISM output",
		Institution: "PISM",
		InputData:   "PISM spatial and scalar time series output",
	}
}

// Names of the coordinate variables and dimensions of the exchange file.
const (
	dimX    = "X"
	dimY    = "Y"
	dimTime = "Time"
)

// outVar is a variable scheduled for writing.
type outVar struct {
	Variable
	dims []string
	data []float64
}

// fillValue marks missing cells.
var fillValue = []float64{math.NaN()}

// WriteExchange writes e to w as a CalvingMIP exchange file. Any failure
// is reported as ErrOutputWrite.
func WriteExchange(w *os.File, e *Exchange, meta Metadata) (err error) {
	if e == nil || e.Snapshot == nil || e.Series == nil || e.Profiles == nil {
		return fmt.Errorf("calvingmip: incomplete exchange data: %w", ErrOutputWrite)
	}
	defer func() {
		// The cdf header builder reports misuse by panicking.
		if r := recover(); r != nil {
			err = fmt.Errorf("calvingmip: writing netcdf header: %v: %w", r, ErrOutputWrite)
		}
	}()
	s := e.Snapshot

	dims := []string{dimX, dimY, dimTime}
	lengths := []int{len(s.X), len(s.Y), 1}
	for _, t := range e.Transects {
		p, err := e.Profiles.Get(t.Name)
		if err != nil {
			return fmt.Errorf("%v: %w", err, ErrOutputWrite)
		}
		if p.Len() == 0 {
			return fmt.Errorf("calvingmip: profile %s is empty: %w", t.Name, ErrOutputWrite)
		}
		dims = append(dims, ProfileDimension(t.Name))
		lengths = append(lengths, p.Len())
	}
	h := cdf.NewHeader(dims, lengths)

	vars := []outVar{
		{Variable{Name: dimTime, Units: "a"}, []string{dimTime}, []float64{s.Time}},
		{Variable{Name: dimX, Units: "m"}, []string{dimX}, s.X},
		{Variable{Name: dimY, Units: "m"}, []string{dimY}, s.Y},
	}
	for i, f := range s.Fields() {
		vars = append(vars, outVar{FieldVariables[i], []string{dimTime, dimY, dimX}, f.Elements})
	}
	for i, v := range ScalarVariables {
		vars = append(vars, outVar{v, []string{dimTime}, []float64{e.Series.Values[i]}})
	}
	for _, t := range e.Transects {
		p := e.Profiles[t.Name]
		pd := ProfileDimension(t.Name)
		pv := ProfileVariables(t.Name)
		vars = append(vars, outVar{Variable{Name: pd, Units: "m"}, []string{pd}, p.Distance})
		vars = append(vars, outVar{pv[0], []string{pd}, p.Distance})
		for i, name := range ProfileFieldNames {
			vars = append(vars, outVar{pv[i+1], []string{pd}, p.Values[name]})
		}
	}

	for _, v := range vars {
		h.AddVariable(v.Name, v.dims, []float64{0})
		if v.Units != "" {
			h.AddAttribute(v.Name, "units", v.Units)
		}
		if v.StandardName != "" {
			h.AddAttribute(v.Name, "Standard_name", v.StandardName)
		}
		if v.Fill {
			h.AddAttribute(v.Name, "_FillValue", fillValue)
		}
		if v.Flags {
			h.AddAttribute(v.Name, "flag_values", MaskFlagValues)
			h.AddAttribute(v.Name, "flag_meanings", MaskFlagMeanings)
		}
	}
	h.AddAttribute("", "comment", fmt.Sprintf("%s (%s)", meta.Comment, time.Now().Format("2006-01-02")))
	h.AddAttribute("", "institution", meta.Institution)
	h.AddAttribute("", "inputdata", meta.InputData)
	h.AddAttribute("", "source", "calvingmip v"+Version)
	h.Define()
	if errs := h.Check(); len(errs) != 0 {
		return fmt.Errorf("calvingmip: invalid netcdf header: %v: %w", errs, ErrOutputWrite)
	}

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("calvingmip: %v: %w", err, ErrOutputWrite)
	}
	for _, v := range vars {
		if err = writeNCF(f, v.Name, v.data); err != nil {
			return fmt.Errorf("calvingmip: writing variable %s to netcdf file: %v: %w", v.Name, err, ErrOutputWrite)
		}
	}
	if err = cdf.UpdateNumRecs(w); err != nil {
		return fmt.Errorf("calvingmip: %v: %w", err, ErrOutputWrite)
	}
	return nil
}

// writeNCF writes the whole of variable v.
func writeNCF(f *cdf.File, v string, data []float64) error {
	end := f.Header.Lengths(v)
	n := 1
	for _, l := range end {
		n *= l
	}
	if len(data) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data))
	}
	start := make([]int, len(end))
	w := f.Writer(v, start, end)
	_, err := w.Write(data)
	return err
}

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
	"gonum.org/v1/gonum/floats"
)

// SecondsPerYear is the length of the 365-day year used to convert model
// rates to the per-annum units of the exchange file.
const SecondsPerYear = 365 * 24 * 3600.

// perYear returns the factor that converts a rate with SI dimensions d
// (per second) into the same rate per year.
func perYear(d unit.Dimensions) (float64, error) {
	if d[unit.TimeDim] != -1 {
		return 0, fmt.Errorf("calvingmip: %v is not a rate per second", d)
	}
	want := make(unit.Dimensions, len(d))
	for k, v := range d {
		if k != unit.TimeDim {
			want[k] = v
		}
	}
	rate := unit.New(1, d)
	rate.Mul(unit.New(SecondsPerYear, unit.Second))
	if err := rate.Check(want); err != nil {
		return 0, fmt.Errorf("calvingmip: converting %v to per year: %v", d, err)
	}
	return rate.Value(), nil
}

// ToPerYear converts the elements of a from SI units with dimensions d
// (a rate, per second) to per-year units in place.
func ToPerYear(a *sparse.DenseArray, d unit.Dimensions) error {
	f, err := perYear(d)
	if err != nil {
		return err
	}
	floats.Scale(f, a.Elements)
	return nil
}

// KilogramPerSecond is a mass flux.
var KilogramPerSecond = unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1}

// Variable describes one variable of the exchange file.
type Variable struct {
	Name         string
	Units        string
	StandardName string
	// Fill marks variables whose missing cells are NaN, recorded in the
	// _FillValue attribute.
	Fill bool
	// Flags marks categorical variables that carry flag attributes.
	Flags bool
}

// Mask categories of the exchange file, after subtracting one from the
// stored PISM-side value.
const (
	MaskGrounded = 0.
	MaskFloating = 1.
	MaskOcean    = 2.
)

// MaskFlagValues and MaskFlagMeanings are the flag attributes of every
// mask variable.
const (
	MaskFlagValues   = "0, 1, 2"
	MaskFlagMeanings = "0=grounded ice, 1=floating ice, 2=open ocean"
)

// Names of the fields in the exchange file.
const (
	XVelMean  = "xvelmean"
	YVelMean  = "yvelmean"
	Thickness = "lithk"
	MaskName  = "mask"
	CalveRate = "calverate"
	Topg      = "topg"
)

// FieldVariables are the two-dimensional fields of the exchange file.
var FieldVariables = []Variable{
	{Name: XVelMean, Units: "m/a", StandardName: "land_ice_vertical_mean_x_velocity", Fill: true},
	{Name: YVelMean, Units: "m/a", StandardName: "land_ice_vertical_mean_y_velocity", Fill: true},
	{Name: Thickness, Units: "m", StandardName: "land_ice_thickness", Fill: true},
	{Name: MaskName, Flags: true},
	{Name: CalveRate, Units: "m/a", StandardName: "calving_rate", Fill: true},
	{Name: Topg, Units: "m", StandardName: "bedrock_altitude"},
}

// Names of the scalar time series in the exchange file, which are also
// the PISM time-series variable names.
const (
	AreaFloating   = "iareafl"
	AreaGrounded   = "iareagr"
	IceMass        = "lim"
	IceMassNSW     = "limnsw"
	TendCalving    = "tendlicalvf"
	TendGroundMass = "tendligroundf"
)

// ScalarVariables are the scalar time series of the exchange file.
var ScalarVariables = []Variable{
	{Name: AreaFloating, Units: "m^2", StandardName: "floating_ice_shelf_area"},
	{Name: AreaGrounded, Units: "m^2", StandardName: "grounded_ice_sheet_area"},
	{Name: IceMass, Units: "kg", StandardName: "land_ice_mass"},
	{Name: IceMassNSW, Units: "kg", StandardName: "land_ice_mass_not_displacing_sea_water"},
	{Name: TendCalving, Units: "kg/a", StandardName: "tendency_of_land_ice_mass_due_to_calving"},
	{Name: TendGroundMass, Units: "kg/a", StandardName: "tendency_of_grounded_ice_mass"},
}

// ProfileFieldNames are the fields sampled along every transect, in
// output order.
var ProfileFieldNames = []string{Thickness, XVelMean, YVelMean, MaskName}

// ProfileDimension returns the dimension and coordinate name of the
// profile along transect t.
func ProfileDimension(t string) string { return "Profile " + t }

// ProfileVariables returns the variables written for transect t. The
// first is the distance variable; the rest follow ProfileFieldNames.
func ProfileVariables(t string) []Variable {
	along := "_along_profile_" + t
	return []Variable{
		{Name: "s" + t, Units: "m", StandardName: "distance_along_profile_" + t},
		{Name: Thickness + t, Units: "m", StandardName: "land_ice_thickness" + along, Fill: true},
		{Name: XVelMean + t, Units: "m/a", StandardName: "land_ice_vertical_mean_x_velocity" + along, Fill: true},
		{Name: YVelMean + t, Units: "m/a", StandardName: "land_ice_vertical_mean_y_velocity" + along, Fill: true},
		{Name: MaskName + t, Flags: true},
	}
}

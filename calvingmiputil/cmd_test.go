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

package calvingmiputil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pism/calvingmip"
	"github.com/pism/calvingmip/internal/pismtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeInputs writes a 9 by 9 PISM snapshot with variables named by
// names and a matching time series to dir.
func writeInputs(t *testing.T, dir string, names calvingmip.NameSet) (spatial, series string) {
	t.Helper()
	s := &pismtest.Spatial{
		N:           9,
		Dx:          5000,
		Records:     1,
		Times:       []float64{110100},
		XVel:        names.XVelocity,
		YVel:        names.YVelocity,
		Thickness:   names.Thickness,
		Velocity:    func(r, i, j int) float64 { return 1.e-6 },
		Thick:       func(r, i, j int) float64 { return 500 },
		Mask:        func(r, i, j int) float64 { return 2 },
		CalvingRate: func(r, i, j int) float64 { return 0 },
		Topg:        func(i, j int) float64 { return -700 },
	}
	spatial, err := s.Write(dir)
	require.NoError(t, err)
	series, err = pismtest.Series(dir, 10, func(name string, r int) float64 { return 1 })
	require.NoError(t, err)
	return spatial, series
}

func TestVersion(t *testing.T) {
	cfg := InitializeConfig()
	var b bytes.Buffer
	cfg.Root.SetOut(&b)
	cfg.Root.SetArgs([]string{"version"})
	require.NoError(t, cfg.Root.Execute())
	assert.Equal(t, "calvingmip v"+calvingmip.Version+"\n", b.String())
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	spatial, series := writeInputs(t, dir, calvingmip.DefaultNameSets[1])
	out := filepath.Join(dir, "CalvingMIP_EXP1_PISM.nc")

	cfg := InitializeConfig()
	var b bytes.Buffer
	cfg.Root.SetOut(&b)
	cfg.Root.SetArgs([]string{"convert",
		"--SpatialFile=" + spatial,
		"--TimeSeriesFile=" + series,
		"--OutputFile=" + out,
		"--TimeSeriesIndex=-1",
	})
	require.NoError(t, cfg.Root.Execute())

	ds, f, err := calvingmip.OpenDatasetFile(out)
	require.NoError(t, err)
	defer f.Close()
	for _, name := range calvingmip.TransectNames {
		assert.True(t, ds.Has("s"+name), name)
	}
	v, err := ds.ReadVariable(calvingmip.XVelMean)
	require.NoError(t, err)
	assert.InDelta(t, 1.e-6*calvingmip.SecondsPerYear, v.Elements[0], 1.e-9)
	// A zero calving rate is a valid value, not missing.
	cr, err := ds.ReadVariable(calvingmip.CalveRate)
	require.NoError(t, err)
	assert.Equal(t, 0., cr.Elements[0])

	log, err := os.ReadFile(filepath.Join(dir, "CalvingMIP_EXP1_PISM.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "wrote exchange file")
	assert.Contains(t, b.String(), "wrote exchange file")
}

func TestConvertCommandNoNames(t *testing.T) {
	dir := t.TempDir()
	spatial, series := writeInputs(t, dir, calvingmip.NameSet{XVelocity: "uvel", YVelocity: "vvel", Thickness: "H"})
	out := filepath.Join(dir, "out.nc")

	cfg := InitializeConfig()
	cfg.Root.SetOut(new(bytes.Buffer))
	cfg.Root.SetErr(new(bytes.Buffer))
	cfg.Set("SpatialFile", spatial)
	cfg.Set("TimeSeriesFile", series)
	cfg.Set("OutputFile", out)
	cfg.Root.SetArgs([]string{"convert"})
	err := cfg.Root.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, calvingmip.ErrFieldNameResolution), "err = %v", err)

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "output file was written")
}

func TestConvertCommandConfigFile(t *testing.T) {
	dir := t.TempDir()
	spatial, series := writeInputs(t, dir, calvingmip.NameSet{XVelocity: "uvel", YVelocity: "vvel", Thickness: "H"})
	out := filepath.Join(dir, "out.nc")
	meta := filepath.Join(dir, "meta.yaml")
	require.NoError(t, os.WriteFile(meta, []byte("institution: somewhere\n"), 0644))
	conf := filepath.Join(dir, "calvingmip.toml")
	require.NoError(t, os.WriteFile(conf, []byte(strings.Join([]string{
		`SpatialFile = "` + spatial + `"`,
		`TimeSeriesFile = "` + series + `"`,
		`OutputFile = "` + out + `"`,
		`Metadata = "` + meta + `"`,
		`TimeSeriesIndex = -1`,
		`NameCandidates = ["uvel,vvel,H"]`,
	}, "\n")), 0644))

	cfg := InitializeConfig()
	cfg.Root.SetOut(new(bytes.Buffer))
	cfg.Root.SetArgs([]string{"convert", "--config=" + conf})
	require.NoError(t, cfg.Root.Execute())

	ds, f, err := calvingmip.OpenDatasetFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.True(t, ds.Has("lithkA"))
}

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
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConverter(t *testing.T, names NameSet) (*Converter, *test.Hook) {
	spatial, series := writeFixtures(t, names)
	log, hook := test.NewNullLogger()
	log.Level = logrus.DebugLevel
	return &Converter{
		Spatial:       spatial,
		Series:        series,
		Names:         DefaultNameSets,
		SnapshotIndex: -1,
		SeriesIndex:   -6,
		Resolution:    5,
		Step:          5,
		Margin:        DefaultMargin,
		TimeOffset:    110000,
		Log:           log,
	}, hook
}

func TestConvert(t *testing.T) {
	c, hook := testConverter(t, DefaultNameSets[0])
	e, err := c.Convert()
	require.NoError(t, err)

	require.Len(t, e.Transects, len(TransectNames))
	require.Len(t, e.Profiles, len(TransectNames))
	a := e.Profiles["A"]
	require.Equal(t, 2, a.Len())

	// The ice-free center samples as missing; the next cell is ice.
	assert.True(t, IsMissing(a.Values[Thickness][0]))
	assert.Equal(t, 101., a.Values[Thickness][1])
	assert.True(t, IsMissing(a.Values[XVelMean][0]))
	assert.InDelta(t, 4.e-7*SecondsPerYear, a.Values[XVelMean][1], 1.e-9)
	assert.Equal(t, MaskOcean, a.Values[MaskName][0])
	assert.Equal(t, MaskGrounded, a.Values[MaskName][1])
	assert.Equal(t, []float64{0, fixtureDx}, a.Distance)

	// The snapshot fields are normalized too, except the mask.
	assert.True(t, IsMissing(e.Snapshot.Thickness.Get(2, 2)))
	assert.Equal(t, MaskOcean, e.Snapshot.Mask.Get(2, 2))

	var sampled int
	for _, entry := range hook.AllEntries() {
		if entry.Message == "sampled profile" {
			sampled++
		}
	}
	assert.Equal(t, len(TransectNames), sampled)
	assert.Equal(t, "conversion complete", hook.LastEntry().Message)
}

func TestConvertProfileStep(t *testing.T) {
	c, _ := testConverter(t, DefaultNameSets[0])
	c.Step = 2.5
	e, err := c.Convert()
	require.NoError(t, err)
	a := e.Profiles["A"]
	require.Equal(t, 3, a.Len())
	// Halfway between the ice-free center and an ice cell.
	assert.True(t, IsMissing(a.Values[Thickness][1]))
	assert.InDelta(t, fixtureDx/2, a.Distance[1], 1.e-9)
}

func TestConvertNoNames(t *testing.T) {
	c, _ := testConverter(t, NameSet{XVelocity: "uvel", YVelocity: "vvel", Thickness: "h"})
	e, err := c.Convert()
	assert.Nil(t, e)
	assert.True(t, errors.Is(err, ErrFieldNameResolution), "err = %v", err)
}

func TestConvertStages(t *testing.T) {
	c, _ := testConverter(t, DefaultNameSets[0])
	var ran []string
	stage := func(name string, err error) Stage {
		return func(*Converter, *Exchange) error {
			ran = append(ran, name)
			return err
		}
	}
	fail := errors.New("stop")
	c.Stages = []Stage{stage("a", nil), stage("b", fail), stage("c", nil)}
	e, err := c.Convert()
	assert.Nil(t, e)
	assert.Equal(t, fail, err)
	assert.Equal(t, []string{"a", "b"}, ran)

	c.Stages = []Stage{ExtractProfiles}
	_, err = c.Convert()
	assert.True(t, errors.Is(err, ErrPrecondition), "err = %v", err)
}

func TestConvertSettings(t *testing.T) {
	c, _ := testConverter(t, DefaultNameSets[0])
	c.Step = 0
	_, err := c.Convert()
	assert.True(t, errors.Is(err, ErrPrecondition), "err = %v", err)

	c, _ = testConverter(t, DefaultNameSets[0])
	c.Margin = 0
	_, err = c.Convert()
	assert.True(t, errors.Is(err, ErrPrecondition), "err = %v", err)
}

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

	"github.com/ctessum/geom"
)

// Profile holds the samples of one transect in point order.
type Profile struct {
	Name string

	// Points are the physical coordinates of the samples.
	Points []geom.Point

	// Distance is the radial distance of each sample from the grid
	// origin. It is not the path length along the transect and need not
	// increase monotonically.
	Distance []float64

	// Values holds the sampled values of each field, keyed by field name.
	Values map[string][]float64
}

// Len returns the number of samples in the profile.
func (p *Profile) Len() int { return len(p.Distance) }

// ProfileCollection maps transect names to profiles.
type ProfileCollection map[string]*Profile

// AssembleProfiles samples every transect in specs with fs and packs the
// results into profiles. Each profile has exactly as many records as its
// transect has points.
func AssembleProfiles(specs []TransectSpec, fs *FieldSampler) (ProfileCollection, error) {
	pc := make(ProfileCollection, len(specs))
	for _, t := range specs {
		if _, ok := pc[t.Name]; ok {
			return nil, preconditionf("duplicate transect %s", t.Name)
		}
		samples, err := fs.Sample(t)
		if err != nil {
			return nil, err
		}
		p := &Profile{
			Name:     t.Name,
			Points:   make([]geom.Point, len(samples)),
			Distance: make([]float64, len(samples)),
			Values:   make(map[string][]float64, len(fs.Fields)),
		}
		for _, f := range fs.Fields {
			p.Values[f.Name] = make([]float64, len(samples))
		}
		for k, s := range samples {
			p.Points[k] = s.Point
			p.Distance[k] = s.Distance
			for i, f := range fs.Fields {
				p.Values[f.Name][k] = s.Values[i]
			}
		}
		pc[t.Name] = p
	}
	return pc, nil
}

// Get returns the named profile or an error if it is missing.
func (pc ProfileCollection) Get(name string) (*Profile, error) {
	p, ok := pc[name]
	if !ok {
		return nil, fmt.Errorf("calvingmip: no profile named %s", name)
	}
	return p, nil
}

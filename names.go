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
	"strings"
)

// NameSet is one set of variable names for the vertically averaged
// velocity components and the ice thickness.
type NameSet struct {
	XVelocity, YVelocity, Thickness string
}

func (n NameSet) String() string {
	return "{" + strings.Join(n.Names(), ", ") + "}"
}

// Names returns the names in the set.
func (n NameSet) Names() []string { return []string{n.XVelocity, n.YVelocity, n.Thickness} }

// DefaultNameSets are tried in order: the CalvingMIP diagnostic names
// first, then the PISM SSA names.
var DefaultNameSets = []NameSet{
	{XVelocity: "xvelmean", YVelocity: "yvelmean", Thickness: "lithk"},
	{XVelocity: "u_ssa", YVelocity: "v_ssa", Thickness: "thk"},
}

// ParseNameSet parses a comma-separated list of three names.
func ParseNameSet(s string) (NameSet, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return NameSet{}, fmt.Errorf("calvingmip: name set %q should have 3 comma-separated names", s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return NameSet{}, fmt.Errorf("calvingmip: empty name in name set %q", s)
		}
	}
	return NameSet{XVelocity: parts[0], YVelocity: parts[1], Thickness: parts[2]}, nil
}

// VariableLookup reports whether a variable is present in a dataset.
type VariableLookup interface {
	Has(name string) bool
}

// ResolveNames returns the first set in sets whose names are all present
// in ds. If none is complete, it returns a *NameResolutionError listing
// what was missing from each set.
func ResolveNames(ds VariableLookup, sets []NameSet) (NameSet, error) {
	nerr := &NameResolutionError{}
	for _, set := range sets {
		var missing []string
		for _, name := range set.Names() {
			if !ds.Has(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) == 0 {
			return set, nil
		}
		nerr.Attempts = append(nerr.Attempts, NameAttempt{Set: set, Missing: missing})
	}
	return NameSet{}, nerr
}

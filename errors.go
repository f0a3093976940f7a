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
	"fmt"
	"strings"
)

// Error kinds returned by the conversion. Every failure is fatal: callers
// match them with errors.Is and abort without writing partial output.
var (
	// ErrPrecondition is returned when the grid or the pipeline settings
	// cannot support the transects, e.g. an even grid dimension.
	ErrPrecondition = errors.New("precondition violation")

	// ErrFieldNameResolution is returned when none of the candidate
	// field-name sets is present in the input.
	ErrFieldNameResolution = errors.New("field name resolution failure")

	// ErrSampleOutOfRange is returned when a transect point has no
	// interpolation support inside the grid.
	ErrSampleOutOfRange = errors.New("sample out of range")

	// ErrOutputWrite is returned when the exchange file cannot be written.
	ErrOutputWrite = errors.New("output write failure")
)

func preconditionf(format string, a ...interface{}) error {
	return fmt.Errorf("calvingmip: %s: %w", fmt.Sprintf(format, a...), ErrPrecondition)
}

// NameAttempt records why one candidate name set could not be used.
type NameAttempt struct {
	Set     NameSet
	Missing []string
}

func (a NameAttempt) String() string {
	return fmt.Sprintf("%s: missing %s", a.Set, strings.Join(a.Missing, ", "))
}

// NameResolutionError is returned by ResolveNames when every candidate
// set has been tried. It keeps each attempt for diagnostics.
type NameResolutionError struct {
	Attempts []NameAttempt
}

func (e *NameResolutionError) Error() string {
	if len(e.Attempts) == 0 {
		return "calvingmip: no field name candidates given"
	}
	s := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		s[i] = a.String()
	}
	return "calvingmip: no usable field names (" + strings.Join(s, "; ") + ")"
}

// Unwrap makes NameResolutionError match ErrFieldNameResolution.
func (e *NameResolutionError) Unwrap() error { return ErrFieldNameResolution }

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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Dataset is a read-only NetCDF classic file.
type Dataset struct {
	f    *cdf.File
	nrec int
}

// OpenDataset reads the header of a NetCDF file of the given size.
// The size is needed to count the records of the unlimited dimension.
func OpenDataset(rw cdf.ReaderWriterAt, size int64) (*Dataset, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("calvingmip: opening netcdf file: %v", err)
	}
	return &Dataset{f: f, nrec: int(f.Header.NumRecs(size))}, nil
}

// OpenDatasetFile opens the NetCDF file at path. The returned file must be
// closed by the caller.
func OpenDatasetFile(path string) (*Dataset, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("calvingmip: %v", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("calvingmip: %v", err)
	}
	ds, err := OpenDataset(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%v (%s)", err, path)
	}
	return ds, f, nil
}

// Has reports whether the dataset contains variable v.
func (d *Dataset) Has(v string) bool { return d.f.Header.Lengths(v) != nil }

// NumRecords returns the number of records along the unlimited dimension.
func (d *Dataset) NumRecords() int { return d.nrec }

// Units returns the units attribute of variable v, or "" if it has none.
func (d *Dataset) Units(v string) string {
	if u, ok := d.f.Header.GetAttribute(v, "units").(string); ok {
		return u
	}
	return ""
}

// recordIndex converts a possibly negative record index, counted from the
// end, into an absolute one.
func (d *Dataset) recordIndex(v string, index int) (int, error) {
	i := index
	if i < 0 {
		i += d.nrec
	}
	if i < 0 || i >= d.nrec {
		return 0, fmt.Errorf("calvingmip: record %d of variable %s out of range (%d records)", index, v, d.nrec)
	}
	return i, nil
}

// ReadVariable reads the whole of a non-record variable.
func (d *Dataset) ReadVariable(v string) (*sparse.DenseArray, error) {
	dims := d.f.Header.Lengths(v)
	if dims == nil {
		return nil, fmt.Errorf("calvingmip: read netcdf: variable %v not in file", v)
	}
	if d.f.Header.IsRecordVariable(v) {
		return nil, fmt.Errorf("calvingmip: read netcdf: %v is a record variable", v)
	}
	n := 1
	for _, l := range dims {
		n *= l
	}
	r := d.f.Reader(v, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("calvingmip: read netcdf variable %s: %v", v, err)
	}
	return toDense(v, buf, dims)
}

// ReadRecord reads record index of a record variable. Negative indices
// count from the last record. Non-record variables are returned whole,
// for static fields such as bed topography.
func (d *Dataset) ReadRecord(v string, index int) (*sparse.DenseArray, error) {
	dims := d.f.Header.Lengths(v)
	if dims == nil {
		return nil, fmt.Errorf("calvingmip: read netcdf: variable %v not in file", v)
	}
	if !d.f.Header.IsRecordVariable(v) {
		return d.ReadVariable(v)
	}
	rec, err := d.recordIndex(v, index)
	if err != nil {
		return nil, err
	}
	dims = dims[1:]
	nread := 1
	for _, dim := range dims {
		nread *= dim
	}
	start, end := make([]int, len(dims)+1), make([]int, len(dims)+1)
	start[0], end[0] = rec, rec+1
	r := d.f.Reader(v, start, end)
	buf := r.Zero(nread)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("calvingmip: read netcdf variable %s record %d: %v", v, rec, err)
	}
	if len(dims) == 0 {
		dims = []int{1}
	}
	return toDense(v, buf, dims)
}

// Scalar reads record index of a one-dimensional record variable.
func (d *Dataset) Scalar(v string, index int) (float64, error) {
	a, err := d.ReadRecord(v, index)
	if err != nil {
		return 0, err
	}
	if len(a.Elements) != 1 {
		return 0, fmt.Errorf("calvingmip: variable %s has %d values per record, need 1", v, len(a.Elements))
	}
	return a.Elements[0], nil
}

// toDense converts a buffer returned by a cdf reader to a dense array.
func toDense(v string, buf interface{}, dims []int) (*sparse.DenseArray, error) {
	data := sparse.ZerosDense(dims...)
	expected := len(data.Elements)
	var n int
	switch b := buf.(type) {
	case []float64:
		n = copy(data.Elements, b)
	case []float32:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
		n = len(b)
	case []int32:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
		n = len(b)
	case []int16:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
		n = len(b)
	case []uint8: // NetCDF BYTE is signed.
		for i, val := range b {
			data.Elements[i] = float64(int8(val))
		}
		n = len(b)
	default:
		return nil, fmt.Errorf("calvingmip: variable %s has unsupported type %T", v, buf)
	}
	if n != expected {
		return nil, fmt.Errorf("calvingmip: variable %s: dims are %d but array length is %d", v, expected, n)
	}
	return data, nil
}

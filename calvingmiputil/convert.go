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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pism/calvingmip"
	"github.com/pism/calvingmip/internal/hash"
	"github.com/sirupsen/logrus"
)

// Convert converts the PISM output described by c into a CalvingMIP
// exchange file. Log messages are written to w and to c.LogFile.
// The output file is only created once all inputs have been read and
// all profiles assembled, and it is removed if writing fails.
func Convert(w io.Writer, c *ConvertConfig) error {
	logfile, err := os.Create(c.LogFile)
	if err != nil {
		return fmt.Errorf("calvingmip: problem creating log file: %v", err)
	}
	defer logfile.Close()
	log := newLogger(io.MultiWriter(w, logfile))

	spatial, sf, err := calvingmip.OpenDatasetFile(c.SpatialFile)
	if err != nil {
		return err
	}
	defer sf.Close()
	series, tf, err := calvingmip.OpenDatasetFile(c.TimeSeriesFile)
	if err != nil {
		return err
	}
	defer tf.Close()
	log.WithFields(logrus.Fields{
		"spatial":    c.SpatialFile,
		"records":    spatial.NumRecords(),
		"timeseries": c.TimeSeriesFile,
		"series":     series.NumRecords(),
	}).Info("opened input files")

	conv := &calvingmip.Converter{
		Spatial:       spatial,
		Series:        series,
		Names:         c.Names,
		SnapshotIndex: c.SnapshotIndex,
		SeriesIndex:   c.TimeSeriesIndex,
		Resolution:    c.Resolution,
		Step:          c.ProfileStep,
		Margin:        c.Margin,
		TimeOffset:    c.TimeOffset,
		Log:           log,
	}
	e, err := conv.Convert()
	if err != nil {
		log.WithError(err).Error("conversion failed")
		return err
	}
	if err := writeOutput(c.OutputFile, e, c.Metadata); err != nil {
		log.WithError(err).Error("writing exchange file failed")
		return err
	}
	log.WithFields(logrus.Fields{
		"file":     c.OutputFile,
		"checksum": hash.Checksum(e.Profiles),
	}).Info("wrote exchange file")
	return nil
}

// writeOutput writes e to path, removing the file if anything fails.
func writeOutput(path string, e *calvingmip.Exchange, meta calvingmip.Metadata) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("calvingmip: creating output file: %v: %w", err, calvingmip.ErrOutputWrite)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("calvingmip: closing output file: %v: %w", cerr, calvingmip.ErrOutputWrite)
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return calvingmip.WriteExchange(f, e, meta)
}

// newLogger returns a logger that writes text to w.
func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	}
	return log
}

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
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ghodss/yaml"
	"github.com/mitchellh/go-homedir"
	"github.com/pism/calvingmip"
	"github.com/spf13/cast"
)

// ConvertConfig holds the settings of one conversion.
type ConvertConfig struct {
	SpatialFile, TimeSeriesFile string
	OutputFile, LogFile         string

	Names []calvingmip.NameSet

	// Resolution and ProfileStep are in km.
	Resolution, ProfileStep float64

	SnapshotIndex, TimeSeriesIndex int
	Margin                         int

	// TimeOffset is in years.
	TimeOffset float64

	Metadata calvingmip.Metadata
}

// convertConfig collects the settings of the convert command.
func (cfg *Cfg) convertConfig() (*ConvertConfig, error) {
	var err error
	c := &ConvertConfig{
		Resolution:      cfg.GetFloat64("Resolution"),
		ProfileStep:     cfg.GetFloat64("ProfileStep"),
		SnapshotIndex:   cfg.GetInt("SnapshotIndex"),
		TimeSeriesIndex: cfg.GetInt("TimeSeriesIndex"),
		Margin:          cfg.GetInt("Margin"),
		TimeOffset:      cfg.GetFloat64("TimeOffset"),
	}
	if c.SpatialFile, err = checkInputFile("SpatialFile", cfg.GetString("SpatialFile")); err != nil {
		return nil, err
	}
	if c.TimeSeriesFile, err = checkInputFile("TimeSeriesFile", cfg.GetString("TimeSeriesFile")); err != nil {
		return nil, err
	}
	if c.OutputFile, err = checkOutputFile(cfg.GetString("OutputFile")); err != nil {
		return nil, err
	}
	if c.LogFile, err = expandPath(cfg.GetString("LogFile")); err != nil {
		return nil, err
	}
	c.LogFile = checkLogFile(c.LogFile, c.OutputFile)
	if c.Names, err = checkNameCandidates(cfg.Get("NameCandidates")); err != nil {
		return nil, err
	}
	if c.Metadata, err = loadMetadata(cfg.GetString("Metadata")); err != nil {
		return nil, err
	}
	if c.Resolution <= 0 || c.ProfileStep <= 0 {
		return nil, fmt.Errorf("calvingmip: Resolution (%g) and ProfileStep (%g) must be positive",
			c.Resolution, c.ProfileStep)
	}
	return c, nil
}

// expandPath expands environment variables and a leading '~' in p.
func expandPath(p string) (string, error) {
	p, err := homedir.Expand(os.ExpandEnv(p))
	if err != nil {
		return p, fmt.Errorf("calvingmip: expanding path %s: %v", p, err)
	}
	return p, nil
}

// checkInputFile makes sure that the input file named by the
// configuration variable name is specified and exists.
func checkInputFile(name, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("calvingmip: you need to specify the %s configuration variable", name)
	}
	f, err := expandPath(f)
	if err != nil {
		return f, err
	}
	if _, err := os.Stat(f); err != nil {
		return f, fmt.Errorf("calvingmip: problem with %s: %v", name, err)
	}
	return f, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`calvingmip: you need to specify an output file configuration variable (for example: OutputFile="CalvingMIP_EXP1_PISM.nc")`)
	}
	f, err := expandPath(f)
	if err != nil {
		return f, err
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("calvingmip: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile sets the log file location to the output file location
// if it is not already set.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}

// checkNameCandidates parses the candidate name sets. v may be a
// space-separated string, as set from the command line, or a list, as
// set from a configuration file.
func checkNameCandidates(v interface{}) ([]calvingmip.NameSet, error) {
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("calvingmip: invalid NameCandidates: %v", err)
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("calvingmip: NameCandidates is empty")
	}
	sets := make([]calvingmip.NameSet, len(s))
	for i, c := range s {
		if sets[i], err = calvingmip.ParseNameSet(c); err != nil {
			return nil, err
		}
	}
	return sets, nil
}

// nameSetsString formats sets the way checkNameCandidates parses them.
func nameSetsString(sets []calvingmip.NameSet) string {
	s := make([]string, len(sets))
	for i, n := range sets {
		s[i] = strings.Join(n.Names(), ",")
	}
	return strings.Join(s, " ")
}

// loadMetadata reads the global attributes of the exchange file from
// the file at path. The format is chosen by extension. An empty path
// returns the default attributes.
func loadMetadata(path string) (calvingmip.Metadata, error) {
	m := calvingmip.DefaultMetadata()
	if path == "" {
		return m, nil
	}
	path, err := expandPath(path)
	if err != nil {
		return m, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &m); err != nil {
			return m, fmt.Errorf("calvingmip: reading metadata file: %v", err)
		}
	case ".yaml", ".yml", ".json":
		b, err := ioutil.ReadFile(path)
		if err != nil {
			return m, fmt.Errorf("calvingmip: reading metadata file: %v", err)
		}
		if err := yaml.Unmarshal(b, &m); err != nil {
			return m, fmt.Errorf("calvingmip: reading metadata file %s: %v", path, err)
		}
	default:
		return m, fmt.Errorf("calvingmip: metadata file %s has unsupported extension %q", path, ext)
	}
	return m, nil
}

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

	"github.com/pism/calvingmip"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information and the commands that use it.
type Cfg struct {
	*viper.Viper

	Root, versionCmd, convertCmd *cobra.Command
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig creates the commands and registers the
// configuration options.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.Root = &cobra.Command{
		Use:   "calvingmip",
		Short: "Convert PISM output to CalvingMIP exchange files.",
		Long: `calvingmip converts the output of a PISM ice sheet simulation into the
NetCDF exchange file format of the Calving Model Intercomparison Project
(CalvingMIP), including the eight radial profiles A through H.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CALVINGMIP_var' where 'var'
is the name of the variable to be set. File paths may contain environment
variables and a leading '~'.
Refer to https://github.com/spf13/viper for additional configuration information.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return cfg.setConfig() },
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of calvingmip.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("calvingmip v%s\n", calvingmip.Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.convertCmd = &cobra.Command{
		Use:   "convert",
		Short: "Write a CalvingMIP exchange file.",
		Long: `convert reads one snapshot of a PISM spatial output file and one record
of a PISM scalar time series file, samples the ice thickness, velocity, and
mask along the eight CalvingMIP profiles, and writes everything to a single
exchange file. No output is written if any step fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cfg.convertConfig()
			if err != nil {
				return err
			}
			return Convert(cmd.OutOrStdout(), c)
		},
		DisableAutoGenTag: true,
	}

	options := []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "SpatialFile",
			usage: `
              SpatialFile is the path to the PISM spatial output file
              (usually the extra file) holding the velocity, thickness,
              mask, calving rate, and bed topography fields.`,
			shorthand:  "s",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "TimeSeriesFile",
			usage: `
              TimeSeriesFile is the path to the PISM scalar time series
              file holding the ice areas, masses, and mass tendencies.`,
			shorthand:  "t",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the exchange file should be
              written.`,
			shorthand:  "o",
			defaultVal: "CalvingMIP_EXP1_PISM.nc",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can
              include environment variables. If LogFile is left blank,
              the logfile will be saved in the same location as the
              OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Metadata",
			usage: `
              Metadata is the path to a TOML (.toml) or YAML (.yaml, .yml,
              .json) file with the comment, institution, and inputdata
              global attributes of the exchange file. If it is left blank,
              default attributes are used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Resolution",
			usage: `
              Resolution is the horizontal grid spacing of the PISM
              output in km.`,
			defaultVal: 5.0,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "ProfileStep",
			usage: `
              ProfileStep is the spacing of the points along each profile
              in km.`,
			defaultVal: 5.0,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "SnapshotIndex",
			usage: `
              SnapshotIndex is the record of SpatialFile to convert.
              Negative values count back from the last record.`,
			defaultVal: -1,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "TimeSeriesIndex",
			usage: `
              TimeSeriesIndex is the record of TimeSeriesFile to convert.
              Negative values count back from the last record.`,
			defaultVal: -6,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "TimeOffset",
			usage: `
              TimeOffset is the number of years subtracted from the model
              time, which removes the spin-up period.`,
			defaultVal: 110000.0,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Margin",
			usage: `
              Margin is the distance in grid cells between the end of
              each profile and the edge of the grid.`,
			defaultVal: calvingmip.DefaultMargin,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "NameCandidates",
			usage: `
              NameCandidates are the candidate names of the x velocity,
              y velocity, and thickness fields, tried in order. Each
              candidate is a comma-separated triple and candidates are
              separated by spaces.`,
			defaultVal: nameSetsString(calvingmip.DefaultNameSets),
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
	}

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("CALVINGMIP")
	cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	// Link the commands together.
	cfg.Root.AddCommand(cfg.versionCmd)
	cfg.Root.AddCommand(cfg.convertCmd)
	return cfg
}

// setConfig finds and reads in the configuration file, if there is one.
func (cfg *Cfg) setConfig() error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfgpath, err := expandPath(cfgpath)
		if err != nil {
			return err
		}
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("calvingmip: problem reading configuration file: %v", err)
		}
	}
	return nil
}

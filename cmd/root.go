/*
Copyright © 2025 ottcal authors
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ottcal/extract"
	"ottcal/opentimetables"
	"ottcal/util"
)

// rootCmd carries the whole extraction run; there are no subcommands.
var rootCmd = &cobra.Command{
	Use:   "ottcal",
	Short: "Extract Open Timetables module schedules to an iCalendar file",
	Long: `Extracts scheduled sessions for a list of module codes from an Open
Timetables web service and writes them as an iCalendar (.ics) file, ready for
import into a calendar application.

Module codes, the period and the output path can also be supplied through the
OT_MODULES, OT_PERIOD and OT_OUTPUT environment variables (and a .env file);
explicit flags take precedence. Pass the single module literal "paste" to read
freeform text from standard input and extract code-like tokens from it.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		modules, _ := cmd.Flags().GetStringSlice("modules")
		period, _ := cmd.Flags().GetString("period")
		output, _ := cmd.Flags().GetString("output-file")
		refreshCache, _ := cmd.Flags().GetBool("cache-modules")
		collapseWeekly, _ := cmd.Flags().GetBool("collapse-weekly")
		configPath, _ := cmd.Flags().GetString("config")

		modules = resolveModules(cmd.Flags().Changed("modules"), modules, os.Getenv("OT_MODULES"))
		period = resolveValue(cmd.Flags().Changed("period"), period, os.Getenv("OT_PERIOD"))
		output = resolveValue(cmd.Flags().Changed("output-file"), output, os.Getenv("OT_OUTPUT"))

		if len(modules) == 0 {
			return fmt.Errorf("no module codes supplied; use --modules or OT_MODULES")
		}

		if len(modules) == 1 && strings.EqualFold(modules[0], "paste") {
			fmt.Fprintln(os.Stderr, "Paste the module table text, then press Ctrl-D:")
			pasted, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("could not read pasted text: %w", err)
			}
			modules = util.ExtractModuleCodes(string(pasted))
			if len(modules) == 0 {
				return fmt.Errorf("no module codes recognised in the pasted text")
			}
			fmt.Fprintf(os.Stderr, "Recognised module codes: %s\n", strings.Join(modules, ", "))
		}

		cfg, err := opentimetables.LoadConfig(configPath)
		if err != nil {
			return err
		}

		return extract.Run(cfg, extract.Options{
			Codes:          modules,
			Period:         period,
			Output:         output,
			RefreshCache:   refreshCache,
			CollapseWeekly: collapseWeekly,
		})
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// A .env file is optional; missing is fine.
	godotenv.Load()

	rootCmd.Flags().StringSliceP("modules", "m", nil, "Module codes to extract, or the literal 'paste' to read freeform text from stdin")
	rootCmd.Flags().StringP("period", "p", "year", "Time period to include: year, s1, s2, today, week or next")
	rootCmd.Flags().StringP("output-file", "o", "timetable.ics", "Path of the ICS file to write, or 'view' to print an online viewer URL")
	rootCmd.Flags().BoolP("cache-modules", "c", false, "Refresh the module catalogue and persist it to the local cache file")
	rootCmd.Flags().Bool("collapse-weekly", false, "Merge weekly repeating sessions into single events with a recurrence rule")
	rootCmd.Flags().String("config", "", "Path to an institution config file (YAML)")
}

// resolveValue applies the flag-over-environment precedence: an explicitly
// set flag wins, then a non-empty environment value, then the flag default.
func resolveValue(flagSet bool, flagValue, envValue string) string {
	if flagSet || envValue == "" {
		return flagValue
	}
	return envValue
}

// resolveModules is resolveValue for the module list, splitting the
// environment value into individual codes.
func resolveModules(flagSet bool, flagValue []string, envValue string) []string {
	if flagSet || envValue == "" {
		return flagValue
	}
	return splitModuleList(envValue)
}

// splitModuleList splits an OT_MODULES value on commas and whitespace.
func splitModuleList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

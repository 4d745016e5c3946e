// Package cli implements the dizin command line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dizin",
	Short: "LDAP directory schema toolkit",
	Long: `dizin loads, links and inspects LDAP directory schemas.

It ships the standard schema (RFC 4512/4519 attribute types, object
classes, matching rules and syntaxes) and can load additional schema
files in LDIF subschema format on top of it. Definitions are linked
into a registry that tracks every reference between schema elements,
so a broken MUST list or a missing matching rule is reported instead
of silently accepted.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(getVerboseFlag(cmd))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("config", "", "Path to dizin.yaml (default: ./dizin.yaml)")
	rootCmd.PersistentFlags().Bool("relaxed", false, "Suppress mandatory reference errors while linking")
}

// configureLogging installs the default slog handler. Verbose enables
// debug level output to stderr.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// getVerboseFlag safely retrieves the verbose flag value.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}
	return verbose
}

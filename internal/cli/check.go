package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/dizin/schema"
)

var checkCmd = &cobra.Command{
	Use:   "check <schema-file>...",
	Short: "Load schema files and report consistency errors",
	Long: `Load one or more schema files on top of the standard schema and
report every parse and consistency error found.

Files are loaded in the order given, so a schema may reference
definitions from files loaded before it. The command exits non-zero
when any file fails to load or any definition is inconsistent.

Examples:
  # Check a single schema file
  dizin check custom.schema

  # Check dependent schemas in order
  dizin check base.schema extensions.schema

  # Tolerate references to schemas that are not loaded
  dizin check --relaxed partial.schema`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registries, err := schema.Bootstrap()
	if err != nil {
		return fmt.Errorf("standard schema failed to load: %w", err)
	}
	registries.SetRelaxed(cfg.Relaxed)

	failed := false
	for _, path := range append(cfg.Schemas, args...) {
		slog.Debug("loading schema file", "path", path)
		if err := registries.LoadSchemaFile(path); err != nil {
			failed = true
			reportLoadError(path, err)
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}

	if failed {
		return errors.New("schema check failed")
	}
	return nil
}

// reportLoadError prints each collected error on its own line. Errors
// joined by an ErrorList are unwrapped so every finding is visible.
func reportLoadError(path string, err error) {
	fmt.Fprintf(os.Stderr, "%s:\n", path)
	for _, e := range flatten(err) {
		fmt.Fprintf(os.Stderr, "  - %v\n", e)
	}
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/dizin/schema"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [schema-file]...",
	Short: "Print the linked schema in subschema format",
	Long: `Print the standard schema, plus any schema files given on the
command line, as subschema attribute lines.

The output is itself loadable with 'dizin check', so dump can be used
to flatten a set of schema files into one.

Examples:
  # Print the standard schema
  dizin dump

  # Print only object classes
  dizin dump --only objectclasses

  # Flatten custom schemas on top of the standard schema
  dizin dump custom.schema extra.schema`,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().String("only", "", "Limit output to one category (syntaxes, matchingrules, attributetypes, objectclasses)")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registries, err := schema.Bootstrap()
	if err != nil {
		return fmt.Errorf("standard schema failed to load: %w", err)
	}
	registries.SetRelaxed(cfg.Relaxed)

	for _, path := range append(cfg.Schemas, args...) {
		slog.Debug("loading schema file", "path", path)
		if err := registries.LoadSchemaFile(path); err != nil {
			reportLoadError(path, err)
			return fmt.Errorf("cannot dump inconsistent schema")
		}
	}

	only, _ := cmd.Flags().GetString("only")
	switch strings.ToLower(only) {
	case "":
		dumpSyntaxes(registries)
		dumpMatchingRules(registries)
		dumpAttributeTypes(registries)
		dumpObjectClasses(registries)
	case "syntaxes", "ldapsyntaxes":
		dumpSyntaxes(registries)
	case "matchingrules":
		dumpMatchingRules(registries)
	case "attributetypes":
		dumpAttributeTypes(registries)
	case "objectclasses":
		dumpObjectClasses(registries)
	default:
		return fmt.Errorf("unknown category %q", only)
	}

	return nil
}

func dumpSyntaxes(r *schema.Registries) {
	for s := range r.Syntaxes() {
		fmt.Printf("ldapSyntaxes: %s\n", s.Definition())
	}
}

func dumpMatchingRules(r *schema.Registries) {
	for mr := range r.MatchingRules() {
		fmt.Printf("matchingRules: %s\n", mr.Definition())
	}
}

func dumpAttributeTypes(r *schema.Registries) {
	for at := range r.AttributeTypes() {
		fmt.Printf("attributeTypes: %s\n", at.Definition())
	}
}

func dumpObjectClasses(r *schema.Registries) {
	for oc := range r.ObjectClasses() {
		fmt.Printf("objectClasses: %s\n", oc.Definition())
	}
}

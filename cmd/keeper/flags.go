package main

import (
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sznuper/keeper/internal/config"
)

// registerOptionFlags adds a persistent --flag for every field in config.Options,
// deriving the flag name from the yaml struct tag (snake_case → kebab-case).
func registerOptionFlags(cmd *cobra.Command) {
	t := reflect.TypeOf(config.Options{})
	for i := range t.NumField() {
		name := optionName(t.Field(i))
		cmd.PersistentFlags().String(flagName(name), "", "override options."+name)
	}
}

// applyOptionFlags overlays CLI flag values onto the config. Only flags
// explicitly set by the user are applied.
func applyOptionFlags(cmd *cobra.Command, cfg *config.Config) {
	t := reflect.TypeOf(cfg.Options)
	v := reflect.ValueOf(&cfg.Options).Elem()
	for i := range t.NumField() {
		name := flagName(optionName(t.Field(i)))
		if cmd.Flags().Changed(name) {
			val, _ := cmd.Flags().GetString(name)
			v.Field(i).SetString(val)
		}
	}
}

func optionName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	return name
}

func flagName(option string) string {
	return strings.ReplaceAll(option, "_", "-")
}

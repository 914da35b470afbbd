package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idelchi/fstree/internal/fstree"
)

// EnvPrefix is the prefix for environment variables overriding flags, e.g. FSTREE_DISABLED.
const EnvPrefix = "FSTREE"

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// DefaultExcludes contains the default exclusion patterns.
//
//nolint:gochecknoglobals // Config constant
var DefaultExcludes = []string{`.*\.git/.*`}

// settings holds the resolved command configuration.
type settings struct {
	options fstree.Options
	output  string
	color   string
	debug   bool
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}

// Command builds the root command. Every flag can also be set through the
// environment (FSTREE_<FLAG>) or a configuration file passed with --config.
func (c CLI) Command() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "fstree [flags] [path]",
		Short: "Print a size-annotated tree of the files in a directory",
		Long: heredoc.Doc(`
			fstree lists every file below a directory with its size and prints the total.

			Files below dependency directories (node_modules by default) are not listed
			but still count towards the total. Source maps (*.map) are skipped.

			Positional Arguments:
			  path                   Directory to analyze. Defaults to current directory if not specified.

			Every flag can be set through the environment using the FSTREE_ prefix,
			e.g. FSTREE_GZIP=true or FSTREE_DISABLED=true.
		`),
		Version:       c.version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolve(v, args)
			if err != nil {
				return err
			}

			return logic(cmd, s)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.BoolP("gzip", "z", false, "Also measure gzip-compressed sizes (slower)")
	flags.StringSliceP(
		"aggregate",
		"a",
		[]string{fstree.DefaultAggregateMarker},
		"Path fragments whose files are only counted in the total",
	)
	flags.StringSlice("ignore", fstree.DefaultIgnore, "Gitignore-style patterns to skip")
	flags.StringSliceP("exclude", "e", DefaultExcludes, "Regex patterns to exclude")
	flags.IntP("depth", "d", 0, "Maximum traversal depth (0=unlimited)")
	flags.IntP("concurrency", "j", 1, "Maximum number of files read at once")
	flags.String("locale", fstree.DefaultLocale, "Collation locale used for sorting")
	flags.StringP("output", "o", "text", "Output format: text or json")
	flags.String("color", "auto", "Colorize output: auto, always or never")
	flags.Bool("disabled", false, "Produce no report (for test harnesses)")
	flags.Bool("debug", false, "Enable debug output")
	flags.String("config", "", "Configuration file (yaml, toml or json)")

	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

// resolve merges flags, environment and configuration file into settings.
func resolve(v *viper.Viper, args []string) (settings, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("reading config %q: %w", path, err)
		}
	}

	aggregate, err := stringSlice(v, "aggregate")
	if err != nil {
		return settings{}, err
	}

	ignorePatterns, err := stringSlice(v, "ignore")
	if err != nil {
		return settings{}, err
	}

	excludes, err := stringSlice(v, "exclude")
	if err != nil {
		return settings{}, err
	}

	s := settings{
		output: strings.ToLower(v.GetString("output")),
		color:  strings.ToLower(v.GetString("color")),
		debug:  v.GetBool("debug"),
		options: fstree.Options{
			Path:        ".",
			Compressed:  v.GetBool("gzip"),
			Disabled:    v.GetBool("disabled"),
			Aggregate:   fstree.ContainsAny(aggregate...),
			Ignore:      ignorePatterns,
			Excludes:    excludes,
			Depth:       v.GetInt("depth"),
			Concurrency: v.GetInt("concurrency"),
			Locale:      v.GetString("locale"),
		},
	}

	if len(args) > 0 {
		s.options.Path = args[0]
	}

	if allowed := []string{"text", "json"}; !slices.Contains(allowed, s.output) {
		return settings{}, fmt.Errorf("invalid output format %q: must be one of %v", s.output, allowed)
	}

	if allowed := []string{"auto", "always", "never"}; !slices.Contains(allowed, s.color) {
		return settings{}, fmt.Errorf("invalid color mode %q: must be one of %v", s.color, allowed)
	}

	if s.options.Depth < 0 {
		return settings{}, errors.New("depth cannot be negative")
	}

	if s.options.Concurrency < 1 {
		return settings{}, errors.New("concurrency must be at least 1")
	}

	return s, nil
}

// stringSlice returns a list setting. Flags are already split by pflag; values
// from the environment or a config file arrive as one string and are split on
// commas the same way pflag does, so FSTREE_IGNORE="*.map,*.log" equals --ignore "*.map,*.log".
// The result is never nil, so an explicitly empty list does not select the fstree defaults.
func stringSlice(v *viper.Viper, key string) ([]string, error) {
	raw, ok := v.Get(key).(string)
	if !ok {
		values := v.GetStringSlice(key)
		if values == nil {
			return []string{}, nil
		}

		return values, nil
	}

	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}

	values, err := csv.NewReader(strings.NewReader(raw)).Read()
	if err != nil {
		return nil, fmt.Errorf("parsing %s %q: %w", key, raw, err)
	}

	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}

	return values, nil
}

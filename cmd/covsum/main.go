package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/ja7ad/covsum/internal/config"
	"github.com/ja7ad/covsum/internal/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(afero.NewOsFs(), os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(fs afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "covsum [flags] <cov dir> <output dir>",
		Short: "Summarize basic block coverage records",
		Long: `covsum collects every *.cov record under <cov dir>, copies them into
<output dir>/res_copy and writes per-file and total function and basic block
coverage to the console and <output dir>/summary.csv.

<output dir> is removed and recreated on every run.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if v, _ := cmd.Flags().GetBool("no-color"); v {
				color.NoColor = true
			}
			log := hclog.New(&hclog.LoggerOptions{
				Name:   "covsum",
				Level:  cfg.Level(),
				Output: stderr,
			})

			_, err = report.New(fs, stdout, log, cfg).Run(args[0], args[1])
			return err
		},
	}
	// cobra prints usage through its out writer; keep it off the report stream.
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.String("config", "", "TOML configuration file")
	f.StringSlice("pattern", config.DefaultConfig.Patterns, "base-name glob of coverage records (repeatable)")
	f.String("go-profile-pattern", "", "base-name glob of Go coverprofiles to include")
	f.String("log-level", config.DefaultConfig.LogLevel, "log level (trace|debug|info|warn|error)")
	f.Bool("no-color", false, "disable colored output")
	return cmd
}

// loadConfig reads --config when given and applies explicitly set flags on
// top of it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	f := cmd.Flags()
	cfg := config.Default()
	if path, _ := f.GetString("config"); path != "" {
		var err error
		if cfg, err = config.FromFile(path); err != nil {
			return config.Config{}, err
		}
	}
	if f.Changed("pattern") {
		cfg.Patterns, _ = f.GetStringSlice("pattern")
	}
	if f.Changed("go-profile-pattern") {
		cfg.GoProfilePattern, _ = f.GetString("go-profile-pattern")
	}
	if f.Changed("log-level") {
		cfg.LogLevel, _ = f.GetString("log-level")
	}
	return cfg, cfg.Validate()
}

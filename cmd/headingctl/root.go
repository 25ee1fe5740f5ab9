package main

import (
	"fmt"
	"io"

	"github.com/baditaflorin/l"
	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_heading_command/internal/adapters/normalizer"
	"github.com/baditaflorin/go_heading_command/internal/config"
	"github.com/baditaflorin/go_heading_command/internal/ports"
)

// app is the state shared by all subcommands, filled in before any of them
// runs.
type app struct {
	cfgFile      string
	outputFormat string
	verbose      bool

	cfg    config.Config
	logger l.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "headingctl",
		Short: "Turn paragraphs into anchored headings",
		Long: `headingctl converts the blocks of a markdown document into headings
and gives each new heading an anchor id built from the page title and the
heading text:

  id = Normalize(title) + "_" + Normalize(text)

It also exposes the normalizer and the id generator on their own.`,
		Version:       gitRelease,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return a.logger.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(
		&a.cfgFile, "config", "", "config file (default: built-in defaults and HEADING_* env)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&a.outputFormat, "output", "o", "yaml", "structured output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&a.verbose, "verbose", "v", false, "log to stderr",
	)

	rootCmd.AddCommand(
		newNormalizeCmd(a),
		newIdentifierCmd(a),
		newApplyCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	switch OutputFormat(a.outputFormat) {
	case OutputFormatYAML, OutputFormatJSON:
	default:
		return fmt.Errorf("unknown output format: %s", a.outputFormat)
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	var out io.Writer = io.Discard
	if a.verbose {
		out = cmd.ErrOrStderr()
	}
	a.logger, err = l.NewStandardFactory().CreateLogger(l.Config{
		Output:     out,
		JsonFormat: cfg.Logging.Format == "json",
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	return nil
}

// newNormalizer returns the normalizer the configuration asks for.
func (a *app) newNormalizer() ports.Normalizer {
	normType := normalizer.DefaultNormalizerType
	if a.cfg.Normalizer.Compose {
		normType = normalizer.ComposingNormalizerType
	}
	return normalizer.NewNormalizerFactory().CreateNormalizer(normType)
}

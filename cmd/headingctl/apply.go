package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	headingcommand "github.com/baditaflorin/go_heading_command"
	"github.com/baditaflorin/go_heading_command/internal/adapters/memdoc"
	"github.com/baditaflorin/go_heading_command/internal/adapters/notifier"
)

// applyResult is the structured output of apply --report.
type applyResult struct {
	HTML   string                `json:"html" yaml:"html"`
	State  headingcommand.State  `json:"state" yaml:"state"`
	Report headingcommand.Report `json:"report" yaml:"report"`
	Alerts []string              `json:"alerts,omitempty" yaml:"alerts,omitempty"`
}

func newApplyCmd(a *app) *cobra.Command {
	var (
		value     string
		pageTitle string
		from, to  int
		caret     bool
		report    bool
	)

	cmd := &cobra.Command{
		Use:   "apply FILE",
		Short: "Convert blocks of a markdown file and print the result as HTML",
		Long: `Convert the blocks FROM..TO (zero based, inclusive) of a markdown file into
VALUE, e.g. heading2 or paragraph, and print the document as HTML. Use - to
read from stdin.

Blocks are counted in document order; list items and block quote contents
count as blocks of their own.`,
		Example: `  headingctl apply notes.md --title "Mein Titel" --value heading2 --from 0
  headingctl apply - --value heading3 --from 2 --to 4 --report -o json < notes.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			doc, err := memdoc.NewParser().Parse(source, nil)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("to") {
				to = from
			}
			if caret {
				err = doc.SetCaret(from)
			} else {
				err = doc.Select(from, to)
			}
			if err != nil {
				return err
			}

			alerts := &notifier.Recorder{}
			opts := []headingcommand.Option{
				headingcommand.WithTitleHTMLID(a.cfg.Editor.TitleHTMLID),
				headingcommand.WithTitle(pageTitle),
				headingcommand.WithLanguage(a.cfg.Editor.Language),
				headingcommand.WithModelElements(a.cfg.Editor.ModelElements...),
				headingcommand.WithNormalizer(a.newNormalizer()),
				headingcommand.WithNotifier(alerts),
				headingcommand.WithLogger(a.logger),
			}
			hc, err := headingcommand.New(doc, opts...)
			if err != nil {
				return err
			}

			rep, err := hc.Execute(cmd.Context(), value)
			if err != nil {
				return err
			}
			for _, msg := range alerts.Messages() {
				fmt.Fprintln(cmd.ErrOrStderr(), strings.TrimSpace(msg))
			}

			if !report {
				return doc.RenderHTML(cmd.OutOrStdout())
			}
			return OutputTo(cmd.OutOrStdout(), OutputFormat(a.outputFormat), applyResult{
				HTML:   doc.HTML(),
				State:  hc.Refresh(),
				Report: rep,
				Alerts: alerts.Messages(),
			})
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "target element: paragraph or heading1..heading6")
	cmd.Flags().StringVarP(&pageTitle, "title", "t", "", "page title")
	cmd.Flags().IntVar(&from, "from", 0, "first selected block")
	cmd.Flags().IntVar(&to, "to", -1, "last selected block, not before --from (default: same as --from)")
	cmd.Flags().BoolVar(&caret, "caret", false, "collapse the selection into block --from")
	cmd.Flags().BoolVar(&report, "report", false, "print html, state and changes in the --output format")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

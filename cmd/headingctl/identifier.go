package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_heading_command/internal/adapters/logger"
	"github.com/baditaflorin/go_heading_command/internal/adapters/notifier"
	"github.com/baditaflorin/go_heading_command/internal/adapters/title"
	"github.com/baditaflorin/go_heading_command/internal/core/identifier"
)

// textSnippet is a fixed snippet given on the command line.
type textSnippet string

func (s textSnippet) SnippetText() string { return string(s) }

func newIdentifierCmd(a *app) *cobra.Command {
	var pageTitle string

	cmd := &cobra.Command{
		Use:     "identifier [--title TITLE] TEXT",
		Aliases: []string{"id"},
		Short:   "Print the anchor id a heading with TEXT would get",
		Long: `Print the anchor id a heading with TEXT would get on a page titled TITLE.

Without a title the missing-title alert is written to stderr and the id
starts with "_", as it would in the editor.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.FromExisting(a.logger)

			messages, err := notifier.NewMessages()
			if err != nil {
				return err
			}
			alert := notifier.NewAlertNotifier(func(message string) {
				fmt.Fprintln(cmd.ErrOrStderr(), strings.TrimSpace(message))
			}, log)

			id := a.cfg.Editor.TitleHTMLID
			gen, err := identifier.NewGenerator(identifier.Config{
				Normalizer:          a.newNormalizer(),
				Titles:              title.NewFallbackReader(title.Static(id, pageTitle), id, log),
				Snippets:            textSnippet(strings.Join(args, " ")),
				Notifier:            alert,
				MissingTitleMessage: messages.MissingTitle(a.cfg.Editor.Language),
				Logger:              log,
			})
			if err != nil {
				return err
			}

			token, err := gen.Generate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&pageTitle, "title", "t", "", "page title")
	return cmd
}

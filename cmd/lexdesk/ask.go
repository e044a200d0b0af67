package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/csheth/lexdesk/internal/advice"
	"github.com/csheth/lexdesk/internal/format"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask one question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			conv := a.conversation()
			req, err := conv.Submit(strings.Join(args, " "))
			if err != nil {
				return err
			}
			res := req.Run(cmd.Context())
			msg := conv.Resolve(res)

			out := cmd.OutOrStdout()
			if err := printReply(out, msg.Content, msg.Sources); err != nil {
				return err
			}
			if res.Err != nil {
				return fmt.Errorf("ask: %w", res.Err)
			}
			return nil
		},
	}
}

// printReply renders markdown through glamour on a terminal and plain text
// everywhere else, followed by numbered sources.
func printReply(w io.Writer, text string, sources []advice.Source) error {
	body := text
	if width, ok := terminalWidth(w); ok {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(min(width, 100)),
		)
		if err == nil {
			if rendered, err := renderer.Render(text); err == nil {
				body = rendered
			}
		}
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(body, "\n")); err != nil {
		return err
	}
	if len(sources) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Verification Sources:")
	for i, c := range format.Citations(sources) {
		fmt.Fprintf(w, "  %d. %s  %s\n", i+1, c.Label, c.URI)
	}
	return nil
}

func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	return width, true
}

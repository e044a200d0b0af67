package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newNewsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Print the latest Indian legal headlines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			feed := a.feed()
			fetch, ok := feed.Begin(true)
			if !ok {
				return fmt.Errorf("news fetch already running")
			}
			feed.Resolve(fetch.Run(cmd.Context()))
			if err := feed.LastError(); err != nil {
				return fmt.Errorf("unable to load legal news: %w", err)
			}

			out := cmd.OutOrStdout()
			items := feed.Items()
			if len(items) == 0 {
				fmt.Fprintln(out, "No headlines returned.")
				return nil
			}
			for i, item := range items {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%d. %s\n", i+1, item.Title)
				if s := strings.TrimSpace(item.Snippet); s != "" {
					fmt.Fprintf(out, "   %s\n", s)
				}
				fmt.Fprintf(out, "   %s · %s\n", item.Date, item.URL)
			}
			return nil
		},
	}
}

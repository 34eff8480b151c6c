package cli

import (
	"fmt"
	"strings"

	"dayplan-cli/internal/docs"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show the built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Topics:")
				for _, t := range docs.Topics() {
					fmt.Fprintln(cmd.OutOrStdout(), "  "+t)
				}
				return nil
			}
			md, ok := docs.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown topic %q (try: %s)", args[0], strings.Join(docs.Topics(), ", "))
			}
			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), md)
				return nil
			}
			// Avoid WithAutoStyle: it can block waiting on terminal queries
			// in some setups.
			r, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle("dark"),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), md)
				return nil
			}
			out, err := r.Render(md)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), md)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source without rendering")
	return cmd
}

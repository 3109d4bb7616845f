package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"facilitator/internal/gateway/service/meeting"
	"facilitator/internal/types"
	"facilitator/internal/util/jsonutil"
)

func NewActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the facilitation template actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range types.TemplateActionValues() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a, a.Label())
			}
			return nil
		},
	}
}

func NewResolveCmd(deps *Dependencies) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Recompute agenda statuses from goal completion",
		Long:  "Read an agenda as JSON (stdin or --file), derive every item status from its goals and print the result.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = deps.Stdin
			if in == nil {
				in = cmd.InOrStdin()
			}
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			raw, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read agenda: %w", err)
			}
			a, err := meeting.ParseAgenda(raw)
			if err != nil {
				return err
			}
			resolved := types.ResolveAgendaStatus(a)
			b, err := jsonutil.MarshalNoEscapeIndent(resolved, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			fmt.Fprintf(cmd.ErrOrStderr(), "status: %s (%s)\n", resolved.Status(), resolved.Status().Label())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the agenda from this file")
	return cmd
}

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"facilitator/internal/schema"
	"facilitator/internal/types"
)

var records = map[string]schema.Record{
	"transcription":    types.Transcription{},
	"agenda":           types.Agenda{},
	"agenda_item":      types.AgendaItem{},
	"hand_over":        types.HandOver{},
	"template_actions": types.TemplateActions{},
	"suggested_action": types.SuggestedAction{},
}

func recordNames() []string {
	names := make([]string, 0, len(records))
	for n := range records {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [record]",
		Short:     "Print the generation schema of a record",
		Long:      "Print the schema sent to the model as a response constraint. Records: " + strings.Join(recordNames(), ", "),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: recordNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := recordNames()
			if len(args) == 1 {
				if _, ok := records[args[0]]; !ok {
					return fmt.Errorf("unknown record %q (want one of %s)", args[0], strings.Join(names, ", "))
				}
				names = args
			}
			out := cmd.OutOrStdout()
			for _, n := range names {
				s, err := schema.ExportString(records[n])
				if err != nil {
					return fmt.Errorf("%s: %w", n, err)
				}
				if len(names) > 1 {
					fmt.Fprintf(out, "# %s\n", n)
				}
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}
}

// Package cli is the facilitator command line: schema export, offline
// agenda tools and the MCP server.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"facilitator/internal/gateway/app"
)

var Version = "dev"

type Dependencies struct {
	// NewCore builds the model-backed services; only commands that call the
	// model invoke it.
	NewCore func(ctx context.Context) (*app.Core, error)
	Stdin   io.Reader
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "facilitator",
		Short:         "Meeting transcription and minutes tools",
		Long:          "Export record schemas, resolve agenda statuses and serve the facilitator tools over MCP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Version = Version

	rootCmd.AddCommand(NewSchemaCmd())
	rootCmd.AddCommand(NewActionsCmd())
	rootCmd.AddCommand(NewResolveCmd(deps))
	rootCmd.AddCommand(NewMCPCmd(deps))

	return rootCmd
}

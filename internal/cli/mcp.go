package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"facilitator/internal/mcp"
)

func NewMCPCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the facilitator tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol.
			log.SetOutput(os.Stderr)
			ctx := cmd.Context()
			core, err := deps.NewCore(ctx)
			if err != nil {
				return fmt.Errorf("initializing services: %w", err)
			}
			defer core.Close()
			return mcp.ServeStdio(ctx, mcp.NewServer(core.Meeting, Version))
		},
	}
}

package cli

import (
	"github.com/A2-ai/spackle/internal/version"
	"github.com/A2-ai/spackle/pkg/mcpserver"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   MsgServeShort,
		Long:    MsgServeLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.options()
			if err != nil {
				return g.fail(cmd, err)
			}
			log.Info().Str("version", version.Version).Msg("Starting MCP server on stdio")
			return mcpserver.Serve(mcpserver.New(version.Version, opts...))
		},
	}
}

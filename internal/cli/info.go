package cli

import (
	"github.com/A2-ai/spackle/pkg/spackle"
	"github.com/spf13/cobra"
)

func newInfoCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "info",
		Short:   MsgInfoShort,
		Long:    MsgInfoLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.options()
			if err != nil {
				return g.fail(cmd, err)
			}
			info, err := spackle.Info(g.project, opts...)
			if err != nil {
				return g.fail(cmd, err)
			}
			r, err := g.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return r.RenderResult(info)
		},
	}
}

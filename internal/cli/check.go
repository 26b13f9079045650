package cli

import (
	"github.com/A2-ai/spackle/pkg/spackle"
	"github.com/spf13/cobra"
)

func newCheckCmd(g *globals) *cobra.Command {
	var slots, hookToggles []string

	cmd := &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.options()
			if err != nil {
				return g.fail(cmd, err)
			}
			values, err := parseAssignments("slot", slots)
			if err != nil {
				return g.fail(cmd, err)
			}
			toggles, err := parseAssignments("hook", hookToggles)
			if err != nil {
				return g.fail(cmd, err)
			}
			if len(values) > 0 || len(toggles) > 0 {
				opts = append(opts, spackle.WithValues(values, toggles))
			}

			result, err := spackle.Check(g.project, opts...)
			if err != nil {
				return g.fail(cmd, err)
			}
			r, err := g.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := r.RenderResult(result); err != nil {
				return err
			}
			if !result.Valid {
				return errUnsuccessful
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&slots, "slot", "s", nil, MsgFlagSlot)
	cmd.Flags().StringArrayVarP(&hookToggles, "hook", "H", nil, MsgFlagHook)
	return cmd
}

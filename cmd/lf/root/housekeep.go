package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lifeforge/internal/ui"
)

func newHousekeepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "housekeep",
		Short: "Regenerate pools, drop expired buffs and fail overdue quests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			rep, err := a.svc.Housekeep(ctx, cfg.CharacterID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range rep.Regenerated {
				fmt.Fprintf(out, "%s %s %+d\n", ui.IconHeart, d.Kind, d.Applied())
			}
			fmt.Fprintln(out, ui.LabelValue("Buffs pruned", rep.BuffsPruned))
			fmt.Fprintln(out, ui.LabelValue("Quests failed", len(rep.QuestsFailed)))
			return nil
		},
	}
}

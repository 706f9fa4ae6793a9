package root

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lifeforge/internal/engine"
	"lifeforge/internal/ui"
)

// newRecurringCmd builds the need and daily command trees; they differ only
// in kind and in how completion is reported.
func newRecurringCmd(use, short string) *cobra.Command {
	kind := engine.RecurringKind(use)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}
	cmd.AddCommand(
		newRecurringAddCmd(kind),
		newRecurringDoneCmd(kind),
		newRecurringListCmd(kind),
	)
	return cmd
}

func newRecurringAddCmd(kind engine.RecurringKind) *cobra.Command {
	var (
		cadence string
		xp      int
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: fmt.Sprintf("Track a new %s", kind),
		Args:  requireArgs(1, "name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			hours, err := engine.ParseCadence(cadence)
			if err != nil {
				return err
			}
			item, err := a.svc.AddRecurringItem(ctx, cfg.CharacterID, engine.RecurringDraft{
				Name:         strings.Join(args, " "),
				Kind:         kind,
				CadenceHours: hours,
				XPReward:     xp,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.IconPlus, item.Name, ui.Muted.Render(fmt.Sprintf("(every %dh, %d XP)", item.IdealCadenceHours, item.XPReward)))
			return nil
		},
	}
	cmd.Flags().StringVar(&cadence, "every", "daily", "Cadence: daily|weekly|<n>h")
	cmd.Flags().IntVar(&xp, "xp", 10, "XP per completion")
	return cmd
}

func newRecurringDoneCmd(kind engine.RecurringKind) *cobra.Command {
	return &cobra.Command{
		Use:   "done <name|id>",
		Short: fmt.Sprintf("Complete a %s", kind),
		Args:  requireArgs(1, string(kind)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st, _, err := a.svc.View(ctx, cfg.CharacterID)
			if err != nil {
				return err
			}
			item, err := resolveRecurring(st, kind, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if kind == engine.RecurringDaily {
				res, err := a.svc.CompleteDailyQuest(ctx, cfg.CharacterID, item.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s %s\n", ui.IconDone, item.Name, streakText(res.NewStreak, res.StreakBroken))
				if res.StreakBonus > 0 {
					fmt.Fprintf(out, "%s streak bonus +%d XP\n", ui.IconFire, res.StreakBonus)
				}
				printOutcome(out, res.Outcome)
				return nil
			}

			res, err := a.svc.CompleteNeed(ctx, cfg.CharacterID, item.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s %s\n", ui.IconDone, item.Name, streakText(res.NewStreak, res.StreakBroken))
			if res.WasOverdue {
				fmt.Fprintln(out, ui.Muted.Render("was overdue"))
			}
			printOutcome(out, res.Outcome)
			return nil
		},
	}
}

func streakText(streak int, broken bool) string {
	s := ui.Gold.Render(fmt.Sprintf("%s streak %d", ui.IconFire, streak))
	if broken {
		s += " " + ui.Warn.Render("(streak reset)")
	}
	return s
}

func newRecurringListCmd(kind engine.RecurringKind) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %s items", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st, now, err := a.svc.View(ctx, cfg.CharacterID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconLoop, strings.ToUpper(string(kind[:1]))+string(kind[1:])+" items"))
			for _, it := range st.Recurring {
				if it.Kind != kind {
					continue
				}
				status := ui.Good.Render("ok")
				if engine.IsOverdue(it, now) {
					status = ui.Warn.Render("due")
				}
				line := fmt.Sprintf("- %s %s [%s] streak %d %s", ui.Muted.Render(shortID(it.ID)), it.Name, status, engine.EffectiveStreak(it, now), ui.Muted.Render(fmt.Sprintf("(best %d)", it.BestStreak)))
				if next := engine.NextDue(it); next != nil {
					line += " " + ui.Muted.Render("next "+next.Local().Format(time.DateTime))
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

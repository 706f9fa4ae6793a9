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

func newBuffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buff",
		Short: "Activate and inspect temporary buffs",
	}
	cmd.AddCommand(newBuffOnCmd(), newBuffOffCmd(), newBuffListCmd())
	return cmd
}

func newBuffOnCmd() *cobra.Command {
	var (
		kind    string
		minutes int
		boosts  string
	)
	cmd := &cobra.Command{
		Use:   "on <name>",
		Short: "Activate a buff (same name stacks)",
		Args:  requireArgs(1, "name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			bk, err := engine.ParseBuffKind(kind)
			if err != nil {
				return err
			}
			statMap, err := engine.ParseStatBoosts(boosts)
			if err != nil {
				return err
			}
			res, err := a.svc.ActivateBuff(ctx, cfg.CharacterID, engine.BuffRequest{
				Name:            strings.Join(args, " "),
				Kind:            bk,
				StatBoost:       statMap,
				DurationMinutes: minutes,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			verb := "active"
			if res.Stacked {
				verb = fmt.Sprintf("stacked x%d", res.StackCount)
			}
			fmt.Fprintf(out, "%s %s %s %s\n", ui.IconBuff, strings.Join(args, " "), ui.Good.Render(verb), ui.Muted.Render("until "+res.ExpiresAt.Local().Format(time.Kitchen)))
			printOutcome(out, res.Outcome)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "focus", "Kind: focus|rest|self_care|exercise|social|creative")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 25, "Duration in minutes")
	cmd.Flags().StringVar(&boosts, "boost", "", "Stat boosts while active, e.g. int=2")
	return cmd
}

func newBuffOffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "off <name|id>",
		Short: "End a buff early",
		Args:  requireArgs(1, "buff"),
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
			b, err := resolveBuff(st, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := a.svc.DeactivateBuff(ctx, cfg.CharacterID, b.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.IconBuff, b.Name, ui.Muted.Render("ended"))
			return nil
		},
	}
}

func newBuffListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List live buffs",
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
			fmt.Fprintln(out, ui.Heading(ui.IconBuff, "Buffs"))
			live := engine.ActiveBuffs(st.Buffs, now)
			if len(live) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No active buffs."))
				return nil
			}
			for _, b := range live {
				left := b.ExpiresAt.Sub(now).Round(time.Minute)
				fmt.Fprintf(out, "- %s %s x%d %s\n", ui.Muted.Render(shortID(b.ID)), b.Name, b.StackCount, ui.Muted.Render(left.String()+" left"))
			}
			return nil
		},
	}
}

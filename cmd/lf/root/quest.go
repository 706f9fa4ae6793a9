package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lifeforge/internal/engine"
	"lifeforge/internal/ui"
)

func newQuestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quest",
		Aliases: []string{"q"},
		Short:   "Create and progress quests",
	}
	cmd.AddCommand(
		newQuestNewCmd(),
		newQuestListCmd(),
		newQuestStartCmd(),
		newQuestAbandonCmd(),
		newQuestDoneCmd(),
		newQuestCheckCmd(),
		newQuestAddObjectiveCmd(),
		newQuestRetuneCmd(),
	)
	return cmd
}

func requireArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return errors.New(what + " is required")
		}
		return nil
	}
}

// withQuest loads the character and resolves a quest ID prefix.
func withQuest(ctx context.Context, a *app, ref string) (*engine.State, engine.Quest, error) {
	st, _, err := a.svc.View(ctx, cfg.CharacterID)
	if err != nil {
		return nil, engine.Quest{}, err
	}
	q, err := resolveQuest(st, ref)
	return st, q, err
}

func newQuestNewCmd() *cobra.Command {
	var (
		desc       string
		questType  string
		difficulty string
		xp         int
		gold       int
		limit      int
		boosts     string
		objectives []string
		optional   []string
	)
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a quest",
		Args:  requireArgs(1, "name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			qt, err := engine.ParseQuestType(questType)
			if err != nil {
				return err
			}
			diff, err := engine.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			statMap, err := engine.ParseStatBoosts(boosts)
			if err != nil {
				return err
			}
			var rewards []engine.Reward
			for _, stat := range sortedKeys(statMap) {
				rewards = append(rewards, engine.RewardStatBoost{Stat: stat, Amount: statMap[stat]})
			}

			d := engine.QuestDraft{
				Name:             strings.Join(args, " "),
				Description:      desc,
				Type:             qt,
				Difficulty:       diff,
				XPReward:         xp,
				GoldReward:       gold,
				Rewards:          rewards,
				TimeLimitMinutes: limit,
			}
			for _, text := range objectives {
				d.Objectives = append(d.Objectives, engine.ObjectiveDraft{Text: text})
			}
			for _, text := range optional {
				d.Objectives = append(d.Objectives, engine.ObjectiveDraft{Text: text, Optional: true})
			}

			q, err := a.svc.CreateQuest(ctx, cfg.CharacterID, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.IconPlus, ui.Title.Render(q.Name), ui.Muted.Render(shortID(q.ID)), ui.Muted.Render(fmt.Sprintf("(%d XP)", q.XPReward)))
			return nil
		},
	}

	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().StringVar(&questType, "type", "side", "Type: main|side|daily|weekly|epic")
	cmd.Flags().StringVar(&difficulty, "diff", "trivial", "Difficulty: 1..5 or trivial|easy|medium|hard|epic")
	cmd.Flags().IntVar(&xp, "xp", 0, "XP reward (0 derives it from difficulty)")
	cmd.Flags().IntVar(&gold, "gold", 0, "Gold reward")
	cmd.Flags().IntVar(&limit, "limit", 0, "Time limit in minutes once started (0 for none)")
	cmd.Flags().StringVar(&boosts, "boost", "", "Stat rewards, e.g. str=1,wis=2")
	cmd.Flags().StringArrayVarP(&objectives, "objective", "o", nil, "Required objective (repeatable)")
	cmd.Flags().StringArrayVar(&optional, "optional", nil, "Optional objective (repeatable)")
	return cmd
}

func newQuestListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List quests",
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
			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Quests"))
			shown := 0
			for _, q := range st.Quests {
				if q.Status.IsTerminal() && !all {
					continue
				}
				printQuest(out, q, now)
				shown++
			}
			if shown == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No open quests. Try `lf templates` or `lf quest new`."))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include finished quests")
	return cmd
}

func printQuest(w io.Writer, q engine.Quest, now time.Time) {
	line := fmt.Sprintf("%s %s %s [%s] d%d %s", ui.QuestTypeIcon(string(q.Type)), ui.Muted.Render(shortID(q.ID)), q.Name, ui.StatusText(string(q.Status)), q.Difficulty, ui.Muted.Render(fmt.Sprintf("%d XP", q.XPReward)))
	if dl := engine.Deadline(q); dl != nil && !q.Status.IsTerminal() {
		left := dl.Sub(now).Round(time.Minute)
		if left > 0 {
			line += " " + ui.Warn.Render("⏳ "+left.String())
		} else {
			line += " " + ui.Bad.Render("expired")
		}
	}
	fmt.Fprintln(w, line)
	for _, o := range q.Objectives {
		mark := "[ ]"
		if o.IsCompleted {
			mark = ui.Good.Render("[x]")
		}
		text := o.Text
		if !o.IsRequired {
			text += " " + ui.Muted.Render("(optional)")
		}
		fmt.Fprintf(w, "    %s %d. %s\n", mark, o.Order, text)
	}
}

func newQuestStartCmd() *cobra.Command {
	return questTransitionCmd("start <quest>", "Start a quest", func(ctx context.Context, a *app, id string) (*engine.Quest, error) {
		return a.svc.StartQuest(ctx, cfg.CharacterID, id)
	})
}

func newQuestAbandonCmd() *cobra.Command {
	return questTransitionCmd("abandon <quest>", "Abandon a quest", func(ctx context.Context, a *app, id string) (*engine.Quest, error) {
		return a.svc.AbandonQuest(ctx, cfg.CharacterID, id)
	})
}

func questTransitionCmd(use, short string, fn func(context.Context, *app, string) (*engine.Quest, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  requireArgs(1, "quest id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			_, q, err := withQuest(ctx, a, args[0])
			if err != nil {
				return err
			}
			updated, err := fn(ctx, a, q.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n", ui.IconQuest, updated.Name, ui.StatusText(string(updated.Status)))
			return nil
		},
	}
}

func newQuestDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <quest>",
		Short: "Complete a quest",
		Args:  requireArgs(1, "quest id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			_, q, err := withQuest(ctx, a, args[0])
			if err != nil {
				return err
			}
			res, err := a.svc.CompleteQuest(ctx, cfg.CharacterID, q.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.IconDone, ui.Good.Render("Quest complete: "+q.Name))
			printOutcome(out, res.Outcome)
			return nil
		},
	}
}

func newQuestCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <quest> <objective>",
		Short: "Complete an objective (by number or ID)",
		Args:  requireArgs(2, "quest and objective"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			_, q, err := withQuest(ctx, a, args[0])
			if err != nil {
				return err
			}
			o, err := resolveObjective(q, args[1])
			if err != nil {
				return err
			}
			res, err := a.svc.CompleteObjective(ctx, cfg.CharacterID, q.ID, o.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.IconDone, o.Text)
			if res.QuestStarted {
				fmt.Fprintln(out, ui.Muted.Render("quest started"))
			}
			if res.QuestCompleted {
				fmt.Fprintf(out, "%s %s\n", ui.IconTrophy, ui.Good.Render("Quest complete: "+q.Name))
			}
			printOutcome(out, res.Outcome)
			return nil
		},
	}
}

func newQuestAddObjectiveCmd() *cobra.Command {
	var (
		optional bool
		xp       int
	)
	cmd := &cobra.Command{
		Use:   "add-objective <quest> <text>",
		Short: "Append an objective to a quest",
		Args:  requireArgs(2, "quest and text"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			_, q, err := withQuest(ctx, a, args[0])
			if err != nil {
				return err
			}
			o, err := a.svc.AddObjective(ctx, cfg.CharacterID, q.ID, engine.ObjectiveDraft{
				Text:     strings.Join(args[1:], " "),
				Optional: optional,
				XPReward: xp,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d. %s\n", ui.IconPlus, o.Order, o.Text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&optional, "optional", false, "Not required for completion")
	cmd.Flags().IntVar(&xp, "xp", 0, "XP granted when checked off")
	return cmd
}

func newQuestRetuneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retune <quest> <difficulty>",
		Short: "Change a quest's difficulty",
		Args:  requireArgs(2, "quest and difficulty"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			diff, err := engine.ParseDifficulty(args[1])
			if err != nil {
				return err
			}
			_, q, err := withQuest(ctx, a, args[0])
			if err != nil {
				return err
			}
			updated, err := a.svc.SetQuestDifficulty(ctx, cfg.CharacterID, q.ID, diff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s now d%d %s\n", ui.IconBolt, updated.Name, updated.Difficulty, ui.Muted.Render(fmt.Sprintf("(%d XP)", updated.XPReward)))
			return nil
		},
	}
}

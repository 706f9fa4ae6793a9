package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lifeforge/internal/engine"
	"lifeforge/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show character stats, pools and unlocks",
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
			c := st.Character
			into, span := engine.LevelProgress(c.TotalXP)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, c.Name))
			fmt.Fprintln(out, ui.LabelValue("Class", c.Class))
			fmt.Fprintln(out, ui.LabelValue("Level", c.Level))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%s %d/%d %s", ui.Bar(into, span, 20), into, span, ui.Muted.Render(fmt.Sprintf("(total %d)", c.TotalXP)))))
			fmt.Fprintln(out, ui.LabelValue("Gold", ui.Gold.Render(fmt.Sprint(c.Gold))))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconHeart+" Pools"))
			for _, kind := range engine.ResourceKinds {
				p, ok := st.Pools[kind]
				if !ok {
					continue
				}
				fmt.Fprintln(out, "- "+ui.PoolText(string(kind), p.Current, p.Max))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconBolt+" Stats"))
			eff := engine.EffectiveStats(c, st.Buffs, now)
			for _, stat := range engine.Stats {
				base := c.Stats[stat]
				line := fmt.Sprintf("- %s %d", ui.Key.Render(string(stat)+":"), eff[stat])
				if eff[stat] != base {
					line += " " + ui.Muted.Render(fmt.Sprintf("(base %d)", base))
				}
				fmt.Fprintln(out, line)
			}
			for _, skill := range sortedKeys(c.SkillCredits) {
				fmt.Fprintf(out, "- %s %d\n", ui.Key.Render("skill "+skill+":"), c.SkillCredits[skill])
			}
			fmt.Fprintln(out, "")

			open := 0
			for _, q := range st.Quests {
				if !q.Status.IsTerminal() {
					open++
				}
			}
			fmt.Fprintln(out, ui.H2.Render("🔓 Gates"))
			fmt.Fprintf(out, "- %s %d %s\n", ui.Key.Render("Open quests:"), engine.MaxOpenQuests(c.Level), ui.Muted.Render(fmt.Sprintf("(currently %d)", open)))
			fmt.Fprintf(out, "- %s %d\n", ui.Key.Render("Max difficulty:"), engine.MaxDifficultyForLevel(c.Level))
			for _, d := range []engine.Difficulty{engine.DifficultyEasy, engine.DifficultyMedium, engine.DifficultyHard, engine.DifficultyEpic} {
				req := engine.DifficultyUnlockLevels[d]
				fmt.Fprintf(out, "- %s %s %s\n", ui.Key.Render(fmt.Sprintf("Difficulty %d:", d)), enabledStr(c.Level >= req), ui.Muted.Render(fmt.Sprintf("(level %d)", req)))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconTrophy+" Achievements"))
			fmt.Fprintf(out, "- %d/%d unlocked\n", engine.CountUnlocked(st.Achievements), len(st.Achievements))
			for _, ach := range st.Achievements {
				if ach.Unlocked {
					fmt.Fprintf(out, "- %s %s\n", ui.Good.Render("★"), ach.Name)
					continue
				}
				fmt.Fprintf(out, "- %s %s %s\n", ui.Muted.Render("☆"), ach.Name, ui.Muted.Render(fmt.Sprintf("%d/%d", ach.ProgressCurrent, ach.ProgressRequired)))
			}
			return nil
		},
	}
	return cmd
}

package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifeforge/internal/engine"
	"lifeforge/internal/ui"
)

func newAcceptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept <template_id>",
		Short: "Accept a quest template",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("template_id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			code := args[0]
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			q, err := a.svc.AcceptTemplate(ctx, cfg.CharacterID, code)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s %s\n", ui.Good.Render(ui.IconScroll+" Accepted"), ui.Muted.Render(code), q.Name, ui.Muted.Render(shortID(q.ID)))
			if len(q.Objectives) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Check off steps with: %s\n",
					ui.Muted.Render("💡"),
					ui.Key.Render(fmt.Sprintf("lf quest check %s 1", shortID(q.ID))))
			}
			return nil
		},
	}

	return cmd
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List quest templates and their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			board, err := a.svc.TemplateBoard(ctx, cfg.CharacterID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Quest templates"))
			for _, v := range board {
				t := v.Template
				line := fmt.Sprintf("- %s %s [%s] d%d", ui.Key.Render(t.ID), t.Draft.Name, templateStatusText(v.Status), t.Draft.Difficulty)
				if v.Status == engine.TemplateLocked {
					line += " " + ui.Muted.Render(fmt.Sprintf("(level %d)", templateLevel(t)))
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func templateStatusText(st engine.TemplateStatus) string {
	switch st {
	case engine.TemplateAvailable:
		return ui.Good.Render("🟢 available")
	case engine.TemplateActive:
		return ui.H2.Render("🟣 active")
	case engine.TemplateCompleted:
		return ui.Muted.Render("🏁 completed")
	default:
		return ui.Bad.Render("🔒 locked")
	}
}

func templateLevel(t engine.QuestTemplate) int {
	req := t.UnlockLevel
	if lvl := engine.DifficultyUnlockLevels[t.Draft.Difficulty]; lvl > req {
		req = lvl
	}
	return req
}

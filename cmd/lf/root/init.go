package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lifeforge/internal/engine"
	"lifeforge/internal/ui"
)

func newInitCmd() *cobra.Command {
	var (
		class  string
		noSeed bool
	)
	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Create your character",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || strings.TrimSpace(strings.Join(args, " ")) == "" {
				return errors.New("name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tag, err := engine.ParseClass(class)
			if err != nil {
				return err
			}
			st, err := a.svc.CreateCharacter(ctx, engine.NewCharacterInput{
				ID:    cfg.CharacterID,
				Name:  strings.Join(args, " "),
				Class: tag,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Character created"))
			fmt.Fprintln(out, ui.LabelValue("Name", st.Character.Name))
			fmt.Fprintln(out, ui.LabelValue("Class", st.Character.Class))
			fmt.Fprintln(out, ui.LabelValue("ID", st.Character.ID))

			if noSeed {
				return nil
			}
			drafts, err := a.catalog.SeedItems()
			if err != nil {
				return err
			}
			for _, d := range drafts {
				item, err := a.svc.AddRecurringItem(ctx, st.Character.ID, d)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s %s %s\n", ui.IconLoop, item.Kind, item.Name, ui.Muted.Render(fmt.Sprintf("(every %dh)", item.IdealCadenceHours)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&class, "class", "", "Class: scholar|athlete|artisan|caretaker|wanderer")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "Skip the starter needs and dailies")
	return cmd
}

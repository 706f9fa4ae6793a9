package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lifeforge/internal/engine"
	"lifeforge/internal/ui"
)

// newResourceCmd builds spend (sign -1) and gain (sign +1).
func newResourceCmd(use, short string, sign int) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <pool> <amount>",
		Short: short,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("pool and amount are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			kind, err := engine.ParseResourceKind(args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return engine.ValidationError{Field: "amount", Reason: fmt.Sprintf("%q must be a positive number", args[1])}
			}

			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			d, err := a.svc.AdjustResource(ctx, cfg.CharacterID, kind, sign*n)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %+d (%d -> %d)\n", ui.IconHeart, d.Kind, d.Applied(), d.Before, d.After)
			return nil
		},
	}
}

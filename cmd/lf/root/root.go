package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lifeforge/internal/config"
	"lifeforge/internal/ui"
)

const Version = "0.1.0"

var (
	configPath  string
	characterID string
	dbPath      string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "lf",
	Short:         "Lifeforge: local-first life RPG",
	Long:          "Lifeforge is a local-first progression engine: quests, needs, dailies, buffs and energy pools with RPG levelling.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if characterID != "" {
			loaded.CharacterID = characterID
		}
		if dbPath != "" {
			loaded.DBPath = dbPath
		}
		cfg = loaded
		return nil
	},
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.lifeforge/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&characterID, "character", "c", "", "Character ID (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")

	rootCmd.AddCommand(
		newInitCmd(),
		newStatusCmd(),
		newQuestCmd(),
		newAcceptCmd(),
		newTemplatesCmd(),
		newRecurringCmd("need", "Manage needs (self-care upkeep)"),
		newRecurringCmd("daily", "Manage daily quests (streak bonus XP)"),
		newBuffCmd(),
		newResourceCmd("spend", "Spend from a resource pool", -1),
		newResourceCmd("gain", "Restore a resource pool", 1),
		newHousekeepCmd(),
		newBoardCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

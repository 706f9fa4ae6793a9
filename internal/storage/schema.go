package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS characters (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			class TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			total_xp INTEGER NOT NULL DEFAULT 0,
			gold INTEGER NOT NULL DEFAULT 0,
			stats TEXT,
			skill_credits TEXT,
			needs_completed INTEGER NOT NULL DEFAULT 0,
			daily_quests_completed INTEGER NOT NULL DEFAULT 0,
			buffs_activated INTEGER NOT NULL DEFAULT 0,
			gold_earned INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS resource_pools (
			character_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			current INTEGER NOT NULL,
			max INTEGER NOT NULL,
			regen_rate REAL NOT NULL DEFAULT 0,
			last_updated TEXT NOT NULL,
			PRIMARY KEY (character_id, kind),
			FOREIGN KEY(character_id) REFERENCES characters(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS quests (
			id TEXT PRIMARY KEY,
			character_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			type TEXT NOT NULL,
			difficulty INTEGER NOT NULL DEFAULT 1,
			status TEXT NOT NULL DEFAULT 'available',
			xp_reward INTEGER NOT NULL DEFAULT 0,
			gold_reward INTEGER NOT NULL DEFAULT 0,
			rewards TEXT,
			time_limit_minutes INTEGER NOT NULL DEFAULT 0,
			template_id TEXT,
			created_at TEXT NOT NULL,
			started_at TEXT,
			completed_at TEXT,
			ended_at TEXT,
			FOREIGN KEY(character_id) REFERENCES characters(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS objectives (
			id TEXT PRIMARY KEY,
			quest_id TEXT NOT NULL,
			character_id TEXT NOT NULL,
			text TEXT NOT NULL,
			ord INTEGER NOT NULL,
			is_required INTEGER NOT NULL DEFAULT 1,
			is_completed INTEGER NOT NULL DEFAULT 0,
			completed_at TEXT,
			xp_reward INTEGER NOT NULL DEFAULT 0,
			rewards TEXT,
			FOREIGN KEY(quest_id) REFERENCES quests(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS recurring_items (
			id TEXT PRIMARY KEY,
			character_id TEXT NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			cadence_hours INTEGER NOT NULL,
			last_completed_at TEXT,
			streak_count INTEGER NOT NULL DEFAULT 0,
			best_streak INTEGER NOT NULL DEFAULT 0,
			total_completions INTEGER NOT NULL DEFAULT 0,
			xp_reward INTEGER NOT NULL DEFAULT 0,
			rewards TEXT,
			FOREIGN KEY(character_id) REFERENCES characters(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS buffs (
			id TEXT PRIMARY KEY,
			character_id TEXT NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			stat_boost TEXT,
			stack_count INTEGER NOT NULL DEFAULT 1,
			duration_minutes INTEGER NOT NULL,
			activated_at TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			FOREIGN KEY(character_id) REFERENCES characters(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS achievements (
			character_id TEXT NOT NULL,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			category TEXT,
			counter TEXT NOT NULL,
			progress_current INTEGER NOT NULL DEFAULT 0,
			progress_required INTEGER NOT NULL,
			unlocked INTEGER NOT NULL DEFAULT 0,
			unlocked_at TEXT,
			xp_reward INTEGER NOT NULL DEFAULT 0,
			rewards TEXT,
			PRIMARY KEY (character_id, id),
			FOREIGN KEY(character_id) REFERENCES characters(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_character_id ON quests(character_id);`,
		`CREATE INDEX IF NOT EXISTS idx_objectives_quest_id ON objectives(quest_id);`,
		`CREATE INDEX IF NOT EXISTS idx_recurring_items_character_id ON recurring_items(character_id);`,
		`CREATE INDEX IF NOT EXISTS idx_buffs_character_id ON buffs(character_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

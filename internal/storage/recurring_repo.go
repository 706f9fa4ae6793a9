package storage

import (
	"context"
	"database/sql"
	"fmt"

	"lifeforge/internal/engine"
)

// RecurringRepo stores needs and daily quests with their streak counters.
type RecurringRepo struct {
	db execer
}

func NewRecurringRepo(db execer) *RecurringRepo {
	return &RecurringRepo{db: db}
}

func (r *RecurringRepo) ListByCharacter(ctx context.Context, characterID string) ([]engine.RecurringItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, kind, cadence_hours, last_completed_at, streak_count, best_streak,
			total_completions, xp_reward, rewards
		FROM recurring_items WHERE character_id = ?
		ORDER BY kind, name, id
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("recurring list: %w", err)
	}
	defer rows.Close()

	var out []engine.RecurringItem
	for rows.Next() {
		var (
			it            engine.RecurringItem
			kind          string
			last, rewards sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.Name, &kind, &it.IdealCadenceHours, &last, &it.StreakCount, &it.BestStreak,
			&it.TotalCompletions, &it.XPReward, &rewards); err != nil {
			return nil, fmt.Errorf("recurring scan: %w", err)
		}
		it.Kind = engine.RecurringKind(kind)
		if it.LastCompletedAt, err = parseNullTime(last); err != nil {
			return nil, err
		}
		if it.Rewards, err = decodeRewards(rewards); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *RecurringRepo) ReplaceForCharacter(ctx context.Context, characterID string, items []engine.RecurringItem) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recurring_items WHERE character_id = ?`, characterID); err != nil {
		return fmt.Errorf("recurring delete: %w", err)
	}
	for _, it := range items {
		rewards, err := encodeRewards(it.Rewards)
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO recurring_items (
				id, character_id, name, kind, cadence_hours, last_completed_at,
				streak_count, best_streak, total_completions, xp_reward, rewards
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, it.ID, characterID, it.Name, string(it.Kind), it.IdealCadenceHours, nullTime(it.LastCompletedAt),
			it.StreakCount, it.BestStreak, it.TotalCompletions, it.XPReward, rewards)
		if err != nil {
			return fmt.Errorf("recurring insert: %w", err)
		}
	}
	return nil
}

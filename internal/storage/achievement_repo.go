package storage

import (
	"context"
	"database/sql"
	"fmt"

	"lifeforge/internal/engine"
)

type AchievementRepo struct {
	db execer
}

func NewAchievementRepo(db execer) *AchievementRepo {
	return &AchievementRepo{db: db}
}

func (r *AchievementRepo) ListByCharacter(ctx context.Context, characterID string) ([]engine.Achievement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, category, counter, progress_current, progress_required,
			unlocked, unlocked_at, xp_reward, rewards
		FROM achievements WHERE character_id = ?
		ORDER BY rowid
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("achievement list: %w", err)
	}
	defer rows.Close()

	var out []engine.Achievement
	for rows.Next() {
		var (
			a                                  engine.Achievement
			desc, category, unlockedAt, reward sql.NullString
			counter                            string
			unlocked                           int
		)
		if err := rows.Scan(&a.ID, &a.Name, &desc, &category, &counter, &a.ProgressCurrent, &a.ProgressRequired,
			&unlocked, &unlockedAt, &a.XPReward, &reward); err != nil {
			return nil, fmt.Errorf("achievement scan: %w", err)
		}
		a.Description = desc.String
		a.Category = category.String
		a.Counter = engine.Counter(counter)
		a.Unlocked = unlocked == 1
		if a.UnlockedAt, err = parseNullTime(unlockedAt); err != nil {
			return nil, err
		}
		if a.Rewards, err = decodeRewards(reward); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AchievementRepo) ReplaceForCharacter(ctx context.Context, characterID string, achievements []engine.Achievement) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM achievements WHERE character_id = ?`, characterID); err != nil {
		return fmt.Errorf("achievement delete: %w", err)
	}
	for _, a := range achievements {
		rewards, err := encodeRewards(a.Rewards)
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO achievements (
				character_id, id, name, description, category, counter,
				progress_current, progress_required, unlocked, unlocked_at, xp_reward, rewards
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, characterID, a.ID, a.Name, a.Description, a.Category, string(a.Counter),
			a.ProgressCurrent, a.ProgressRequired, boolToInt(a.Unlocked), nullTime(a.UnlockedAt), a.XPReward, rewards)
		if err != nil {
			return fmt.Errorf("achievement insert: %w", err)
		}
	}
	return nil
}

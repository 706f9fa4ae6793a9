package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lifeforge/internal/engine"
)

type CharacterRecord struct {
	Character engine.Character
	Tally     engine.Tally
	UpdatedAt time.Time
}

type CharacterRepo struct {
	db execer
}

func NewCharacterRepo(db execer) *CharacterRepo {
	return &CharacterRepo{db: db}
}

func (r *CharacterRepo) Get(ctx context.Context, id string) (*CharacterRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, class, level, total_xp, gold, stats, skill_credits,
			needs_completed, daily_quests_completed, buffs_activated, gold_earned,
			created_at, updated_at
		FROM characters WHERE id = ?
	`, id)

	var (
		rec                  CharacterRecord
		class                string
		stats, skills        sql.NullString
		createdAt, updatedAt string
	)
	c := &rec.Character
	if err := row.Scan(&c.ID, &c.Name, &class, &c.Level, &c.TotalXP, &c.Gold, &stats, &skills,
		&rec.Tally.NeedsCompleted, &rec.Tally.DailyQuestsCompleted, &rec.Tally.BuffsActivated, &rec.Tally.GoldEarned,
		&createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("character get: %w", err)
	}
	c.Class = engine.ClassTag(class)

	var err error
	if c.Stats, err = decodeMap[engine.Stat](stats); err != nil {
		return nil, err
	}
	if c.SkillCredits, err = decodeMap[string](skills); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *CharacterRepo) Upsert(ctx context.Context, rec CharacterRecord) error {
	c := rec.Character
	stats, err := encodeMap(c.Stats)
	if err != nil {
		return err
	}
	skills, err := encodeMap(c.SkillCredits)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO characters (
			id, name, class, level, total_xp, gold, stats, skill_credits,
			needs_completed, daily_quests_completed, buffs_activated, gold_earned,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			class = excluded.class,
			level = excluded.level,
			total_xp = excluded.total_xp,
			gold = excluded.gold,
			stats = excluded.stats,
			skill_credits = excluded.skill_credits,
			needs_completed = excluded.needs_completed,
			daily_quests_completed = excluded.daily_quests_completed,
			buffs_activated = excluded.buffs_activated,
			gold_earned = excluded.gold_earned,
			updated_at = excluded.updated_at
	`, c.ID, c.Name, string(c.Class), c.Level, c.TotalXP, c.Gold, stats, skills,
		rec.Tally.NeedsCompleted, rec.Tally.DailyQuestsCompleted, rec.Tally.BuffsActivated, rec.Tally.GoldEarned,
		formatTime(c.CreatedAt), formatTime(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("character upsert: %w", err)
	}
	return nil
}

func (r *CharacterRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM characters ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("character list: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("character scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *CharacterRepo) ListPools(ctx context.Context, characterID string) (map[engine.ResourceKind]engine.ResourcePool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT kind, current, max, regen_rate, last_updated
		FROM resource_pools WHERE character_id = ?
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("pool list: %w", err)
	}
	defer rows.Close()

	pools := map[engine.ResourceKind]engine.ResourcePool{}
	for rows.Next() {
		var (
			p          engine.ResourcePool
			kind, last string
		)
		if err := rows.Scan(&kind, &p.Current, &p.Max, &p.RegenRatePerHour, &last); err != nil {
			return nil, fmt.Errorf("pool scan: %w", err)
		}
		p.Kind = engine.ResourceKind(kind)
		if p.LastUpdated, err = parseTime(last); err != nil {
			return nil, err
		}
		pools[p.Kind] = p
	}
	return pools, rows.Err()
}

func (r *CharacterRepo) ReplacePools(ctx context.Context, characterID string, pools map[engine.ResourceKind]engine.ResourcePool) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM resource_pools WHERE character_id = ?`, characterID); err != nil {
		return fmt.Errorf("pool delete: %w", err)
	}
	for _, p := range pools {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO resource_pools (character_id, kind, current, max, regen_rate, last_updated)
			VALUES (?, ?, ?, ?, ?, ?)
		`, characterID, string(p.Kind), p.Current, p.Max, p.RegenRatePerHour, formatTime(p.LastUpdated))
		if err != nil {
			return fmt.Errorf("pool insert: %w", err)
		}
	}
	return nil
}

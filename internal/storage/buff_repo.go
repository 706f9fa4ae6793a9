package storage

import (
	"context"
	"database/sql"
	"fmt"

	"lifeforge/internal/engine"
)

type BuffRepo struct {
	db execer
}

func NewBuffRepo(db execer) *BuffRepo {
	return &BuffRepo{db: db}
}

func (r *BuffRepo) ListByCharacter(ctx context.Context, characterID string) ([]engine.Buff, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, kind, stat_boost, stack_count, duration_minutes, activated_at, expires_at, is_active
		FROM buffs WHERE character_id = ?
		ORDER BY activated_at, id
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("buff list: %w", err)
	}
	defer rows.Close()

	var out []engine.Buff
	for rows.Next() {
		var (
			b              engine.Buff
			kind, act, exp string
			boost          sql.NullString
			active         int
		)
		if err := rows.Scan(&b.ID, &b.Name, &kind, &boost, &b.StackCount, &b.DurationMinutes, &act, &exp, &active); err != nil {
			return nil, fmt.Errorf("buff scan: %w", err)
		}
		b.Kind = engine.BuffKind(kind)
		b.IsActive = active == 1
		if b.StatBoost, err = decodeMap[engine.Stat](boost); err != nil {
			return nil, err
		}
		if b.ActivatedAt, err = parseTime(act); err != nil {
			return nil, err
		}
		if b.ExpiresAt, err = parseTime(exp); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BuffRepo) ReplaceForCharacter(ctx context.Context, characterID string, buffs []engine.Buff) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM buffs WHERE character_id = ?`, characterID); err != nil {
		return fmt.Errorf("buff delete: %w", err)
	}
	for _, b := range buffs {
		boost, err := encodeMap(b.StatBoost)
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO buffs (
				id, character_id, name, kind, stat_boost, stack_count,
				duration_minutes, activated_at, expires_at, is_active
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, b.ID, characterID, b.Name, string(b.Kind), boost, b.StackCount,
			b.DurationMinutes, formatTime(b.ActivatedAt), formatTime(b.ExpiresAt), boolToInt(b.IsActive))
		if err != nil {
			return fmt.Errorf("buff insert: %w", err)
		}
	}
	return nil
}

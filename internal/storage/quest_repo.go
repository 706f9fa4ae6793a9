package storage

import (
	"context"
	"database/sql"
	"fmt"

	"lifeforge/internal/engine"
)

type QuestRepo struct {
	db execer
}

func NewQuestRepo(db execer) *QuestRepo {
	return &QuestRepo{db: db}
}

// ListByCharacter returns quests oldest first, each with its objectives in order.
func (r *QuestRepo) ListByCharacter(ctx context.Context, characterID string) ([]engine.Quest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, type, difficulty, status, xp_reward, gold_reward, rewards,
			time_limit_minutes, template_id, created_at, started_at, completed_at, ended_at
		FROM quests WHERE character_id = ?
		ORDER BY created_at, id
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("quest list: %w", err)
	}
	defer rows.Close()

	var quests []engine.Quest
	index := map[string]int{}
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		index[q.ID] = len(quests)
		quests = append(quests, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quest rows: %w", err)
	}
	rows.Close()

	objs, err := r.listObjectives(ctx, characterID)
	if err != nil {
		return nil, err
	}
	for _, o := range objs {
		i, ok := index[o.QuestID]
		if !ok {
			continue
		}
		quests[i].Objectives = append(quests[i].Objectives, o)
	}
	return quests, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuest(row scanner) (*engine.Quest, error) {
	var (
		q                         engine.Quest
		desc, rewards, templateID sql.NullString
		qType, status, createdAt  string
		started, completed, ended sql.NullString
		difficulty                int
	)
	if err := row.Scan(&q.ID, &q.Name, &desc, &qType, &difficulty, &status, &q.XPReward, &q.GoldReward, &rewards,
		&q.TimeLimitMinutes, &templateID, &createdAt, &started, &completed, &ended); err != nil {
		return nil, fmt.Errorf("quest scan: %w", err)
	}
	q.Description = desc.String
	q.TemplateID = templateID.String
	q.Type = engine.QuestType(qType)
	q.Status = engine.QuestStatus(status)
	q.Difficulty = engine.Difficulty(difficulty)

	var err error
	if q.Rewards, err = decodeRewards(rewards); err != nil {
		return nil, err
	}
	if q.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if q.StartedAt, err = parseNullTime(started); err != nil {
		return nil, err
	}
	if q.CompletedAt, err = parseNullTime(completed); err != nil {
		return nil, err
	}
	if q.EndedAt, err = parseNullTime(ended); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestRepo) listObjectives(ctx context.Context, characterID string) ([]engine.Objective, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, quest_id, text, ord, is_required, is_completed, completed_at, xp_reward, rewards
		FROM objectives WHERE character_id = ?
		ORDER BY quest_id, ord, id
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("objective list: %w", err)
	}
	defer rows.Close()

	var out []engine.Objective
	for rows.Next() {
		var (
			o                   engine.Objective
			required, completed int
			completedAt, rwd    sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.QuestID, &o.Text, &o.Order, &required, &completed, &completedAt, &o.XPReward, &rwd); err != nil {
			return nil, fmt.Errorf("objective scan: %w", err)
		}
		o.IsRequired = required == 1
		o.IsCompleted = completed == 1
		if o.CompletedAt, err = parseNullTime(completedAt); err != nil {
			return nil, err
		}
		if o.Rewards, err = decodeRewards(rwd); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ReplaceForCharacter rewrites every quest and objective the character owns.
func (r *QuestRepo) ReplaceForCharacter(ctx context.Context, characterID string, quests []engine.Quest) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM objectives WHERE character_id = ?`, characterID); err != nil {
		return fmt.Errorf("objective delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM quests WHERE character_id = ?`, characterID); err != nil {
		return fmt.Errorf("quest delete: %w", err)
	}
	for _, q := range quests {
		if err := r.insert(ctx, characterID, q); err != nil {
			return err
		}
	}
	return nil
}

func (r *QuestRepo) insert(ctx context.Context, characterID string, q engine.Quest) error {
	rewards, err := encodeRewards(q.Rewards)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO quests (
			id, character_id, name, description, type, difficulty, status,
			xp_reward, gold_reward, rewards, time_limit_minutes, template_id,
			created_at, started_at, completed_at, ended_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, q.ID, characterID, q.Name, q.Description, string(q.Type), int(q.Difficulty), string(q.Status),
		q.XPReward, q.GoldReward, rewards, q.TimeLimitMinutes, q.TemplateID,
		formatTime(q.CreatedAt), nullTime(q.StartedAt), nullTime(q.CompletedAt), nullTime(q.EndedAt))
	if err != nil {
		return fmt.Errorf("quest insert: %w", err)
	}

	for _, o := range q.Objectives {
		rwd, err := encodeRewards(o.Rewards)
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO objectives (
				id, quest_id, character_id, text, ord, is_required, is_completed,
				completed_at, xp_reward, rewards
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, o.ID, q.ID, characterID, o.Text, o.Order, boolToInt(o.IsRequired), boolToInt(o.IsCompleted),
			nullTime(o.CompletedAt), o.XPReward, rwd)
		if err != nil {
			return fmt.Errorf("objective insert: %w", err)
		}
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"

	"lifeforge/internal/engine"
)

// SQLiteStore persists whole character aggregates. Each Save rewrites the
// character's rows inside one transaction.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context, characterID string) (*engine.State, error) {
	var st *engine.State
	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		rec, err := NewCharacterRepo(tx).Get(ctx, characterID)
		if err != nil || rec == nil {
			return err
		}
		pools, err := NewCharacterRepo(tx).ListPools(ctx, characterID)
		if err != nil {
			return err
		}
		quests, err := NewQuestRepo(tx).ListByCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		recurring, err := NewRecurringRepo(tx).ListByCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		buffs, err := NewBuffRepo(tx).ListByCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		achievements, err := NewAchievementRepo(tx).ListByCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		st = &engine.State{
			Character:    rec.Character,
			Pools:        pools,
			Quests:       quests,
			Recurring:    recurring,
			Buffs:        buffs,
			Achievements: achievements,
			Tally:        rec.Tally,
			UpdatedAt:    rec.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load character %s: %w", characterID, err)
	}
	return st, nil
}

func (s *SQLiteStore) Save(ctx context.Context, characterID string, st *engine.State) error {
	if st == nil {
		return fmt.Errorf("save character %s: nil state", characterID)
	}
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		chars := NewCharacterRepo(tx)
		c := st.Character
		c.ID = characterID
		if err := chars.Upsert(ctx, CharacterRecord{Character: c, Tally: st.Tally, UpdatedAt: st.UpdatedAt}); err != nil {
			return err
		}
		if err := chars.ReplacePools(ctx, characterID, st.Pools); err != nil {
			return err
		}
		if err := NewQuestRepo(tx).ReplaceForCharacter(ctx, characterID, st.Quests); err != nil {
			return err
		}
		if err := NewRecurringRepo(tx).ReplaceForCharacter(ctx, characterID, st.Recurring); err != nil {
			return err
		}
		if err := NewBuffRepo(tx).ReplaceForCharacter(ctx, characterID, st.Buffs); err != nil {
			return err
		}
		return NewAchievementRepo(tx).ReplaceForCharacter(ctx, characterID, st.Achievements)
	})
}

func (s *SQLiteStore) ListCharacterIDs(ctx context.Context) ([]string, error) {
	return NewCharacterRepo(s.db).ListIDs(ctx)
}

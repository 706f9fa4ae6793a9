package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lifeforge/internal/engine"
)

// Timestamps are stored as RFC 3339 text in UTC.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}

func nullTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func encodeRewards(rewards []engine.Reward) (*string, error) {
	data, err := engine.MarshalRewards(rewards)
	if err != nil || data == nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

func decodeRewards(ns sql.NullString) ([]engine.Reward, error) {
	if !ns.Valid {
		return nil, nil
	}
	return engine.UnmarshalRewards([]byte(ns.String))
}

func encodeMap[K comparable](m map[K]int) (*string, error) {
	if len(m) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal map: %w", err)
	}
	s := string(data)
	return &s, nil
}

func decodeMap[K ~string](ns sql.NullString) (map[K]int, error) {
	out := map[K]int{}
	if !ns.Valid || ns.String == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return nil, fmt.Errorf("unmarshal map: %w", err)
	}
	return out, nil
}

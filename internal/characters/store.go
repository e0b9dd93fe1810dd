/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package characters keeps the recurring-character roster in an embedded
// SQLite database. Character descriptions and reference image paths feed
// the image generator so the same face shows up panel after panel.
package characters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"

	"comicforge/internal/domain"
	applog "comicforge/internal/log"
)

const DBFileName = "characters.sqlite"

// ErrNotFound reports a character name absent from the roster.
var ErrNotFound = errors.New("characters: not found")

// Store wraps the embedded roster database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the roster database under dir and ensures the
// schema exists.
func Open(dir string) (*Store, error) {
	l := applog.WithComponent("characters")
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("characters: store dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("characters: create dir: %w", err)
	}

	path := filepath.Join(dir, DBFileName)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("characters: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("characters: enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS characters (
		name          TEXT PRIMARY KEY,
		role          TEXT NOT NULL DEFAULT '',
		description   TEXT NOT NULL DEFAULT '',
		visual_traits TEXT NOT NULL DEFAULT '',
		ref_image     TEXT NOT NULL DEFAULT '',
		updated_at    TEXT NOT NULL
	);`); err != nil {
		db.Close()
		return nil, fmt.Errorf("characters: create schema: %w", err)
	}

	l.Debug("roster ready", "path", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Upsert inserts or replaces a character keyed by name.
func (s *Store) Upsert(ctx context.Context, c domain.Character) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("characters: name is required")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `INSERT INTO characters (name, role, description, visual_traits, ref_image, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			role=excluded.role,
			description=excluded.description,
			visual_traits=excluded.visual_traits,
			ref_image=excluded.ref_image,
			updated_at=excluded.updated_at`,
		c.Name, c.Role, c.Description, c.VisualTraits, c.RefImagePath, now)
	if err != nil {
		return fmt.Errorf("characters: upsert %s: %w", c.Name, err)
	}
	return nil
}

// Get looks a character up by exact name.
func (s *Store) Get(ctx context.Context, name string) (domain.Character, error) {
	var c domain.Character
	err := s.db.QueryRowContext(ctx, `SELECT name, role, description, visual_traits, ref_image
		FROM characters WHERE name = ?`, name).
		Scan(&c.Name, &c.Role, &c.Description, &c.VisualTraits, &c.RefImagePath)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Character{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return domain.Character{}, fmt.Errorf("characters: get %s: %w", name, err)
	}
	return c, nil
}

// List returns the whole roster ordered by name.
func (s *Store) List(ctx context.Context) ([]domain.Character, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, role, description, visual_traits, ref_image
		FROM characters ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("characters: list: %w", err)
	}
	defer rows.Close()

	var out []domain.Character
	for rows.Next() {
		var c domain.Character
		if err := rows.Scan(&c.Name, &c.Role, &c.Description, &c.VisualTraits, &c.RefImagePath); err != nil {
			return nil, fmt.Errorf("characters: scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a character; deleting an absent name is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM characters WHERE name = ?`, name); err != nil {
		return fmt.Errorf("characters: delete %s: %w", name, err)
	}
	return nil
}

// FindInText returns roster characters whose names appear in text, in
// roster order. Used to attach reference images to a panel's prompt.
func (s *Store) FindInText(ctx context.Context, text string) ([]domain.Character, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(text)
	var hits []domain.Character
	for _, c := range all {
		if strings.Contains(lower, strings.ToLower(c.Name)) {
			hits = append(hits, c)
		}
	}
	return hits, nil
}

// SeedDefaults inserts the stock roster for names not already present.
func (s *Store) SeedDefaults(ctx context.Context) error {
	for _, c := range DefaultRoster() {
		if _, err := s.Get(ctx, c.Name); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := s.Upsert(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRoster is the built-in cast available before any custom
// characters are defined.
func DefaultRoster() []domain.Character {
	return []domain.Character{
		{
			Name:         "Captain Nova",
			Role:         "hero",
			Description:  "A fearless starship captain with a dry sense of humor",
			VisualTraits: "silver flight suit, short dark hair, confident posture",
		},
		{
			Name:         "Professor Quark",
			Role:         "mentor",
			Description:  "An eccentric physicist who speaks in riddles",
			VisualTraits: "wild gray hair, round spectacles, lab coat covered in equations",
		},
		{
			Name:         "Zix",
			Role:         "sidekick",
			Description:  "A small alien navigator, endlessly optimistic",
			VisualTraits: "teal skin, three eyes, oversized goggles",
		},
		{
			Name:         "Mara Vex",
			Role:         "villain",
			Description:  "A smuggler baron with a grudge against the fleet",
			VisualTraits: "black coat with crimson trim, cybernetic left arm, sharp grin",
		},
	}
}

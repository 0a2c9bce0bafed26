package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGBeliefStore persists belief documents in Postgres as YAML text.
type PGBeliefStore struct {
	db *pgxpool.Pool
}

func NewPGBeliefStore(db *pgxpool.Pool) *PGBeliefStore {
	return &PGBeliefStore{db: db}
}

// EnsureSchema creates the belief table if it does not exist.
func (s *PGBeliefStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS character_beliefs (
			character_id TEXT PRIMARY KEY,
			document     TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create character_beliefs: %w", err)
	}
	return nil
}

func (s *PGBeliefStore) Get(ctx context.Context, characterID string) (*domain.BeliefDocument, error) {
	var text string
	err := s.db.QueryRow(ctx,
		`SELECT document FROM character_beliefs WHERE character_id = $1`,
		characterID,
	).Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	doc, err := domain.ParseBeliefDocument(text)
	if err != nil {
		return nil, fmt.Errorf("decode stored beliefs for %s: %w", characterID, err)
	}
	return &doc, nil
}

// Put replaces the character's document wholesale.
func (s *PGBeliefStore) Put(ctx context.Context, characterID string, doc domain.BeliefDocument) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO character_beliefs (character_id, document)
		 VALUES ($1, $2)
		 ON CONFLICT (character_id) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = NOW()`,
		characterID, doc.YAML(),
	)
	return err
}

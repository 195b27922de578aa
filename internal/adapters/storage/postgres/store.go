package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"pet-health-records/internal/platform/logger"
	"pet-health-records/internal/ports/store"
)

// Store implementa el puerto de persistencia sobre una sola tabla de blobs:
//
//	CREATE TABLE IF NOT EXISTS collections (
//	    collection  TEXT        NOT NULL,
//	    owner_key   TEXT        NOT NULL,
//	    data        JSONB       NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (collection, owner_key)
//	);
//
// Mantiene el mismo contrato que los otros adapters: blob completo por
// partición, upsert que sobreescribe sin comparar versiones (last-write-wins).
// No es una mejora transaccional del modelo, solo otro backend para el mismo
// comportamiento.
type Store struct {
	db  *sql.DB
	log logger.Logger
}

var _ store.Store = (*Store)(nil)

func NewStore(db *sql.DB, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{db: db, log: log}
}

func (s *Store) Load(ctx context.Context, collection, ownerKey string, out any) error {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data
		FROM collections
		WHERE collection = $1 AND owner_key = $2
	`, collection, ownerKey).Scan(&raw)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resetEmpty(out)
		}
		// Igual que con un blob corrupto: warn y colección vacía. Una fila
		// ilegible nunca debe impedir que el usuario siga creando datos.
		s.log.Warn("store: read failed, recovering as empty", map[string]any{
			"collection": collection,
			"owner":      ownerKey,
			"error":      err.Error(),
		})
		return resetEmpty(out)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Warn("store: corrupt blob, recovering as empty", map[string]any{
			"collection": collection,
			"owner":      ownerKey,
			"error":      err.Error(),
		})
		return resetEmpty(out)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, collection, ownerKey string, items any) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collections (collection, owner_key, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, owner_key)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, collection, ownerKey, raw)
	return err
}

func resetEmpty(out any) error {
	return json.Unmarshal([]byte("[]"), out)
}

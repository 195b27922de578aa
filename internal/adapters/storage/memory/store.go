package memory

import (
	"context"
	"encoding/json"
	"sync"

	"pet-health-records/internal/platform/logger"
	"pet-health-records/internal/ports/store"
)

// Store guarda cada partición (collection, ownerKey) como bytes serializados,
// igual que haría un backend real. No guardamos los slices "en vivo" a
// propósito: así el round-trip y la recuperación ante corrupción se comportan
// exactamente como en los adapters durables, y los tests no mienten.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	log   logger.Logger
}

var _ store.Store = (*Store)(nil)

func NewStore(log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		blobs: make(map[string][]byte),
		log:   log,
	}
}

func (s *Store) Load(ctx context.Context, collection, ownerKey string, out any) error {
	s.mu.RLock()
	raw, ok := s.blobs[partitionKey(collection, ownerKey)]
	s.mu.RUnlock()

	if !ok {
		return resetEmpty(out)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		// Blob corrupto: warn y colección vacía, nunca error al caller.
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

	s.mu.Lock()
	s.blobs[partitionKey(collection, ownerKey)] = raw
	s.mu.Unlock()
	return nil
}

// Seed escribe un blob crudo directamente, sin pasar por Save.
// Solo para tests (p.ej. inyectar un blob corrupto o legacy).
func (s *Store) Seed(collection, ownerKey string, raw []byte) {
	s.mu.Lock()
	s.blobs[partitionKey(collection, ownerKey)] = raw
	s.mu.Unlock()
}

func partitionKey(collection, ownerKey string) string {
	return collection + ":" + ownerKey
}

// resetEmpty deja out como secuencia vacía (out debe ser *[]T).
func resetEmpty(out any) error {
	return json.Unmarshal([]byte("[]"), out)
}

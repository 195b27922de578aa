package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"pet-health-records/internal/platform/logger"
	"pet-health-records/internal/ports/store"
)

// Store persiste cada partición (collection, ownerKey) como un archivo JSON
// dentro de dir. Es el equivalente local del storage del browser: un blob por
// colección y owner, sobreescritura completa en cada Save, last-write-wins.
type Store struct {
	dir string
	log logger.Logger

	// Serializa escrituras dentro de este proceso. Entre procesos no hay
	// coordinación alguna (limitación documentada del sistema).
	mu sync.Mutex
}

var _ store.Store = (*Store)(nil)

func NewStore(dir string, log logger.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("file store: dir required")
	}
	if log == nil {
		log = logger.Nop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

func (s *Store) Load(ctx context.Context, collection, ownerKey string, out any) error {
	raw, err := os.ReadFile(s.path(collection, ownerKey))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return resetEmpty(out)
		}
		// Lectura fallida la tratamos igual que corrupción: el usuario sigue
		// operando con la colección vacía.
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

	s.mu.Lock()
	defer s.mu.Unlock()

	// tmp + rename para no dejar un blob a medio escribir si el proceso muere.
	target := s.path(collection, ownerKey)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}

// path arma el nombre de archivo de la partición.
// El ownerKey viene de un identity provider externo, así que lo escapamos
// para que cualquier valor sea un nombre de archivo válido.
func (s *Store) path(collection, ownerKey string) string {
	return filepath.Join(s.dir, collection+"__"+url.QueryEscape(ownerKey)+".json")
}

func resetEmpty(out any) error {
	return json.Unmarshal([]byte("[]"), out)
}

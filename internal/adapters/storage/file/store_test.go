package file

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"pet-health-records/internal/ports/store"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := []item{{ID: "1", Name: "Milo"}, {ID: "2", Name: "Luna"}}
	if err := s.Save(ctx, store.CollectionPets, "owner-1", in); err != nil {
		t.Fatalf("save error: %v", err)
	}

	var out []item
	if err := s.Load(ctx, store.CollectionPets, "owner-1", &out); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round-trip mismatch: in=%#v out=%#v", in, out)
	}
}

func TestStore_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewStore(dir, nil)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	if err := s1.Save(ctx, store.CollectionVaccinations, "owner-1", []item{{ID: "r1"}}); err != nil {
		t.Fatalf("save error: %v", err)
	}

	// "Reinicio de proceso": instancia nueva sobre el mismo dir.
	s2, err := NewStore(dir, nil)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	var out []item
	if err := s2.Load(ctx, store.CollectionVaccinations, "owner-1", &out); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(out) != 1 || out[0].ID != "r1" {
		t.Fatalf("expected data to survive restart, got %#v", out)
	}
}

func TestStore_Load_MissingFile_ReturnsEmpty(t *testing.T) {
	s := newTestStore(t)

	var out []item
	if err := s.Load(context.Background(), store.CollectionPets, "nobody", &out); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty, got %#v", out)
	}
}

func TestStore_Load_CorruptFile_RecoversAsEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, nil)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}

	// Escribimos basura directo en el path que usaría el adapter.
	target := s.path(store.CollectionPets, "owner-1")
	if err := os.WriteFile(target, []byte("{{{corrupt"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	var out []item
	if err := s.Load(context.Background(), store.CollectionPets, "owner-1", &out); err != nil {
		t.Fatalf("expected silent recovery, got error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty collection, got %#v", out)
	}
}

func TestStore_OwnerKey_EscapedInFilename(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, nil)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	ctx := context.Background()

	// Un owner key hostil para el filesystem no debe escaparse del dir.
	owner := "../weird/user id@example.com"
	if err := s.Save(ctx, store.CollectionPets, owner, []item{{ID: "1"}}); err != nil {
		t.Fatalf("save error: %v", err)
	}

	var out []item
	if err := s.Load(ctx, store.CollectionPets, owner, &out); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected round-trip with escaped owner key, got %#v", out)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file inside %s, got %d", dir, len(entries))
	}
	if filepath.Dir(s.path(store.CollectionPets, owner)) != dir {
		t.Fatalf("partition file escaped the data dir")
	}
}

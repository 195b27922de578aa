package memory

import (
	"context"
	"reflect"
	"testing"
	"time"

	"pet-health-records/internal/ports/store"
)

type item struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

func TestStore_RoundTrip_PreservesOrderAndFields(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	in := []item{
		{ID: "b", Name: "Luna", At: at},
		{ID: "a", Name: "Milo", At: at.Add(time.Hour)},
	}

	if err := s.Save(ctx, store.CollectionPets, "owner-1", in); err != nil {
		t.Fatalf("save error: %v", err)
	}

	var out []item
	if err := s.Load(ctx, store.CollectionPets, "owner-1", &out); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round-trip mismatch:\n in=%#v\nout=%#v", in, out)
	}
}

func TestStore_Load_MissingBlob_ReturnsEmpty(t *testing.T) {
	s := NewStore(nil)

	var out []item
	if err := s.Load(context.Background(), store.CollectionPets, "nobody", &out); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty collection, got %d items", len(out))
	}
}

func TestStore_Load_CorruptBlob_RecoversAsEmpty(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	cases := map[string][]byte{
		"garbage":        []byte("{{{not json"),
		"not a sequence": []byte(`{"id":"x"}`),
		"wrong scalar":   []byte(`42`),
	}

	for name, raw := range cases {
		s.Seed(store.CollectionVaccinations, "owner-1", raw)

		var out []item
		if err := s.Load(ctx, store.CollectionVaccinations, "owner-1", &out); err != nil {
			t.Fatalf("%s: expected silent recovery, got error: %v", name, err)
		}
		if len(out) != 0 {
			t.Fatalf("%s: expected empty collection, got %#v", name, out)
		}
	}
}

func TestStore_Load_CorruptBlob_DoesNotBlockNewData(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	s.Seed(store.CollectionPets, "owner-1", []byte("corrupt"))

	var out []item
	_ = s.Load(ctx, store.CollectionPets, "owner-1", &out)
	out = append(out, item{ID: "new", Name: "Coco"})

	if err := s.Save(ctx, store.CollectionPets, "owner-1", out); err != nil {
		t.Fatalf("save after recovery error: %v", err)
	}

	var again []item
	if err := s.Load(ctx, store.CollectionPets, "owner-1", &again); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(again) != 1 || again[0].ID != "new" {
		t.Fatalf("expected the new item to survive, got %#v", again)
	}
}

func TestStore_Partitions_AreIsolated(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	if err := s.Save(ctx, store.CollectionPets, "owner-a", []item{{ID: "1", Name: "Milo"}}); err != nil {
		t.Fatalf("save A error: %v", err)
	}
	if err := s.Save(ctx, store.CollectionPets, "owner-b", []item{{ID: "2", Name: "Luna"}}); err != nil {
		t.Fatalf("save B error: %v", err)
	}

	var a, b []item
	_ = s.Load(ctx, store.CollectionPets, "owner-a", &a)
	_ = s.Load(ctx, store.CollectionPets, "owner-b", &b)

	if len(a) != 1 || a[0].ID != "1" {
		t.Fatalf("owner-a sees wrong data: %#v", a)
	}
	if len(b) != 1 || b[0].ID != "2" {
		t.Fatalf("owner-b sees wrong data: %#v", b)
	}

	// Sobrescribir A no toca B; misma owner key en otra colección tampoco.
	if err := s.Save(ctx, store.CollectionPets, "owner-a", []item{}); err != nil {
		t.Fatalf("overwrite A error: %v", err)
	}
	var b2 []item
	_ = s.Load(ctx, store.CollectionPets, "owner-b", &b2)
	if len(b2) != 1 {
		t.Fatalf("owner-b affected by owner-a save: %#v", b2)
	}
}

func TestStore_Save_LastWriteWins(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	_ = s.Save(ctx, store.CollectionPets, "owner-1", []item{{ID: "first"}})
	_ = s.Save(ctx, store.CollectionPets, "owner-1", []item{{ID: "second"}})

	var out []item
	_ = s.Load(ctx, store.CollectionPets, "owner-1", &out)
	if len(out) != 1 || out[0].ID != "second" {
		t.Fatalf("expected last save to win, got %#v", out)
	}
}

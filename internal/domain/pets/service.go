package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-health-records/internal/ports/store"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// RecordPurger es lo único que el registry necesita del ledger de vacunas:
// poder borrar en cascada los registros de una mascota. La implementación
// real es vaccinations.Service; se cablea en el router.
type RecordPurger interface {
	DeleteForPet(ctx context.Context, ownerUserID, petID string) error
}

// Service es el registry de mascotas. Toda mutación carga la colección
// completa del owner, la modifica y la vuelve a guardar (el store es un blob
// por partición, no hay updates parciales).
type Service struct {
	store   store.Store
	records RecordPurger

	now   func() time.Time
	newID func() string
}

func NewService(st store.Store, records RecordPurger) *Service {
	return &Service{
		store:   st,
		records: records,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

type CreateInput struct {
	Name      string
	Species   Species
	Breed     string
	BirthDate *time.Time
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	if !ValidSpecies(in.Species) {
		return Pet{}, ErrInvalidInput
	}

	var items []Pet
	if err := s.store.Load(ctx, store.CollectionPets, ownerUserID, &items); err != nil {
		return Pet{}, err
	}

	p := Pet{
		ID:          s.newID(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Species:     in.Species,
		Breed:       strings.TrimSpace(in.Breed),
		BirthDate:   in.BirthDate,
		CreatedAt:   s.now(),
	}

	items = append(items, p)
	if err := s.store.Save(ctx, store.CollectionPets, ownerUserID, items); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// UpdateInput usa punteros para PATCH real: nil = no tocar.
// ID, OwnerUserID y CreatedAt no son actualizables.
type UpdateInput struct {
	Name      *string
	Species   *Species
	Breed     *string
	BirthDate **time.Time // doble puntero: permite setear nil (limpiar fecha)
}

// Update mergea los campos presentes sobre la mascota con ese id.
// Si no existe, es un no-op silencioso (el "not found" nunca se propaga
// como error desde los mutators; ver Delete).
func (s *Service) Update(ctx context.Context, ownerUserID, id string, in UpdateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}

	var items []Pet
	if err := s.store.Load(ctx, store.CollectionPets, ownerUserID, &items); err != nil {
		return Pet{}, err
	}

	for i, p := range items {
		if p.ID != id {
			continue
		}

		if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Species != nil && ValidSpecies(*in.Species) {
			p.Species = *in.Species
		}
		if in.Breed != nil {
			p.Breed = strings.TrimSpace(*in.Breed)
		}
		if in.BirthDate != nil {
			p.BirthDate = *in.BirthDate
		}

		items[i] = p
		if err := s.store.Save(ctx, store.CollectionPets, ownerUserID, items); err != nil {
			return Pet{}, err
		}
		return p, nil
	}

	return Pet{}, nil
}

// Delete borra la mascota y, en cascada, todos sus registros de vacunación.
// El store no tiene foreign keys, así que la integridad se garantiza acá y
// solo acá. El orden importa: primero se purgan los registros y después se
// guarda la colección de mascotas — así ningún intercalado de fallas puede
// dejar registros huérfanos apuntando a una mascota borrada.
func (s *Service) Delete(ctx context.Context, ownerUserID, id string) error {
	if strings.TrimSpace(ownerUserID) == "" {
		return ErrInvalidInput
	}

	var items []Pet
	if err := s.store.Load(ctx, store.CollectionPets, ownerUserID, &items); err != nil {
		return err
	}

	idx := -1
	for i, p := range items {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		// no-op: la mascota no existe en esta partición
		return nil
	}

	if err := s.records.DeleteForPet(ctx, ownerUserID, id); err != nil {
		return err
	}

	items = append(items[:idx], items[idx+1:]...)
	return s.store.Save(ctx, store.CollectionPets, ownerUserID, items)
}

func (s *Service) GetByID(ctx context.Context, ownerUserID, id string) (Pet, bool, error) {
	var items []Pet
	if err := s.store.Load(ctx, store.CollectionPets, ownerUserID, &items); err != nil {
		return Pet{}, false, err
	}
	for _, p := range items {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Pet{}, false, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	var items []Pet
	if err := s.store.Load(ctx, store.CollectionPets, ownerUserID, &items); err != nil {
		return nil, err
	}
	return items, nil
}

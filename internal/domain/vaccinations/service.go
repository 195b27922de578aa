package vaccinations

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"pet-health-records/internal/domain/vaccines"
	"pet-health-records/internal/ports/store"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Service es el ledger de vacunaciones de un owner, más el motor de
// completado/recurrencia. Igual que el registry de mascotas: cada mutación
// es load → modificar → save de la colección completa de la partición.
//
// El ledger NO valida proactivamente que PetID exista: la integridad
// referencial se mantiene por procedimiento, vía el borrado en cascada del
// registry (ver pets.Service.Delete). Acepta lo que le dan, igual que acepta
// un NextDueDate anterior a DateGiven (gap documentado: lo garantiza el
// formulario, no el ledger).
type Service struct {
	store store.Store

	now   func() time.Time
	newID func() string
}

func NewService(st store.Store) *Service {
	return &Service{
		store: st,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type CreateInput struct {
	PetID       string
	VaccineName string
	DateGiven   time.Time

	// NextDueDate opcional: si viene nil se auto-computa con el intervalo del
	// catálogo. Para vacunas sin intervalo ("other") es obligatorio.
	NextDueDate *time.Time

	VetName string
	Notes   string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Record, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Record{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.PetID) == "" {
		return Record{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.VaccineName) == "" {
		return Record{}, ErrInvalidInput
	}
	if in.DateGiven.IsZero() {
		return Record{}, ErrInvalidInput
	}

	var nextDue time.Time
	switch {
	case in.NextDueDate != nil:
		nextDue = *in.NextDueDate
	default:
		t, ok := vaccines.Find(strings.TrimSpace(in.VaccineName))
		if !ok {
			return Record{}, ErrInvalidInput
		}
		due, ok := t.NextDue(in.DateGiven)
		if !ok {
			// entrada sin intervalo: el caller tiene que mandar la fecha
			return Record{}, ErrInvalidInput
		}
		nextDue = due
	}

	var items []Record
	if err := s.store.Load(ctx, store.CollectionVaccinations, ownerUserID, &items); err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:          s.newID(),
		PetID:       strings.TrimSpace(in.PetID),
		VaccineName: strings.TrimSpace(in.VaccineName),
		DateGiven:   in.DateGiven,
		NextDueDate: nextDue,
		VetName:     strings.TrimSpace(in.VetName),
		Notes:       strings.TrimSpace(in.Notes),
		IsCompleted: false,
	}

	items = append(items, rec)
	if err := s.store.Save(ctx, store.CollectionVaccinations, ownerUserID, items); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
// IsCompleted no se toca por acá: la transición de estado es MarkComplete.
type UpdateInput struct {
	VaccineName *string
	DateGiven   *time.Time
	NextDueDate *time.Time
	VetName     *string
	Notes       *string
}

// Update mergea campos sobre el registro con ese id; no-op si no existe.
func (s *Service) Update(ctx context.Context, ownerUserID, id string, in UpdateInput) (Record, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Record{}, ErrInvalidInput
	}

	var items []Record
	if err := s.store.Load(ctx, store.CollectionVaccinations, ownerUserID, &items); err != nil {
		return Record{}, err
	}

	for i, rec := range items {
		if rec.ID != id {
			continue
		}

		if in.VaccineName != nil && strings.TrimSpace(*in.VaccineName) != "" {
			rec.VaccineName = strings.TrimSpace(*in.VaccineName)
		}
		if in.DateGiven != nil {
			rec.DateGiven = *in.DateGiven
		}
		if in.NextDueDate != nil {
			rec.NextDueDate = *in.NextDueDate
		}
		if in.VetName != nil {
			rec.VetName = strings.TrimSpace(*in.VetName)
		}
		if in.Notes != nil {
			rec.Notes = strings.TrimSpace(*in.Notes)
		}

		items[i] = rec
		if err := s.store.Save(ctx, store.CollectionVaccinations, ownerUserID, items); err != nil {
			return Record{}, err
		}
		return rec, nil
	}

	return Record{}, nil
}

// Delete borra el registro con ese id; no-op si no existe.
// No hay cascada: un registro de vacunación no es dueño de nada.
func (s *Service) Delete(ctx context.Context, ownerUserID, id string) error {
	if strings.TrimSpace(ownerUserID) == "" {
		return ErrInvalidInput
	}

	var items []Record
	if err := s.store.Load(ctx, store.CollectionVaccinations, ownerUserID, &items); err != nil {
		return err
	}

	for i, rec := range items {
		if rec.ID == id {
			items = append(items[:i], items[i+1:]...)
			return s.store.Save(ctx, store.CollectionVaccinations, ownerUserID, items)
		}
	}
	return nil
}

// DeleteForPet purga todos los registros de una mascota. Es el punto de
// entrada de la cascada del registry; nadie más debería necesitarlo.
func (s *Service) DeleteForPet(ctx context.Context, ownerUserID, petID string) error {
	var items []Record
	if err := s.store.Load(ctx, store.CollectionVaccinations, ownerUserID, &items); err != nil {
		return err
	}

	kept := items[:0]
	for _, rec := range items {
		if rec.PetID != petID {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return s.store.Save(ctx, store.CollectionVaccinations, ownerUserID, kept)
}

// ListByPet devuelve el historial de una mascota, más reciente primero.
func (s *Service) ListByPet(ctx context.Context, ownerUserID, petID string) ([]Record, error) {
	var items []Record
	if err := s.store.Load(ctx, store.CollectionVaccinations, ownerUserID, &items); err != nil {
		return nil, err
	}

	out := make([]Record, 0)
	for _, rec := range items {
		if rec.PetID == petID {
			out = append(out, rec)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DateGiven.After(out[j].DateGiven)
	})
	return out, nil
}

// ListByOwner devuelve el ledger completo de la partición (lo consumen los
// classifiers de agenda).
func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Record, error) {
	var items []Record
	if err := s.store.Load(ctx, store.CollectionVaccinations, ownerUserID, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkComplete marca el registro como completado y, si viene nextDue,
// siembra el sucesor de la recurrencia: exactamente un registro nuevo con el
// mismo PetID/VaccineName/VetName, DateGiven = now y NextDueDate = *nextDue,
// siempre Pending. Sin nextDue no se crea nada: MarkComplete jamás adivina
// una próxima fecha por su cuenta, eso es responsabilidad del caller.
//
// Si el id no existe es un no-op silencioso. Ambos cambios (el registro
// mutado y el sucesor) se persisten en un único save.
func (s *Service) MarkComplete(ctx context.Context, ownerUserID, id string, nextDue *time.Time) (Record, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Record{}, ErrInvalidInput
	}

	var items []Record
	if err := s.store.Load(ctx, store.CollectionVaccinations, ownerUserID, &items); err != nil {
		return Record{}, err
	}

	for i, rec := range items {
		if rec.ID != id {
			continue
		}

		// copia, no mutación in place: los snapshots previos no se ven
		// afectados por la transición
		done := rec
		done.IsCompleted = true
		items[i] = done

		if nextDue != nil {
			items = append(items, Record{
				ID:          s.newID(),
				PetID:       rec.PetID,
				VaccineName: rec.VaccineName,
				DateGiven:   s.now(),
				NextDueDate: *nextDue,
				VetName:     rec.VetName,
				IsCompleted: false,
			})
		}

		if err := s.store.Save(ctx, store.CollectionVaccinations, ownerUserID, items); err != nil {
			return Record{}, err
		}
		return done, nil
	}

	return Record{}, nil
}

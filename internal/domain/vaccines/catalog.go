package vaccines

import (
	"time"

	"pet-health-records/internal/domain/pets"
)

// TypeInfo describe una vacuna del catálogo de referencia.
// Es data estática: no se persiste por usuario ni se edita en runtime.
type TypeInfo struct {
	Key           string
	DisplayName   string
	LocalizedName string

	// IntervalDays es el intervalo recomendado de refuerzo en días.
	// nil solo para la entrada genérica "other": ahí no hay auto-cómputo
	// posible de próxima dosis.
	IntervalDays *int

	// Species a las que aplica la vacuna.
	Species []pets.Species
}

func (t TypeInfo) AppliesTo(species pets.Species) bool {
	for _, s := range t.Species {
		if s == species {
			return true
		}
	}
	return false
}

// NextDue calcula la próxima fecha de aplicación sumando días calendario
// (AddDate, no segundos transcurridos: evita drift por DST y deja una regla
// fija, p.ej. 2024-01-10 + 365 = 2025-01-09).
func (t TypeInfo) NextDue(dateGiven time.Time) (time.Time, bool) {
	if t.IntervalDays == nil {
		return time.Time{}, false
	}
	return dateGiven.AddDate(0, 0, *t.IntervalDays), true
}

func days(n int) *int { return &n }

// catalog es la tabla de referencia completa. El orden es el orden de
// presentación; la entrada genérica "other" va siempre al final y aplica a
// todas las especies.
var catalog = []TypeInfo{
	{
		Key:           "rabies",
		DisplayName:   "Rabies",
		LocalizedName: "Antirrábica",
		IntervalDays:  days(365),
		Species:       []pets.Species{pets.SpeciesDog, pets.SpeciesCat},
	},
	{
		Key:           "distemper",
		DisplayName:   "Distemper",
		LocalizedName: "Moquillo",
		IntervalDays:  days(365),
		Species:       []pets.Species{pets.SpeciesDog},
	},
	{
		Key:           "parvovirus",
		DisplayName:   "Parvovirus",
		LocalizedName: "Parvovirus",
		IntervalDays:  days(365),
		Species:       []pets.Species{pets.SpeciesDog},
	},
	{
		Key:           "bordetella",
		DisplayName:   "Bordetella",
		LocalizedName: "Tos de las perreras",
		IntervalDays:  days(180),
		Species:       []pets.Species{pets.SpeciesDog},
	},
	{
		Key:           "leptospirosis",
		DisplayName:   "Leptospirosis",
		LocalizedName: "Leptospirosis",
		IntervalDays:  days(365),
		Species:       []pets.Species{pets.SpeciesDog},
	},
	{
		Key:           "feline_triple",
		DisplayName:   "FVRCP",
		LocalizedName: "Triple felina",
		IntervalDays:  days(365),
		Species:       []pets.Species{pets.SpeciesCat},
	},
	{
		Key:           "feline_leukemia",
		DisplayName:   "Feline Leukemia",
		LocalizedName: "Leucemia felina",
		IntervalDays:  days(365),
		Species:       []pets.Species{pets.SpeciesCat},
	},
	{
		Key:           "polyomavirus",
		DisplayName:   "Polyomavirus",
		LocalizedName: "Poliomavirus aviar",
		IntervalDays:  days(365),
		Species:       []pets.Species{pets.SpeciesBird},
	},
	{
		Key:           "other",
		DisplayName:   "Other",
		LocalizedName: "Otra",
		IntervalDays:  nil,
		Species: []pets.Species{
			pets.SpeciesDog, pets.SpeciesCat, pets.SpeciesBird, pets.SpeciesOther,
		},
	},
}

// All devuelve el catálogo completo (copia, para que nadie lo mute).
func All() []TypeInfo {
	out := make([]TypeInfo, len(catalog))
	copy(out, catalog)
	return out
}

// For filtra el catálogo por especie. Si nada aplica (especie desconocida),
// devolvemos el catálogo completo: el usuario siempre tiene al menos la
// opción genérica "other" disponible.
func For(species pets.Species) []TypeInfo {
	out := make([]TypeInfo, 0, len(catalog))
	for _, t := range catalog {
		if t.AppliesTo(species) {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return All()
	}
	return out
}

// Find busca por key. ok=false si no existe en el catálogo.
func Find(key string) (TypeInfo, bool) {
	for _, t := range catalog {
		if t.Key == key {
			return t, true
		}
	}
	return TypeInfo{}, false
}

package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat, bird, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesBird  Species = "bird"
	SpeciesOther Species = "other"
)

// ValidSpecies valida contra el enum. Se usa en la creación; durante
// hydration del store no re-validamos valores, solo forma estructural.
func ValidSpecies(s Species) bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesOther:
		return true
	}
	return false
}

// Pet representa el perfil básico de una mascota registrada en el sistema.
// ID es inmutable una vez creada; OwnerUserID define la partición del store
// donde vive (nunca es visible desde otro owner).
type Pet struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"owner_user_id"`
	Name        string     `json:"name"`
	Species     Species    `json:"species"`
	Breed       string     `json:"breed,omitempty"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

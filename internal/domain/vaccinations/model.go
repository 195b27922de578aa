package vaccinations

import "time"

// Record es un registro de vacunación de una mascota.
//
// Máquina de estados de un Record: {Pending, Completed}. Nace siempre
// Pending; la única transición es Pending → Completed vía MarkComplete y no
// hay vuelta atrás (no existe operación de "des-completar").
type Record struct {
	ID    string `json:"id"`
	PetID string `json:"pet_id"`

	// VaccineName es la key del catálogo de referencia ("rabies", "other"...).
	// El display localizado lo resuelve la capa de presentación.
	VaccineName string `json:"vaccine_name"`

	DateGiven   time.Time `json:"date_given"`
	NextDueDate time.Time `json:"next_due_date"`

	VetName string `json:"vet_name,omitempty"`
	Notes   string `json:"notes,omitempty"`

	IsCompleted bool `json:"is_completed"`
}

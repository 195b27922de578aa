package store

import "context"

// Nombres estables de las colecciones persistidas.
// Cualquier adapter usa exactamente estos strings como parte de la key.
const (
	CollectionPets         = "pets"
	CollectionVaccinations = "vaccinations"
)

// Store es el puerto de persistencia particionada por owner.
// Cada colección se guarda como un blob completo bajo (collection, ownerKey):
// no hay append, ni locking, ni tokens de concurrencia. Si dos contextos de
// ejecución escriben la misma partición, gana el último Save (limitación
// conocida del sistema, no intentamos mitigarla acá).
type Store interface {
	// Load deserializa la colección en out (puntero a slice).
	// - Blob inexistente => colección vacía, sin error.
	// - Blob corrupto o que no es una secuencia => warn en logs, colección
	//   vacía, sin error. Nunca propagamos corrupción al caller: preferimos
	//   que el usuario siga operando con datos vacíos a bloquearlo.
	Load(ctx context.Context, collection, ownerKey string, out any) error

	// Save serializa items y sobreescribe el blob completo de la partición.
	Save(ctx context.Context, collection, ownerKey string, items any) error
}

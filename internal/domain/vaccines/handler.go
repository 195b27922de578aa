package vaccines

import (
	"encoding/json"
	"net/http"
	"strings"

	"pet-health-records/internal/domain/pets"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router) {
	// Catálogo de referencia: no requiere auth, es data estática.
	r.Get("/vaccines", listVaccinesHandler())
}

type vaccineResponse struct {
	Key           string   `json:"key"`
	DisplayName   string   `json:"display_name"`
	LocalizedName string   `json:"localized_name"`
	IntervalDays  *int     `json:"interval_days"`
	Species       []string `json:"species"`
}

// @Summary Catálogo de vacunas
// @Param species query string false "Filtra por especie (dog|cat|bird|other); sin match devuelve el catálogo completo"
func listVaccinesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var items []TypeInfo
		if v := strings.TrimSpace(r.URL.Query().Get("species")); v != "" {
			items = For(pets.Species(v))
		} else {
			items = All()
		}

		out := make([]vaccineResponse, 0, len(items))
		for _, t := range items {
			species := make([]string, 0, len(t.Species))
			for _, s := range t.Species {
				species = append(species, string(s))
			}
			out = append(out, vaccineResponse{
				Key:           t.Key,
				DisplayName:   t.DisplayName,
				LocalizedName: t.LocalizedName,
				IntervalDays:  t.IntervalDays,
				Species:       species,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(out)
	}
}

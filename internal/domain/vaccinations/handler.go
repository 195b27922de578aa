package vaccinations

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-health-records/internal/domain/pets"
	"pet-health-records/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service) {
	r.Route("/vaccinations", func(vr chi.Router) {
		vr.Post("/", createRecordHandler(svc, petsSvc))
		vr.Get("/overdue", overdueHandler(svc))
		vr.Get("/upcoming", upcomingHandler(svc))
		vr.Patch("/{recordID}", updateRecordHandler(svc))
		vr.Delete("/{recordID}", deleteRecordHandler(svc))
		vr.Post("/{recordID}/complete", completeRecordHandler(svc))
	})

	// Historial por mascota (más reciente primero)
	r.Get("/pets/{petID}/vaccinations", listByPetHandler(svc, petsSvc))
}

type createRecordRequest struct {
	PetID       string `json:"pet_id"`
	VaccineName string `json:"vaccine_name"`
	DateGiven   string `json:"date_given"`    // RFC3339
	NextDueDate string `json:"next_due_date"` // RFC3339 opcional; si falta se usa el intervalo del catálogo
	VetName     string `json:"vet_name"`
	Notes       string `json:"notes"`
}

type recordResponse struct {
	ID          string    `json:"id"`
	PetID       string    `json:"pet_id"`
	VaccineName string    `json:"vaccine_name"`
	DateGiven   time.Time `json:"date_given"`
	NextDueDate time.Time `json:"next_due_date"`
	VetName     string    `json:"vet_name,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	IsCompleted bool      `json:"is_completed"`
}

// scheduleResponse agrega los días relativos que la UI muestra en agenda.
type scheduleResponse struct {
	recordResponse
	DaysUntilDue int `json:"days_until_due"`
}

type updateRecordRequest struct {
	VaccineName *string `json:"vaccine_name"`
	DateGiven   *string `json:"date_given"`
	NextDueDate *string `json:"next_due_date"`
	VetName     *string `json:"vet_name"`
	Notes       *string `json:"notes"`
}

type completeRecordRequest struct {
	// NextDueDate opcional: si viene, se siembra el sucesor de la recurrencia.
	NextDueDate string `json:"next_due_date"`
}

// @Summary Registrar vacunación
// @Param payload body createRecordRequest true "date_given y next_due_date en formato RFC3339"
// @Success 201 {object} recordResponse
// @Failure 400 {string} string "invalid json / fechas inválidas / reglas de negocio"
func createRecordHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// La mascota tiene que existir en la partición del owner. El ledger
		// en sí no chequea FK; este es el único gate en el camino de alta.
		_, found, err := petsSvc.GetByID(r.Context(), claims.UserID, req.PetID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !found {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		given, err := time.Parse(time.RFC3339, req.DateGiven)
		if err != nil {
			http.Error(w, "date_given must be RFC3339", http.StatusBadRequest)
			return
		}

		var nextDue *time.Time
		if strings.TrimSpace(req.NextDueDate) != "" {
			t, err := time.Parse(time.RFC3339, req.NextDueDate)
			if err != nil {
				http.Error(w, "next_due_date must be RFC3339", http.StatusBadRequest)
				return
			}
			nextDue = &t
		}

		rec, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			PetID:       req.PetID,
			VaccineName: req.VaccineName,
			DateGiven:   given,
			NextDueDate: nextDue,
			VetName:     req.VetName,
			Notes:       req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

func listByPetHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		_, found, err := petsSvc.GetByID(r.Context(), claims.UserID, petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !found {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		items, err := svc.ListByPet(r.Context(), claims.UserID, petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Vacunaciones vencidas (la más vencida primero)
func overdueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ledger, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponses(Overdue(ledger, time.Now()), time.Now()))
	}
}

// @Summary Vacunaciones próximas
// @Param window_days query int false "Ventana hacia adelante en días calendario (default 30)"
func upcomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		window := 0
		if v := strings.TrimSpace(r.URL.Query().Get("window_days")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "window_days must be a non-negative integer", http.StatusBadRequest)
				return
			}
			window = n
		}

		ledger, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponses(Upcoming(ledger, time.Now(), window), time.Now()))
	}
}

func updateRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateRecordRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			VaccineName: req.VaccineName,
			VetName:     req.VetName,
			Notes:       req.Notes,
		}
		if req.DateGiven != nil {
			t, err := time.Parse(time.RFC3339, *req.DateGiven)
			if err != nil {
				http.Error(w, "date_given must be RFC3339", http.StatusBadRequest)
				return
			}
			in.DateGiven = &t
		}
		if req.NextDueDate != nil {
			t, err := time.Parse(time.RFC3339, *req.NextDueDate)
			if err != nil {
				http.Error(w, "next_due_date must be RFC3339", http.StatusBadRequest)
				return
			}
			in.NextDueDate = &t
		}

		updated, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "recordID"), in)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if updated.ID == "" {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toRecordResponse(updated))
	}
}

func deleteRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "recordID")); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Summary Completar vacunación
// @Param payload body completeRecordRequest true "next_due_date opcional (RFC3339); si viene, se crea el registro sucesor"
func completeRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Body opcional: POST sin body = completar sin sembrar sucesor.
		var req completeRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var nextDue *time.Time
		if strings.TrimSpace(req.NextDueDate) != "" {
			t, err := time.Parse(time.RFC3339, req.NextDueDate)
			if err != nil {
				http.Error(w, "next_due_date must be RFC3339", http.StatusBadRequest)
				return
			}
			nextDue = &t
		}

		done, err := svc.MarkComplete(r.Context(), claims.UserID, chi.URLParam(r, "recordID"), nextDue)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if done.ID == "" {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toRecordResponse(done))
	}
}

func toRecordResponse(rec Record) recordResponse {
	return recordResponse{
		ID:          rec.ID,
		PetID:       rec.PetID,
		VaccineName: rec.VaccineName,
		DateGiven:   rec.DateGiven,
		NextDueDate: rec.NextDueDate,
		VetName:     rec.VetName,
		Notes:       rec.Notes,
		IsCompleted: rec.IsCompleted,
	}
}

func toScheduleResponses(recs []Record, now time.Time) []scheduleResponse {
	out := make([]scheduleResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, scheduleResponse{
			recordResponse: toRecordResponse(rec),
			DaysUntilDue:   DaysUntilDue(rec, now),
		})
	}
	return out
}

// writeJSON duplicado intencionalmente por módulo (ver nota en pets/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-health-records/internal/platform/logger"
	"pet-health-records/internal/router"
)

func newTestServer() *httptest.Server {
	return httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: nil, // modo dev: owner key vía X-Debug-User-ID
		Logger:       logger.Nop(),
	}))
}

func TestHTTP_EndToEnd_VaccinationSchedule(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	ownerID := "owner-1"
	now := time.Now().UTC()

	// 1) Owner crea mascota
	petID := createPet(t, ts.URL, ownerID, map[string]any{
		"name":       "Milo",
		"species":    "dog",
		"breed":      "mixed",
		"birth_date": "2021-03-01",
	})

	// 2) Registra una vacunación ya vencida (due 5 días atrás)
	recordID := createRecord(t, ts.URL, ownerID, map[string]any{
		"pet_id":        petID,
		"vaccine_name":  "rabies",
		"date_given":    now.AddDate(-1, 0, 0).Format(time.RFC3339),
		"next_due_date": now.AddDate(0, 0, -5).Format(time.RFC3339),
		"vet_name":      "Dr. Sosa",
	})

	// 3) Aparece en overdue y no en upcoming
	{
		st, body := doReq(t, ts.URL, "GET", "/vaccinations/overdue", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 overdue, got %d body=%s", st, string(body))
		}
		ids := recordIDs(t, body)
		if len(ids) != 1 || ids[0] != recordID {
			t.Fatalf("expected the overdue record, got %v", ids)
		}

		st, body = doReq(t, ts.URL, "GET", "/vaccinations/upcoming", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 upcoming, got %d body=%s", st, string(body))
		}
		if ids := recordIDs(t, body); len(ids) != 0 {
			t.Fatalf("overdue record leaked into upcoming: %v", ids)
		}
	}

	// 4) Completar sembrando el sucesor a 10 días
	{
		st, body := doReq(t, ts.URL, "POST", "/vaccinations/"+recordID+"/complete", ownerID, map[string]any{
			"next_due_date": now.AddDate(0, 0, 10).Format(time.RFC3339),
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 complete, got %d body=%s", st, string(body))
		}
		var resp struct {
			IsCompleted bool `json:"is_completed"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.IsCompleted {
			t.Fatalf("expected completed record, body=%s", string(body))
		}
	}

	// 5) El sucesor aparece en upcoming; overdue queda vacío
	{
		st, body := doReq(t, ts.URL, "GET", "/vaccinations/upcoming?window_days=30", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 upcoming, got %d body=%s", st, string(body))
		}
		ids := recordIDs(t, body)
		if len(ids) != 1 || ids[0] == recordID {
			t.Fatalf("expected exactly the successor in upcoming, got %v", ids)
		}

		_, body = doReq(t, ts.URL, "GET", "/vaccinations/overdue", ownerID, nil)
		if ids := recordIDs(t, body); len(ids) != 0 {
			t.Fatalf("expected empty overdue after completion, got %v", ids)
		}
	}

	// 6) Historial por mascota: original + sucesor
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/vaccinations", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 history, got %d body=%s", st, string(body))
		}
		if ids := recordIDs(t, body); len(ids) != 2 {
			t.Fatalf("expected 2 records in history, got %v", ids)
		}
	}

	// 7) Otro owner no ve absolutamente nada
	{
		st, body := doReq(t, ts.URL, "GET", "/pets", "owner-2", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list pets, got %d", st)
		}
		var petsOut []map[string]any
		_ = json.Unmarshal(body, &petsOut)
		if len(petsOut) != 0 {
			t.Fatalf("owner-2 sees owner-1 pets: %v", petsOut)
		}

		st, _ = doReq(t, ts.URL, "GET", "/pets/"+petID, "owner-2", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 cross-owner pet, got %d", st)
		}

		_, body = doReq(t, ts.URL, "GET", "/vaccinations/upcoming", "owner-2", nil)
		if ids := recordIDs(t, body); len(ids) != 0 {
			t.Fatalf("owner-2 sees owner-1 schedule: %v", ids)
		}
	}

	// 8) Borrar la mascota purga su historial completo
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID, ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete pet, got %d", st)
		}

		st, _ = doReq(t, ts.URL, "GET", "/pets/"+petID+"/vaccinations", ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 history of deleted pet, got %d", st)
		}

		_, body := doReq(t, ts.URL, "GET", "/vaccinations/upcoming", ownerID, nil)
		if ids := recordIDs(t, body); len(ids) != 0 {
			t.Fatalf("orphan records survive pet delete: %v", ids)
		}
	}
}

func TestHTTP_CreateRecord_AutoDueFromCatalog(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	ownerID := "owner-1"
	petID := createPet(t, ts.URL, ownerID, map[string]any{
		"name":    "Luna",
		"species": "cat",
	})

	given := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	st, body := doReq(t, ts.URL, "POST", "/vaccinations", ownerID, map[string]any{
		"pet_id":       petID,
		"vaccine_name": "rabies",
		"date_given":   given.Format(time.RFC3339),
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create record, got %d body=%s", st, string(body))
	}

	var resp struct {
		NextDueDate time.Time `json:"next_due_date"`
	}
	_ = json.Unmarshal(body, &resp)
	want := time.Date(2025, 1, 9, 10, 0, 0, 0, time.UTC)
	if !resp.NextDueDate.Equal(want) {
		t.Fatalf("expected catalog-computed due %s, got %s", want, resp.NextDueDate)
	}
}

func TestHTTP_CreateRecord_UnknownPet_Is404(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "POST", "/vaccinations", "owner-1", map[string]any{
		"pet_id":       "ghost",
		"vaccine_name": "rabies",
		"date_given":   time.Now().UTC().Format(time.RFC3339),
	})
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown pet, got %d", st)
	}
}

func TestHTTP_VaccineCatalog_FilterAndFallback(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	// Catálogo es público: sin owner key igual responde.
	st, body := doReq(t, ts.URL, "GET", "/vaccines?species=cat", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 catalog, got %d", st)
	}
	var cats []struct {
		Key     string   `json:"key"`
		Species []string `json:"species"`
	}
	_ = json.Unmarshal(body, &cats)
	if len(cats) == 0 {
		t.Fatalf("expected cat vaccines")
	}
	for _, v := range cats {
		found := false
		for _, s := range v.Species {
			if s == "cat" {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s does not apply to cat", v.Key)
		}
	}

	// Especie desconocida => catálogo completo, nunca lista vacía.
	_, body = doReq(t, ts.URL, "GET", "/vaccines?species=hamster", "", nil)
	var all []struct {
		Key string `json:"key"`
	}
	_ = json.Unmarshal(body, &all)
	if len(all) == 0 {
		t.Fatalf("unknown species must fall back to full catalog")
	}
}

func TestHTTP_Unauthenticated_Is401(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "GET", "/pets", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without owner key, got %d", st)
	}
}

func createPet(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func createRecord(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/vaccinations", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create record, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create record: missing id body=%s", string(body))
	}
	return resp.ID
}

func recordIDs(t *testing.T, body []byte) []string {
	t.Helper()

	var items []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &items); err != nil {
		t.Fatalf("unexpected body: %s", string(body))
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

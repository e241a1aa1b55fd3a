package httpapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/example/pasturize/internal/adapters/httpapi"
	"github.com/example/pasturize/internal/config"
	"github.com/example/pasturize/internal/db"
	"github.com/example/pasturize/internal/wire"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, testingMode bool) *httpapi.Server {
	t.Helper()

	cfg, err := config.Defaults()
	require.NoError(t, err)
	cfg.Testing = testingMode

	logger := zaptest.NewLogger(t)
	database, err := db.Open(context.Background(), db.MemoryPath, logger)
	require.NoError(t, err)

	a := wire.NewWithDB(database, cfg, logger)
	t.Cleanup(func() { a.Close() })
	return a.HTTPServer()
}

func do(t *testing.T, srv *httpapi.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	} else if body != "" {
		req.Header.Set("Content-Type", "text/csv")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createReport(t *testing.T, srv *httpapi.Server, name string) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/v1/reports", fmt.Sprintf(`{"name":%q}`, name))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]any](t, rec)["id"].(string)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, false)

	rec := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReports(t *testing.T) {
	srv := newTestServer(t, false)

	rec := do(t, srv, http.MethodGet, "/api/v1/reports/latest", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	id := createReport(t, srv, "Fall 2025")

	rec = do(t, srv, http.MethodGet, "/api/v1/reports/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[map[string]any](t, rec)
	assert.Equal(t, "Fall 2025", report["name"])
	assert.Equal(t, "in_progress", report["status"])

	rec = do(t, srv, http.MethodGet, "/api/v1/reports/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decode[map[string]any](t, rec)["id"])

	rec = do(t, srv, http.MethodGet, "/api/v1/reports", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = do(t, srv, http.MethodPatch, "/api/v1/reports/"+id, `{"status":"complete"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodPatch, "/api/v1/reports/"+id, `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/v1/reports/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/reports/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "report not found")
}

func TestWipeRequiresConfirm(t *testing.T) {
	srv := newTestServer(t, false)
	createReport(t, srv, "A")
	createReport(t, srv, "B")

	rec := do(t, srv, http.MethodDelete, "/api/v1/reports", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/v1/reports?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/reports", "")
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestPastures(t *testing.T) {
	srv := newTestServer(t, false)
	id := createReport(t, srv, "Fall")
	base := "/api/v1/reports/" + id

	rec := do(t, srv, http.MethodGet, base+"/pastures", "")
	require.Equal(t, http.StatusOK, rec.Code)
	pastures := decode[[]map[string]any](t, rec)
	require.Len(t, pastures, 11)
	assert.Equal(t, "Home", pastures[0]["name"])
	assert.EqualValues(t, 1, pastures[0]["index"])

	rec = do(t, srv, http.MethodGet, base+"/pastures/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, base+"/pastures/north", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// fewer than 100 lines needs force
	rec = do(t, srv, http.MethodPost, base+"/pastures/2/complete", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodPost, base+"/pastures/2/complete?force=true", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, base+"/pastures/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "complete", decode[map[string]any](t, rec)["status"])

	rec = do(t, srv, http.MethodPut, base+"/pastures/2/entries/1", `{"category":"bare"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodPost, base+"/pastures/2/reopen", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodPut, base+"/pastures/2/entries/1", `{"category":"bare"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEntries(t *testing.T) {
	srv := newTestServer(t, false)
	id := createReport(t, srv, "Fall")
	entries := "/api/v1/reports/" + id + "/pastures/1/entries"

	rec := do(t, srv, http.MethodPut, entries+"/5", `{"category":"grass","grassHeight":4.5,"grassType":"gg"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entry := decode[map[string]any](t, rec)
	assert.EqualValues(t, 5, entry["lineNo"])
	category := entry["category"].(map[string]any)
	assert.Equal(t, "grass", category["kind"])
	assert.EqualValues(t, 4.5, category["grassHeight"])
	assert.Equal(t, "GG", category["grassType"])

	rec = do(t, srv, http.MethodPut, entries+"/5", `{"category":"litter"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, entries+"/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "litter", decode[map[string]any](t, rec)["category"].(map[string]any)["kind"])

	rec = do(t, srv, http.MethodGet, entries+"/6", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	tests := []struct {
		name string
		line string
		body string
	}{
		{"line zero", "0", `{"category":"bare"}`},
		{"line past 100", "101", `{"category":"bare"}`},
		{"unknown category", "7", `{"category":"rock"}`},
		{"height on bare", "7", `{"category":"bare","grassHeight":3}`},
		{"unknown grass type", "7", `{"category":"grass","grassType":"ZZ"}`},
		{"malformed body", "7", `{"category":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPut, entries+"/"+tt.line, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	rec = do(t, srv, http.MethodGet, entries, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = do(t, srv, http.MethodGet, "/api/v1/reports/"+id+"/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, stats["total"])
	assert.EqualValues(t, 100, stats["litterPct"])
}

func TestImportAndExport(t *testing.T) {
	srv := newTestServer(t, false)
	id := createReport(t, srv, "Fall")
	base := "/api/v1/reports/" + id

	csv := "Foot Mark,Bare Ground,Grass Height,Grass Type\n007,x,,\nabc,x,,\n8,,5,gg\n"
	rec := do(t, srv, http.MethodPost, base+"/pastures/1/import", csv)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[map[string]any](t, rec)
	assert.EqualValues(t, 2, result["imported"])
	assert.EqualValues(t, 1, result["skipped"])

	rec = do(t, srv, http.MethodPost, base+"/pastures/1/import", "  \n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, base+"/pastures/1/import?forbCount=many", csv)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, base+"/export?format=csv&pasture=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Foot Mark")

	formats := []string{"zip", "csv", "xlsx", "pdf"}
	for _, format := range formats {
		t.Run(format, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, base+"/export?format="+format, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.NotEmpty(t, rec.Body.Bytes())
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "."+format)
		})
	}

	rec = do(t, srv, http.MethodGet, base+"/export?format=docx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/reports/nope/export?format=zip", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPopulate(t *testing.T) {
	t.Run("disabled outside testing mode", func(t *testing.T) {
		srv := newTestServer(t, false)
		id := createReport(t, srv, "Fall")

		rec := do(t, srv, http.MethodPost, "/api/v1/reports/"+id+"/pastures/1/populate", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("fills a pasture", func(t *testing.T) {
		srv := newTestServer(t, true)
		id := createReport(t, srv, "Fall")

		rec := do(t, srv, http.MethodPost, "/api/v1/reports/"+id+"/pastures/1/populate", "")
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		rec = do(t, srv, http.MethodGet, "/api/v1/reports/"+id+"/pastures/1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		p := decode[map[string]any](t, rec)
		assert.Equal(t, "complete", p["status"])
		assert.EqualValues(t, 100, p["recorded"])
	})

	t.Run("fills a report", func(t *testing.T) {
		srv := newTestServer(t, true)
		id := createReport(t, srv, "Fall")

		rec := do(t, srv, http.MethodPost, "/api/v1/reports/"+id+"/populate", "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = do(t, srv, http.MethodGet, "/api/v1/reports/"+id+"/progress", "")
		require.Equal(t, http.StatusOK, rec.Code)
		progress := decode[map[string]any](t, rec)
		assert.EqualValues(t, 11, progress["complete"])
		assert.EqualValues(t, 11, progress["full"])
	})
}

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/lead-distribution/internal/api/http"
	"github.com/spec-kit/lead-distribution/internal/api/http/handlers"
	"github.com/spec-kit/lead-distribution/internal/config"
	"github.com/spec-kit/lead-distribution/internal/distribution"
	"github.com/spec-kit/lead-distribution/internal/events"
	"github.com/spec-kit/lead-distribution/internal/observability"
	"github.com/spec-kit/lead-distribution/internal/persistence"
	"github.com/spec-kit/lead-distribution/internal/repository/sqlite"
	"github.com/spec-kit/lead-distribution/internal/service"
)

func setupServer(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	db, err := persistence.NewSQLite(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, persistence.RunSQLiteMigrations(ctx, db.DB, logger))

	metrics := observability.NewMetrics("leadrouter_test")
	services := service.NewServices(service.Dependencies{
		Store:      sqlite.NewStore(db.DB),
		Random:     distribution.NewRandomSource(3),
		Dispatcher: events.NewInMemoryDispatcher(logger),
		Metrics:    metrics,
		Logger:     logger,
	})

	return httptransport.NewServer(httptransport.ServerDependencies{
		App:          config.AppConfig{Name: "lead-distribution", Version: "test"},
		Services:     services,
		Dependencies: map[string]handlers.Pinger{"sqlite": db},
		Metrics:      metrics,
		Logger:       logger,
	})
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", body)
	return d
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestContactFlowOverHTTP(t *testing.T) {
	app := setupServer(t)

	status, body := do(t, app, http.MethodPost, "/operators", map[string]any{"name": "Alice", "max_active_contacts": 1})
	require.Equal(t, http.StatusCreated, status)
	operatorID := data(t, body)["id"].(string)

	status, body = do(t, app, http.MethodPost, "/sources", map[string]any{"name": "Telegram", "code": "telegram_bot"})
	require.Equal(t, http.StatusCreated, status)
	sourceID := data(t, body)["id"].(string)

	status, _ = do(t, app, http.MethodPost, "/assignments", map[string]any{
		"operator_id": operatorID, "source_id": sourceID, "weight": 10,
	})
	require.Equal(t, http.StatusOK, status)

	status, body = do(t, app, http.MethodPost, "/contacts", map[string]any{
		"lead_external_id": "tg-1", "source_code": "telegram_bot", "lead_name": "Ivan",
	})
	require.Equal(t, http.StatusCreated, status)
	first := data(t, body)
	require.Equal(t, operatorID, first["operator_id"])
	require.Equal(t, "new", first["status"])
	require.Contains(t, first["distribution_info"], "created new lead")
	contactID := first["id"].(string)

	// Alice is at capacity, so the second contact stays unassigned.
	status, body = do(t, app, http.MethodPost, "/contacts", map[string]any{
		"lead_external_id": "tg-2", "source_code": "telegram_bot",
	})
	require.Equal(t, http.StatusCreated, status)
	second := data(t, body)
	require.Nil(t, second["operator_id"])
	require.Contains(t, second["distribution_info"], "at capacity (1/1)")

	status, body = do(t, app, http.MethodGet, "/operators/"+operatorID+"/load", nil)
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 1, data(t, body)["current_load"])

	status, body = do(t, app, http.MethodPatch, "/contacts/"+contactID+"/status", map[string]any{"status": "closed"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "closed", data(t, body)["status"])
	require.NotNil(t, data(t, body)["closed_at"])

	status, body = do(t, app, http.MethodPatch, "/contacts/"+contactID+"/status", map[string]any{"status": "new"})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "INVALID_STATE", errorCode(body))

	status, body = do(t, app, http.MethodPost, "/contacts/"+second["id"].(string)+"/reassign", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, operatorID, data(t, body)["new_operator_id"])

	status, body = do(t, app, http.MethodGet, "/contacts?status=closed", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["data"], 1)

	status, body = do(t, app, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 2, data(t, body)["total_contacts"])
	require.EqualValues(t, 1, data(t, body)["active_contacts"])

	status, body = do(t, app, http.MethodGet, "/stats/sources/"+sourceID, nil)
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 2, data(t, body)["total_contacts"])
}

func TestErrorResponses(t *testing.T) {
	app := setupServer(t)

	status, body := do(t, app, http.MethodPost, "/operators", map[string]any{"name": ""})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = do(t, app, http.MethodGet, "/operators/missing", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = do(t, app, http.MethodPost, "/contacts", map[string]any{
		"lead_external_id": "x", "source_code": "nope",
	})
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "NOT_FOUND", errorCode(body))

	status, _ = do(t, app, http.MethodPost, "/sources", map[string]any{"name": "A", "code": "dup"})
	require.Equal(t, http.StatusCreated, status)
	status, body = do(t, app, http.MethodPost, "/sources", map[string]any{"name": "B", "code": "dup"})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "CONFLICT", errorCode(body))

	status, body = do(t, app, http.MethodGet, "/assignments", nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = do(t, app, http.MethodGet, "/no-such-route", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestHealthAndMetrics(t *testing.T) {
	app := setupServer(t)

	status, body := do(t, app, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "alive", body["status"])

	status, body = do(t, app, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ready", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(raw), "leadrouter_test_http_requests_total")
}

func TestRequestIDHeader(t *testing.T) {
	app := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set(observability.RequestIDHeader, "req-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "req-42", resp.Header.Get(observability.RequestIDHeader))
}

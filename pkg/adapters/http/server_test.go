package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenario = `{
  "metadata": {"title": "Scenario", "mode": "guided"},
  "sections": [
    {
      "id": "A",
      "blocks": [{"id": "plan", "kind": "question", "label": "Plan", "inputType": "select", "options": ["Basic", "Pro"], "required": true}],
      "rules": [
        {"id": "r1", "operator": "equals", "fromBlockId": "plan", "value": "Pro", "nextSectionId": "C"},
        {"id": "r2", "operator": "any", "nextSectionId": "B"}
      ]
    },
    {"id": "B", "blocks": [{"id": "budget", "kind": "question", "label": "Budget", "inputType": "number", "required": true}]},
    {"id": "C"}
  ]
}`

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	h, err := NewHandler(intake.New(memory.NewStore()), opts...)
	require.NoError(t, err)
	return h
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func publishScenario(t *testing.T, h http.Handler) {
	t.Helper()
	require.Equal(t, http.StatusNoContent, do(t, h, "PUT", "/intakes/scenario/draft", scenario).Code)
	w := do(t, h, "POST", "/intakes/scenario/publish", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLoadSpec(t *testing.T) {
	doc, err := LoadSpec(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/intakes/{id}/next"))
}

func TestHealth(t *testing.T) {
	w := do(t, newTestHandler(t), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestOpenAPIDocument(t *testing.T) {
	w := do(t, newTestHandler(t), "GET", "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestDraftRoundTrip(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, "GET", "/intakes/scenario/draft", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "intake not found", decode(t, w)["error"])

	require.Equal(t, http.StatusNoContent, do(t, h, "PUT", "/intakes/scenario/draft", scenario).Code)

	w = do(t, h, "GET", "/intakes/scenario/draft", "")
	require.Equal(t, http.StatusOK, w.Code)
	var draft domain.Draft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
	assert.Equal(t, "scenario", draft.IntakeID)
	assert.Len(t, draft.Sections, 3)
}

func TestRequestValidation(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"draft without sections", "PUT", "/intakes/x/draft", `{"metadata": {}}`},
		{"rule without target", "PUT", "/intakes/x/draft", `{"sections": [{"id": "A", "rules": [{"operator": "any"}]}]}`},
		{"unknown mode", "PUT", "/intakes/x/draft", `{"metadata": {"mode": "wizard"}, "sections": []}`},
		{"id too long", "GET", "/intakes/" + strings.Repeat("a", 129) + "/draft", ""},
		{"next without from", "POST", "/intakes/x/next", `{"answers": {}}`},
		{"submission without answers", "POST", "/intakes/x/submissions", `{"metadata": {}}`},
		{"malformed json", "POST", "/intakes/x/path", `{"answers": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestPutDraft_IDMismatch(t *testing.T) {
	w := do(t, newTestHandler(t), "PUT", "/intakes/one/draft", `{"intakeId": "two", "sections": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublish(t *testing.T) {
	h := newTestHandler(t)

	broken := strings.Replace(scenario, `"nextSectionId": "C"`, `"nextSectionId": "ghost"`, 1)
	require.Equal(t, http.StatusNoContent, do(t, h, "PUT", "/intakes/scenario/draft", broken).Code)

	w := do(t, h, "POST", "/intakes/scenario/validate", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["isValid"])

	w = do(t, h, "POST", "/intakes/scenario/publish", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, "flow validation failed", body["error"])
	issues := body["issues"].([]any)
	require.Len(t, issues, 1)
	assert.Equal(t, "dangling_section", issues[0].(map[string]any)["code"])

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/intakes/scenario/published", "").Code)

	require.Equal(t, http.StatusNoContent, do(t, h, "PUT", "/intakes/scenario/draft", scenario).Code)
	w = do(t, h, "POST", "/intakes/scenario/publish", "")
	require.Equal(t, http.StatusOK, w.Code)
	snapshot := decode(t, w)["snapshot"].(map[string]any)
	assert.Equal(t, 1.0, snapshot["version"])

	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/intakes/scenario/published", "").Code)
}

func TestPublish_EmptyDraft(t *testing.T) {
	h := newTestHandler(t)
	require.Equal(t, http.StatusNoContent, do(t, h, "PUT", "/intakes/empty/draft", `{"sections": []}`).Code)

	w := do(t, h, "POST", "/intakes/empty/publish", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, domain.ErrEmptyDraft.Error(), decode(t, w)["error"])
}

func TestRouting(t *testing.T) {
	h := newTestHandler(t)
	publishScenario(t, h)

	w := do(t, h, "POST", "/intakes/scenario/next", `{"from": "A", "answers": {"plan": "Pro"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"nextSectionId": "C", "terminal": false}, decode(t, w))

	w = do(t, h, "POST", "/intakes/scenario/next", `{"from": "A"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "B", decode(t, w)["nextSectionId"])

	w = do(t, h, "POST", "/intakes/scenario/next", `{"from": "B", "answers": {}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"terminal": true}, decode(t, w))

	w = do(t, h, "POST", "/intakes/scenario/next", `{"from": "Z"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "POST", "/intakes/scenario/path", `{"answers": {"plan": "Basic"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"A", "B"}, decode(t, w)["path"])
}

func TestSubmissions(t *testing.T) {
	h := newTestHandler(t)
	publishScenario(t, h)

	w := do(t, h, "POST", "/intakes/scenario/submissions",
		`{"answers": {"plan": "  Pro  "}, "metadata": {"visitedSectionIds": ["A", "C"], "ip": "1.2.3.4"}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["valid"])
	sub := body["submission"].(map[string]any)
	assert.Equal(t, map[string]any{"plan": "Pro"}, sub["answers"])
	assert.Equal(t, map[string]any{"visitedSectionIds": []any{"A", "C"}}, sub["metadata"])

	w = do(t, h, "POST", "/intakes/scenario/submissions", `{"answers": {"plan": "Pro"}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body = decode(t, w)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, []any{map[string]any{"blockId": "budget", "label": "Budget", "message": "Budget is required"}}, body["errors"])
	assert.NotContains(t, body, "submission")
}

func TestProposals(t *testing.T) {
	h := newTestHandler(t)
	require.Equal(t, http.StatusNoContent, do(t, h, "PUT", "/intakes/scenario/draft", scenario).Code)

	w := do(t, h, "GET", "/intakes/scenario/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["sections"], 3)

	w = do(t, h, "POST", "/intakes/scenario/proposals",
		`{"sections": {"A": [{"operator": "equals", "fromBlockId": "plan", "value": "Enterprise", "nextSectionId": "C"}]}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, "routing proposal rejected", body["error"])
	assert.Equal(t, "proposal_unknown_option", body["issues"].([]any)[0].(map[string]any)["code"])

	w = do(t, h, "POST", "/intakes/scenario/proposals",
		`{"sections": {"B": [{"operator": "any", "nextSectionId": "C"}]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["report"].(map[string]any)["isValid"])

	w = do(t, h, "POST", "/intakes/scenario/proposals/generate", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := observability.NewMetrics()
	h, err := NewHandler(intake.New(memory.NewStore(), intake.WithMetrics(metrics)), WithMetricsHandler(metrics.Handler()))
	require.NoError(t, err)
	publishScenario(t, h)

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `intake_publish_total{outcome="success"} 1`)
}

type panicEngine struct{ Engine }

func (panicEngine) Draft(context.Context, string) (domain.Draft, error) {
	panic("mongo: connection to 10.0.0.7 lost")
}

type brokenEngine struct{ Engine }

func (brokenEngine) Published(context.Context, string) (domain.Snapshot, error) {
	return domain.Snapshot{}, errors.New("dial tcp 10.0.0.7:27017: connection refused")
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	for name, engine := range map[string]Engine{"panic": panicEngine{}, "error": brokenEngine{}} {
		t.Run(name, func(t *testing.T) {
			h, err := NewHandler(engine)
			require.NoError(t, err)

			path := "/intakes/x/draft"
			if name == "error" {
				path = "/intakes/x/published"
			}
			w := do(t, h, "GET", path, "")
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, map[string]any{"error": "internal error"}, decode(t, w))
			assert.NotContains(t, w.Body.String(), "10.0.0.7")
		})
	}
}

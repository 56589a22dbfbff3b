package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCompleter struct {
	calls int
	text  string
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.text, s.err
}

func doPlan(t *testing.T, h http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/ai/plan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func planText(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		PlanText string `json:"planText"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.PlanText
}

func TestPlanHandlerSuccess(t *testing.T) {
	stub := &stubCompleter{text: `[{"title":"A","subject":"S","duration_minutes":30}]`}
	h := PlanHandler(stub, zap.NewNop())

	rr := doPlan(t, h, http.MethodPost, `{"profile":{"target_exam":"JEE","daily_hours":3}}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var drafts []TaskDraft
	require.NoError(t, json.Unmarshal([]byte(planText(t, rr)), &drafts))
	require.Len(t, drafts, 1)
	assert.Equal(t, "A", drafts[0].Title)
}

func TestPlanHandlerUpstreamFailureNever5xx(t *testing.T) {
	stub := &stubCompleter{err: &UpstreamError{Status: 503, Body: "upstream down"}}
	h := PlanHandler(stub, zap.NewNop())

	rr := doPlan(t, h, http.MethodPost, `{"profile":{}}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", planText(t, rr))
	assert.NotContains(t, rr.Body.String(), "upstream down")
}

func TestPlanHandlerUnparsableOutput(t *testing.T) {
	stub := &stubCompleter{text: "Sorry, I cannot help with that."}
	h := PlanHandler(stub, zap.NewNop())

	rr := doPlan(t, h, http.MethodPost, `{"profile":{}}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", planText(t, rr))
}

func TestPlanHandlerMethodGate(t *testing.T) {
	stub := &stubCompleter{text: "[]"}
	h := PlanHandler(stub, zap.NewNop())

	rr := doPlan(t, h, http.MethodGet, "")

	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, 0, stub.calls, "completion client must not be invoked")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Method not allowed", resp["error"])
}

func TestPlanHandlerMalformedBody(t *testing.T) {
	stub := &stubCompleter{text: `[{"title":"A","duration_minutes":10}]`}
	h := PlanHandler(stub, zap.NewNop())

	rr := doPlan(t, h, http.MethodPost, `{not json`)

	// malformed body falls back to the default profile, never an error
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, stub.calls)
	assert.NotEqual(t, "", planText(t, rr))
}

func TestPlanHandlerEmptyUpstreamText(t *testing.T) {
	stub := &stubCompleter{text: ""}
	h := PlanHandler(stub, zap.NewNop())

	rr := doPlan(t, h, http.MethodPost, `{}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", planText(t, rr))
}

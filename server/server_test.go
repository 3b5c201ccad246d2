// SPDX-License-Identifier: MIT

package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonymoushlmnop/matrix-discovery/analysis"
	"github.com/anonymoushlmnop/matrix-discovery/config"
	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/server"
)

func do(t *testing.T, s *server.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, server.New(config.Default()), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get("X-Request-Id"))
	assert.NoError(t, err)
}

func TestDiscover_Traces(t *testing.T) {
	s := server.New(config.Default())
	rec := do(t, s, http.MethodPost, "/v1/discover", `{
		"log": {"traces": [["a","b"],["a","b"],["b"]]},
		"evidence": true
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp server.DiscoverResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"a", "b"}, resp.Matrix.Activities)
	assert.Equal(t, dependency.TagBoth, resp.Matrix.Relations["a,b"])
	assert.Equal(t, dependency.TagNone, resp.Matrix.Relations["b,a"])
	assert.Equal(t, 3, resp.Matrix.Evidence["b,a"].Existential.Qualifying)
	assert.Equal(t, 3, resp.Traces)
	assert.Equal(t, 2, resp.Metrics.Pairs)
}

func TestDiscover_RawContentAndOverrides(t *testing.T) {
	s := server.New(config.Default())
	body := `{"log": {"content": "a,b:8\nb\nc", "format": "text"}, "temporal_threshold": 0.8, "existential_threshold": 0.8}`
	rec := do(t, s, http.MethodPost, "/v1/discover", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp server.DiscoverResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dependency.TagBoth, resp.Matrix.Relations["a,b"])
	require.NotNil(t, resp.Matrix.Thresholds)
	assert.Equal(t, 0.8, resp.Matrix.Thresholds.Temporal)
}

func TestDiscover_Rejections(t *testing.T) {
	s := server.New(config.Default())
	cases := map[string]struct {
		body string
		code int
	}{
		"bad json":        {`{`, http.StatusBadRequest},
		"threshold range": {`{"log":{"traces":[["a"]]},"temporal_threshold":1.5}`, http.StatusBadRequest},
		"bad granularity": {`{"log":{"traces":[["a"]]},"granularity":"often"}`, http.StatusBadRequest},
		"empty label":     {`{"log":{"traces":[["a",""]]}}`, http.StatusUnprocessableEntity},
		"malformed xes":   {`{"log":{"content":"<log><trace>","format":"xes"}}`, http.StatusUnprocessableEntity},
		"trace expansion": {`{"log":{"content":"a,b:9223372036854775807","format":"text"}}`, http.StatusUnprocessableEntity},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/discover", tc.body)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestEvaluate(t *testing.T) {
	s := server.New(config.Default())
	rec := do(t, s, http.MethodPost, "/v1/evaluate", `{
		"log": {"traces": [["a","b"]]},
		"ground_truth": {"lines": "a,b:both"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp server.EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Existential.FP)
	assert.Equal(t, 1, resp.Existential.TP)
	assert.InDelta(t, 0.5, resp.Existential.Rates.Precision, 1e-12)
	assert.Equal(t, 1, resp.Temporal.TP)
	assert.Equal(t, 1, resp.Temporal.TN)
	require.Len(t, resp.Mismatches, 1)
	assert.Equal(t, "b", resp.Mismatches[0].From)
}

func TestEvaluate_PairMapAndShapeMismatch(t *testing.T) {
	s := server.New(config.Default())
	rec := do(t, s, http.MethodPost, "/v1/evaluate", `{
		"log": {"traces": [["a","b"]]},
		"ground_truth": {"relations": {"a,b": "both", "b,a": "existential"}}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp server.EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Mismatches)

	rec = do(t, s, http.MethodPost, "/v1/evaluate", `{
		"log": {"traces": [["a","b"]]},
		"ground_truth": {"lines": "a,q:both"}
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/evaluate", `{
		"log": {"traces": [["a","b","c"]]},
		"ground_truth": {"activities": ["a","b"], "relations": {"a,b": "both"}}
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}

func TestStats(t *testing.T) {
	s := server.New(config.Default())
	rec := do(t, s, http.MethodPost, "/v1/stats", `{"log":{"traces":[["a","b"],["a","c"]]}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var st analysis.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, 2, st.Traces)
	assert.Equal(t, 2, st.Variants)
	assert.Equal(t, 4, st.EPAStates)
}

func TestMetricsEndpoint(t *testing.T) {
	s := server.New(config.Default())
	do(t, s, http.MethodPost, "/v1/discover", `{"log":{"traces":[["a","b"]]}}`)
	do(t, s, http.MethodPost, "/v1/discover", `{"log":{"traces":[["a"]]},"temporal_threshold":7}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `depmatrix_requests_total{operation="discover",outcome="ok"} 1`)
	assert.Contains(t, body, `depmatrix_requests_total{operation="discover",outcome="rejected"} 1`)
	assert.Contains(t, body, "depmatrix_discovery_duration_seconds_bucket")
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reoring/verdict"
	"github.com/reoring/verdict/middleware"
)

func userPredicate() verdict.Predicate {
	return verdict.IsDictWhere(
		verdict.Required("id", verdict.IsStr()),
		verdict.Required("email", verdict.MustMatch(`@`)),
	).Strict()
}

func echoHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := middleware.ValueFromContext(r.Context())
		require.True(t, ok, "validated value should be in context")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	})
}

func serve(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	h.ServeHTTP(rec, req)
	return rec
}

func TestValidateJSON_Valid(t *testing.T) {
	h := middleware.ValidateJSON(userPredicate())(echoHandler(t))
	rec := serve(h, `{"id": "u1", "email": "a@b"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id": "u1", "email": "a@b"}`, rec.Body.String())
}

func TestValidateJSON_Invalid(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := middleware.ValidateJSON(userPredicate(), middleware.WithLogger(zap.New(core)))(echoHandler(t))
	rec := serve(h, `{"email": "nope", "zzz": 1}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var payload struct {
		Valid   bool           `json:"valid"`
		Code    string         `json:"code"`
		Summary string         `json:"summary"`
		Issues  verdict.Issues `json:"issues"`
		Tree    struct {
			Details []struct {
				Kind string `json:"kind"`
				Key  string `json:"key"`
				Code string `json:"code"`
			} `json:"details"`
		} `json:"explanation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.False(t, payload.Valid)
	assert.Equal(t, verdict.CodeNotAllValid, payload.Code)
	require.Len(t, payload.Issues, 3)
	assert.Equal(t, "/id", payload.Issues[0].Path)
	assert.Equal(t, verdict.CodeMissingKey, payload.Issues[0].Code)
	assert.Equal(t, "/email", payload.Issues[1].Path)
	assert.Equal(t, verdict.CodeUnknownKey, payload.Issues[2].Code)
	assert.Contains(t, payload.Summary, "['zzz'] key 'zzz' is not allowed")
	require.Len(t, payload.Tree.Details, 3)
	assert.Equal(t, "field", payload.Tree.Details[1].Kind)
	assert.Equal(t, "email", payload.Tree.Details[1].Key)
	assert.Equal(t, verdict.CodeNoMatch, payload.Tree.Details[1].Code)

	entries := logs.FilterMessage("request body invalid").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].ContextMap()["issues"])
}

func TestValidateJSON_ParseAndSizeErrors(t *testing.T) {
	cfg := middleware.DefaultConfig()
	cfg.MaxBodyBytes = 16
	cfg.RejectStatus = http.StatusBadRequest
	h := middleware.ValidateJSON(userPredicate(), middleware.WithConfig(cfg))(echoHandler(t))

	rec := serve(h, `{"id": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), middleware.CodeParseError)

	rec = serve(h, `{"id": "0123456789abcdef", "email": "a@b"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), middleware.CodeTooLarge)

	rec = serve(h, `{"id": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "configured reject status")
}

func TestLoadConfig(t *testing.T) {
	cfg, err := middleware.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, middleware.DefaultConfig(), cfg)

	t.Setenv("VERDICT_MAX_BODY_BYTES", "2048")
	t.Setenv("VERDICT_REJECT_STATUS", "400")
	cfg, err = middleware.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(2048), cfg.MaxBodyBytes)
	assert.Equal(t, http.StatusBadRequest, cfg.RejectStatus)

	t.Setenv("VERDICT_REJECT_STATUS", "not-a-number")
	_, err = middleware.LoadConfig()
	assert.Error(t, err)
}

func TestContextValue_Null(t *testing.T) {
	h := middleware.ValidateJSON(verdict.IsNil())(echoHandler(t))
	rec := serve(h, `null`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null\n", rec.Body.String())
}

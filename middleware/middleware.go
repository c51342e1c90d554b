// Package middleware validates JSON request bodies with a verdict predicate at
// net/http boundaries.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/caarlos0/env/v11"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/reoring/verdict"
	"github.com/reoring/verdict/source"
)

// Response codes for failures that happen before validation.
const (
	CodeParseError = "parse_error"
	CodeTooLarge   = "too_large"
)

// Config holds the HTTP boundary settings.
type Config struct {
	// MaxBodyBytes caps request bodies; zero disables the cap.
	MaxBodyBytes int64 `env:"VERDICT_MAX_BODY_BYTES" envDefault:"1048576"`
	// RejectStatus is the status written when validation fails.
	RejectStatus int `env:"VERDICT_REJECT_STATUS" envDefault:"422"`
}

// DefaultConfig returns a recommended default for HTTP JSON boundaries.
func DefaultConfig() Config {
	return Config{MaxBodyBytes: 1 << 20, RejectStatus: http.StatusUnprocessableEntity}
}

// LoadConfig reads Config from the environment, applying defaults.
func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}

// Option customizes ValidateJSON.
type Option func(*handler)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option { return func(h *handler) { h.cfg = cfg } }

// WithLogger sets the logger for rejected requests. Nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *handler) {
		if l != nil {
			h.log = l
		}
	}
}

type handler struct {
	pred verdict.Predicate
	cfg  Config
	log  *zap.Logger
	next http.Handler
}

// ValidateJSON decodes each request body and explains it with p. Invalid
// bodies are answered with Config.RejectStatus and ErrorPayload; valid ones
// reach next with the decoded value in the request context (ValueFromContext).
func ValidateJSON(p verdict.Predicate, opts ...Option) func(http.Handler) http.Handler {
	if p == nil {
		panic("middleware.ValidateJSON: predicate must not be nil")
	}
	return func(next http.Handler) http.Handler {
		h := &handler{pred: p, cfg: DefaultConfig(), log: zap.NewNop(), next: next}
		for _, opt := range opts {
			opt(h)
		}
		if h.cfg.RejectStatus == 0 {
			h.cfg.RejectStatus = http.StatusUnprocessableEntity
		}
		return h
	}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v, err := source.JSONReader(r.Body, source.WithMaxBytes(h.cfg.MaxBodyBytes))
	if err != nil {
		status, code := http.StatusBadRequest, CodeParseError
		if errors.Is(err, source.ErrTooLarge) {
			status, code = http.StatusRequestEntityTooLarge, CodeTooLarge
		}
		h.log.Warn("request body rejected",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("code", code),
			zap.Error(err),
		)
		writeJSON(w, status, map[string]any{"valid": false, "code": code, "message": err.Error()})
		return
	}

	exp := h.pred.Explain(v)
	if !exp.Valid() {
		issues := exp.Issues()
		h.log.Info("request body invalid",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("code", exp.Code()),
			zap.Int("issues", len(issues)),
		)
		writeJSON(w, h.cfg.RejectStatus, ErrorPayload(exp))
		return
	}
	h.next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
}

// ErrorPayload shapes an Explanation for JSON responses.
func ErrorPayload(exp verdict.Explanation) map[string]any {
	return map[string]any{
		"valid":       exp.Valid(),
		"code":        exp.Code(),
		"message":     exp.Message(),
		"summary":     exp.Summary(),
		"issues":      exp.Issues(),
		"explanation": exp,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// ctxKeyValue is a typed context key for the decoded request body.
type ctxKeyValue struct{}

// body boxes the decoded value so a JSON null body is still found.
type body struct{ v any }

// ContextWithValue attaches a decoded, validated body to the context.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, body{v: v})
}

// ValueFromContext retrieves the body stored by ValidateJSON.
func ValueFromContext(ctx context.Context) (any, bool) {
	b, ok := ctx.Value(ctxKeyValue{}).(body)
	return b.v, ok
}

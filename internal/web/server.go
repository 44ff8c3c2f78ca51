// Package web is the HTTP transport surface: ingesting a corpus, rendering
// from it synchronously or as a token-by-token stream, gated by bearer auth
// on writes. It is an external collaborator of the core (spec.md §1) — the
// core never imports this package.
package web

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/nullprose/magictext/internal/cachedquery"
	"github.com/nullprose/magictext/internal/logging"
	"github.com/nullprose/magictext/internal/pen"
	"github.com/nullprose/magictext/internal/picker"
	"github.com/nullprose/magictext/internal/renderpool"
	"github.com/nullprose/magictext/internal/rendercache"
	"github.com/nullprose/magictext/internal/shatter"
	"github.com/nullprose/magictext/internal/store"
	"github.com/nullprose/magictext/internal/token"
)

// Server wires a store, a render cache, a bounded render pool, and an auth
// service behind a chi router.
type Server struct {
	store  store.PenStore
	cache  *rendercache.Cache // may be nil: caching is optional
	pool   *renderpool.Pool
	auth   *AuthService
	logger *zap.Logger

	mu   sync.RWMutex
	pens map[string]*cachedquery.Pen

	adminPasswordHash string
}

// Config configures a new Server.
type Config struct {
	Store                store.PenStore
	Cache                *rendercache.Cache // nil disables caching
	MaxConcurrentRenders int
	AuthService          *AuthService
	Logger               *zap.Logger

	// AdminPassword, if set alongside AuthService, gates POST /auth/login:
	// a caller presenting this password gets back a bearer token minted by
	// AuthService. Stored only as a bcrypt hash, never in the clear.
	AdminPassword string
}

// NewServer builds a Server from cfg, defaulting Logger to a no-op logger
// and MaxConcurrentRenders to unbounded when unset.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var adminPasswordHash string
	if cfg.AdminPassword != "" {
		hash, err := HashPassword(cfg.AdminPassword)
		if err != nil {
			logger.Warn("failed to hash admin password, login endpoint disabled", zap.Error(err))
		} else {
			adminPasswordHash = hash
		}
	}

	return &Server{
		store:             cfg.Store,
		cache:             cfg.Cache,
		pool:              renderpool.New(cfg.MaxConcurrentRenders),
		auth:              cfg.AuthService,
		logger:            logger,
		pens:              make(map[string]*cachedquery.Pen),
		adminPasswordHash: adminPasswordHash,
	}
}

// Shutdown waits for renders dispatched through the render pool to drain,
// or returns ctx's error if it is cancelled first. Call it after the HTTP
// server itself has stopped accepting new connections, so any render still
// running in a request goroutine the http.Server didn't wait for gets a
// last chance to finish cleanly.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.pool.Shutdown(ctx)
}

// Router builds the chi mux: POST /corpora (ingest), POST
// /corpora/{id}/render (materialize a whole render run), GET /corpora/{id}/render/stream
// (token-by-token over a websocket).
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/corpora", s.handleIngest)
		r.Post("/corpora/{id}/render", s.handleRender)
	})
	r.Get("/corpora/{id}/render/stream", s.handleRenderStream)
	r.Post("/auth/login", s.handleLogin)

	return r
}

type loginRequest struct {
	ClientID string `json:"client_id"`
	Password string `json:"password"`
}

// handleLogin exchanges the admin password for a bearer token write
// endpoints accept. It 404s when no AuthService is configured and 501s
// when one is configured but no admin password was set to log in with.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		writeError(w, http.StatusNotFound, "authentication is not configured")
		return
	}
	if s.adminPasswordHash == "" {
		writeError(w, http.StatusNotImplemented, "no admin password configured")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.ClientID == "" {
		writeError(w, http.StatusBadRequest, "client_id must not be empty")
		return
	}
	if !CheckPassword(req.Password, s.adminPasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	signed, err := s.auth.IssueToken(req.ClientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(authHeader) <= len(prefix) || authHeader[:len(prefix)] != prefix {
			writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if _, err := s.auth.ValidateToken(authHeader[len(prefix):]); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ingestRequest struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Comparer string `json:"comparer"`
	Sentinel string `json:"sentinel,omitempty"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	cmp, ok := token.ByName(req.Comparer)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown comparer: "+req.Comparer)
		return
	}

	tz := shatter.New(shatter.WhitespaceStrategy{})
	opts := shatter.DefaultOptions()
	var corpus []token.Token
	for tok := range tz.Shatter(strings.NewReader(req.Text), &opts) {
		corpus = append(corpus, tok)
	}

	var penOpts []pen.Option
	if req.Sentinel != "" {
		penOpts = append(penOpts, pen.WithSentinel(token.Of(req.Sentinel)))
	}
	p := pen.NewPen(corpus, cmp, penOpts...)

	cached, err := cachedquery.New(p, 256)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build query cache")
		return
	}

	s.mu.Lock()
	s.pens[req.ID] = cached
	s.mu.Unlock()

	ctx := logging.WithLogger(r.Context(), s.logger)
	if s.store != nil {
		if err := s.store.Save(ctx, req.ID, p); err != nil {
			s.logger.Warn("failed to persist ingested pen", zap.String("id", req.ID), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": req.ID, "corpus_len": p.Len()})
}

type renderRequest struct {
	N      int   `json:"n"`
	Seed   int64 `json:"seed"`
	Replay []int `json:"replay,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.RLock()
	cached, ok := s.pens[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown corpus id: "+id)
		return
	}

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if len(req.Replay) > 0 {
		tokens := s.renderOnce(r.Context(), cached.Inner(), req.N, picker.Replay(req.Replay))
		writeJSON(w, http.StatusOK, renderResponse(tokens))
		return
	}

	var key rendercache.Key
	useCache := s.cache != nil
	if useCache {
		key = rendercache.Key{CorpusID: id, N: req.N, Replay: []int{int(req.Seed)}}
		if tokens, err := s.cache.Get(r.Context(), key); err == nil {
			writeJSON(w, http.StatusOK, renderResponse(tokens))
			return
		}
	}

	basePick := picker.Seeded(req.Seed)
	wrapped, replay := picker.Recording(basePick)
	tokens := s.renderOnce(r.Context(), cached.Inner(), req.N, wrapped)

	if useCache {
		if err := s.cache.Set(r.Context(), rendercache.Key{CorpusID: id, N: req.N, Replay: *replay}, tokens, 0); err != nil {
			s.logger.Warn("failed to populate render cache", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, renderResponse(tokens))
}

func (s *Server) renderOnce(ctx context.Context, p *pen.Pen, n int, pick pen.Picker) []token.Token {
	results := s.pool.RunAll(ctx, []renderpool.Job{{Pen: p, N: n, Pick: pick}})
	if len(results) == 0 {
		return nil
	}
	return results[0].Tokens
}

func renderResponse(tokens []token.Token) map[string]any {
	out := make([]*string, len(tokens))
	for i, t := range tokens {
		if t.IsNull() {
			out[i] = nil
		} else {
			s := t.String()
			out[i] = &s
		}
	}
	return map[string]any{"tokens": out}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

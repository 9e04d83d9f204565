// Package httpapi is the thin HTTP front end (C5, spec.md §4.5, §6): it
// validates URL/body parameters, resolves or creates the book via the
// registry, optionally authenticates, issues one call to the engine, and
// returns the result as JSON. Routed with github.com/gorilla/mux, seen
// across the retrieved corpus (e.g. the crypto-browser and microcoin
// examples) for exactly this kind of path-parameter extraction.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/saiputravu/stockexchange/internal/apierr"
	"github.com/saiputravu/stockexchange/internal/auth"
	"github.com/saiputravu/stockexchange/internal/config"
	"github.com/saiputravu/stockexchange/internal/registry"
)

// maxAccounts bounds the process-wide account -> small-int map, preserved
// per-process rather than per-book per spec.md §9 open question (a).
const maxAccounts = 2048

// Server is the HTTP front end. It is safe for concurrent use: all shared
// state (the registry, the account interner) is internally synchronized.
type Server struct {
	cfg      config.Config
	registry *registry.Registry
	auth     auth.Store

	httpSrv *http.Server

	acctMu  sync.Mutex
	acctIDs map[string]int
}

// New builds a Server and pre-creates the configured default venue/symbol,
// per original_source/disorderCook_front.py's main() startup sequence
// (spec.md §9 supplemented features).
func New(cfg config.Config, authStore auth.Store) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		registry: registry.New(cfg.MaxBooks),
		auth:     authStore,
		acctIDs:  make(map[string]int),
	}

	if _, err := s.registry.GetOrCreate(cfg.DefaultVenue, cfg.DefaultSymbol); err != nil {
		return nil, err
	}

	if !authStore.Enabled() {
		log.Warn().Msg("running WITHOUT AUTHENTICATION")
	}

	s.httpSrv = &http.Server{
		Addr:    addrFor(cfg.Port),
		Handler: s.router(),
	}
	return s, nil
}

func addrFor(port int) string {
	return ":" + strconv.Itoa(port)
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/ob/api/heartbeat", s.handleHeartbeat).Methods(http.MethodGet)
	r.HandleFunc("/ob/api/venues", s.handleVenues).Methods(http.MethodGet)
	r.HandleFunc("/ob/api/venues/{venue}/heartbeat", s.handleVenueHeartbeat).Methods(http.MethodGet)
	r.HandleFunc("/ob/api/venues/{venue}", s.handleStocks).Methods(http.MethodGet)
	r.HandleFunc("/ob/api/venues/{venue}/stocks", s.handleStocks).Methods(http.MethodGet)
	r.HandleFunc("/ob/api/venues/{venue}/stocks/{symbol}/orders", s.handlePlaceOrder).Methods(http.MethodPost)
	r.HandleFunc("/ob/api/venues/{venue}/stocks/{symbol}", s.handleOrderbook).Methods(http.MethodGet)
	r.HandleFunc("/ob/api/venues/{venue}/stocks/{symbol}/quote", s.handleQuote).Methods(http.MethodGet)
	r.HandleFunc("/ob/api/venues/{venue}/stocks/{symbol}/orders/{id}", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/ob/api/venues/{venue}/stocks/{symbol}/orders/{id}", s.handleCancel).Methods(http.MethodDelete)
	r.HandleFunc("/ob/api/venues/{venue}/stocks/{symbol}/orders/{id}/cancel", s.handleCancel).Methods(http.MethodPost)
	r.HandleFunc("/ob/api/debug/memory", s.handleDebugMemory).Methods(http.MethodGet)

	return r
}

// requestLogger assigns each request a correlation id (continuing the
// teacher's use of google/uuid, migrated from order identity to request
// identity since order ids are engine-assigned integers here) and logs its
// lifecycle with zerolog, matching the teacher's internal/net/server.go
// logging granularity.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New().String()
		logger := log.With().Str("request_id", reqID).Str("path", r.URL.Path).Logger()
		ctx := logger.WithContext(r.Context())

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logger.Debug().Dur("elapsed", time.Since(start)).Msg("request handled")
	})
}

// Run starts the HTTP listener and blocks until ctx is cancelled, then
// shuts down gracefully. Mirrors the teacher's Run(ctx)/Shutdown() idiom in
// internal/net/server.go.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpSrv.Addr).Msg("server running")
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAPIError(w http.ResponseWriter, err *apierr.Error) {
	writeJSON(w, err.Status, map[string]any{"ok": false, "error": err.Message})
}

// internAccount assigns a stable small integer to account, bounded at
// maxAccounts across the whole process (spec.md §9 open question (a)).
func (s *Server) internAccount(account string) (int, *apierr.Error) {
	s.acctMu.Lock()
	defer s.acctMu.Unlock()

	if id, ok := s.acctIDs[account]; ok {
		return id, nil
	}
	if len(s.acctIDs) >= maxAccounts {
		return 0, apierr.TooManyAccounts
	}
	id := len(s.acctIDs)
	s.acctIDs[account] = id
	return id, nil
}

// validateName enforces the 1..19 character bound from spec.md §3/§6.
func validateName(name string) bool {
	return len(name) > 0 && len(name) < 20
}

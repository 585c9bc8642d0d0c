// internal/httpserver/server.go
//
// HTTP server wiring for the ColorTab backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/" (browser client), "/api", "/health", "/rules", "/palette".
//   - Game endpoints (optional auth): mounted under /game (see routes_game.go).
//   - Auth + profile endpoints: /auth/*, /games/mine (see auth.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The SSE stream sits outside the timeout group; it lives as long as the client.

package httpserver

import (
	"context"
	"encoding/json"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colortab/assets"
	"github.com/robalobadob/colortab/internal/clock"
	"github.com/robalobadob/colortab/internal/config"
	"github.com/robalobadob/colortab/internal/game"
	"github.com/robalobadob/colortab/internal/sse"
	"github.com/robalobadob/colortab/internal/store"
	"github.com/robalobadob/colortab/internal/users"
)

// Server bundles router, session store, account store and config.
type Server struct {
	r     *chi.Mux
	cfg   *config.Config
	store store.Store
	users *users.Store
	clock clock.Scheduler

	mu   sync.RWMutex
	hubs map[string]*sse.Hub // session ID → event hub
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, st store.Store, accounts *users.Store) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   cfg,
		store: st,
		users: accounts,
		clock: clock.NewReal(),
		hubs:  make(map[string]*sse.Hub),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// --- browser client ---
	web, _ := fs.Sub(assets.Web, "web")
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, web, "index.html")
	})
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web)))

	// --- event streams (no timeout) ---
	s.r.With(s.withOptionalAuth(), s.loadSession).Get("/game/{id}/events", s.handleEvents)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"colortab","endpoints":["/health","/rules","/palette","POST /game/new","POST /game/{id}/start","POST /game/{id}/click","GET /game/{id}/events","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/rules", handleRules)
		r.Get("/palette", handlePalette)

		// Game endpoints — OPTIONAL AUTH (guests can play)
		s.mountGame(r.With(s.withOptionalAuth()))

		// Auth + profile (require auth)
		s.mountAuthRoutes(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
		})
	})

	return s
}

// WithClock replaces the scheduler used by new sessions (tests).
func (s *Server) WithClock(c clock.Scheduler) *Server {
	s.clock = c
	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx }, // ends open event streams on shutdown
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Forget drops the event hub of a session that the store evicted.
func (s *Server) Forget(id string) {
	s.mu.Lock()
	delete(s.hubs, id)
	s.mu.Unlock()
}

func (s *Server) hub(id string) *sse.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hubs[id]
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("requestId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

// ----------------------------- static data ---------------------------------

type paletteColor struct {
	Name  string  `json:"name"`
	Sound string  `json:"sound"`
	Tone  float64 `json:"tone"`
	Key   string  `json:"key"`
}

type paletteRes struct {
	Colors  []paletteColor `json:"colors"`
	Ambient struct {
		URI    string  `json:"uri"`
		Volume float64 `json:"volume"`
	} `json:"ambient"`
}

// handlePalette lists the board colors with their sound assets.
func handlePalette(w http.ResponseWriter, r *http.Request) {
	var res paletteRes
	for _, c := range game.Palette {
		info := c.Info()
		res.Colors = append(res.Colors, paletteColor{Name: info.Name, Sound: info.Sound, Tone: info.Tone, Key: string(info.Key)})
	}
	res.Ambient.URI = game.AmbientSound
	res.Ambient.Volume = game.AmbientVolume
	_ = json.NewEncoder(w).Encode(res)
}

// handleRules returns the title and how-to-play text.
func handleRules(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"title": game.Title, "rules": game.Rules})
}

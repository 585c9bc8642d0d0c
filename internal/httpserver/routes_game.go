// internal/httpserver/routes_game.go
//
// HTTP routes for playing a game.
//   - POST   /game/new          → create a session ("normal" or "daily" mode)
//   - GET    /game/{id}         → current view
//   - POST   /game/{id}/start   → start / play again
//   - POST   /game/{id}/click   → one panel click
//   - DELETE /game/{id}         → close the session
//   - GET    /game/{id}/events  → SSE stream of display events and sound cues
//
// The session is authoritative: the browser only renders views, plays the
// cues it is sent and posts clicks.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colortab/internal/audio"
	"github.com/robalobadob/colortab/internal/daily"
	"github.com/robalobadob/colortab/internal/game"
	"github.com/robalobadob/colortab/internal/session"
	"github.com/robalobadob/colortab/internal/sse"
	"github.com/robalobadob/colortab/internal/store"
)

type ctxSessionKey struct{}

func sessionFrom(ctx context.Context) *session.Session {
	g, _ := ctx.Value(ctxSessionKey{}).(*session.Session)
	return g
}

// mountGame registers the /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.With(s.loadSession).Get("/game/{id}", s.handleView)
	r.With(s.loadSession).Post("/game/{id}/start", s.handleStart)
	r.With(s.loadSession).Post("/game/{id}/click", s.handleClick)
	r.With(s.loadSession).Delete("/game/{id}", s.handleClose)
}

// loadSession resolves {id} to a live session or answers 404.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
				return
			}
			http.Error(w, `{"error":"store_error"}`, http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxSessionKey{}, g)))
	})
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode session.Mode `json:"mode"` // "normal" (default) | "daily"
}
type newGameRes struct {
	GameID string       `json:"gameId"`
	Date   string       `json:"date,omitempty"` // daily mode only
	View   session.View `json:"view"`
}

// handleNewGame creates an idle session owned by the caller.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	var res newGameRes
	var picker game.Picker
	switch req.Mode {
	case "", session.ModeNormal:
		req.Mode = session.ModeNormal
	case session.ModeDaily:
		now := s.clock.Now()
		picker = daily.Picker(now, s.cfg.DailySalt)
		res.Date = daily.DateKey(now)
	default:
		http.Error(w, `{"error":"invalid_mode"}`, http.StatusBadRequest)
		return
	}

	hub := sse.NewHub()
	g := session.New(session.Options{
		Owner:    s.ownerID(w, r),
		Mode:     req.Mode,
		Picker:   picker,
		Clock:    s.clock,
		Audio:    audio.Cues{Send: hub.Cue},
		Timing:   s.cfg.Timing,
		Listener: hub,
	})
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	s.mu.Lock()
	s.hubs[g.ID()] = hub
	s.mu.Unlock()

	log.Info().Str("gameId", g.ID()).Str("mode", string(req.Mode)).Msg("session created")
	res.GameID = g.ID()
	res.View = g.View()
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(sessionFrom(r.Context()).View())
}

// handleStart starts a new game in the session (also used for "Play Again").
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(sessionFrom(r.Context()).Start())
}

// clickReq/Res payloads for POST /game/{id}/click.
type clickReq struct {
	Color game.Color `json:"color"`
}
type clickRes struct {
	Outcome game.Outcome `json:"outcome"`
	View    session.View `json:"view"`
}

// handleClick feeds one click into the session.
// Clicks during playback or outside a game are accepted but ignored.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, game.ErrUnknownColor) {
			http.Error(w, `{"error":"unknown_color"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if !req.Color.Valid() {
		http.Error(w, `{"error":"unknown_color"}`, http.StatusBadRequest)
		return
	}
	out, view := sessionFrom(r.Context()).Click(req.Color)
	_ = json.NewEncoder(w).Encode(clickRes{Outcome: out, View: view})
}

// handleClose stops the session and forgets it.
func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	g := sessionFrom(r.Context())
	if err := s.store.Delete(r.Context(), g.ID()); err != nil && !errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"store_error"}`, http.StatusInternalServerError)
		return
	}
	s.Forget(g.ID())
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// handleEvents streams session events until the client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	g := sessionFrom(r.Context())
	hub := s.hub(g.ID())
	flusher, ok := w.(http.Flusher)
	if hub == nil || !ok {
		http.Error(w, `{"error":"streaming_unsupported"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable buffering in nginx/proxies

	msgs, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	hello, _ := json.Marshal(session.Event{Kind: sse.EventHello, View: g.View()})
	_, _ = sse.Message{Event: sse.EventHello, Data: string(hello)}.WriteTo(w)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("gameId", g.ID()).Msg("sse client disconnected")
			return
		case msg := <-msgs:
			if _, err := msg.WriteTo(w); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

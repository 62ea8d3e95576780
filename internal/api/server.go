// Package api exposes the sessions over HTTP JSON and a websocket snapshot stream.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/alper6161/idle-chaos/internal/game/dungeon"
	"github.com/alper6161/idle-chaos/internal/game/session"
	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/store"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 16

// Sessions returns the running session of a save slot.
type Sessions interface {
	Get(ctx context.Context, slotID string) (*session.Session, error)
}

// Server routes HTTP requests to sessions.
type Server struct {
	sessions Sessions
	slots    store.SlotRepository
	router   *mux.Router
}

// NewServer creates the API server.
func NewServer(sessions Sessions, slots store.SlotRepository) *Server {
	s := &Server{
		sessions: sessions,
		slots:    slots,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return withCORS(s.router)
}

func (s *Server) routes() {
	r := s.router.PathPrefix("/api").Subrouter()
	r.Use(withLogging)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/slots", s.handleListSlots).Methods(http.MethodGet)
	r.HandleFunc("/slots", s.handleCreateSlot).Methods(http.MethodPost)

	sr := r.PathPrefix("/slots/{slot}").Subrouter()
	sr.HandleFunc("/state", s.withSession(s.handleState)).Methods(http.MethodGet)
	sr.HandleFunc("/stream", s.withSession(s.handleStream)).Methods(http.MethodGet)

	sr.HandleFunc("/hunt", s.withSession(s.handleHunt)).Methods(http.MethodPost)
	sr.HandleFunc("/flee", s.withSession(s.handleFlee)).Methods(http.MethodPost)
	sr.HandleFunc("/dungeon", s.withSession(s.handleStartDungeon)).Methods(http.MethodPost)
	sr.HandleFunc("/dungeon/exit", s.withSession(s.handleExitDungeon)).Methods(http.MethodPost)
	sr.HandleFunc("/attack-type", s.withSession(s.handleAttackType)).Methods(http.MethodPut)

	sr.HandleFunc("/equipment", s.withSession(s.handleEquipment)).Methods(http.MethodGet)
	sr.HandleFunc("/equipment/{item}", s.withSession(s.handleEquip)).Methods(http.MethodPut)
	sr.HandleFunc("/equipment/{equipSlot}", s.withSession(s.handleUnequip)).Methods(http.MethodDelete)
	sr.HandleFunc("/loot", s.withSession(s.handleLoot)).Methods(http.MethodGet)
	sr.HandleFunc("/loot/{item}", s.withSession(s.handleDiscard)).Methods(http.MethodDelete)
	sr.HandleFunc("/pets", s.withSession(s.handleEquipPets)).Methods(http.MethodPut)
	sr.HandleFunc("/skills", s.withSession(s.handleSkills)).Methods(http.MethodGet)
	sr.HandleFunc("/skills/{skill}", s.withSession(s.handleSkill)).Methods(http.MethodGet)

	sr.HandleFunc("/potions/{potion}/use", s.withSession(s.handleUsePotion)).Methods(http.MethodPost)
	sr.HandleFunc("/auto-potion", s.withSession(s.handleAutoPotion)).Methods(http.MethodPut)
	sr.HandleFunc("/shop/potions", s.withSession(s.handleBuyPotion)).Methods(http.MethodPost)
	sr.HandleFunc("/shop/buffs", s.withSession(s.handleBuyBuff)).Methods(http.MethodPost)

	sr.HandleFunc("/achievements", s.withSession(s.handleAchievements)).Methods(http.MethodGet)
	sr.HandleFunc("/enemies/{enemy}", s.withSession(s.handleEnemy)).Methods(http.MethodGet)
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves the {slot} path variable to its running session.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(r.Context(), mux.Vars(r)["slot"])
		if err != nil {
			writeError(w, err)
			return
		}
		h(w, r, sess)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": err.Error(),
		"status":  code,
	})
}

var errBadRequest = errors.New("bad request")

// statusOf maps engine errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, store.ErrSlotNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, session.ErrUnknownLocation),
		errors.Is(err, session.ErrUnknownEnemy),
		errors.Is(err, session.ErrUnknownDungeon),
		errors.Is(err, session.ErrUnknownItem),
		errors.Is(err, session.ErrEmptySlot),
		errors.Is(err, session.ErrPetNotOwned),
		errors.Is(err, session.ErrInvalidSetting),
		errors.Is(err, model.ErrUnknownAttackType):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrSlotExists),
		errors.Is(err, session.ErrInDungeon),
		errors.Is(err, session.ErrBagFull),
		errors.Is(err, dungeon.ErrNotRunning),
		errors.Is(err, dungeon.ErrConfirmationRequired):
		return http.StatusConflict
	case errors.Is(err, session.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

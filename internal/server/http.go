package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/game"
	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/settings"
	"github.com/tom-jt/Diviners-Gambit/internal/lobby"
	"github.com/tom-jt/Diviners-Gambit/internal/storage"
)

// Leaderboard reads persisted player records.
type Leaderboard interface {
	TopPlayers(ctx context.Context, limit int) ([]storage.PlayerRecord, error)
}

// Replays looks up recorded games by replay id (<match>-<game>).
type Replays interface {
	LoadReplay(id string) (*game.Replay, error)
}

// HTTPConfig wires the HTTP routes.
type HTTPConfig struct {
	Hub     *Hub
	Rooms   *lobby.Manager
	Catalog *catalog.Catalog
	Presets []settings.Preset
	// Leaderboard is optional; /api/leaderboard answers 503 without it.
	Leaderboard Leaderboard
	// Replays is optional; /api/replays answers 503 without it.
	Replays Replays
	Logger  *zap.Logger
}

type replayJSON struct {
	MatchID string         `json:"match_id"`
	Seed    uint64         `json:"seed"`
	Rounds  int            `json:"rounds"`
	Final   *game.Snapshot `json:"final"`
}

type cardJSON struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Generation  int     `json:"generation"`
	Priority    string  `json:"priority"`
	Type        string  `json:"type"`
	Cost        float64 `json:"cost"`
	Targets     bool    `json:"targets"`
}

type modeJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewHTTPHandler builds the HTTP routes: the websocket endpoint plus a
// small read-only JSON API.
func NewHTTPHandler(cfg HTTPConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	presets := cfg.Presets
	if presets == nil {
		presets = settings.Presets
	}

	cards := make([]cardJSON, 0, cat.CardCount())
	for _, c := range cat.Cards() {
		if !c.IsDraftable() {
			continue
		}
		cards = append(cards, cardJSON{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Generation:  c.Generation,
			Priority:    c.Priority.String(),
			Type:        c.Type.String(),
			Cost:        c.Cost,
			Targets:     c.Targets,
		})
	}
	modes := make([]modeJSON, 0)
	for _, m := range settings.Modes() {
		info := m.Info()
		modes = append(modes, modeJSON{Name: info.Name, Description: info.Description})
	}

	mux := http.NewServeMux()
	if cfg.Hub != nil {
		mux.HandleFunc("GET /ws", cfg.Hub.ServeWS)
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/catalog", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, cards)
	})
	mux.HandleFunc("GET /api/modes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, modes)
	})
	mux.HandleFunc("GET /api/presets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, presets)
	})
	mux.HandleFunc("GET /api/rooms", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Rooms == nil {
			writeJSON(w, logger, http.StatusOK, []lobby.RoomSnapshot{})
			return
		}
		writeJSON(w, logger, http.StatusOK, cfg.Rooms.Rooms())
	})
	mux.HandleFunc("GET /api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Leaderboard == nil {
			writeJSON(w, logger, http.StatusServiceUnavailable, map[string]string{"error": "leaderboard unavailable"})
			return
		}
		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 || n > 100 {
				writeJSON(w, logger, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 100"})
				return
			}
			limit = n
		}
		records, err := cfg.Leaderboard.TopPlayers(r.Context(), limit)
		if err != nil {
			logger.Error("failed to load leaderboard", zap.Error(err))
			writeJSON(w, logger, http.StatusInternalServerError, map[string]string{"error": "failed to load leaderboard"})
			return
		}
		writeJSON(w, logger, http.StatusOK, records)
	})
	mux.HandleFunc("GET /api/replays/{id}", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Replays == nil {
			writeJSON(w, logger, http.StatusServiceUnavailable, map[string]string{"error": "replays unavailable"})
			return
		}
		replay, err := cfg.Replays.LoadReplay(r.PathValue("id"))
		if errors.Is(err, game.ErrNoReplay) {
			writeJSON(w, logger, http.StatusNotFound, map[string]string{"error": "replay not found"})
			return
		}
		if err != nil {
			logger.Error("failed to load replay", zap.String("replay_id", r.PathValue("id")), zap.Error(err))
			writeJSON(w, logger, http.StatusInternalServerError, map[string]string{"error": "failed to load replay"})
			return
		}

		raw := r.URL.Query().Get("round")
		if raw == "" {
			writeJSON(w, logger, http.StatusOK, replayJSON{
				MatchID: replay.MatchID,
				Seed:    replay.Seed,
				Rounds:  replay.Size(),
				Final:   replay.Last(),
			})
			return
		}
		// Round 0 is the deal; round n is the state after the nth resolution.
		round, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, logger, http.StatusBadRequest, map[string]string{"error": "round must be a number"})
			return
		}
		snap := replay.StateAt(round)
		if snap == nil {
			writeJSON(w, logger, http.StatusNotFound, map[string]string{"error": "round not recorded"})
			return
		}
		writeJSON(w, logger, http.StatusOK, snap)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write response", zap.Error(err))
	}
}

// ServeHTTP serves handler on lis until ctx is cancelled, then shuts down
// within timeout.
func ServeHTTP(ctx context.Context, lis net.Listener, handler http.Handler, timeout time.Duration, logger *zap.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("starting HTTP server", zap.String("address", lis.Addr().String()))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP: %w", err)
		}
		<-serveErr
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	}
}

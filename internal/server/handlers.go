package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/quantfolio/rmtclean/internal/pipeline"
)

// Handlers serves the API endpoints. Pipeline results are memoized per
// configuration: the engine is a pure function, so the host owns the
// cache and an animation sweeping the same ratios pays for each point
// once.
type Handlers struct {
	mu       sync.RWMutex
	cache    map[pipeline.Config]*pipeline.Result
	upgrader websocket.Upgrader
	started  time.Time
}

// NewHandlers returns an empty handler set.
func NewHandlers() *Handlers {
	return &Handlers{
		cache: make(map[pipeline.Config]*pipeline.Result),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 8192,
			// Local-only server; the presentation layer runs on the
			// same host.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		started: time.Now(),
	}
}

// result runs the pipeline through the memoization cache.
func (h *Handlers) result(cfg pipeline.Config) (*pipeline.Result, error) {
	h.mu.RLock()
	cached, ok := h.cache[cfg]
	h.mu.RUnlock()
	if ok {
		return cached, nil
	}

	res, err := pipeline.Run(cfg)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.cache[cfg] = res
	h.mu.Unlock()

	return res, nil
}

// Health reports liveness and uptime.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}

// Analyze runs one pipeline invocation. Query parameters override the
// defaults: n, seed, q, power_steps, opt_steps, factors, loading_scale,
// bins.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	cfg, err := configFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.result(cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrInvalidParameter) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// sweepFrame is one streamed sweep step.
type sweepFrame struct {
	Step   int              `json:"step"`
	Steps  int              `json:"steps"`
	Result *pipeline.Result `json:"result"`
}

// Sweep upgrades to WebSocket and streams one result frame per aspect
// ratio between q_start and q_end, in order. The client drives animation
// timing; the engine just delivers frames as fast as it computes them.
func (h *Handlers) Sweep(w http.ResponseWriter, r *http.Request) {
	base, err := configFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	qStart := base.AspectRatio
	qEnd, err := queryFloat(r, "q_end", 0.85)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	steps, err := queryInt(r, "steps", 17)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if steps < 1 || steps > 500 {
		writeError(w, http.StatusBadRequest, errors.New("steps must be in [1,500]"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ratios := pipeline.Ratios(qStart, qEnd, steps)
	for i, q := range ratios {
		cfg := base
		cfg.AspectRatio = q

		res, err := h.result(cfg)
		if err != nil {
			_ = conn.WriteJSON(map[string]string{"error": err.Error()})
			return
		}
		if err := conn.WriteJSON(sweepFrame{Step: i, Steps: steps, Result: res}); err != nil {
			// Client went away mid-sweep; stale frames are discarded.
			log.Debug().Err(err).Int("step", i).Msg("sweep client disconnected")
			return
		}
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "sweep complete"))
}

// NotFound answers unknown routes with a JSON error.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, errors.New("unknown route"))
}

func configFromQuery(r *http.Request) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	var err error

	if cfg.AssetCount, err = queryInt(r, "n", cfg.AssetCount); err != nil {
		return cfg, err
	}
	seed, err := queryInt(r, "seed", int(cfg.Seed))
	if err != nil {
		return cfg, err
	}
	cfg.Seed = int64(seed)
	if cfg.AspectRatio, err = queryFloat(r, "q", cfg.AspectRatio); err != nil {
		return cfg, err
	}
	if cfg.PowerIterationSteps, err = queryInt(r, "power_steps", cfg.PowerIterationSteps); err != nil {
		return cfg, err
	}
	if cfg.OptimizerSteps, err = queryInt(r, "opt_steps", cfg.OptimizerSteps); err != nil {
		return cfg, err
	}
	if cfg.NumFactors, err = queryInt(r, "factors", cfg.NumFactors); err != nil {
		return cfg, err
	}
	if cfg.LoadingScale, err = queryFloat(r, "loading_scale", cfg.LoadingScale); err != nil {
		return cfg, err
	}
	if cfg.HistogramBins, err = queryInt(r, "bins", cfg.HistogramBins); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("parameter " + key + " must be an integer")
	}

	return v, nil
}

func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("parameter " + key + " must be a number")
	}

	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

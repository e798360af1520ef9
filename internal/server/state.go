package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/souffle/internal/breath"
)

// StateHandler publishes the latest engine snapshot. Safe for concurrent use.
type StateHandler struct {
	mu        sync.RWMutex
	state     breath.State
	published bool
	updatedAt time.Time
	now       func() time.Time
}

// NewStateHandler creates an empty handler. /state answers 503 until the first [StateHandler.Publish].
func NewStateHandler() *StateHandler {
	return &StateHandler{now: time.Now}
}

type exerciseView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

// StateView is the JSON body of GET /state.
type StateView struct {
	Exercise        exerciseView `json:"exercise"`
	Phase           string       `json:"phase"`
	Instruction     string       `json:"instruction"`
	ElapsedInPhase  int          `json:"elapsed_in_phase"`
	Remaining       int          `json:"remaining"`
	CycleCount      int          `json:"cycle_count"`
	CompletedCycles int          `json:"completed_cycles"`
	Running         bool         `json:"running"`
	Stopped         bool         `json:"stopped"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Routes returns the HTTP routes this handler serves.
func (h *StateHandler) Routes() []string {
	return []string{"/state", "/health"}
}

// Publish replaces the snapshot served by /state.
func (h *StateHandler) Publish(s breath.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = s
	h.published = true
	h.updatedAt = h.now()
}

// Consume publishes every snapshot from updates until the channel closes or ctx is done.
func (h *StateHandler) Consume(ctx context.Context, updates <-chan breath.State) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-updates:
			if !ok {
				return
			}
			h.Publish(s)
		}
	}
}

// View returns the current snapshot and whether one has been published.
func (h *StateHandler) View() (StateView, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.published {
		return StateView{}, false
	}
	s := h.state
	return StateView{
		Exercise: exerciseView{
			ID:      s.Exercise.ID,
			Name:    s.Exercise.Name,
			Pattern: s.Exercise.Pattern(),
		},
		Phase:           s.Phase.String(),
		Instruction:     breath.PhaseInstruction(s.Phase),
		ElapsedInPhase:  s.ElapsedInPhase,
		Remaining:       s.Remaining,
		CycleCount:      s.CycleCount,
		CompletedCycles: s.CompletedCycles(),
		Running:         s.Running,
		Stopped:         s.Stopped,
		UpdatedAt:       h.updatedAt,
	}, true
}

// ServeHTTP answers /state and /health.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view, ok := h.View()

	switch r.URL.Path {
	case "/health":
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "session": ok})
	case "/state":
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no breathing session"})
			return
		}
		writeJSON(w, http.StatusOK, view)
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// NewStateRouter builds the router for the state endpoint with logging, recovery and CORS.
func NewStateRouter(h *StateHandler, logger *log.Logger) *MuxRouter {
	r := NewRouter()
	r.Use(RecoverMiddleware(logger), LoggingMiddleware(logger), CORSMiddleware)
	r.Handler(h)
	return r
}

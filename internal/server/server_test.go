package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/souffle/internal/breath"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestMuxRouter(t *testing.T) {
	t.Run("method filtering", func(t *testing.T) {
		r := NewRouter()
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("pong"))
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("GET /ping = %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST /ping = %d, want 405", rec.Code)
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET /missing = %d, want 404", rec.Code)
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var calls []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					calls = append(calls, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle(http.MethodGet, "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			calls = append(calls, "handler")
		}))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if strings.Join(calls, ",") != "first,second,handler" {
			t.Errorf("unexpected call order: %v", calls)
		}
	})

	t.Run("recover middleware", func(t *testing.T) {
		r := NewRouter()
		r.Use(RecoverMiddleware(quietLogger()))
		r.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestStateHandler(t *testing.T) {
	ex := breath.Exercise{ID: "default-748", Name: "Exercice 7-4-8", InhaleSeconds: 7, HoldSeconds: 4, ExhaleSeconds: 8}

	get := func(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
		t.Helper()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON from %s: %v (%s)", path, err, rec.Body.String())
		}
		return rec, body
	}

	t.Run("before first publish", func(t *testing.T) {
		router := NewStateRouter(NewStateHandler(), quietLogger())

		rec, _ := get(t, router, "/state")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rec.Code)
		}

		rec, body := get(t, router, "/health")
		if rec.Code != http.StatusOK || body["session"] != false {
			t.Errorf("unexpected health: %d %v", rec.Code, body)
		}
	})

	t.Run("serves latest snapshot", func(t *testing.T) {
		h := NewStateHandler()
		fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		h.now = func() time.Time { return fixed }
		router := NewStateRouter(h, quietLogger())

		h.Publish(breath.State{Exercise: ex, Phase: breath.Inhale, Remaining: 7, CycleCount: 1, Running: true})
		h.Publish(breath.State{Exercise: ex, Phase: breath.Hold, ElapsedInPhase: 1, Remaining: 3, CycleCount: 2, Running: true})

		rec, body := get(t, router, "/state")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("expected CORS header")
		}
		if body["phase"] != "hold" || body["remaining"] != float64(3) || body["completed_cycles"] != float64(1) {
			t.Errorf("unexpected body: %v", body)
		}
		if body["instruction"] != breath.PhaseInstruction(breath.Hold) {
			t.Errorf("unexpected instruction: %v", body["instruction"])
		}
		exercise := body["exercise"].(map[string]any)
		if exercise["pattern"] != "7-4-8" {
			t.Errorf("unexpected exercise: %v", exercise)
		}
		if body["updated_at"] != "2025-01-02T03:04:05Z" {
			t.Errorf("unexpected updated_at: %v", body["updated_at"])
		}
	})

	t.Run("consume", func(t *testing.T) {
		h := NewStateHandler()
		updates := make(chan breath.State, 2)
		updates <- breath.State{Exercise: ex, Phase: breath.Exhale, Remaining: 8, CycleCount: 3}
		close(updates)

		h.Consume(context.Background(), updates)

		view, ok := h.View()
		if !ok || view.Phase != "exhale" || view.CycleCount != 3 {
			t.Errorf("unexpected view: %+v %v", view, ok)
		}
	})

	t.Run("consume stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			NewStateHandler().Consume(ctx, make(chan breath.State))
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Consume did not return after cancel")
		}
	})
}

func TestServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	h := NewStateHandler()
	h.Publish(breath.State{Phase: breath.Inhale, CycleCount: 1, Running: true})
	srv := New(ln.Addr().String(), NewStateRouter(h, quietLogger()), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() { errs <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/state")
	if err != nil {
		t.Fatalf("GET /state failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errs:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

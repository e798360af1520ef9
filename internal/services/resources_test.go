package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/souffle/internal/meditation"
	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
	tu "github.com/desertthunder/souffle/internal/testing"
)

// backend routes requests by "METHOD path" and fails the test on anything else.
func backend(t *testing.T, routes map[string]http.HandlerFunc) *APIService {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		h, ok := routes[key]
		if !ok {
			t.Errorf("unexpected request %s", key)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(server.Close)
	return NewAPIService(server.URL, nil)
}

func decodeBody(t *testing.T, r *http.Request, v any) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		t.Errorf("failed to decode request body: %v", err)
	}
}

func TestExerciseService(t *testing.T) {
	ctx := context.Background()
	remote := models.Exercise{ID: "e1", Name: "Carré", Description: "4-4-4", Inhale: 4, Hold: 4, Exhale: 4}

	t.Run("List", func(t *testing.T) {
		svc := NewExerciseService(backend(t, map[string]http.HandlerFunc{
			"GET /exercices": tu.JSONHandler(http.StatusOK, []models.Exercise{remote}),
		}))

		got, err := svc.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 1 || got[0] != remote {
			t.Errorf("unexpected exercises: %+v", got)
		}
	})

	t.Run("Get", func(t *testing.T) {
		svc := NewExerciseService(backend(t, map[string]http.HandlerFunc{
			"GET /exercices/e1":      tu.JSONHandler(http.StatusOK, remote),
			"GET /exercices/missing": tu.JSONHandler(http.StatusNotFound, map[string]string{"error": "Exercice non trouvé"}),
		}))

		got, err := svc.Get(ctx, "e1")
		if err != nil || got.Name != "Carré" {
			t.Fatalf("Get = %+v, %v", got, err)
		}

		if _, err := svc.Get(ctx, "missing"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := svc.Get(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Create", func(t *testing.T) {
		svc := NewExerciseService(backend(t, map[string]http.HandlerFunc{
			"POST /exercices": func(w http.ResponseWriter, r *http.Request) {
				var in models.Exercise
				decodeBody(t, r, &in)
				if in.ID != "" {
					t.Errorf("create should not send an id, got %q", in.ID)
				}
				in.ID = "new"
				tu.JSONHandler(http.StatusCreated, map[string]any{"message": "Exercice créé avec succès", "exercice": in})(w, r)
			},
		}))

		created, err := svc.Create(ctx, models.Exercise{ID: "ignored", Name: "4-7-8", Inhale: 4, Hold: 7, Exhale: 8})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.ID != "new" || created.Hold != 7 {
			t.Errorf("unexpected created exercise: %+v", created)
		}

		if _, err := svc.Create(ctx, models.Exercise{Name: "bad", Inhale: 0, Exhale: 4}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Update And Delete", func(t *testing.T) {
		svc := NewExerciseService(backend(t, map[string]http.HandlerFunc{
			"PUT /exercices/e1": func(w http.ResponseWriter, r *http.Request) {
				var in models.Exercise
				decodeBody(t, r, &in)
				tu.JSONHandler(http.StatusOK, map[string]any{"exercice": in})(w, r)
			},
			"DELETE /exercices/e1": tu.JSONHandler(http.StatusForbidden, map[string]string{"error": "Accès administrateur requis"}),
		}))

		changed := remote
		changed.Exhale = 8
		updated, err := svc.Update(ctx, changed)
		if err != nil || updated.Exhale != 8 {
			t.Fatalf("Update = %+v, %v", updated, err)
		}

		if _, err := svc.Update(ctx, models.Exercise{Name: "x", Inhale: 1, Exhale: 1}); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}

		if err := svc.Delete(ctx, "e1"); !errors.Is(err, shared.ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestHealthService(t *testing.T) {
	ctx := context.Background()
	article := models.HealthArticle{ID: "a1", Title: "Sommeil", Text: "Dormir 8h"}

	svc := NewHealthService(backend(t, map[string]http.HandlerFunc{
		"GET /informations-sante/":   tu.JSONHandler(http.StatusOK, []models.HealthArticle{article}),
		"GET /informations-sante/a1": tu.JSONHandler(http.StatusOK, article),
		"POST /informations-sante/": func(w http.ResponseWriter, r *http.Request) {
			var in map[string]string
			decodeBody(t, r, &in)
			tu.JSONHandler(http.StatusCreated, models.HealthArticle{ID: "a2", Title: in["titre"], Text: in["texte"]})(w, r)
		},
		"PUT /informations-sante/a1": func(w http.ResponseWriter, r *http.Request) {
			var in map[string]string
			decodeBody(t, r, &in)
			if _, ok := in["texte"]; ok {
				t.Error("empty fields should not be sent")
			}
			tu.JSONHandler(http.StatusOK, models.HealthArticle{ID: "a1", Title: in["titre"], Text: article.Text})(w, r)
		},
		"DELETE /informations-sante/a1": tu.JSONHandler(http.StatusOK, map[string]string{"message": "Contenu supprimé avec succès"}),
	}))

	t.Run("List And Get", func(t *testing.T) {
		list, err := svc.List(ctx)
		if err != nil || len(list) != 1 {
			t.Fatalf("List = %+v, %v", list, err)
		}
		got, err := svc.Get(ctx, "a1")
		if err != nil || got.Title != "Sommeil" {
			t.Fatalf("Get = %+v, %v", got, err)
		}
	})

	t.Run("Create", func(t *testing.T) {
		created, err := svc.Create(ctx, models.HealthArticle{Title: "Stress", Text: "Respirer"})
		if err != nil || created.ID != "a2" || created.Text != "Respirer" {
			t.Fatalf("Create = %+v, %v", created, err)
		}
		if _, err := svc.Create(ctx, models.HealthArticle{Title: "only title"}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		updated, err := svc.Update(ctx, models.HealthArticle{ID: "a1", Title: "Sommeil réparateur"})
		if err != nil || updated.Title != "Sommeil réparateur" {
			t.Fatalf("Update = %+v, %v", updated, err)
		}
		if _, err := svc.Update(ctx, models.HealthArticle{ID: "a1"}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty update, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := svc.Delete(ctx, "a1"); err != nil {
			t.Errorf("Delete failed: %v", err)
		}
	})
}

func TestHistoryService(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 4, 2, 6, 15, 0, 0, time.UTC)

	svc := NewHistoryService(backend(t, map[string]http.HandlerFunc{
		"POST /historiques": func(w http.ResponseWriter, r *http.Request) {
			var in map[string]string
			decodeBody(t, r, &in)
			if in["id_exercice"] != "e1" || in["date_execution"] != "2025-04-02T06:15:00Z" {
				t.Errorf("unexpected history payload: %v", in)
			}
			tu.JSONHandler(http.StatusCreated, map[string]any{
				"message":    "Historique créé avec succès",
				"historique": map[string]string{"id": "h1", "id_exercice": "e1", "date_execution": in["date_execution"]},
			})(w, r)
		},
		"GET /historiques": tu.JSONHandler(http.StatusOK, []map[string]any{
			{"id": "h1", "date_execution": "2025-04-02T06:15:00", "exercice": map[string]any{"id": "e1", "nom": "Carré", "duree_inspiration": 4}},
		}),
	}))

	entry, err := svc.Record(ctx, "e1", at)
	if err != nil || entry.ID != "h1" {
		t.Fatalf("Record = %+v, %v", entry, err)
	}

	entries, err := svc.List(ctx)
	if err != nil || len(entries) != 1 {
		t.Fatalf("List = %+v, %v", entries, err)
	}
	if entries[0].Exercise == nil || entries[0].Exercise.Name != "Carré" {
		t.Errorf("expected embedded exercise, got %+v", entries[0].Exercise)
	}

	if _, err := svc.Record(ctx, "", at); !errors.Is(err, shared.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
}

func TestMeditationService(t *testing.T) {
	ctx := context.Background()
	med := models.Meditation{ID: "m1", Title: "Scan corporel", Minutes: 10, Instructions: []string{"Fermez les yeux"}}

	svc := NewMeditationService(backend(t, map[string]http.HandlerFunc{
		"GET /meditations/": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("type") != "body_scan" || q.Get("duree_max") != "15" || q.Get("tags") != "calme,soir" {
				t.Errorf("unexpected filter query: %s", r.URL.RawQuery)
			}
			tu.JSONHandler(http.StatusOK, map[string]any{"meditations": []models.Meditation{med}, "total": 1})(w, r)
		},
		"GET /meditations/m1": tu.JSONHandler(http.StatusOK, map[string]any{"meditation": med}),
		"POST /sessions/start": func(w http.ResponseWriter, r *http.Request) {
			var in map[string]any
			decodeBody(t, r, &in)
			if in["meditation_id"] != "m1" || in["humeur_avant"] != float64(4) {
				t.Errorf("unexpected start payload: %v", in)
			}
			tu.JSONHandler(http.StatusCreated, map[string]any{"session": models.MeditationSession{ID: "s1", MeditationID: "m1", Status: models.SessionInProgress, PlannedMinutes: 10}})(w, r)
		},
		"POST /sessions/s1/complete": func(w http.ResponseWriter, r *http.Request) {
			var in models.SessionOutcome
			decodeBody(t, r, &in)
			tu.JSONHandler(http.StatusOK, map[string]any{"session": models.MeditationSession{ID: "s1", Status: models.SessionCompleted, ActualSeconds: in.ActualSeconds, Note: in.Note}})(w, r)
		},
		"POST /sessions/s1/interrupt": tu.JSONHandler(http.StatusOK, map[string]any{"session": models.MeditationSession{ID: "s1", Status: models.SessionInterrupted}}),
	}))

	t.Run("List And Get", func(t *testing.T) {
		list, err := svc.List(ctx, MeditationFilter{Type: "body_scan", MaxMinutes: 15, Tags: []string{"calme", "soir"}})
		if err != nil || len(list) != 1 {
			t.Fatalf("List = %+v, %v", list, err)
		}
		got, err := svc.Get(ctx, "m1")
		if err != nil || got.Minutes != 10 {
			t.Fatalf("Get = %+v, %v", got, err)
		}
	})

	t.Run("Session Lifecycle", func(t *testing.T) {
		session, err := svc.StartSession(ctx, "m1", 4)
		if err != nil || session.Status != models.SessionInProgress {
			t.Fatalf("StartSession = %+v, %v", session, err)
		}

		done, err := svc.CompleteSession(ctx, "s1", models.SessionOutcome{ActualSeconds: 600, Note: 5, MoodAfter: 8})
		if err != nil || done.Status != models.SessionCompleted || done.ActualSeconds != 600 {
			t.Fatalf("CompleteSession = %+v, %v", done, err)
		}

		stopped, err := svc.InterruptSession(ctx, "s1", 120)
		if err != nil || stopped.Status != models.SessionInterrupted {
			t.Fatalf("InterruptSession = %+v, %v", stopped, err)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		if _, err := svc.StartSession(ctx, "m1", meditation.Mood(12)); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for mood 12, got %v", err)
		}
		if _, err := svc.CompleteSession(ctx, "s1", models.SessionOutcome{ActualSeconds: 60, Note: 9}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for note 9, got %v", err)
		}
		if _, err := svc.InterruptSession(ctx, "", 10); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/souffle/internal/breath"
)

func TestExercise(t *testing.T) {
	t.Run("Decode Backend Payload", func(t *testing.T) {
		payload := `{"id":"65a1","nom":"Cohérence","description":"5-5","duree_inspiration":5,"duree_apnee":0,"duree_expiration":5,"cree_par_admin":"Système","date_creation":"Mon, 01 Jan 2024 00:00:00 GMT"}`

		var ex Exercise
		if err := json.Unmarshal([]byte(payload), &ex); err != nil {
			t.Fatalf("failed to decode exercise: %v", err)
		}

		def := ex.ToDefinition()
		if def.ID != "65a1" || def.InhaleSeconds != 5 || def.HoldSeconds != 0 || def.ExhaleSeconds != 5 {
			t.Errorf("unexpected definition: %+v", def)
		}
		if ex.CreatedBy != "Système" {
			t.Errorf("expected creator Système, got %q", ex.CreatedBy)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tests := []struct {
			name    string
			ex      Exercise
			wantErr bool
		}{
			{"valid", Exercise{Name: "4-6", Inhale: 4, Exhale: 6}, false},
			{"missing name", Exercise{Inhale: 4, Exhale: 6}, true},
			{"zero exhale", Exercise{Name: "x", Inhale: 4}, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.ex.Validate()
				if (err != nil) != tt.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}

		err := Exercise{Name: "x", Inhale: 0, Exhale: 3}.Validate()
		if !errors.Is(err, breath.ErrInvalidExercise) {
			t.Errorf("expected ErrInvalidExercise, got %v", err)
		}
	})

	t.Run("Round Trip Definition", func(t *testing.T) {
		preset, _ := breath.Preset("default-748")
		if got := ExerciseFromDefinition(preset).ToDefinition(); got != preset {
			t.Errorf("round trip changed exercise: %+v", got)
		}
	})
}

func TestUser(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"_id":"abc","nom":"Martin","prenom":"Léa","email":"lea@example.com","role":"admin"}`), &u); err != nil {
		t.Fatalf("failed to decode user: %v", err)
	}

	if u.ID() != "abc" {
		t.Errorf("ID() = %q, want abc", u.ID())
	}
	if u.DisplayName() != "Léa Martin" {
		t.Errorf("DisplayName() = %q", u.DisplayName())
	}
	if !u.IsAdmin() {
		t.Error("expected admin role")
	}

	plain := User{PlainID: "42", Email: "x@example.com"}
	if plain.ID() != "42" || plain.DisplayName() != "x@example.com" {
		t.Errorf("unexpected fallback values: %q %q", plain.ID(), plain.DisplayName())
	}
}

func TestPreferencesUpdate(t *testing.T) {
	duration := func(v int) *int { return &v }
	text := func(v string) *string { return &v }
	on := true

	t.Run("Validate", func(t *testing.T) {
		tests := []struct {
			name    string
			update  PreferencesUpdate
			wantErr bool
		}{
			{"empty", PreferencesUpdate{}, true},
			{"duration in range", PreferencesUpdate{PreferredDuration: duration(5)}, false},
			{"duration upper bound", PreferencesUpdate{PreferredDuration: duration(120)}, false},
			{"duration too short", PreferencesUpdate{PreferredDuration: duration(4)}, true},
			{"duration too long", PreferencesUpdate{PreferredDuration: duration(121)}, true},
			{"known type", PreferencesUpdate{PreferredType: text("body_scan")}, false},
			{"unknown type", PreferencesUpdate{PreferredType: text("yoga")}, true},
			{"notifications only", PreferencesUpdate{Notifications: &on}, false},
			{"reminder time", PreferencesUpdate{ReminderTime: text("07:30")}, false},
			{"reminder hour out of range", PreferencesUpdate{ReminderTime: text("24:00")}, true},
			{"reminder minute out of range", PreferencesUpdate{ReminderTime: text("07:60")}, true},
			{"reminder without colon", PreferencesUpdate{ReminderTime: text("0730")}, true},
			{"reminder with letters", PreferencesUpdate{ReminderTime: text("ab:cd")}, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.update.Validate(); (err != nil) != tt.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}
	})

	t.Run("Apply keeps unset fields", func(t *testing.T) {
		current := Preferences{PreferredDuration: 10, PreferredType: "mindfulness", ReminderTime: "08:00"}
		got := PreferencesUpdate{PreferredDuration: duration(20), Notifications: &on}.Apply(current)

		want := Preferences{PreferredDuration: 20, PreferredType: "mindfulness", Notifications: true, ReminderTime: "08:00"}
		if got != want {
			t.Errorf("Apply() = %+v, want %+v", got, want)
		}
	})

	t.Run("Encode only set fields", func(t *testing.T) {
		data, err := json.Marshal(PreferencesUpdate{PreferredDuration: duration(15)})
		if err != nil {
			t.Fatalf("failed to encode update: %v", err)
		}
		if string(data) != `{"duree_preferee":15}` {
			t.Errorf("unexpected payload %s", data)
		}
	})
}

func TestNewAccount(t *testing.T) {
	valid := NewAccount{LastName: "Martin", FirstName: "Léa", Email: "lea@example.com", Password: "secret1"}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid account, got %v", err)
	}

	admin := valid
	admin.Role = "admin"
	if err := admin.Validate(); err != nil {
		t.Errorf("expected admin role to be accepted, got %v", err)
	}

	for name, account := range map[string]NewAccount{
		"missing last name": {FirstName: "Léa", Email: "lea@example.com", Password: "x"},
		"blank email":       {LastName: "Martin", FirstName: "Léa", Email: "  ", Password: "x"},
		"missing password":  {LastName: "Martin", FirstName: "Léa", Email: "lea@example.com"},
		"unknown role":      {LastName: "Martin", FirstName: "Léa", Email: "lea@example.com", Password: "x", Role: "root"},
	} {
		if err := account.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}

	if !(ProfileUpdate{}).Empty() || (ProfileUpdate{Email: "a@b.c"}).Empty() {
		t.Error("unexpected ProfileUpdate.Empty result")
	}
}

func TestPracticeRecord(t *testing.T) {
	ex, _ := breath.Preset("default-55")

	t.Run("Valid", func(t *testing.T) {
		r := NewPracticeRecord(0, ex, 3, 30, time.Now())
		if err := r.Validate(); err != nil {
			t.Errorf("unexpected validation error: %v", err)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		tests := []struct {
			name   string
			record *PracticeRecord
		}{
			{"missing exercise", NewPracticeRecord(0, breath.Exercise{Name: "x"}, 1, 10, time.Now())},
			{"negative cycles", NewPracticeRecord(0, ex, -1, 10, time.Now())},
			{"zero start", NewPracticeRecord(0, ex, 1, 10, time.Time{})},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.record.Validate(); err == nil {
					t.Error("expected validation error")
				}
			})
		}
	})
}

func TestCachedExercise(t *testing.T) {
	c := NewCachedExercise(0, breath.Exercise{ID: "r1", Name: "Box", InhaleSeconds: 4, HoldSeconds: 4, ExhaleSeconds: 4})
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
	if c.RemoteID() != "r1" {
		t.Errorf("RemoteID() = %q", c.RemoteID())
	}

	bad := NewCachedExercise(0, breath.Exercise{ID: "r2", Name: "Bad", InhaleSeconds: 0, ExhaleSeconds: 4})
	if err := bad.Validate(); err == nil {
		t.Error("expected invalid durations to fail validation")
	}
}

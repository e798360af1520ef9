package models

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/souffle/internal/breath"
)

// Exercise is a breathing exercise as served by GET /exercices.
type Exercise struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"nom"`
	Description string `json:"description"`
	Inhale      int    `json:"duree_inspiration"`
	Hold        int    `json:"duree_apnee"`
	Exhale      int    `json:"duree_expiration"`
	CreatedBy   string `json:"cree_par_admin,omitempty"`
	CreatedAt   string `json:"date_creation,omitempty"`
}

// ToDefinition converts the DTO into the engine's exercise definition.
func (e Exercise) ToDefinition() breath.Exercise {
	return breath.Exercise{
		ID:            e.ID,
		Name:          e.Name,
		Description:   e.Description,
		InhaleSeconds: e.Inhale,
		HoldSeconds:   e.Hold,
		ExhaleSeconds: e.Exhale,
	}
}

// ExerciseFromDefinition builds the DTO for an engine exercise.
func ExerciseFromDefinition(d breath.Exercise) Exercise {
	return Exercise{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Inhale:      d.InhaleSeconds,
		Hold:        d.HoldSeconds,
		Exhale:      d.ExhaleSeconds,
	}
}

// Validate mirrors the backend's checks on create and update.
func (e Exercise) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("exercise name is required")
	}
	return e.ToDefinition().Validate()
}

// HealthArticle is a piece of health information content from /informations-sante.
type HealthArticle struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"titre"`
	Text      string `json:"texte"`
	CreatedAt string `json:"date_creation,omitempty"`
	UpdatedAt string `json:"date_mise_a_jour,omitempty"`
}

// Validate requires a title and text, like the backend does.
func (h HealthArticle) Validate() error {
	if h.Title == "" || h.Text == "" {
		return fmt.Errorf("title and text are required")
	}
	return nil
}

// Preferences holds a user's meditation preferences.
type Preferences struct {
	PreferredDuration int    `json:"duree_preferee,omitempty"`
	PreferredType     string `json:"type_meditation_prefere,omitempty"`
	Notifications     bool   `json:"notifications"`
	DailyReminders    bool   `json:"rappels_quotidiens"`
	ReminderTime      string `json:"heure_rappel,omitempty"`
}

// User is the authenticated account. The backend sends either "_id" or "id".
type User struct {
	MongoID       string       `json:"_id,omitempty"`
	PlainID       string       `json:"id,omitempty"`
	LastName      string       `json:"nom"`
	FirstName     string       `json:"prenom"`
	Email         string       `json:"email"`
	Username      string       `json:"username,omitempty"`
	Role          string       `json:"role,omitempty"`
	Level         string       `json:"niveau_experience,omitempty"`
	TotalMinutes  int          `json:"temps_meditation_total,omitempty"`
	SessionsDone  int          `json:"sessions_completees,omitempty"`
	CurrentStreak int          `json:"streak_actuel,omitempty"`
	Preferences   *Preferences `json:"preferences,omitempty"`
	Active        bool         `json:"est_actif,omitempty"`
	CreatedAt     string       `json:"date_creation,omitempty"`
}

// ID returns whichever identifier the backend populated.
func (u User) ID() string {
	if u.MongoID != "" {
		return u.MongoID
	}
	return u.PlainID
}

// DisplayName joins first and last name, falling back to the email.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// IsAdmin reports whether the account may manage exercises and articles.
func (u User) IsAdmin() bool { return u.Role == "admin" }

// Registration is the payload for POST /auth/register.
type Registration struct {
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username"`
	Level     string `json:"niveau_experience,omitempty"`
}

// ProfileUpdate is the payload for PUT /users/profile. Empty fields are left unchanged.
type ProfileUpdate struct {
	LastName  string `json:"nom,omitempty"`
	FirstName string `json:"prenom,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	Level     string `json:"niveau_experience,omitempty"`
}

func (p ProfileUpdate) Empty() bool { return p == ProfileUpdate{} }

// Preference bounds enforced by the backend.
const (
	MinPreferredDuration = 5
	MaxPreferredDuration = 120
)

// MeditationTypes lists the accepted values of [Preferences.PreferredType].
var MeditationTypes = []string{"mindfulness", "respiration", "body_scan", "visualisation", "mantra"}

// PreferencesUpdate is the body of PUT /users/preferences. Nil fields are left unchanged.
type PreferencesUpdate struct {
	PreferredDuration *int    `json:"duree_preferee,omitempty"`
	PreferredType     *string `json:"type_meditation_prefere,omitempty"`
	Notifications     *bool   `json:"notifications,omitempty"`
	DailyReminders    *bool   `json:"rappels_quotidiens,omitempty"`
	ReminderTime      *string `json:"heure_rappel,omitempty"`
}

// Validate applies the backend's rules and rejects an update that sets nothing.
func (p PreferencesUpdate) Validate() error {
	if p == (PreferencesUpdate{}) {
		return fmt.Errorf("no preference to update")
	}
	if d := p.PreferredDuration; d != nil && (*d < MinPreferredDuration || *d > MaxPreferredDuration) {
		return fmt.Errorf("preferred duration %d is outside %d..%d minutes", *d, MinPreferredDuration, MaxPreferredDuration)
	}
	if t := p.PreferredType; t != nil && !slices.Contains(MeditationTypes, *t) {
		return fmt.Errorf("unknown meditation type %q (want one of %s)", *t, strings.Join(MeditationTypes, ", "))
	}
	if r := p.ReminderTime; r != nil && !validClock(*r) {
		return fmt.Errorf("reminder time %q is not HH:MM", *r)
	}
	return nil
}

// Apply merges the set fields of p into prefs.
func (p PreferencesUpdate) Apply(prefs Preferences) Preferences {
	if p.PreferredDuration != nil {
		prefs.PreferredDuration = *p.PreferredDuration
	}
	if p.PreferredType != nil {
		prefs.PreferredType = *p.PreferredType
	}
	if p.Notifications != nil {
		prefs.Notifications = *p.Notifications
	}
	if p.DailyReminders != nil {
		prefs.DailyReminders = *p.DailyReminders
	}
	if p.ReminderTime != nil {
		prefs.ReminderTime = *p.ReminderTime
	}
	return prefs
}

// validClock accepts a 24-hour "HH:MM".
func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h, errH := strconv.Atoi(s[:2])
	m, errM := strconv.Atoi(s[3:])
	return errH == nil && errM == nil && h >= 0 && h <= 23 && m >= 0 && m <= 59
}

// NewAccount is the payload an admin sends to POST /users.
type NewAccount struct {
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	Email     string `json:"email"`
	Password  string `json:"mot_de_passe"`
	Role      string `json:"role,omitempty"`
}

// Validate requires the fields the backend marks as mandatory.
func (a NewAccount) Validate() error {
	switch {
	case strings.TrimSpace(a.LastName) == "":
		return fmt.Errorf("last name is required")
	case strings.TrimSpace(a.FirstName) == "":
		return fmt.Errorf("first name is required")
	case strings.TrimSpace(a.Email) == "":
		return fmt.Errorf("email is required")
	case a.Password == "":
		return fmt.Errorf("password is required")
	}
	if a.Role != "" && a.Role != "admin" && a.Role != "utilisateur" {
		return fmt.Errorf("unknown role %q", a.Role)
	}
	return nil
}

// Meditation is a guided meditation.
type Meditation struct {
	ID           string   `json:"_id"`
	Title        string   `json:"titre"`
	Description  string   `json:"description"`
	Minutes      int      `json:"duree_minutes"`
	Type         string   `json:"type_meditation"`
	Difficulty   string   `json:"niveau_difficulte"`
	Instructions []string `json:"instructions"`
	Tags         []string `json:"tags"`
}

// SessionStatus is the lifecycle state of a meditation session.
type SessionStatus string

const (
	SessionInProgress  SessionStatus = "en_cours"
	SessionCompleted   SessionStatus = "completee"
	SessionInterrupted SessionStatus = "interrompue"
)

// MeditationSession is a user's run of a meditation.
type MeditationSession struct {
	ID             string        `json:"_id"`
	MeditationID   string        `json:"meditation_id"`
	Status         SessionStatus `json:"statut"`
	PlannedMinutes int           `json:"duree_prevue"`
	ActualSeconds  int           `json:"duree_reelle,omitempty"`
	MoodBefore     int           `json:"humeur_avant,omitempty"`
	MoodAfter      int           `json:"humeur_apres,omitempty"`
	Note           int           `json:"note,omitempty"`
	Comment        string        `json:"commentaire,omitempty"`
	StartedAt      string        `json:"date_debut,omitempty"`
	EndedAt        string        `json:"date_fin,omitempty"`
}

// SessionOutcome is the payload for completing or interrupting a session.
type SessionOutcome struct {
	ActualSeconds int    `json:"duree_reelle"`
	Note          int    `json:"note,omitempty"`
	Comment       string `json:"commentaire,omitempty"`
	MoodAfter     int    `json:"humeur_apres,omitempty"`
}

// HistoryExercise is the exercise summary embedded in history entries.
type HistoryExercise struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"nom"`
	Inhale int    `json:"duree_inspiration"`
	Hold   int    `json:"duree_apnee"`
	Exhale int    `json:"duree_expiration"`
}

// HistoryEntry is one execution recorded by /historiques.
type HistoryEntry struct {
	ID         string           `json:"id,omitempty"`
	ExecutedAt string           `json:"date_execution,omitempty"`
	ExerciseID string           `json:"id_exercice,omitempty"`
	Exercise   *HistoryExercise `json:"exercice,omitempty"`
}

package breath

import (
	"errors"
	"fmt"
)

// ErrInvalidExercise is returned by [Engine.Start] when an exercise's durations are malformed.
var ErrInvalidExercise = errors.New("invalid exercise")

// Exercise describes a named breathing technique by its phase durations in whole seconds.
//
// A HoldSeconds of zero skips the Hold phase.
type Exercise struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	InhaleSeconds int    `json:"inhale_seconds"`
	HoldSeconds   int    `json:"hold_seconds"`
	ExhaleSeconds int    `json:"exhale_seconds"`
}

// Validate checks that inhale and exhale last at least one second and hold is not negative.
func (e Exercise) Validate() error {
	switch {
	case e.InhaleSeconds < 1:
		return fmt.Errorf("%w: inhale must be at least 1 second, got %d", ErrInvalidExercise, e.InhaleSeconds)
	case e.ExhaleSeconds < 1:
		return fmt.Errorf("%w: exhale must be at least 1 second, got %d", ErrInvalidExercise, e.ExhaleSeconds)
	case e.HoldSeconds < 0:
		return fmt.Errorf("%w: hold cannot be negative, got %d", ErrInvalidExercise, e.HoldSeconds)
	}
	return nil
}

// CycleSeconds is the length of one full cycle.
func (e Exercise) CycleSeconds() int {
	return e.InhaleSeconds + e.HoldSeconds + e.ExhaleSeconds
}

// Pattern renders the durations as "7-4-8", or "5-5" when there is no hold.
func (e Exercise) Pattern() string {
	if e.HoldSeconds == 0 {
		return fmt.Sprintf("%d-%d", e.InhaleSeconds, e.ExhaleSeconds)
	}
	return fmt.Sprintf("%d-%d-%d", e.InhaleSeconds, e.HoldSeconds, e.ExhaleSeconds)
}

// Duration returns the configured length of phase p.
func (e Exercise) Duration(p Phase) int {
	switch p {
	case Hold:
		return e.HoldSeconds
	case Exhale:
		return e.ExhaleSeconds
	default:
		return e.InhaleSeconds
	}
}

// Presets returns the built-in exercises used when no exercise source is reachable.
func Presets() []Exercise {
	return []Exercise{
		{
			ID:            "default-748",
			Name:          "Exercice 7-4-8",
			Description:   "Technique de respiration relaxante pour réduire le stress et favoriser le sommeil",
			InhaleSeconds: 7,
			HoldSeconds:   4,
			ExhaleSeconds: 8,
		},
		{
			ID:            "default-55",
			Name:          "Exercice 5-5",
			Description:   "Respiration équilibrée pour harmoniser le système nerveux",
			InhaleSeconds: 5,
			HoldSeconds:   0,
			ExhaleSeconds: 5,
		},
		{
			ID:            "default-46",
			Name:          "Exercice 4-6",
			Description:   "Respiration apaisante avec expiration prolongée",
			InhaleSeconds: 4,
			HoldSeconds:   0,
			ExhaleSeconds: 6,
		},
	}
}

// Preset looks up a built-in exercise by ID.
func Preset(id string) (Exercise, bool) {
	for _, ex := range Presets() {
		if ex.ID == id {
			return ex, true
		}
	}
	return Exercise{}, false
}

// Benefits derives the benefit labels shown next to an exercise from its durations.
func Benefits(e Exercise) []string {
	var benefits []string

	if e.InhaleSeconds >= 6 {
		benefits = append(benefits, "Activation du système parasympathique")
	} else {
		benefits = append(benefits, "Améliore la concentration")
	}

	if e.HoldSeconds > 0 {
		benefits = append(benefits, "Développe la capacité pulmonaire", "Favorise la méditation")
	} else {
		benefits = append(benefits, "Facile à pratiquer")
	}

	switch {
	case e.ExhaleSeconds > e.InhaleSeconds:
		benefits = append(benefits, "Relaxation profonde", "Réduit le stress")
	case e.ExhaleSeconds == e.InhaleSeconds:
		benefits = append(benefits, "Équilibre émotionnel")
	default:
		benefits = append(benefits, "Énergisant")
	}

	return benefits
}

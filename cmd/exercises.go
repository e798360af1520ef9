package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/souffle/internal/breath"
	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/services"
	"github.com/desertthunder/souffle/internal/shared"
	"github.com/desertthunder/souffle/internal/tasks"
	"github.com/urfave/cli/v3"
)

type exerciseListing struct {
	Source    string            `json:"source"`
	Exercises []breath.Exercise `json:"exercises"`
}

// ExercisesList prints the catalogue, reporting which source supplied it.
func (r *Runner) ExercisesList(ctx context.Context, cmd *cli.Command) error {
	result, err := r.catalog(cmd.Bool("offline")).Load(ctx, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(exerciseListing{Source: result.Source.String(), Exercises: result.Exercises}, true)
	}

	r.writePlainHeader(fmt.Sprintf("Exercises (%s)", result.Source))
	for _, ex := range result.Exercises {
		r.writePlain("%-14s %-28s %s\n", ex.ID, ex.Name, ex.Pattern())
	}
	if result.RemoteErr != nil && result.Source != tasks.SourceRemote {
		r.writePlainln("Backend unavailable: %v", result.RemoteErr)
	}
	if result.Skipped > 0 {
		r.writePlain("%d invalid exercises skipped\n", result.Skipped)
	}
	return nil
}

// ExercisesShow prints one exercise and its derived benefits.
func (r *Runner) ExercisesShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: exercise id", shared.ErrMissingArgument)
	}

	ex, source, err := r.catalog(cmd.Bool("offline")).Find(ctx, id, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"source":   source.String(),
			"exercise": ex,
			"benefits": breath.Benefits(ex),
		}, true)
	}

	r.writePlainHeader(ex.Name)
	r.writePlain("ID:      %s (%s)\n", ex.ID, source)
	r.writePlain("Pattern: %s\n", ex.Pattern())
	r.writePlain("Cycle:   %s\n", shared.FormatClock(ex.CycleSeconds()))
	if ex.Description != "" {
		r.writePlainln("%s", ex.Description)
	}
	r.writePlainln("Benefits:")
	for _, b := range breath.Benefits(ex) {
		r.writePlain("  • %s\n", b)
	}
	return nil
}

// ExercisesCreate adds an exercise to the backend.
func (r *Runner) ExercisesCreate(ctx context.Context, cmd *cli.Command) error {
	api, err := r.adminAPI(ctx)
	if err != nil {
		return err
	}

	ex := models.Exercise{
		Name:        strings.TrimSpace(cmd.String("name")),
		Description: cmd.String("description"),
		Inhale:      cmd.Int("inhale"),
		Hold:        cmd.Int("hold"),
		Exhale:      cmd.Int("exhale"),
	}

	created, err := services.NewExerciseService(api).Create(ctx, ex)
	if err != nil {
		return err
	}

	r.logger.Info("exercise created", "id", created.ID, "name", created.Name)
	return r.writePlain("✓ Created %s (%s) %s\n", created.Name, created.ID, created.ToDefinition().Pattern())
}

// ExercisesUpdate changes the flags given on the command line and keeps the other fields.
func (r *Runner) ExercisesUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: exercise id", shared.ErrMissingArgument)
	}

	api, err := r.adminAPI(ctx)
	if err != nil {
		return err
	}
	svc := services.NewExerciseService(api)

	current, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}

	changed := false
	if cmd.IsSet("name") {
		current.Name = strings.TrimSpace(cmd.String("name"))
		changed = true
	}
	if cmd.IsSet("description") {
		current.Description = cmd.String("description")
		changed = true
	}
	if cmd.IsSet("inhale") {
		current.Inhale = cmd.Int("inhale")
		changed = true
	}
	if cmd.IsSet("hold") {
		current.Hold = cmd.Int("hold")
		changed = true
	}
	if cmd.IsSet("exhale") {
		current.Exhale = cmd.Int("exhale")
		changed = true
	}
	if !changed {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	current.ID = id
	updated, err := svc.Update(ctx, *current)
	if err != nil {
		return err
	}

	r.logger.Info("exercise updated", "id", id)
	return r.writePlain("✓ Updated %s (%s) %s\n", updated.Name, id, updated.ToDefinition().Pattern())
}

// ExercisesDelete removes an exercise from the backend.
func (r *Runner) ExercisesDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: exercise id", shared.ErrMissingArgument)
	}

	api, err := r.adminAPI(ctx)
	if err != nil {
		return err
	}

	if err := services.NewExerciseService(api).Delete(ctx, id); err != nil {
		return err
	}

	r.logger.Info("exercise deleted", "id", id)
	return r.writePlain("✓ Deleted exercise %s\n", id)
}

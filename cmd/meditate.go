package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/desertthunder/souffle/internal/breath"
	"github.com/desertthunder/souffle/internal/meditation"
	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/services"
	"github.com/desertthunder/souffle/internal/shared"
	"github.com/desertthunder/souffle/internal/ui"
	"github.com/urfave/cli/v3"
)

// meditationPlan is everything a countdown needs before it starts.
type meditationPlan struct {
	minutes      int
	instructions []string
	guided       *models.Meditation
	session      *models.MeditationSession
	service      *services.MeditationService
}

// Meditate runs a countdown, tracking it as a backend session when --id is given and signed in.
func (r *Runner) Meditate(ctx context.Context, cmd *cli.Command) error {
	moodBefore := meditation.Mood(cmd.Int("mood-before"))
	moodAfter := meditation.Mood(cmd.Int("mood-after"))
	note := meditation.Rating(cmd.Int("note"))
	for _, v := range []interface{ Validate() error }{moodBefore, moodAfter, note} {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
	}

	plan, err := r.planMeditation(ctx, cmd, moodBefore)
	if err != nil {
		return err
	}

	timer, err := meditation.NewTimer(plan.minutes)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	quiet := cmd.Bool("quiet")
	if !quiet {
		title := fmt.Sprintf("Meditation  %d min", plan.minutes)
		if plan.guided != nil {
			title = fmt.Sprintf("%s  %d min", plan.guided.Title, plan.minutes)
		}
		r.writePlainHeader(title)
	}

	completed := r.countdown(runCtx, timer, plan.instructions, quiet)

	status := "Meditation interrupted"
	if completed {
		status = "Meditation complete"
	}
	r.writePlainln("%s", status)
	r.writePlain("Duration: %s of %s\n", shared.FormatClock(timer.Current()), shared.FormatClock(timer.Total()))

	if plan.session == nil {
		return nil
	}

	finishCtx := context.WithoutCancel(ctx)
	if completed {
		outcome := models.SessionOutcome{
			ActualSeconds: timer.Current(),
			Note:          int(note),
			Comment:       cmd.String("comment"),
			MoodAfter:     int(moodAfter),
		}
		if _, err := plan.service.CompleteSession(finishCtx, plan.session.ID, outcome); err != nil {
			return err
		}
		r.logger.Info("meditation session completed", "session", plan.session.ID, "seconds", timer.Current())
		return r.writePlain("Session saved to your account\n")
	}

	if _, err := plan.service.InterruptSession(finishCtx, plan.session.ID, timer.Current()); err != nil {
		return err
	}
	r.logger.Info("meditation session interrupted", "session", plan.session.ID, "seconds", timer.Current())
	return nil
}

// preferredMinutes is the signed-in user's preferred session length, or zero.
func (r *Runner) preferredMinutes() int {
	user := r.session.User()
	if user == nil || user.Preferences == nil {
		return 0
	}
	return user.Preferences.PreferredDuration
}

func (r *Runner) planMeditation(ctx context.Context, cmd *cli.Command, moodBefore meditation.Mood) (*meditationPlan, error) {
	plan := &meditationPlan{instructions: cmd.StringSlice("instruction")}

	if arg := cmd.StringArg("minutes"); arg != "" {
		minutes, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: minutes must be a whole number, got %q", shared.ErrInvalidArgument, arg)
		}
		plan.minutes = minutes
	}

	id := cmd.String("id")
	if id == "" {
		if plan.minutes == 0 {
			plan.minutes = r.preferredMinutes()
		}
		if plan.minutes == 0 {
			return nil, fmt.Errorf("%w: minutes", shared.ErrMissingArgument)
		}
		if len(plan.instructions) == 0 {
			plan.instructions = ui.DefaultInstructions
		}
		return plan, nil
	}

	api := r.api
	if r.session.Authenticated() {
		authed, err := r.authedAPI(ctx)
		if err != nil {
			return nil, err
		}
		api = authed
	}
	plan.service = services.NewMeditationService(api)

	guided, err := plan.service.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.guided = guided
	if plan.minutes == 0 {
		plan.minutes = guided.Minutes
	}
	if len(plan.instructions) == 0 {
		plan.instructions = guided.Instructions
	}
	if len(plan.instructions) == 0 {
		plan.instructions = ui.DefaultInstructions
	}

	if !r.session.Authenticated() {
		r.logger.Warn("not signed in, the session will not be saved to your account")
		return plan, nil
	}

	session, err := plan.service.StartSession(ctx, id, moodBefore)
	if err != nil {
		return nil, err
	}
	plan.session = session
	r.logger.Info("meditation session started", "session", session.ID, "meditation", guided.Title)
	return plan, nil
}

// countdown ticks the timer until it completes or ctx is cancelled, and reports completion.
func (r *Runner) countdown(ctx context.Context, timer *meditation.Timer, instructions []string, quiet bool) bool {
	clock := breath.NewTickerClock(r.config.Practice.TickInterval())
	defer clock.Stop()

	timer.Start()
	shown := ""
	for {
		if text := meditation.Instruction(instructions, timer.Current()); !quiet && text != shown {
			r.writePlain("%s  %s\n", shared.FormatClock(timer.Remaining()), text)
			shown = text
		}

		select {
		case <-ctx.Done():
			if !errors.Is(ctx.Err(), context.Canceled) {
				r.logger.Warn("meditation stopped", "error", ctx.Err())
			}
			timer.Pause()
			return false
		case <-clock.C():
			if timer.Tick() {
				return true
			}
		}
	}
}

// MeditationsList prints the guided meditations matching the filters.
func (r *Runner) MeditationsList(ctx context.Context, cmd *cli.Command) error {
	filter := services.MeditationFilter{
		Type:       cmd.String("type"),
		Level:      cmd.String("level"),
		MaxMinutes: cmd.Int("max-minutes"),
		Tags:       cmd.StringSlice("tag"),
	}

	meditations, err := services.NewMeditationService(r.api).List(ctx, filter)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(meditations, true)
	}

	r.writePlainHeader(fmt.Sprintf("Meditations (%d)", len(meditations)))
	for _, m := range meditations {
		r.writePlain("%-26s %-32s %3d min  %s/%s\n", m.ID, m.Title, m.Minutes, m.Type, m.Difficulty)
	}
	return nil
}

// MeditationsShow prints a meditation with its instructions.
func (r *Runner) MeditationsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: meditation id", shared.ErrMissingArgument)
	}

	m, err := services.NewMeditationService(r.api).Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(m, true)
	}

	r.writePlainHeader(m.Title)
	r.writePlain("Duration: %d min\n", m.Minutes)
	r.writePlain("Type:     %s\n", m.Type)
	r.writePlain("Level:    %s\n", m.Difficulty)
	if len(m.Tags) > 0 {
		r.writePlain("Tags:     %s\n", strings.Join(m.Tags, ", "))
	}
	if m.Description != "" {
		r.writePlainln("%s", m.Description)
	}
	if len(m.Instructions) > 0 {
		r.writePlainln("Instructions:")
		for i, step := range m.Instructions {
			r.writePlain("  %d. %s\n", i+1, step)
		}
	}
	return nil
}

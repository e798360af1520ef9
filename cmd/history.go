package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/desertthunder/souffle/internal/formatter"
	"github.com/desertthunder/souffle/internal/services"
	"github.com/desertthunder/souffle/internal/shared"
	"github.com/desertthunder/souffle/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// HistoryList prints the local practice log, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.practiceRepo()
	if err != nil {
		return err
	}

	criteria := map[string]any{"limit": cmd.Int("limit")}
	if exerciseID := cmd.String("exercise"); exerciseID != "" {
		criteria["exercise_id"] = exerciseID
	}
	if cmd.Bool("unsynced") {
		criteria["synced"] = false
	}

	records, err := repo.List(criteria)
	if err != nil {
		return err
	}

	practiceLog := formatter.PracticeLog{Records: records}
	if cmd.Bool("json") {
		return r.writeJSON(practiceLog.Rows(), true)
	}

	r.writePlainHeader(fmt.Sprintf("Practice log (%d)", len(records)))
	if len(records) == 0 {
		return r.writePlain("No sessions recorded yet. Try 'souffle breathe default-55 --cycles 3'.\n")
	}
	for _, row := range practiceLog.Rows() {
		synced := " "
		if row.Synced {
			synced = "✓"
		}
		r.writePlain("%s %s  %-24s %-7s %3d cycles  %s\n",
			synced, row.StartedAt.Local().Format("2006-01-02 15:04"), row.Exercise, row.Pattern, row.Cycles, shared.FormatClock(row.Seconds))
	}
	return nil
}

// HistoryRemote prints the executions the backend holds for the signed-in user.
func (r *Runner) HistoryRemote(ctx context.Context, cmd *cli.Command) error {
	api, err := r.authedAPI(ctx)
	if err != nil {
		return err
	}

	entries, err := services.NewHistoryService(api).List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	r.writePlainHeader(fmt.Sprintf("Backend history (%d)", len(entries)))
	for _, e := range entries {
		name := e.ExerciseID
		if e.Exercise != nil && e.Exercise.Name != "" {
			name = e.Exercise.Name
		}
		r.writePlain("%-28s %s\n", e.ExecutedAt, name)
	}
	return nil
}

// HistoryStats prints totals over the whole practice log.
func (r *Runner) HistoryStats(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.practiceRepo()
	if err != nil {
		return err
	}

	stats, err := repo.Stats()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Practice statistics")
	r.writePlain("Sessions:  %d\n", stats.Sessions)
	r.writePlain("Practised: %s\n", shared.FormatClock(stats.TotalSeconds))
	r.writePlain("Cycles:    %d\n", stats.TotalCycles)
	if stats.LastPractice != nil {
		r.writePlain("Last:      %s\n", stats.LastPractice.Local().Format("2006-01-02 15:04"))
	}
	if len(stats.ByExercise) > 0 {
		r.writePlainln("By exercise:")
		for _, name := range slices.Sorted(maps.Keys(stats.ByExercise)) {
			r.writePlain("  %-28s %d\n", name, stats.ByExercise[name])
		}
	}
	return nil
}

// HistoryExport writes the practice log with its statistics to a file or stdout.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.practiceRepo()
	if err != nil {
		return err
	}

	records, err := repo.List(nil)
	if err != nil {
		return err
	}
	stats, err := repo.Stats()
	if err != nil {
		return err
	}

	format := cmd.String("format")
	practiceLog := formatter.PracticeLog{Records: records, Stats: stats}

	output := cmd.String("output")
	if output == "-" {
		return formatter.WriteExport(r.output, practiceLog, format)
	}

	path, err := formatter.WriteExportFile(practiceLog, format, output)
	if err != nil {
		return err
	}
	r.logger.Info("practice log exported", "path", path, "format", format, "records", len(records))
	return r.writePlain("✓ Exported %d sessions to %s\n", len(records), path)
}

// HistorySync posts unsynced sessions to the backend with a small worker pool.
func (r *Runner) HistorySync(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.practiceRepo()
	if err != nil {
		return err
	}

	history := r.historyClient(ctx)
	if history == nil {
		return fmt.Errorf("%w: run 'souffle auth login' first", shared.ErrNotAuthenticated)
	}

	syncer := tasks.NewHistorySync(repo, history, tasks.SyncOpts{
		Workers:   cmd.Int("workers"),
		RateLimit: rate.Limit(r.config.API.RateLimit),
		Burst:     r.config.API.Burst,
	}, r.logger)

	progress := make(chan tasks.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := syncer.Run(ctx, progress)
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	r.writePlainln("Synced %d of %d sessions (%d failed, %d built-in skipped)", result.Synced, result.Total, result.Failed, result.Skipped)
	for _, e := range result.Errors {
		r.logger.Warn("sync failure", "error", e)
	}
	return nil
}

// HistoryDelete removes a session from the local log.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: session id", shared.ErrMissingArgument)
	}

	repo, err := r.practiceRepo()
	if err != nil {
		return err
	}

	if err := repo.Delete(id); err != nil {
		return err
	}

	r.logger.Info("practice record deleted", "id", id)
	return r.writePlain("✓ Deleted session %s\n", id)
}

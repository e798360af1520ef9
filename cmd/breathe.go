package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/desertthunder/souffle/internal/breath"
	"github.com/desertthunder/souffle/internal/server"
	"github.com/desertthunder/souffle/internal/shared"
	"github.com/desertthunder/souffle/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Breathe drives one exercise headless until the limit, a stop command, or an interrupt.
func (r *Runner) Breathe(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: exercise id", shared.ErrMissingArgument)
	}

	cycles := r.config.Practice.DefaultCycles
	if cmd.IsSet("cycles") {
		cycles = cmd.Int("cycles")
	}
	if cycles < 0 {
		return fmt.Errorf("%w: --cycles must not be negative", shared.ErrInvalidFlag)
	}
	if cmd.Duration("duration") < 0 {
		return fmt.Errorf("%w: --duration must not be negative", shared.ErrInvalidFlag)
	}
	limit := breath.Limit{Cycles: cycles, Duration: cmd.Duration("duration")}
	quiet := cmd.Bool("quiet")

	ex, source, err := r.catalog(cmd.Bool("offline")).Find(ctx, id, nil)
	if err != nil {
		return err
	}

	engine := breath.NewEngine()
	if _, err := engine.Start(ex); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := breath.NewDriver(engine, breath.NewTickerClock(r.config.Practice.TickInterval()),
		breath.WithLimit(limit), breath.WithDriverLogger(r.logger))

	var published chan breath.State
	var consumer sync.WaitGroup
	serveErrors := make(chan error, 1)
	serveCtx, stopServing := context.WithCancel(runCtx)
	defer stopServing()
	if cmd.Bool("serve") {
		state := server.NewStateHandler()
		published = make(chan breath.State, 8)
		consumer.Add(1)
		go func() {
			defer consumer.Done()
			state.Consume(serveCtx, published)
		}()

		srv := server.New(cmd.String("addr"), server.NewStateRouter(state, r.logger), r.logger)
		go func() { serveErrors <- srv.ListenAndServe(serveCtx) }()
	} else {
		close(serveErrors)
	}

	r.logger.Info("starting breathing session", "exercise", ex.Name, "source", source, "cycles", limit.Cycles, "duration", limit.Duration)
	if !quiet {
		r.writePlainHeader(fmt.Sprintf("%s  %s", ex.Name, ex.Pattern()))
		if cmd.Bool("interactive") {
			r.writePlain("Commands: p pause, c continue, r restart, s stop\n")
		}
	}

	updates := make(chan breath.State, 8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.followState(serveCtx, updates, published, quiet)
	}()

	if cmd.Bool("interactive") {
		go r.readCommands(runCtx, driver)
	}

	summary, runErr := driver.Run(runCtx, updates)
	close(updates)
	wg.Wait()
	if published != nil {
		close(published)
	}
	consumer.Wait()
	stopServing()
	if err := <-serveErrors; err != nil {
		r.logger.Warn("state server stopped with error", "error", err)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	r.printBreathingSummary(summary)

	if cmd.Bool("no-record") {
		return nil
	}
	return r.recordBreathing(context.WithoutCancel(ctx), summary)
}

// followState prints phase changes and forwards snapshots to publish when it is set.
func (r *Runner) followState(ctx context.Context, updates <-chan breath.State, publish chan<- breath.State, quiet bool) {
	var last breath.State
	first := true
	for s := range updates {
		if publish != nil {
			select {
			case publish <- s:
			case <-ctx.Done():
			}
		}
		if quiet {
			continue
		}

		switch {
		case first || s.Phase != last.Phase || s.CycleCount != last.CycleCount:
			if s.Running || first {
				r.writePlain("[cycle %d] %-7s %ds\n", s.CycleCount, breath.PhaseInstruction(s.Phase), s.Exercise.Duration(s.Phase))
			}
		case last.Running && !s.Running:
			r.writePlain("paused\n")
		case !last.Running && s.Running:
			r.writePlain("resumed\n")
		}
		last, first = s, false
	}
}

// readCommands maps stdin lines onto driver commands until the driver finishes.
func (r *Runner) readCommands(ctx context.Context, driver *breath.Driver) {
	scanner := bufio.NewScanner(r.input)
	for scanner.Scan() {
		var command breath.Command
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "p", "pause":
			command = breath.CmdPause
		case "c", "continue", "resume":
			command = breath.CmdResume
		case "r", "restart":
			command = breath.CmdRestart
		case "s", "stop", "q":
			command = breath.CmdStop
		case "":
			continue
		default:
			r.writePlain("unknown command %q\n", scanner.Text())
			continue
		}

		if err := driver.Send(ctx, command); err != nil {
			r.logger.Debug("command not delivered", "cmd", command, "error", err)
			return
		}
	}
}

func (r *Runner) printBreathingSummary(s breath.Summary) {
	r.writePlainln("Session complete")
	r.writePlain("Exercise:  %s (%s)\n", s.Final.Exercise.Name, s.Final.Exercise.Pattern())
	r.writePlain("Cycles:    %d\n", s.Final.CompletedCycles())
	r.writePlain("Practised: %s\n", shared.FormatClock(s.Practised))
}

func (r *Runner) recordBreathing(ctx context.Context, s breath.Summary) error {
	if s.Practised == 0 {
		r.logger.Info("nothing practised, session not recorded")
		return nil
	}

	rec, err := r.recorder(ctx)
	if err != nil {
		r.logger.Warn("practice log unavailable, session not recorded", "error", err)
		return nil
	}

	result, err := rec.RecordSummary(ctx, s)
	if err != nil {
		return err
	}

	switch {
	case result.Synced:
		r.writePlain("Saved to the practice log and backend history\n")
	case result.SyncErr != nil:
		r.writePlain("Saved locally; backend history failed (run 'souffle history sync')\n")
	case !tasks.Syncable(result.Record):
		r.writePlain("Saved to the practice log (built-in exercise)\n")
	default:
		r.writePlain("Saved to the practice log\n")
	}
	return nil
}

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/souffle/internal/repositories"
	"github.com/desertthunder/souffle/internal/services"
	"github.com/desertthunder/souffle/internal/shared"
	"github.com/desertthunder/souffle/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIService
	session    *services.Session
	db         *sql.DB
	ownsDB     bool
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	Session    *services.Session
	DB         *sql.DB // opened lazily from Config.Database when nil
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.API.BaseURL, nil)
	}
	if opts.Session == nil {
		opts.Session = services.NewSession(opts.API, nil, opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		session:    opts.Session,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, exercisesCommand, breatheCommand, meditateCommand, meditationsCommand,
		healthCommand, authCommand, profileCommand, usersCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database if the runner opened it.
func (r *Runner) Close() error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// database opens the configured database with migrations applied, once.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}
	db, err := shared.OpenMigrated(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.ownsDB = true
	return db, nil
}

func (r *Runner) practiceRepo() (*repositories.PracticeRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewPracticeRepository(db), nil
}

// catalog builds the exercise catalogue. The cache is skipped, with a warning, when the database is unavailable.
func (r *Runner) catalog(offline bool) *tasks.ExerciseCatalog {
	var source tasks.ExerciseSource
	if !offline {
		source = services.NewExerciseService(r.api)
	}

	var cache tasks.ExerciseCache
	if db, err := r.database(); err != nil {
		r.logger.Warn("exercise cache unavailable", "error", err)
	} else {
		cache = repositories.NewExerciseCacheRepository(db)
	}
	return tasks.NewExerciseCatalog(source, cache, r.logger)
}

// authedAPI returns an API client that carries the session's bearer token.
func (r *Runner) authedAPI(ctx context.Context) (*services.APIService, error) {
	return r.session.API(ctx)
}

// adminAPI is [Runner.authedAPI] restricted to admin accounts.
func (r *Runner) adminAPI(ctx context.Context) (*services.APIService, error) {
	if err := r.session.RequireAdmin(); err != nil {
		return nil, err
	}
	return r.session.API(ctx)
}

// historyClient returns the backend history client, or nil when signed out.
func (r *Runner) historyClient(ctx context.Context) tasks.HistoryRecorder {
	if !r.session.Authenticated() {
		return nil
	}
	api, err := r.session.API(ctx)
	if err != nil {
		r.logger.Warn("history unavailable", "error", err)
		return nil
	}
	return services.NewHistoryService(api)
}

func (r *Runner) recorder(ctx context.Context) (*tasks.PracticeRecorder, error) {
	repo, err := r.practiceRepo()
	if err != nil {
		return nil, err
	}
	return tasks.NewPracticeRecorder(repo, r.historyClient(ctx), r.logger), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// decodeJSON is used by commands that accept raw JSON payloads.
func decodeJSON(data string, v any) error {
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", shared.ErrInvalidArgument, err)
	}
	return nil
}

package breath

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// ErrDriverDone is returned when a command is sent to a driver that is no longer running.
var ErrDriverDone = errors.New("driver is not running")

// Command is a user control delivered to a running Driver.
type Command int

const (
	CmdPause Command = iota
	CmdResume
	CmdRestart
	CmdStop
)

func (c Command) String() string {
	switch c {
	case CmdPause:
		return "pause"
	case CmdResume:
		return "resume"
	case CmdRestart:
		return "restart"
	case CmdStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Limit bounds a headless run. Zero values mean no bound.
type Limit struct {
	Cycles   int           // completed cycles
	Duration time.Duration // practised time, excluding pauses
}

func (l Limit) reached(s State, practised int) bool {
	if l.Cycles > 0 && s.CompletedCycles() >= l.Cycles {
		return true
	}
	if l.Duration > 0 && time.Duration(practised)*time.Second >= l.Duration {
		return true
	}
	return false
}

// Summary describes a finished drive loop.
type Summary struct {
	Final     State // last snapshot before the engine was stopped
	Practised int   // seconds ticked while running
	StartedAt time.Time
	EndedAt   time.Time
}

// Driver owns one Engine and one Clock and serialises ticks and commands onto a single goroutine.
type Driver struct {
	engine   *Engine
	clock    Clock
	limit    Limit
	logger   *log.Logger
	commands chan Command
	done     chan struct{}
	now      func() time.Time
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithLimit stops the loop once l is reached.
func WithLimit(l Limit) DriverOption {
	return func(d *Driver) { d.limit = l }
}

// WithDriverLogger logs phase transitions and commands at debug level.
func WithDriverLogger(l *log.Logger) DriverOption {
	return func(d *Driver) { d.logger = l }
}

// NewDriver pairs a started engine with a clock.
func NewDriver(engine *Engine, clock Clock, opts ...DriverOption) *Driver {
	d := &Driver{
		engine:   engine,
		clock:    clock,
		commands: make(chan Command),
		done:     make(chan struct{}),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send delivers cmd to the drive loop and returns once the loop has accepted it.
func (d *Driver) Send(ctx context.Context, cmd Command) error {
	select {
	case d.commands <- cmd:
		return nil
	case <-d.done:
		return ErrDriverDone
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Driver) Pause(ctx context.Context) error   { return d.Send(ctx, CmdPause) }
func (d *Driver) Resume(ctx context.Context) error  { return d.Send(ctx, CmdResume) }
func (d *Driver) Restart(ctx context.Context) error { return d.Send(ctx, CmdRestart) }
func (d *Driver) Stop(ctx context.Context) error    { return d.Send(ctx, CmdStop) }

// Done is closed when Run returns.
func (d *Driver) Done() <-chan struct{} { return d.done }

// Run drives the engine until ctx is cancelled, a Stop command arrives, or the limit is reached.
//
// Snapshots are offered on updates without blocking; a slow reader misses intermediate states.
// updates may be nil. Run stops the clock and the engine before returning, and returns ctx.Err()
// on cancellation along with the summary so far.
func (d *Driver) Run(ctx context.Context, updates chan<- State) (Summary, error) {
	defer close(d.done)
	defer d.clock.Stop()

	summary := Summary{StartedAt: d.now()}
	finish := func(err error) (Summary, error) {
		summary.Final = d.engine.State()
		summary.EndedAt = d.now()
		d.engine.Stop()
		return summary, err
	}

	d.emit(updates)
	for {
		select {
		case <-ctx.Done():
			return finish(ctx.Err())
		case cmd := <-d.commands:
			d.debug("command", "cmd", cmd)
			switch cmd {
			case CmdPause:
				d.engine.Pause()
			case CmdResume:
				d.engine.Resume()
			case CmdRestart:
				d.engine.Restart()
			case CmdStop:
				return finish(nil)
			}
			d.emit(updates)
		case <-d.clock.C():
			if !d.engine.Running() {
				continue
			}
			before := d.engine.State()
			d.engine.Tick()
			summary.Practised++
			after := d.engine.State()
			if after.Phase != before.Phase {
				d.debug("phase", "from", before.Phase, "to", after.Phase, "cycle", after.CycleCount)
			}
			d.emit(updates)
			if d.limit.reached(after, summary.Practised) {
				return finish(nil)
			}
		}
	}
}

func (d *Driver) emit(updates chan<- State) {
	if updates == nil {
		return
	}
	select {
	case updates <- d.engine.State():
	default:
	}
}

func (d *Driver) debug(msg string, keyvals ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, keyvals...)
	}
}

// Package orchestrator runs one cooperative per-UE decision loop, ticking
// at a configurable interval and dispatching its domain tick function
// (snapshot -> events -> access -> predictor) while accepting pause/
// resume/interval-change commands, generalizing the teacher's scheduler
// runner shape to a per-UE worker (spec.md §5, §4.10).
package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// CommandKind identifies a control-plane command sent to a running
// Runner.
type CommandKind int

const (
	CommandPause CommandKind = iota
	CommandResume
	CommandSetInterval
	CommandShutdown
)

// Command is one control-plane instruction for a Runner.
type Command struct {
	Kind     CommandKind
	Interval time.Duration // only meaningful for CommandSetInterval
}

// TickFunc performs one tick's worth of domain work (build a snapshot,
// evaluate events, select access, predict) and returns a result to
// publish. A nil result with a nil error means "nothing to publish this
// tick" (e.g. a TLE temporarily out of validity).
type TickFunc func(ctx context.Context, now time.Time) (result any, err error)

// Sink receives published tick results and tick-processing errors. Its
// single method each is called from the Runner's own goroutine, so
// implementations must not block for long or they will delay the UE's
// next tick.
type Sink interface {
	Publish(ue string, result any)
	PublishError(ue string, err error)
}

// Runner drives one UE's cooperative decision loop. It is created paused
// or running per the initial state passed to NewRunner, and is driven
// entirely by its own goroutine started by Run.
type Runner struct {
	ue       string
	tick     TickFunc
	sink     Sink
	commands chan Command

	interval atomic.Int64 // time.Duration, nanoseconds
	paused   atomic.Bool

	tickCount atomic.Int64
}

// NewRunner builds a Runner for one UE with the given initial tick
// interval. It does not start until Run is called.
func NewRunner(ue string, interval time.Duration, tick TickFunc, sink Sink) *Runner {
	r := &Runner{
		ue:       ue,
		tick:     tick,
		sink:     sink,
		commands: make(chan Command, 8),
	}
	r.interval.Store(int64(interval))
	return r
}

// Run blocks, driving the UE's tick loop until ctx is cancelled or a
// CommandShutdown is received. Ticks arriving while the Runner is paused
// are dropped, not queued (spec.md §5's dropped-not-queued discipline).
func (r *Runner) Run(ctx context.Context) error {
	timer := time.NewTimer(r.currentInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-r.commands:
			switch cmd.Kind {
			case CommandPause:
				r.paused.Store(true)
			case CommandResume:
				r.paused.Store(false)
			case CommandSetInterval:
				r.interval.Store(int64(cmd.Interval))
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(r.currentInterval())
			case CommandShutdown:
				return nil
			}

		case now := <-timer.C:
			if r.paused.Load() {
				timer.Reset(r.currentInterval())
				continue
			}

			result, err := r.tick(ctx, now)
			r.tickCount.Add(1)
			if err != nil {
				r.sink.PublishError(r.ue, fmt.Errorf("orchestrator: ue %s tick: %w", r.ue, err))
			} else if result != nil {
				r.sink.Publish(r.ue, result)
			}

			timer.Reset(r.currentInterval())
		}
	}
}

func (r *Runner) currentInterval() time.Duration {
	return time.Duration(r.interval.Load())
}

// Send delivers a command to the Runner's control channel. It does not
// block on processing; the command is applied on the Runner's next
// select iteration.
func (r *Runner) Send(cmd Command) {
	select {
	case r.commands <- cmd:
	default:
		// Command channel full: drop, matching the tick-drop discipline
		// rather than risk blocking the caller.
	}
}

// Pause requests the Runner stop producing ticks until Resume.
func (r *Runner) Pause() { r.Send(Command{Kind: CommandPause}) }

// Resume requests the Runner start producing ticks again.
func (r *Runner) Resume() { r.Send(Command{Kind: CommandResume}) }

// SetInterval requests the Runner adopt a new tick interval, typically
// driven by an accuracy.Tracker recommendation.
func (r *Runner) SetInterval(d time.Duration) { r.Send(Command{Kind: CommandSetInterval, Interval: d}) }

// Shutdown requests the Runner's Run loop return.
func (r *Runner) Shutdown() { r.Send(Command{Kind: CommandShutdown}) }

// IsPaused reports the Runner's current pause state.
func (r *Runner) IsPaused() bool { return r.paused.Load() }

// TickCount reports how many ticks this Runner has processed (paused
// ticks are not counted, since they are dropped before reaching tick()).
func (r *Runner) TickCount() int64 { return r.tickCount.Load() }

// Interval reports the Runner's current tick interval.
func (r *Runner) Interval() time.Duration { return r.currentInterval() }

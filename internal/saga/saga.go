// Package saga runs an ordered list of steps and, when one fails, undoes the
// steps that already completed by running their compensations in reverse.
package saga

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloudrent/pkg/log"

	"go.uber.org/zap"
)

// ErrCompensationFailed is matched by the error of a rollback in which at least one
// compensation failed. The external state is then unknown.
var ErrCompensationFailed = errors.New("saga: compensation failed")

// Step is one forward action with its compensating action. Compensate may be nil
// for steps with no external effect.
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

type Phase string

const (
	PhaseAction       Phase = "action"
	PhaseCompensation Phase = "compensation"
)

// Event is emitted after every action and compensation.
type Event struct {
	Saga  string
	ID    string
	Step  string
	Phase Phase
	Err   error
}

type Option func(s *Saga)

func WithLogger(logger *log.Logger) Option {
	return func(s *Saga) {
		s.logger = logger
	}
}

// WithObserver registers fn to receive every Event.
func WithObserver(fn func(Event)) Option {
	return func(s *Saga) {
		s.observers = append(s.observers, fn)
	}
}

type Saga struct {
	name      string
	id        string
	steps     []Step
	completed []int
	logger    *log.Logger
	observers []func(Event)
}

func New(name, id string, steps []Step, opts ...Option) *Saga {
	s := &Saga{
		name:   name,
		id:     id,
		steps:  steps,
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the steps in order. On the first failure it compensates the completed
// steps and returns an *Error; on success it returns nil and the saga stays ready for
// a later Compensate.
func (s *Saga) Run(ctx context.Context) error {
	logger := s.logger.WithContext(ctx).With(zap.String("saga", s.name), zap.String("saga_id", s.id))
	for i, step := range s.steps {
		err := step.Action(ctx)
		s.emit(step.Name, PhaseAction, err)
		if err != nil {
			logger.Warn("saga step failed", zap.String("step", step.Name), zap.Error(err))
			return s.rollback(ctx, step.Name, err)
		}
		logger.Debug("saga step done", zap.String("step", step.Name))
		s.completed = append(s.completed, i)
	}
	return nil
}

// Compensate undoes a saga whose steps all succeeded but whose outcome could not be
// made durable. cause is reported as the failure. Each compensation runs at most once
// over the saga's lifetime.
func (s *Saga) Compensate(ctx context.Context, cause error) error {
	return s.rollback(ctx, "", cause)
}

func (s *Saga) rollback(ctx context.Context, failedStep string, cause error) *Error {
	logger := s.logger.WithContext(ctx).With(zap.String("saga", s.name), zap.String("saga_id", s.id))
	e := &Error{Saga: s.name, ID: s.id, Step: failedStep, Cause: cause}
	for i := len(s.completed) - 1; i >= 0; i-- {
		step := s.steps[s.completed[i]]
		if step.Compensate == nil {
			continue
		}
		err := step.Compensate(ctx)
		s.emit(step.Name, PhaseCompensation, err)
		if err != nil {
			logger.Error("saga compensation failed", zap.String("step", step.Name), zap.Error(err))
			e.Failures = append(e.Failures, Failure{Step: step.Name, Err: err})
			continue
		}
		e.Compensated = append(e.Compensated, step.Name)
	}
	s.completed = nil
	return e
}

func (s *Saga) emit(step string, phase Phase, err error) {
	for _, fn := range s.observers {
		fn(Event{Saga: s.name, ID: s.id, Step: step, Phase: phase, Err: err})
	}
}

// Failure is a compensation that returned an error.
type Failure struct {
	Step string
	Err  error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %v", f.Step, f.Err)
}

// Error describes a failed saga: the step that failed, what was undone and what
// could not be.
type Error struct {
	Saga        string
	ID          string
	Step        string // empty when the failure came after the last step
	Cause       error
	Compensated []string
	Failures    []Failure
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("saga ")
	b.WriteString(e.Saga)
	if e.Step != "" {
		fmt.Fprintf(&b, ": step %s", e.Step)
	}
	fmt.Fprintf(&b, ": %v", e.Cause)
	if len(e.Failures) > 0 {
		fmt.Fprintf(&b, " (compensation failed: ")
		for i, f := range e.Failures {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(f.String())
		}
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Inconsistent() {
		return []error{e.Cause, ErrCompensationFailed}
	}
	return []error{e.Cause}
}

// Inconsistent reports whether a compensation of this saga failed.
func (e *Error) Inconsistent() bool {
	return len(e.Failures) > 0
}

// Failures collects the compensation failures of every saga error in err's tree,
// including sagas nested inside a step.
func Failures(err error) []Failure {
	var out []Failure
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if se, ok := err.(*Error); ok {
			out = append(out, se.Failures...)
			walk(se.Cause)
			return
		}
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		}
	}
	walk(err)
	return out
}

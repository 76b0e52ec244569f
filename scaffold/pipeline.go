package scaffold

import (
	"context"
	"errors"
	"fmt"

	"github.com/kxue43/next-fast/terminal"
)

type (
	// Step is one unit of the pipeline: a process invocation or a file write.
	Step struct {
		Action func(context.Context) error
		// Title is printed before Action runs. Staged titles open a group of steps.
		Title  string
		Staged bool
		// Done is printed after Action succeeds.
		Done string
		// Failure and Hint are printed after Action fails.
		Failure string
		Hint    string
	}

	Pipeline struct {
		console *terminal.Console
		steps   []Step
	}

	// StepError reports the step that stopped the pipeline.
	StepError struct {
		Err   error
		Step  string
		Index int
	}
)

var (
	ErrToolNotFound = errors.New("required tool not found")
	ErrToolTooOld   = errors.New("required tool is too old")
	ErrStepFailed   = errors.New("step failed")
)

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %s", e.Index+1, e.Step, e.Err.Error())
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func NewPipeline(console *terminal.Console, steps ...Step) *Pipeline {
	return &Pipeline{console: console, steps: steps}
}

func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Run executes the steps in order and stops at the first failure.
// Nothing already done is undone.
// Non-nil returned error is a [*StepError].
func (p *Pipeline) Run(ctx context.Context) error {
	for i := range p.steps {
		step := &p.steps[i]

		if step.Title != "" {
			if step.Staged {
				p.console.Stage(step.Title)
			} else {
				p.console.Step(step.Title)
			}
		}

		if err := step.Action(ctx); err != nil {
			if step.Failure != "" {
				p.console.Failure("❌ " + step.Failure)
			}

			if step.Hint != "" {
				p.console.Hint(step.Hint)
			}

			return &StepError{Err: err, Step: step.name(), Index: i}
		}

		if step.Done != "" {
			p.console.Success(step.Done)
		}
	}

	return nil
}

func (s *Step) name() string {
	switch {
	case s.Failure != "":
		return s.Failure
	case s.Title != "":
		return s.Title
	default:
		return s.Done
	}
}

// RunTool wraps a [Runner] call so that any failure wraps [ErrStepFailed].
func RunTool(r Runner, dir func() string, name string, args ...string) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := r.Run(ctx, dir(), name, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrStepFailed, err)
		}

		return nil
	}
}

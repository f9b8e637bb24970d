package importer

import (
	"context"
	"log/slog"
)

// Step is one stage of an import run. Steps execute in sequence, each
// receiving the accumulated run state from its predecessors.
//
// Design decision: We use an interface rather than function types because
// it allows steps to carry configuration state, provides a Name() method
// for logging, and keeps the orchestrator open to new stages.
type Step interface {
	// Do executes the step. Any error returned is fatal to the run;
	// per-item failures must be recorded on the run instead.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes import steps in order.
// Unlike per-item page failures, a step error is always fatal: the
// pipeline stops and the orchestrator moves the run to the error state.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets a custom logger for the pipeline.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates an empty Pipeline.
// Steps should be added using AddSteps after creation.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends steps to the pipeline in execution order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence.
// Cancellation is checked before each step; steps that loop internally
// (the creation walk) additionally check it between items, so a
// long-running import stops promptly without corrupting counts.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("import cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"source", run.Options.SourcePath,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"source", run.Options.SourcePath,
				"error", err,
			)
			return err
		}
	}

	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Package executor runs migration scripts step by step against a live
// connection.
//
// Each execution walks the script's steps strictly sequentially: later steps
// may depend on the effects of earlier ones, so there is no parallelism
// within one script. Per step, pre-conditions gate execution (a failure
// aborts the step), each tokenized statement runs in order aborting the step
// on the first failure, and post-conditions are evaluated as advisory
// warnings that never fail the step. A stop-on-error policy decides whether a
// failed step halts the whole run or execution continues with subsequent
// steps. The execution log is append-only and is the single source of truth
// for what happened, in chronological order.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/planner"
	"github.com/schemaport/schemaport/pkg/sqlsplit"
	"github.com/sirupsen/logrus"
)

type (
	// Status is the execution state of a run or of one step within it.
	Status string

	// LogLevel tags one execution log entry.
	LogLevel string

	// QueryResult is what the transport returns for one statement.
	QueryResult struct {
		RowCount int64
		Rows     [][]string
		Duration time.Duration
	}

	// Transport executes one SQL statement against the target connection.
	// It is the engine's only path to the database; pooling, retries, and
	// statement timeouts are its responsibility.
	Transport interface {
		Execute(ctx context.Context, sql string) (*QueryResult, error)
	}

	// LogEntry is one append-only execution log record. StepID is empty for
	// run-level entries.
	LogEntry struct {
		Timestamp time.Time
		Level     LogLevel
		StepID    string
		Message   string
	}

	// StepResult records the outcome of one step. Steps never reached stay
	// pending.
	StepResult struct {
		StepID   string
		Name     string
		Status   Status
		Duration time.Duration
		Error    string
	}

	// PerformanceMetrics aggregates timing and volume counters for one run.
	PerformanceMetrics struct {
		TotalDuration      time.Duration
		StepDurations      map[string]time.Duration
		StatementsExecuted int
		ConditionChecks    int
	}

	// Result is the bookkeeping for one execution attempt. A run that
	// finishes with FailedSteps > 0 reports StatusFailed even when some
	// steps succeeded.
	Result struct {
		ExecutionID    string
		ScriptID       string
		Status         Status
		CompletedSteps int
		FailedSteps    int
		StepResults    []StepResult
		ExecutionLog   []LogEntry
		Metrics        PerformanceMetrics
	}

	// Options controls one execution attempt.
	Options struct {
		// DryRun walks the step list producing a log without executing any
		// SQL, condition queries included.
		DryRun bool

		// ValidateOnly evaluates pre/post-condition queries but executes no
		// step statements.
		ValidateOnly bool

		// StopOnError halts the run on the first failed step, leaving the
		// remaining steps pending.
		StopOnError bool
	}

	// Executor runs migration scripts. Each execution owns its own result;
	// one Executor may serve concurrent executions of different scripts.
	//
	// Example usage:
	//
	//	exec := executor.New(transport, log)
	//	result, err := exec.Execute(ctx, script, executor.Options{StopOnError: true})
	Executor struct {
		transport Transport
		splitter  *sqlsplit.Splitter
		log       logrus.FieldLogger
	}
)

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

const (
	LevelInfo    LogLevel = "info"
	LevelWarning LogLevel = "warning"
	LevelError   LogLevel = "error"
)

// New creates an Executor over the given transport.
func New(transport Transport, log logrus.FieldLogger) *Executor {
	return &Executor{
		transport: transport,
		splitter:  sqlsplit.New(log),
		log:       log,
	}
}

// Execute runs the script's steps in order. The returned error covers input
// problems only; execution failures are reported through the result's status,
// counters, and log.
func (e *Executor) Execute(ctx context.Context, script *planner.Script, opts Options) (*Result, error) {
	if script == nil {
		return nil, errors.New("script is required")
	}
	if opts.DryRun && opts.ValidateOnly {
		return nil, errors.New("dry-run and validate-only are mutually exclusive")
	}

	result := &Result{
		ExecutionID: uuid.NewString(),
		ScriptID:    script.ID,
		Status:      StatusRunning,
		Metrics:     PerformanceMetrics{StepDurations: make(map[string]time.Duration, len(script.Steps))},
	}
	result.append(LevelInfo, "", fmt.Sprintf("execution started: %d steps, dryRun=%t validateOnly=%t stopOnError=%t",
		len(script.Steps), opts.DryRun, opts.ValidateOnly, opts.StopOnError))

	var (
		start     = time.Now()
		executed  = make(map[string]bool, len(script.Steps))
		halted    bool
		cancelled bool
	)

	for i := range script.Steps {
		step := &script.Steps[i]

		if halted {
			result.StepResults = append(result.StepResults, StepResult{StepID: step.ID, Name: step.Name, Status: StatusPending})
			continue
		}

		// Cancellation is honored between steps only; an in-flight
		// statement is the transport's problem.
		if ctx.Err() != nil {
			result.append(LevelError, "", "execution cancelled; remaining steps left pending")
			halted, cancelled = true, true
			result.StepResults = append(result.StepResults, StepResult{StepID: step.ID, Name: step.Name, Status: StatusPending})
			continue
		}

		if executed[step.ID] {
			result.append(LevelWarning, step.ID, "step already executed in this attempt, skipping duplicate")
			continue
		}
		executed[step.ID] = true

		stepStart := time.Now()
		stepErr := e.executeStep(ctx, step, opts, result)
		elapsed := time.Since(stepStart)
		result.Metrics.StepDurations[step.ID] = elapsed

		if stepErr != nil {
			result.FailedSteps++
			result.append(LevelError, step.ID, fmt.Sprintf("step failed: %v", stepErr))
			result.StepResults = append(result.StepResults, StepResult{
				StepID: step.ID, Name: step.Name, Status: StatusFailed, Duration: elapsed, Error: stepErr.Error(),
			})
			if opts.StopOnError {
				result.append(LevelWarning, "", "stop-on-error is set; remaining steps left pending")
				halted = true
			}
			continue
		}

		result.CompletedSteps++
		result.StepResults = append(result.StepResults, StepResult{
			StepID: step.ID, Name: step.Name, Status: StatusCompleted, Duration: elapsed,
		})
	}

	result.Metrics.TotalDuration = time.Since(start)
	if result.FailedSteps > 0 || cancelled {
		result.Status = StatusFailed
	} else {
		result.Status = StatusCompleted
	}
	result.append(LevelInfo, "", fmt.Sprintf("execution finished: status=%s completed=%d failed=%d",
		result.Status, result.CompletedSteps, result.FailedSteps))

	e.log.WithFields(logrus.Fields{
		"execution": result.ExecutionID,
		"status":    result.Status,
		"completed": result.CompletedSteps,
		"failed":    result.FailedSteps,
	}).Info("migration execution finished")

	return result, nil
}

// executeStep runs one step: blocking pre-conditions, the tokenized
// statements, then advisory post-conditions.
func (e *Executor) executeStep(ctx context.Context, step *planner.MigrationStep, opts Options, result *Result) error {
	result.append(LevelInfo, step.ID, fmt.Sprintf("step %d started: %s", step.Order, step.Name))

	if !opts.DryRun {
		for i := range step.PreConditions {
			c := &step.PreConditions[i]
			result.Metrics.ConditionChecks++
			ok, detail, err := e.evaluateCondition(ctx, c)
			if err != nil {
				return errors.Wrapf(err, "pre-condition %q", c.Description)
			}
			if !ok {
				return errors.Errorf("pre-condition failed: %s (%s)", c.Description, detail)
			}
			result.append(LevelInfo, step.ID, fmt.Sprintf("pre-condition satisfied: %s", c.Description))
		}
	}

	switch {
	case opts.DryRun:
		statements := e.splitter.Split(step.SQLScript)
		result.append(LevelInfo, step.ID, fmt.Sprintf("dry run: would run %d statements", len(statements)))
	case opts.ValidateOnly:
		result.append(LevelInfo, step.ID, "validate only: statements not run")
	default:
		for _, statement := range e.splitter.Split(step.SQLScript) {
			res, err := e.transport.Execute(ctx, statement)
			if err != nil {
				return errors.Wrap(err, "statement failed")
			}
			result.Metrics.StatementsExecuted++
			result.append(LevelInfo, step.ID,
				fmt.Sprintf("statement ok: %d rows in %s", res.RowCount, res.Duration))
		}
	}

	if !opts.DryRun {
		for i := range step.PostConditions {
			c := &step.PostConditions[i]
			result.Metrics.ConditionChecks++
			ok, detail, err := e.evaluateCondition(ctx, c)
			switch {
			case err != nil:
				result.append(LevelWarning, step.ID, fmt.Sprintf("post-condition check errored: %s: %v", c.Description, err))
			case !ok:
				result.append(LevelWarning, step.ID, fmt.Sprintf("post-condition failed: %s (%s)", c.Description, detail))
			default:
				result.append(LevelInfo, step.ID, fmt.Sprintf("post-condition satisfied: %s", c.Description))
			}
		}
	}

	result.append(LevelInfo, step.ID, fmt.Sprintf("step %d completed: %s", step.Order, step.Name))
	return nil
}

func (r *Result) append(level LogLevel, stepID, message string) {
	r.ExecutionLog = append(r.ExecutionLog, LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		StepID:    stepID,
		Message:   message,
	})
}

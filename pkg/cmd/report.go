package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/executor"
	"github.com/schemaport/schemaport/pkg/planner"
)

// reportPlan prints a human-readable summary of a generated script: the step
// list with risk levels, the aggregate estimate, and any planner warnings.
func reportPlan(script *planner.Script) {
	fmt.Printf("Migration plan: %s -> %s\n",
		script.SourceSnapshot.DatabaseName, script.TargetSnapshot.DatabaseName)
	fmt.Printf("  source fingerprint: %s\n", script.SourceSnapshot.Fingerprint)
	fmt.Printf("  target fingerprint: %s\n\n", script.TargetSnapshot.Fingerprint)

	if len(script.Steps) == 0 {
		fmt.Println("No differences found; nothing to migrate.")
		return
	}

	for _, step := range script.Steps {
		fmt.Printf("  %2d. [%-8s] %s (est. %v)\n", step.Order, step.RiskLevel, step.Name, step.EstimatedDuration)
	}
	fmt.Printf("\nOverall risk: %s, estimated duration: %v\n", script.RiskLevel, script.EstimatedDuration)

	if script.Rollback != nil {
		completeness := "complete"
		if !script.Rollback.IsComplete {
			completeness = "incomplete, manual intervention expected"
		}
		fmt.Printf("Rollback: %d steps, %d%% estimated success rate (%s)\n",
			len(script.Rollback.Steps), script.Rollback.SuccessRatePercent, completeness)
	}

	reportWarnings(script.Warnings)
}

// reportExecution prints the per-step outcome of one execution attempt in
// chronological order followed by a summary line. It returns an error when
// the run did not complete so the CLI exits non-zero.
func reportExecution(result *executor.Result) error {
	fmt.Printf("Execution %s\n", result.ExecutionID)

	for _, step := range result.StepResults {
		switch step.Status {
		case executor.StatusCompleted:
			fmt.Printf("  ✅ %s completed in %v\n", step.Name, step.Duration)
		case executor.StatusFailed:
			fmt.Printf("  ❌ %s failed after %v: %s\n", step.Name, step.Duration, step.Error)
		default:
			fmt.Printf("  ⏭  %s (not run)\n", step.Name)
		}
	}

	pending := len(result.StepResults) - result.CompletedSteps - result.FailedSteps
	fmt.Printf("\nSummary: %d completed, %d failed, %d pending (%v)\n",
		result.CompletedSteps, result.FailedSteps, pending, result.Metrics.TotalDuration)

	var warnings []string
	for _, entry := range result.ExecutionLog {
		if entry.Level == executor.LevelWarning {
			warnings = append(warnings, entry.Message)
		}
	}
	reportWarnings(warnings)

	if result.Status != executor.StatusCompleted {
		return errors.Errorf("execution finished with status %s", result.Status)
	}
	return nil
}

func reportWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Println()
	for _, w := range warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
}

// renderMigrationSQL flattens a script into a single runnable SQL document
// with one commented header per step.
func renderMigrationSQL(script *planner.Script) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Migration %s\n", script.ID)
	fmt.Fprintf(&b, "-- Source: %s (%s)\n", script.SourceSnapshot.DatabaseName, script.SourceSnapshot.Fingerprint)
	fmt.Fprintf(&b, "-- Target: %s (%s)\n", script.TargetSnapshot.DatabaseName, script.TargetSnapshot.Fingerprint)
	if script.BusinessJustification != "" {
		fmt.Fprintf(&b, "-- Justification: %s\n", script.BusinessJustification)
	}

	for _, step := range script.Steps {
		fmt.Fprintf(&b, "\n-- Step %d: %s (risk: %s)\n", step.Order, step.Name, step.RiskLevel)
		b.WriteString(strings.TrimRight(step.SQLScript, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// renderRollbackSQL flattens a rollback plan the same way.
func renderRollbackSQL(rollback *planner.RollbackScript) string {
	var b strings.Builder
	b.WriteString("-- Rollback script\n")
	for _, w := range rollback.Warnings {
		fmt.Fprintf(&b, "-- WARNING: %s\n", w)
	}
	for _, l := range rollback.Limitations {
		fmt.Fprintf(&b, "-- LIMITATION: %s\n", l)
	}

	for _, step := range rollback.Steps {
		fmt.Fprintf(&b, "\n-- Step %d: %s\n", step.Order, step.Description)
		b.WriteString(strings.TrimRight(step.SQLScript, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

package planner

import (
	"strings"
	"time"
)

// Success-rate estimates for the two rollback plan shapes. The automatic plan
// assumes every step's inverse SQL is executable; the manual fallback is a
// conservative restore-from-backup estimate.
const (
	completeRollbackSuccessRate = 90
	manualRollbackSuccessRate   = 60
)

// RollbackPlanner assembles the rollback plan for a migration script.
//
// Example usage:
//
//	rollback := planner.NewRollbackPlanner().Plan(script.Steps)
//	if !rollback.IsComplete {
//	    // manual intervention plan; review rollback.Warnings
//	}
type RollbackPlanner struct{}

// NewRollbackPlanner creates a RollbackPlanner.
func NewRollbackPlanner() *RollbackPlanner {
	return &RollbackPlanner{}
}

// Plan builds a rollback script from the migration steps. It never fails:
// when automatic step-level rollback SQL cannot be derived for every step, or
// when there are no steps at all, it degrades to a two-step manual
// intervention plan with IsComplete=false and explicit warnings. The degrade
// path is the safety net and must always be constructible.
func (p *RollbackPlanner) Plan(steps []MigrationStep) (script *RollbackScript) {
	defer func() {
		if recover() != nil {
			script = manualFallbackPlan("rollback planning failed internally")
		}
	}()

	if len(steps) == 0 {
		return manualFallbackPlan("the migration script has no steps to derive a rollback from")
	}

	for i := range steps {
		if !isExecutableSQL(steps[i].RollbackSQL) {
			return manualFallbackPlan("not every step has derivable rollback SQL")
		}
	}

	// Undo in reverse application order.
	rollbackSteps := make([]RollbackStep, 0, len(steps))
	var total time.Duration
	for i := len(steps) - 1; i >= 0; i-- {
		rollbackSteps = append(rollbackSteps, RollbackStep{
			Order:       len(rollbackSteps) + 1,
			Description: "undo " + steps[i].Name,
			SQLScript:   steps[i].RollbackSQL,
		})
		total += steps[i].EstimatedDuration
	}

	return &RollbackScript{
		IsComplete:         true,
		Steps:              rollbackSteps,
		EstimatedDuration:  total,
		SuccessRatePercent: completeRollbackSuccessRate,
		Limitations: []string{
			"rollback restores structure only; data removed by the migration is not recovered",
		},
	}
}

func manualFallbackPlan(reason string) *RollbackScript {
	return &RollbackScript{
		IsComplete: false,
		Steps: []RollbackStep{
			{Order: 1, Description: "Manually review the applied changes and the execution log to determine which steps completed"},
			{Order: 2, Description: "Restore the target database from the most recent verified backup"},
		},
		EstimatedDuration:  60 * time.Minute,
		SuccessRatePercent: manualRollbackSuccessRate,
		Warnings: []string{
			reason,
			"manual rollback may cause data loss for changes applied after the backup was taken",
			"dropped objects may have cascading effects on dependents that a restore does not untangle",
			"test the rollback procedure in a non-production environment first",
		},
		Limitations: []string{
			"requires a verified backup and downtime for the restore",
		},
	}
}

// isExecutableSQL reports whether the rollback text contains at least one
// non-comment statement line.
func isExecutableSQL(sql string) bool {
	for _, line := range strings.Split(sql, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		return true
	}
	return false
}

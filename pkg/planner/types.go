package planner

import (
	"time"

	"github.com/schemaport/schemaport/pkg/schema"
)

type (
	// Operation is the SQL operation class a step performs, derived directly
	// from the difference kind.
	Operation string

	// RiskLevel classifies how dangerous a step is to run.
	RiskLevel string

	// Condition is a query-backed assertion evaluated around a step. A
	// condition with no check query is vacuously satisfied. ExpectedResult
	// may carry a leading comparison operator (>=, <=, >, <, !=) to switch
	// to numeric comparison against the first returned cell.
	Condition struct {
		Description    string
		CheckQuery     string
		ExpectedResult string
		Tolerance      *float64
	}

	// MigrationStep is one atomic, ordered unit of schema change. Order is
	// assigned once at synthesis time and is load-bearing for execution
	// sequence.
	MigrationStep struct {
		ID                string
		Order             int
		Name              string
		SQLScript         string
		ObjectType        schema.ObjectType
		ObjectName        string
		Schema            string
		Operation         Operation
		RiskLevel         RiskLevel
		DependsOn         []string
		EstimatedDuration time.Duration
		RollbackSQL       string
		PreConditions     []Condition
		PostConditions    []Condition
	}

	// RollbackStep is one unit of a rollback plan.
	RollbackStep struct {
		Order       int
		Description string
		SQLScript   string
	}

	// RollbackScript is the assembled rollback plan for a migration script.
	// IsComplete is false when the plan degrades to manual intervention.
	RollbackScript struct {
		IsComplete         bool
		Steps              []RollbackStep
		EstimatedDuration  time.Duration
		SuccessRatePercent int
		Warnings           []string
		Limitations        []string
	}

	// SnapshotRef identifies the captured schema state a script was planned
	// against.
	SnapshotRef struct {
		DatabaseName string
		Fingerprint  string
		CapturedAt   time.Time
	}

	// Script is the aggregate migration plan: the ordered steps, the
	// rollback plan, and script-level risk and duration estimates. It owns
	// its steps and is immutable once generated; execution bookkeeping lives
	// in the executor's result object.
	Script struct {
		ID                    string
		SourceSnapshot        SnapshotRef
		TargetSnapshot        SnapshotRef
		Steps                 []MigrationStep
		Rollback              *RollbackScript
		RiskLevel             RiskLevel
		EstimatedDuration     time.Duration
		Warnings              []string
		BusinessJustification string
	}
)

const (
	OperationCreate Operation = "CREATE"
	OperationAlter  Operation = "ALTER"
	OperationDrop   Operation = "DROP"
)

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// riskRank orders risk levels for aggregation; higher is worse.
var riskRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// MaxRisk returns the higher of two risk levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if riskRank[b] > riskRank[a] {
		return b
	}
	return a
}

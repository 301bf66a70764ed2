package planner

import (
	"time"

	"github.com/schemaport/schemaport/pkg/consts"
	"github.com/schemaport/schemaport/pkg/schema"
	"github.com/schemaport/schemaport/pkg/schemadiff"
)

// operationFor maps a difference kind to its SQL operation class.
func operationFor(kind schemadiff.DiffKind) Operation {
	switch kind {
	case schemadiff.KindAdded:
		return OperationCreate
	case schemadiff.KindRemoved:
		return OperationDrop
	default:
		return OperationAlter
	}
}

// riskFor applies the risk policy, first match wins: dropping a table is
// critical, dropping a column or altering a table is high, any create is
// medium, everything else is low.
func riskFor(kind schemadiff.DiffKind, objectType schema.ObjectType) RiskLevel {
	switch {
	case kind == schemadiff.KindRemoved && objectType == schema.TypeTable:
		return RiskCritical
	case kind == schemadiff.KindRemoved && objectType == schema.TypeColumn:
		return RiskHigh
	case kind == schemadiff.KindModified && objectType == schema.TypeTable:
		return RiskHigh
	case kind == schemadiff.KindAdded:
		return RiskMedium
	default:
		return RiskLow
	}
}

type durationKey struct {
	objectType schema.ObjectType
	operation  Operation
}

// durationTable is a deliberately coarse heuristic keyed by object type and
// operation, not a performance model. Index builds and column type rewrites
// dominate real migrations, so they carry the largest estimates.
var durationTable = map[durationKey]time.Duration{
	{schema.TypeTable, OperationCreate}:    60 * time.Second,
	{schema.TypeTable, OperationDrop}:      30 * time.Second,
	{schema.TypeTable, OperationAlter}:     300 * time.Second,
	{schema.TypeColumn, OperationCreate}:   60 * time.Second,
	{schema.TypeColumn, OperationDrop}:     60 * time.Second,
	{schema.TypeColumn, OperationAlter}:    600 * time.Second,
	{schema.TypeIndex, OperationCreate}:    600 * time.Second,
	{schema.TypeIndex, OperationDrop}:      15 * time.Second,
	{schema.TypeIndex, OperationAlter}:     600 * time.Second,
	{schema.TypeView, OperationCreate}:     10 * time.Second,
	{schema.TypeView, OperationDrop}:       10 * time.Second,
	{schema.TypeView, OperationAlter}:      15 * time.Second,
	{schema.TypeFunction, OperationCreate}: 10 * time.Second,
	{schema.TypeFunction, OperationDrop}:   10 * time.Second,
	{schema.TypeFunction, OperationAlter}:  10 * time.Second,
	{schema.TypeSequence, OperationCreate}: 5 * time.Second,
	{schema.TypeSequence, OperationDrop}:   5 * time.Second,
	{schema.TypeSchema, OperationCreate}:   5 * time.Second,
	{schema.TypeSchema, OperationDrop}:     5 * time.Second,
}

// estimatedDuration looks up the duration heuristic, defaulting for unknown
// combinations.
func estimatedDuration(objectType schema.ObjectType, operation Operation) time.Duration {
	if d, ok := durationTable[durationKey{objectType, operation}]; ok {
		return d
	}
	return consts.DefaultStepDuration
}

package planner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/schema"
	"github.com/schemaport/schemaport/pkg/schemadiff"
	"github.com/sirupsen/logrus"
)

// Synthesizer converts ordered schema differences into migration steps.
//
// Example usage:
//
//	synthesizer := planner.NewSynthesizer(catalog, log)
//	step, warnings := synthesizer.Synthesize(ctx, difference, 1, true)
type Synthesizer struct {
	catalog    Catalog
	log        logrus.FieldLogger
	strategies map[schema.ObjectType]sqlStrategy
	fallback   sqlStrategy
}

// NewSynthesizer creates a Synthesizer that resolves live definitions through
// the supplied catalog.
func NewSynthesizer(catalog Catalog, log logrus.FieldLogger) *Synthesizer {
	return &Synthesizer{
		catalog:    catalog,
		log:        log,
		strategies: newStrategies(),
		fallback:   fallbackStrategy{},
	}
}

// Synthesize converts one difference into a migration step with the given
// execution order. It never fails: any SQL generation error is converted into
// a commented placeholder statement and reported back as a warning, so script
// generation always produces a complete script even when some steps require
// human completion.
func (s *Synthesizer) Synthesize(ctx context.Context, d schemadiff.SchemaDifference, order int, includeValidation bool) (MigrationStep, []string) {
	operation := operationFor(d.Kind)
	strat := s.strategyFor(d.ObjectType)

	step := MigrationStep{
		ID:                uuid.NewString(),
		Order:             order,
		Name:              fmt.Sprintf("%s %s %s", operation, d.ObjectType, qualifiedName(&d)),
		ObjectType:        d.ObjectType,
		ObjectName:        d.ObjectName,
		Schema:            d.Schema,
		Operation:         operation,
		RiskLevel:         riskFor(d.Kind, d.ObjectType),
		EstimatedDuration: estimatedDuration(d.ObjectType, operation),
	}

	var warnings []string
	sql, err := s.generateSQL(ctx, strat, &d, operation)
	if err != nil {
		s.log.WithError(err).WithField("step", step.Name).Warn("sql generation degraded to a placeholder")
		warnings = append(warnings, fmt.Sprintf("step %d (%s) requires manual completion: %v", order, step.Name, err))
		sql = placeholderSQL(&d, operation, err)
	}
	step.SQLScript = sql
	step.RollbackSQL = s.rollbackSQL(ctx, strat, &d, operation)

	if includeValidation {
		step.PreConditions, step.PostConditions = conditions(strat, &d, operation)
	}

	return step, warnings
}

func (s *Synthesizer) strategyFor(objectType schema.ObjectType) sqlStrategy {
	if strat, ok := s.strategies[objectType]; ok {
		return strat
	}
	return s.fallback
}

// generateSQL dispatches to the strategy for the operation. Panics from a
// misbehaving strategy are converted to errors so the caller's placeholder
// path handles them like any other generation failure.
func (s *Synthesizer) generateSQL(ctx context.Context, strat sqlStrategy, d *schemadiff.SchemaDifference, operation Operation) (sql string, err error) {
	defer func() {
		if r := recover(); r != nil {
			sql, err = "", errors.Errorf("sql generation panicked: %v", r)
		}
	}()

	switch operation {
	case OperationDrop:
		return strat.dropSQL(d), nil
	case OperationCreate:
		return strat.createSQL(ctx, s.catalog, d)
	default:
		return strat.alterSQL(ctx, s.catalog, d)
	}
}

// rollbackSQL produces the best-effort inverse of a step. It never fails:
// when no inverse can be derived it returns an explanatory comment instead.
func (s *Synthesizer) rollbackSQL(ctx context.Context, strat sqlStrategy, d *schemadiff.SchemaDifference, operation Operation) (sql string) {
	defer func() {
		if recover() != nil {
			sql = rollbackPlaceholder(d)
		}
	}()

	if operation == OperationCreate {
		// The inverse of a create is dropping what was created.
		return strat.dropSQL(d)
	}

	var definition string
	if d.SourceDefinition != nil {
		definition = *d.SourceDefinition
	}
	restored, err := strat.restoreSQL(d, definition)
	if err != nil {
		s.log.WithError(err).WithField("object", qualifiedName(d)).Debug("no automatic rollback derivable")
		return rollbackPlaceholder(d)
	}
	return restored
}

// conditions builds the pre/post validation pair for a step. Types without a
// catalog presence check get query-less conditions, which the executor treats
// as vacuously satisfied.
func conditions(strat sqlStrategy, d *schemadiff.SchemaDifference, operation Operation) (pre, post []Condition) {
	name := qualifiedName(d)
	query, ok := strat.existenceQuery(d)
	if !ok {
		pre = []Condition{{Description: fmt.Sprintf("manually verify %s %s before %s", d.ObjectType, name, operation)}}
		post = []Condition{{Description: fmt.Sprintf("manually verify %s %s after %s", d.ObjectType, name, operation)}}
		return pre, post
	}

	switch operation {
	case OperationCreate:
		pre = []Condition{{
			Description:    fmt.Sprintf("%s %s absent before create", d.ObjectType, name),
			CheckQuery:     query,
			ExpectedResult: "0",
		}}
		post = []Condition{{
			Description:    fmt.Sprintf("%s %s present after create", d.ObjectType, name),
			CheckQuery:     query,
			ExpectedResult: ">=1",
		}}
	case OperationDrop:
		pre = []Condition{{
			Description:    fmt.Sprintf("%s %s exists before drop", d.ObjectType, name),
			CheckQuery:     query,
			ExpectedResult: ">=1",
		}}
		post = []Condition{{
			Description:    fmt.Sprintf("%s %s removed after drop", d.ObjectType, name),
			CheckQuery:     query,
			ExpectedResult: "0",
		}}
	default:
		pre = []Condition{{
			Description:    fmt.Sprintf("%s %s exists before alter", d.ObjectType, name),
			CheckQuery:     query,
			ExpectedResult: ">=1",
		}}
		post = []Condition{{
			Description:    fmt.Sprintf("%s %s still present after alter", d.ObjectType, name),
			CheckQuery:     query,
			ExpectedResult: ">=1",
		}}
	}

	return pre, post
}

func placeholderSQL(d *schemadiff.SchemaDifference, operation Operation, err error) string {
	return fmt.Sprintf("-- TODO: manually complete %s for %s %s (%v)", operation, d.ObjectType, qualifiedName(d), err)
}

func rollbackPlaceholder(d *schemadiff.SchemaDifference) string {
	return fmt.Sprintf("-- Manual rollback required for %s %s: no automatic inverse could be derived", d.ObjectType, qualifiedName(d))
}

func qualifiedName(d *schemadiff.SchemaDifference) string {
	if d.Schema == "" {
		return d.ObjectName
	}
	return d.Schema + "." + d.ObjectName
}

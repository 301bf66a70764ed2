package planner

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/depgraph"
	"github.com/schemaport/schemaport/pkg/schema"
	"github.com/schemaport/schemaport/pkg/schemadiff"
	"github.com/sirupsen/logrus"
)

type (
	// Planner assembles complete migration scripts from schema differences.
	//
	// Example usage:
	//
	//	p := planner.New(catalog, log)
	//	script, err := p.Generate(ctx, source, target, differences, planner.GenerateOptions{
	//	    IncludeRollback:   true,
	//	    IncludeValidation: true,
	//	})
	Planner struct {
		log         logrus.FieldLogger
		synthesizer *Synthesizer
		rollback    *RollbackPlanner
	}

	// GenerateOptions controls script assembly.
	GenerateOptions struct {
		IncludeRollback       bool
		IncludeValidation     bool
		BusinessJustification string
	}
)

// New creates a Planner that resolves live object definitions through the
// supplied catalog.
func New(catalog Catalog, log logrus.FieldLogger) *Planner {
	return &Planner{
		log:         log,
		synthesizer: NewSynthesizer(catalog, log),
		rollback:    NewRollbackPlanner(),
	}
}

// Generate turns a difference list into an executable migration script.
//
// Differences are first partitioned into the coarse safety order (drops,
// then creates, then alters), then refined within each group by the
// dependency graph of the changed objects. Detected circular dependencies are
// surfaced as script warnings alongside the best-effort ordering, never as
// errors, so the script can still be inspected and fixed manually.
func (p *Planner) Generate(ctx context.Context, source, target *schema.Snapshot, differences []schemadiff.SchemaDifference, opts GenerateOptions) (*Script, error) {
	if source == nil || target == nil {
		return nil, errors.New("both source and target snapshots are required")
	}

	ordered := schemadiff.Order(differences)

	g := depgraph.Build(changedObjects(source, target, differences))
	cycles := g.DetectCycles()
	topo, complete := g.TopoSort()
	ordered = refineOrder(ordered, topoPositions(topo))

	script := &Script{
		ID:                    uuid.NewString(),
		SourceSnapshot:        snapshotRef(source),
		TargetSnapshot:        snapshotRef(target),
		RiskLevel:             RiskLow,
		BusinessJustification: opts.BusinessJustification,
	}
	for _, cycle := range cycles {
		script.Warnings = append(script.Warnings, "circular dependency detected: "+cycle.Describe())
	}
	if !complete {
		script.Warnings = append(script.Warnings,
			"dependency order is unresolved for the cycle members; their steps keep the coarse safety order")
	}

	for i, d := range ordered {
		step, warnings := p.synthesizer.Synthesize(ctx, d, i+1, opts.IncludeValidation)
		script.Warnings = append(script.Warnings, warnings...)
		script.RiskLevel = MaxRisk(script.RiskLevel, step.RiskLevel)
		script.EstimatedDuration += step.EstimatedDuration
		script.Steps = append(script.Steps, step)
	}

	linkStepDependencies(script.Steps, changedObjects(source, target, differences))

	if opts.IncludeRollback {
		script.Rollback = p.rollback.Plan(script.Steps)
	}

	p.log.WithFields(logrus.Fields{
		"steps":    len(script.Steps),
		"risk":     script.RiskLevel,
		"warnings": len(script.Warnings),
	}).Info("migration script generated")

	return script, nil
}

// changedObjects resolves the DatabaseObject behind each difference: removed
// objects come from the source snapshot, added and modified ones from the
// target.
func changedObjects(source, target *schema.Snapshot, differences []schemadiff.SchemaDifference) []schema.DatabaseObject {
	sourceByKey := make(map[schema.ObjectKey]*schema.DatabaseObject, len(source.Objects))
	for i := range source.Objects {
		sourceByKey[source.Objects[i].Key()] = &source.Objects[i]
	}
	targetByKey := make(map[schema.ObjectKey]*schema.DatabaseObject, len(target.Objects))
	for i := range target.Objects {
		targetByKey[target.Objects[i].Key()] = &target.Objects[i]
	}

	objects := make([]schema.DatabaseObject, 0, len(differences))
	for _, d := range differences {
		byKey := targetByKey
		if d.Kind == schemadiff.KindRemoved {
			byKey = sourceByKey
		}
		if o, ok := byKey[d.Key()]; ok {
			objects = append(objects, *o)
		}
	}
	return objects
}

func topoPositions(topo []schema.ObjectKey) map[schema.ObjectKey]int {
	positions := make(map[schema.ObjectKey]int, len(topo))
	for i, key := range topo {
		positions[key] = i
	}
	return positions
}

// refineOrder applies the dependency order within each kind group of an
// already partitioned difference list. The topological order places
// dependents before their dependencies, which is drop order; creates and
// alters run it backwards. Cycle members have no topological position and
// stay last in their group in input order.
func refineOrder(ordered []schemadiff.SchemaDifference, positions map[schema.ObjectKey]int) []schemadiff.SchemaDifference {
	refined := make([]schemadiff.SchemaDifference, len(ordered))
	copy(refined, ordered)

	groupStart := 0
	for groupStart < len(refined) {
		groupEnd := groupStart
		for groupEnd < len(refined) && refined[groupEnd].Kind == refined[groupStart].Kind {
			groupEnd++
		}

		group := refined[groupStart:groupEnd]
		dropOrder := group[0].Kind == schemadiff.KindRemoved
		sort.SliceStable(group, func(i, j int) bool {
			pi, iOK := positions[group[i].Key()]
			pj, jOK := positions[group[j].Key()]
			if !iOK {
				pi = math.MaxInt
			}
			if !jOK {
				pj = math.MaxInt
			}
			if dropOrder {
				return pi < pj
			}
			if pi == math.MaxInt || pj == math.MaxInt {
				return pi < pj
			}
			return pi > pj
		})

		groupStart = groupEnd
	}

	return refined
}

// linkStepDependencies fills each step's DependsOn with the IDs of earlier
// steps operating on objects the step's object depends on.
func linkStepDependencies(steps []MigrationStep, objects []schema.DatabaseObject) {
	dependenciesByKey := make(map[schema.ObjectKey][]schema.ObjectKey, len(objects))
	for i := range objects {
		dependenciesByKey[objects[i].Key()] = objects[i].Dependencies
	}

	stepByKey := make(map[schema.ObjectKey]*MigrationStep, len(steps))
	for i := range steps {
		stepByKey[stepKey(&steps[i])] = &steps[i]
	}

	for i := range steps {
		step := &steps[i]
		for _, dep := range dependenciesByKey[stepKey(step)] {
			if other, ok := stepByKey[dep]; ok && other.Order < step.Order {
				step.DependsOn = append(step.DependsOn, other.ID)
			}
		}
	}
}

func stepKey(step *MigrationStep) schema.ObjectKey {
	return schema.ObjectKey{Type: step.ObjectType, Schema: step.Schema, Name: step.ObjectName}
}

func snapshotRef(s *schema.Snapshot) SnapshotRef {
	return SnapshotRef{
		DatabaseName: s.DatabaseName,
		Fingerprint:  s.Fingerprint(),
		CapturedAt:   s.CapturedAt,
	}
}

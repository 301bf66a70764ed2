package depgraph

import (
	"testing"

	"github.com/schemaport/schemaport/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableKey(name string) schema.ObjectKey {
	return schema.ObjectKey{Type: schema.TypeTable, Schema: "public", Name: name}
}

func tableObject(name string, deps ...string) schema.DatabaseObject {
	o := schema.DatabaseObject{Type: schema.TypeTable, Schema: "public", Name: name}
	for _, dep := range deps {
		o.Dependencies = append(o.Dependencies, tableKey(dep))
	}
	return o
}

func TestBuildIgnoresExternalDependencies(t *testing.T) {
	objects := []schema.DatabaseObject{
		tableObject("a", "b", "not_in_set"),
		tableObject("b"),
	}

	g := Build(objects)

	assert.Equal(t, 2, g.Order())
	assert.Empty(t, g.DetectCycles())
}

func TestDetectCyclesThreeNodeCycle(t *testing.T) {
	objects := []schema.DatabaseObject{
		tableObject("a", "b"),
		tableObject("b", "c"),
		tableObject("c", "a"),
	}

	g := Build(objects)
	cycles := g.DetectCycles()

	require.Len(t, cycles, 1)
	assert.Equal(t, SeverityError, cycles[0].Severity)
	require.Len(t, cycles[0].Nodes, 3)
	assert.ElementsMatch(t,
		[]schema.ObjectKey{tableKey("a"), tableKey("b"), tableKey("c")},
		cycles[0].Nodes)
}

func TestDetectCyclesIndependentCycles(t *testing.T) {
	objects := []schema.DatabaseObject{
		tableObject("a", "b"),
		tableObject("b", "a"),
		tableObject("c", "d"),
		tableObject("d", "c"),
		tableObject("e"),
	}

	g := Build(objects)
	cycles := g.DetectCycles()

	require.Len(t, cycles, 2)
	for _, cycle := range cycles {
		assert.Len(t, cycle.Nodes, 2)
	}
}

func TestDetectCyclesAcyclic(t *testing.T) {
	objects := []schema.DatabaseObject{
		tableObject("a", "b"),
		tableObject("b", "c"),
		tableObject("c"),
	}

	assert.Empty(t, Build(objects).DetectCycles())
}

func TestTopoSortOrdersEdgesForward(t *testing.T) {
	objects := []schema.DatabaseObject{
		tableObject("view_layer", "mid_layer"),
		tableObject("mid_layer", "base"),
		tableObject("base"),
		tableObject("standalone"),
	}

	g := Build(objects)
	order, complete := g.TopoSort()

	require.True(t, complete)
	require.Len(t, order, 4)

	position := make(map[schema.ObjectKey]int, len(order))
	for i, key := range order {
		position[key] = i
	}

	// Every dependency edge must point from an earlier to a later node.
	assert.Less(t, position[tableKey("view_layer")], position[tableKey("mid_layer")])
	assert.Less(t, position[tableKey("mid_layer")], position[tableKey("base")])
}

func TestTopoSortAbortsOnCycle(t *testing.T) {
	objects := []schema.DatabaseObject{
		tableObject("a", "b"),
		tableObject("b", "c"),
		tableObject("c", "a"),
	}

	order, complete := Build(objects).TopoSort()

	assert.False(t, complete)
	assert.Less(t, len(order), 3, "partial order must be shorter than the input when a cycle exists")
}

func TestTopoSortPartialOrderKeepsResolvedNodes(t *testing.T) {
	objects := []schema.DatabaseObject{
		tableObject("a", "b"),
		tableObject("b", "a"),
		tableObject("resolved"),
	}

	order, complete := Build(objects).TopoSort()

	assert.False(t, complete)
	for _, key := range order {
		assert.NotContains(t, []schema.ObjectKey{tableKey("a"), tableKey("b")}, key)
	}
}

func TestTopoSortEmptyGraph(t *testing.T) {
	order, complete := Build(nil).TopoSort()

	assert.True(t, complete)
	assert.Empty(t, order)
}

func TestTopoSortDeterministic(t *testing.T) {
	objects := []schema.DatabaseObject{
		tableObject("z"),
		tableObject("a"),
		tableObject("m"),
	}

	first, _ := Build(objects).TopoSort()
	second, _ := Build(objects).TopoSort()

	assert.Equal(t, first, second)
}

func TestCircularDependencyDescribe(t *testing.T) {
	cycle := CircularDependency{
		Nodes:    []schema.ObjectKey{tableKey("a"), tableKey("b")},
		Severity: SeverityError,
	}

	assert.Equal(t, "table:public.a -> table:public.b -> table:public.a", cycle.Describe())

	empty := CircularDependency{}
	assert.Equal(t, "", empty.Describe())
}

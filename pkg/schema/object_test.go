package schema

import (
	"testing"

	"github.com/schemaport/schemaport/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestObjectKeyString(t *testing.T) {
	tests := []struct {
		name     string
		key      ObjectKey
		expected string
	}{
		{
			name:     "qualified table",
			key:      ObjectKey{Type: TypeTable, Schema: "public", Name: "users"},
			expected: "table:public.users",
		},
		{
			name:     "schema object has no qualifier",
			key:      ObjectKey{Type: TypeSchema, Name: "billing"},
			expected: "schema:billing",
		},
		{
			name:     "column uses table.column naming",
			key:      ObjectKey{Type: TypeColumn, Schema: "public", Name: "users.email"},
			expected: "column:public.users.email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.key.String())
		})
	}
}

func TestDatabaseObjectEqual(t *testing.T) {
	base := func() DatabaseObject {
		return DatabaseObject{
			Type:        TypeTable,
			Schema:      "public",
			Name:        "users",
			Owner:       utils.Ptr("app"),
			Definition:  "CREATE TABLE users (id int)",
			SizeInBytes: utils.Ptr(int64(8192)),
			Dependencies: []ObjectKey{
				{Type: TypeSequence, Schema: "public", Name: "users_id_seq"},
				{Type: TypeSchema, Name: "public"},
			},
		}
	}

	tests := []struct {
		name     string
		mutate   func(*DatabaseObject)
		expected bool
	}{
		{
			name:     "identical objects are equal",
			mutate:   func(o *DatabaseObject) {},
			expected: true,
		},
		{
			name: "dependency order does not matter",
			mutate: func(o *DatabaseObject) {
				o.Dependencies[0], o.Dependencies[1] = o.Dependencies[1], o.Dependencies[0]
			},
			expected: true,
		},
		{
			name:     "definition change detected",
			mutate:   func(o *DatabaseObject) { o.Definition = "CREATE TABLE users (id bigint)" },
			expected: false,
		},
		{
			name:     "owner change detected",
			mutate:   func(o *DatabaseObject) { o.Owner = utils.Ptr("admin") },
			expected: false,
		},
		{
			name:     "owner nil vs set detected",
			mutate:   func(o *DatabaseObject) { o.Owner = nil },
			expected: false,
		},
		{
			name:     "size change detected",
			mutate:   func(o *DatabaseObject) { o.SizeInBytes = utils.Ptr(int64(16384)) },
			expected: false,
		},
		{
			name:     "extra dependency detected",
			mutate:   func(o *DatabaseObject) { o.Dependencies = o.Dependencies[:1] },
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := base()
			b := base()
			tt.mutate(&b)
			assert.Equal(t, tt.expected, a.Equal(&b))
		})
	}
}

func TestDatabaseObjectEqualNil(t *testing.T) {
	obj := DatabaseObject{Type: TypeView, Schema: "public", Name: "v"}

	var nilObj *DatabaseObject
	assert.True(t, nilObj.Equal(nil))
	assert.False(t, nilObj.Equal(&obj))
	assert.False(t, obj.Equal(nil))
}

func TestSortObjects(t *testing.T) {
	objects := []DatabaseObject{
		{Type: TypeView, Schema: "public", Name: "v_users"},
		{Type: TypeTable, Schema: "billing", Name: "invoices"},
		{Type: TypeTable, Schema: "public", Name: "users"},
	}

	SortObjects(objects)

	assert.Equal(t, "invoices", objects[0].Name)
	assert.Equal(t, "users", objects[1].Name)
	assert.Equal(t, "v_users", objects[2].Name)
}

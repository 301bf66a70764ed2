package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureObjects() []DatabaseObject {
	return []DatabaseObject{
		{Type: TypeTable, Schema: "public", Name: "users", Definition: "CREATE TABLE users (id int)"},
		{Type: TypeView, Schema: "public", Name: "v_users", Definition: "SELECT id FROM users"},
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := fixtureObjects()
	b := fixtureObjects()
	// Capture order must not matter.
	b[0], b[1] = b[1], b[0]

	fpA := Fingerprint(a)
	fpB := Fingerprint(b)

	require.True(t, strings.HasPrefix(fpA, "h1:"))
	assert.Equal(t, fpA, fpB)
}

func TestFingerprintIgnoresDefinitionWhitespace(t *testing.T) {
	a := fixtureObjects()
	b := fixtureObjects()
	b[0].Definition = "CREATE  TABLE\n\tusers (id int)"

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprintDetectsChanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]DatabaseObject) []DatabaseObject
	}{
		{
			name: "definition changed",
			mutate: func(objects []DatabaseObject) []DatabaseObject {
				objects[0].Definition = "CREATE TABLE users (id bigint)"
				return objects
			},
		},
		{
			name: "object removed",
			mutate: func(objects []DatabaseObject) []DatabaseObject {
				return objects[:1]
			},
		},
		{
			name: "object renamed",
			mutate: func(objects []DatabaseObject) []DatabaseObject {
				objects[1].Name = "v_accounts"
				return objects
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, Fingerprint(fixtureObjects()), Fingerprint(tt.mutate(fixtureObjects())))
		})
	}
}

func TestFingerprintRollingFallback(t *testing.T) {
	original := hashConstructor
	defer func() { hashConstructor = original }()
	hashConstructor = nil

	fpA := Fingerprint(fixtureObjects())
	fpB := Fingerprint(fixtureObjects())

	require.True(t, strings.HasPrefix(fpA, "r1:"))
	assert.Equal(t, fpA, fpB)
}

func TestFingerprintEmptySnapshot(t *testing.T) {
	fp := Fingerprint(nil)
	assert.True(t, strings.HasPrefix(fp, "t1:"))
}

func TestSnapshotFingerprint(t *testing.T) {
	snapshot := &Snapshot{DatabaseName: "app", Objects: fixtureObjects()}
	assert.Equal(t, Fingerprint(snapshot.Objects), snapshot.Fingerprint())
}

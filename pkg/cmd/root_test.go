package cmd

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHelp(t *testing.T) {
	err := Run(context.Background(), "test", []string{"schemaport", "--help"})
	require.NoError(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	assert.Equal(t, "diff", diff().Name)
	assert.Equal(t, "plan", plan().Name)
	assert.Equal(t, "apply", apply().Name)
	assert.Equal(t, "fingerprint", fingerprint().Name)

	assert.NotNil(t, plan().Action)
	assert.NotEmpty(t, apply().Flags)
}

func TestMissingConfigFileFails(t *testing.T) {
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	err = Run(context.Background(), "test", []string{"schemaport", "diff"})
	require.Error(t, err)
}

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()

	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")

	require.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestMigrateCommand_RejectsUnknownCommand(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"migrate", "sideways"})

	assert.Error(t, root.Execute())
}

func TestMigrateCommand_RequiresDatabaseURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OFFLOAD_STORE_DATABASE_URL", "")

	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"migrate", "status"})

	err := root.Execute()
	assert.ErrorContains(t, err, "store.database_url")
}

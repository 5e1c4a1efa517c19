package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Metadata(t *testing.T) {
	cmd := GetRootCmd()

	assert.Equal(t, "nativeos", cmd.Use)
	assert.Equal(t, version, cmd.Version)
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := GetRootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"run", "agents", "serve", "history"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	cmd := GetRootCmd()

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestRunCmd_RequiresInstruction(t *testing.T) {
	err := runCmd.Args(runCmd, []string{})

	assert.Error(t, err)
}

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "wordbook", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"add", "list", "find", "remove", "status", "download-driver"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("data-dir"))
}

func TestStringOr(t *testing.T) {
	assert.Equal(t, "fallback", stringOr("", "fallback"))
	assert.Equal(t, "value", stringOr("value", "fallback"))
}

func TestPluralY(t *testing.T) {
	assert.Equal(t, "y", pluralY(1))
	assert.Equal(t, "ies", pluralY(0))
	assert.Equal(t, "ies", pluralY(2))
}

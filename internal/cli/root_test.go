package cli

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()
	names := []string{}
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "play", "rules"}, names)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--log-level", "chatty", "rules"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "chatty"`)
}

func TestRulesCommand_Golden(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"rules"})

	require.NoError(t, cmd.Execute())
	goldie.New(t).Assert(t, "rules", buf.Bytes())
}

func TestPlayCommand_InvalidMode(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"play", "--mode", "blitz"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestPlayCommand_Flags(t *testing.T) {
	cmd := NewPlayCommand(&RootOptions{})
	mode := cmd.Flags().Lookup("mode")
	require.NotNil(t, mode)
	assert.Equal(t, "normal", mode.DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("mute"))
	assert.NotNil(t, cmd.Flags().Lookup("log-file"))
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, (&RootOptions{}).logLevel("warn"))
	assert.Equal(t, zerolog.DebugLevel, (&RootOptions{LogLevel: "debug"}).logLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, (&RootOptions{}).logLevel("bogus"))
}

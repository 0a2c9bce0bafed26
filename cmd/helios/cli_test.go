package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Harshitk-cp/helios/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HELIOS_ENV", filepath.Join(t.TempDir(), "none.env"))
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MEMORY_URL", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestChatCmd(t *testing.T) {
	out, err := run(t, "", "chat", "bartender", "Hello", "--simulate")
	require.NoError(t, err)

	want := llm.NPCTemplate("Hello")
	assert.Contains(t, out, "Marcus ["+want.Emotion+"]: "+want.Message)
	assert.Contains(t, out, "(simulation_mode)")
}

func TestChatCmd_Stdin(t *testing.T) {
	out, err := run(t, "Hello\n\nAny rooms free?\n", "chat", "healer", "--simulate")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Seraphina ["))
}

func TestChatCmd_UnknownCharacter(t *testing.T) {
	_, err := run(t, "", "chat", "dragon", "Hello", "--simulate")
	assert.Error(t, err)
}

func TestAnalyzeCmd(t *testing.T) {
	out, err := run(t, "", "analyze", "player", "--simulate")
	require.NoError(t, err)
	assert.Equal(t, "worldview: {}\nselfview: {}\nvalues: {}\n", out)

	path := filepath.Join(t.TempDir(), "logs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"character_id":"player","action_type":"conversation","input":"Help the sailor","output":"helped"}]`), 0o600))

	out, err = run(t, "", "analyze", "player", "--simulate", "--logs", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# degraded: simulation_mode")
	assert.Contains(t, out, "survival: 0.9")
}

func TestEchoCmd(t *testing.T) {
	out, err := run(t, "", "echo", "Why", "did", "I", "run?", "--simulate")
	require.NoError(t, err)
	assert.Contains(t, out, `"Why did I run?"`)
	assert.Contains(t, out, "Insight: ")
}

func TestCharactersCmd(t *testing.T) {
	out, err := run(t, "", "characters", "--simulate")
	require.NoError(t, err)
	for _, name := range []string{"Marcus", "Elena", "Shadow", "Seraphina"} {
		assert.Contains(t, out, name)
	}
}

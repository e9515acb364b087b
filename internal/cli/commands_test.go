package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cohortcal/internal/event"
)

const cohortSnapshot = `[
  {"title": "Algebra", "start": "2025-03-10T09:00:00Z", "end": "2025-03-10T11:00:00Z", "location": "Room 101"},
  {"title": "Biology", "startTime": 1741600800000, "endTime": 1741606200000},
  {"title": "", "start": "2025-03-11T09:00:00Z", "end": "2025-03-11T10:00:00Z"}
]`

type testEnv struct {
	t    *testing.T
	dir  string
	db   string
	opts *RootOptions
}

func newTestEnv(t *testing.T, ids ...string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		t:    t,
		dir:  dir,
		db:   filepath.Join(dir, "test.db"),
		opts: &RootOptions{IDs: event.NewFixedGenerator(ids...)},
	}
}

// execute runs the root command with args against the env's database.
func (e *testEnv) execute(args ...string) (string, error) {
	e.t.Helper()
	cmd := newRootCommand(e.opts)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--db", e.db))
	err := cmd.Execute()
	return out.String(), err
}

func (e *testEnv) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func decodeData(t *testing.T, out string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func TestImportCommand_UpdatedThenUnchanged(t *testing.T) {
	env := newTestEnv(t, "s1", "s2")
	snap := env.writeFile("cs-1.json", cohortSnapshot)

	out, err := env.execute("import", "--program", "CS", "--year", "1", snap)
	require.NoError(t, err)
	assert.Equal(t, "shared/CS/1: updated (2 events)\n1 entries rejected:\n  #2: missing title\n", out)

	out, err = env.execute("import", "--program", "CS", "--year", "1", snap)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "shared/CS/1: no changes (2 events)"), out)
}

func TestImportCommand_JSON(t *testing.T) {
	env := newTestEnv(t, "s1", "s2")
	snap := env.writeFile("cs-1.json", cohortSnapshot)

	out, err := env.execute("import", "--program", "CS", "--year", "1", snap, "--format", "json")
	require.NoError(t, err)

	var res ImportResult
	decodeData(t, out, &res)
	assert.Equal(t, "updated", string(res.Status))
	assert.Len(t, res.Events, 2)
	assert.Equal(t, 1, res.Rejected)
	require.Len(t, res.Rejections, 1)
	assert.Equal(t, "missing title", res.Rejections[0].Reason)
}

func TestImportCommand_Errors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execute("import", "--program", "CS", "--year", "1", filepath.Join(env.dir, "missing.json"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = env.execute("import", "--program", "CS", "--year", "0", "x.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = env.execute("import", "--year", "1", "x.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestImportICSCommand(t *testing.T) {
	env := newTestEnv(t, "p1", "p2")
	ics := filepath.Join("..", "snapshot", "testdata", "personal.ics")

	out, err := env.execute("import-ics", "--owner", "alice", ics)
	require.NoError(t, err)
	assert.Contains(t, out, "personal/alice: updated (2 events)")

	out, err = env.execute("list", "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Gym (personal, imported) @ Campus gym")
	assert.Contains(t, out, "Dentist (personal, imported)")
}

func TestAddListDeleteCommands(t *testing.T) {
	env := newTestEnv(t, "gym")

	out, err := env.execute("add", "--owner", "alice", "--title", "Gym",
		"--start", "2025-03-10T10:00:00Z", "--end", "2025-03-10T10:30:00Z", "--location", "Campus")
	require.NoError(t, err)
	assert.Equal(t, "added gym  2025-03-10T10:00:00.000Z - 2025-03-10T10:30:00.000Z  Gym (personal, manual) @ Campus\n", out)

	out, err = env.execute("list", "--owner", "alice", "--format", "json")
	require.NoError(t, err)
	var events []event.Event
	decodeData(t, out, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "gym", events[0].ID)
	assert.Equal(t, event.SourceManual, events[0].Source)

	_, err = env.execute("delete", "--owner", "bob", "gym")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out, err = env.execute("delete", "--owner", "alice", "gym")
	require.NoError(t, err)
	assert.Equal(t, "deleted gym\n", out)

	out, err = env.execute("list", "--owner", "alice")
	require.NoError(t, err)
	assert.Equal(t, "no events\n", out)
}

func TestAddCommand_Validation(t *testing.T) {
	env := newTestEnv(t, "a", "b", "c")

	tests := []struct {
		name string
		args []string
	}{
		{"end before start", []string{"--start", "2025-03-10T10:00:00Z", "--end", "2025-03-10T09:00:00Z"}},
		{"bad start", []string{"--start", "tomorrow", "--end", "2025-03-10T09:00:00Z"}},
		{"bad type", []string{"--start", "2025-03-10T09:00:00Z", "--end", "2025-03-10T10:00:00Z", "--type", "party"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"add", "--owner", "alice", "--title", "X"}, tt.args...)
			_, err := env.execute(args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestListCommand_ScopeFlags(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execute("list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a scope is required")

	_, err = env.execute("list", "--owner", "alice", "--program", "CS", "--year", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestConflictsCommand(t *testing.T) {
	env := newTestEnv(t, "s1", "s2", "gym")
	snap := env.writeFile("cs-1.json", cohortSnapshot)

	_, err := env.execute("import", "--program", "CS", "--year", "1", snap)
	require.NoError(t, err)
	_, err = env.execute("add", "--owner", "alice", "--title", "Gym",
		"--start", "2025-03-10T10:00:00Z", "--end", "2025-03-10T10:30:00Z")
	require.NoError(t, err)

	out, err := env.execute("conflicts", "--owner", "alice", "--program", "CS", "--year", "1", "--format", "json")
	require.NoError(t, err)

	var report struct {
		Conflicts []struct {
			A        event.Event  `json:"a"`
			B        event.Event  `json:"b"`
			Type     string       `json:"type"`
			Priority *event.Event `json:"priority"`
		} `json:"conflicts"`
	}
	decodeData(t, out, &report)
	require.Len(t, report.Conflicts, 2)
	assert.Equal(t, "s1", report.Conflicts[0].A.ID)
	assert.Equal(t, "gym", report.Conflicts[0].B.ID)
	assert.Equal(t, "study-personal", report.Conflicts[0].Type)
	require.NotNil(t, report.Conflicts[1].Priority)
	assert.Equal(t, "Biology", report.Conflicts[1].Priority.Title)

	out, err = env.execute("conflicts", "--owner", "alice", "--program", "CS", "--year", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "2 conflict(s)\n"), out)

	out, err = env.execute("conflicts", "--owner", "alice")
	require.NoError(t, err)
	assert.Equal(t, "no conflicts\n", out)
}

func TestFingerprintCommand_RepresentationInvariant(t *testing.T) {
	env := newTestEnv(t)

	a, err := env.execute("fingerprint", "--program", "CS", "--year", "1", "--title", "Algebra",
		"--start", "2025-03-10T09:00:00Z", "--end", "1741604400000")
	require.NoError(t, err)

	b, err := env.execute("fingerprint", "--program", "CS", "--year", "1", "--title", "  Algebra ",
		"--start", "1741597200000", "--end", "2025-03-10T20:00:00+09:00")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, strings.TrimSpace(a), 64)

	c, err := env.execute("fingerprint", "--owner", "alice", "--title", "Algebra",
		"--start", "2025-03-10T09:00:00Z", "--end", "1741604400000")
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "scope is part of the key")
}

func TestWatchCommand_Once(t *testing.T) {
	env := newTestEnv(t, "s1", "s2")
	env.writeFile("cs-1.json", cohortSnapshot)
	cfg := env.writeFile("cohortcal.yaml", `
cohorts:
  - program: CS
    year: 1
    snapshot: cs-1.json
`)

	out, err := env.execute("watch", "--config", cfg, "--once")
	require.NoError(t, err)
	assert.Equal(t, "shared/CS/1: updated (2 events, 1 rejected)\n", out)

	out, err = env.execute("watch", "--config", cfg, "--once")
	require.NoError(t, err)
	assert.Equal(t, "shared/CS/1: no changes (2 events, 1 rejected)\n", out)
}

func TestWatchCommand_OnceReportsFailedCohorts(t *testing.T) {
	env := newTestEnv(t, "s1", "s2")
	env.writeFile("cs-1.json", cohortSnapshot)
	cfg := env.writeFile("cohortcal.yaml", `
cohorts:
  - program: CS
    year: 1
    snapshot: cs-1.json
  - program: CS
    year: 2
    snapshot: missing.json
`)

	out, err := env.execute("watch", "--config", cfg, "--once")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "shared/CS/1: updated")
	assert.Contains(t, out, "shared/CS/2: failed")
}

func TestWatchCommand_InvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	cfg := env.writeFile("cohortcal.yaml", `
cohorts:
  - program: CS
    year: 1
`)

	_, err := env.execute("watch", "--config", cfg, "--once")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "snapshot is required")
}

func TestInvalidFormat(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execute("list", "--owner", "alice", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

package launcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/steamkeeper/internal/common"
)

type fakeProc struct {
	mu       sync.Mutex
	name     string
	killed   bool
	immortal bool
	killErr  error
}

func (p *fakeProc) NameWithContext(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.killed && !p.immortal {
		return "", errors.New("process gone")
	}
	return p.name, nil
}

func (p *fakeProc) KillWithContext(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.killErr != nil {
		return p.killErr
	}
	p.killed = true
	return nil
}

func withProcs(t *testing.T, ps ...*fakeProc) {
	t.Helper()
	orig := listProcesses
	listProcesses = func(context.Context) ([]proc, error) {
		out := make([]proc, 0, len(ps))
		for _, p := range ps {
			out = append(out, p)
		}
		return out, nil
	}
	t.Cleanup(func() { listProcesses = orig })
}

func withFastWait(t *testing.T) {
	t.Helper()
	origWait, origPoll := KillWait, pollInterval
	KillWait, pollInterval = 50*time.Millisecond, 5*time.Millisecond
	t.Cleanup(func() { KillWait, pollInterval = origWait, origPoll })
}

type startCall struct {
	exe  string
	args []string
}

func withStart(t *testing.T, err error) *[]startCall {
	t.Helper()
	var calls []startCall
	orig := startProcess
	startProcess = func(exe string, args ...string) error {
		calls = append(calls, startCall{exe: exe, args: args})
		return err
	}
	t.Cleanup(func() { startProcess = orig })
	return &calls
}

func fakeExe(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "steam.exe")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o700))
	return p
}

func TestIsClientName(t *testing.T) {
	tests := map[string]bool{
		"steam":          true,
		"Steam.exe":      true,
		"STEAM":          true,
		"steamwebhelper": false,
		"steam.sh":       false,
		"":               false,
	}
	for name, want := range tests {
		assert.Equal(t, want, isClientName(name), name)
	}
}

func TestIsClientRunning(t *testing.T) {
	withProcs(t, &fakeProc{name: "bash"}, &fakeProc{name: "steam.exe"})
	assert.True(t, IsClientRunning(context.Background()))
}

func TestIsClientRunning_ListError(t *testing.T) {
	orig := listProcesses
	listProcesses = func(context.Context) ([]proc, error) { return nil, errors.New("denied") }
	defer func() { listProcesses = orig }()

	assert.False(t, IsClientRunning(context.Background()))
	_, err := KillClient(context.Background())
	assert.Error(t, err)
}

func TestKillClient_KillsOnlySteam(t *testing.T) {
	withFastWait(t)
	other := &fakeProc{name: "steamwebhelper"}
	s1 := &fakeProc{name: "steam"}
	s2 := &fakeProc{name: "steam.exe"}
	withProcs(t, other, s1, s2)

	n, err := KillClient(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, s1.killed)
	assert.True(t, s2.killed)
	assert.False(t, other.killed)
}

func TestKillClient_GivesUpAfterWait(t *testing.T) {
	withFastWait(t)
	withProcs(t, &fakeProc{name: "steam", immortal: true})

	start := time.Now()
	n, err := KillClient(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.GreaterOrEqual(t, time.Since(start), KillWait)
}

func TestKillClient_NothingRunning(t *testing.T) {
	withProcs(t, &fakeProc{name: "bash"})
	n, err := KillClient(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLaunchSession_StartsWithLoginArgs(t *testing.T) {
	withFastWait(t)
	running := &fakeProc{name: "steam"}
	withProcs(t, running)
	calls := withStart(t, nil)
	exe := fakeExe(t)

	err := LaunchSession(context.Background(), exe, "alice", "p@ss word")
	require.NoError(t, err)
	assert.True(t, running.killed)
	require.Len(t, *calls, 1)
	assert.Equal(t, exe, (*calls)[0].exe)
	assert.Equal(t, []string{"-login", "alice", "p@ss word"}, (*calls)[0].args)
}

func TestLaunchSession_MissingExecutable(t *testing.T) {
	calls := withStart(t, nil)

	for _, exe := range []string{"", filepath.Join(t.TempDir(), "nope.exe"), t.TempDir()} {
		err := LaunchSession(context.Background(), exe, "a", "b")
		require.ErrorIs(t, err, common.ErrLaunch)
	}
	assert.Empty(t, *calls)
}

func TestLaunchSession_StartFailure(t *testing.T) {
	withProcs(t)
	withStart(t, errors.New("access denied"))

	err := LaunchSession(context.Background(), fakeExe(t), "a", "b")
	require.ErrorIs(t, err, common.ErrLaunch)
	assert.Contains(t, err.Error(), "access denied")
}

func TestDetectSteamPath_ReturnsExistingOrEmpty(t *testing.T) {
	p := DetectSteamPath()
	if p != "" {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
	assert.NotEmpty(t, DefaultExecutablePath)
}

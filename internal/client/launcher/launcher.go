package launcher

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/filex"
)

// startProcess is a seam for tests. The child is released so it outlives
// this process.
var startProcess = func(exe string, args ...string) error {
	cmd := exec.Command(exe, args...)
	cmd.Dir = filepath.Dir(exe)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// LoginArgs returns the command line used to log an account in.
func LoginArgs(username, password string) []string {
	return []string{"-login", username, password}
}

// LaunchSession restarts the Steam client logged in as username.
func LaunchSession(ctx context.Context, exePath, username, password string) error {
	if exePath == "" || !filex.Exists(exePath) {
		return fmt.Errorf("%w: steam executable not found at %q, set it with exepath", common.ErrLaunch, exePath)
	}

	if _, err := KillClient(ctx); err != nil {
		return fmt.Errorf("%w: stop running client: %v", common.ErrLaunch, err)
	}

	if err := startProcess(exePath, LoginArgs(username, password)...); err != nil {
		return fmt.Errorf("%w: start %s: %v", common.ErrLaunch, exePath, err)
	}
	return nil
}

package launcher

import (
	"context"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

const clientProcessName = "steam"

// KillWait bounds how long KillClient waits for killed processes to exit.
var KillWait = 5 * time.Second

var pollInterval = 100 * time.Millisecond

// proc is the part of *process.Process the launcher relies on.
type proc interface {
	NameWithContext(ctx context.Context) (string, error)
	KillWithContext(ctx context.Context) error
}

// listProcesses is a seam for tests.
var listProcesses = func(ctx context.Context) ([]proc, error) {
	ps, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]proc, 0, len(ps))
	for _, p := range ps {
		out = append(out, p)
	}
	return out, nil
}

func isClientName(name string) bool {
	name = strings.ToLower(name)
	name = strings.TrimSuffix(name, ".exe")
	return name == clientProcessName
}

func clientProcesses(ctx context.Context) ([]proc, error) {
	all, err := listProcesses(ctx)
	if err != nil {
		return nil, err
	}
	var out []proc
	for _, p := range all {
		// processes can vanish between listing and reading the name
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if isClientName(name) {
			out = append(out, p)
		}
	}
	return out, nil
}

// IsClientRunning reports whether a Steam client process exists.
// Discovery failures are reported as not running.
func IsClientRunning(ctx context.Context) bool {
	ps, err := clientProcesses(ctx)
	return err == nil && len(ps) > 0
}

// KillClient kills every Steam client process and waits up to KillWait for
// them to disappear. It returns the number of processes signalled.
func KillClient(ctx context.Context) (int, error) {
	ps, err := clientProcesses(ctx)
	if err != nil {
		return 0, err
	}
	if len(ps) == 0 {
		return 0, nil
	}

	killed := 0
	for _, p := range ps {
		if err := p.KillWithContext(ctx); err == nil {
			killed++
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, KillWait)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for IsClientRunning(waitCtx) {
		select {
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return killed, err
			}
			// gave up waiting; the new session starts anyway
			return killed, nil
		case <-ticker.C:
		}
	}
	return killed, nil
}

package cli

import (
	"context"
	"time"
)

// StartAutoRefresh refreshes nicknames and bans every interval while a
// refresh is possible. Results go to the log so the prompt is not
// interrupted. It returns when ctx is done.
func (a *App) StartAutoRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.autoRefreshOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) autoRefreshOnce(ctx context.Context) {
	if !a.svc.CanRefresh() {
		a.log.Debug(ctx, "auto refresh skipped, no api key or steam ids")
		return
	}

	if _, err := a.svc.RefreshNicknames(ctx); err != nil {
		a.log.Warn(ctx, "auto refresh nicknames", "error", err)
	}
	if _, err := a.svc.RefreshBans(ctx); err != nil {
		a.log.Warn(ctx, "auto refresh bans", "error", err)
	}
}

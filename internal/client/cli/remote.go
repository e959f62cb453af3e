package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/filex"
)

var errCannotRefresh = fmt.Errorf("%w: set an API key with 'apikey' and a SteamID64 on at least one account", common.ErrPrecondition)

// Launch restarts the Steam client logged in as the chosen account.
func (a *App) Launch(ctx context.Context, args []string) error {
	acc, err := a.resolve(args)
	if err != nil {
		return a.report(ctx, "launch", err)
	}
	a.printf("Launching Steam as %s...\n", acc.Username)
	if err := a.svc.Launch(ctx, acc.Id); err != nil {
		return a.report(ctx, "launch", err)
	}
	a.println("Steam started.")
	return nil
}

func (a *App) RefreshNicknames(ctx context.Context) error {
	if !a.svc.CanRefresh() {
		return a.report(ctx, "refresh nicknames", errCannotRefresh)
	}
	n, err := a.svc.RefreshNicknames(ctx)
	if err != nil {
		return a.report(ctx, "refresh nicknames", err)
	}
	a.printf("Nicknames updated: %d.\n", n)
	return nil
}

func (a *App) RefreshBans(ctx context.Context) error {
	if !a.svc.CanRefresh() {
		return a.report(ctx, "refresh bans", errCannotRefresh)
	}
	r, err := a.svc.RefreshBans(ctx)
	if err != nil {
		return a.report(ctx, "refresh bans", err)
	}
	a.printf("Bans checked: %d, changed: %d.\n", r.Checked, r.Changed)
	return nil
}

// Refresh runs both refreshes; a nickname failure does not skip bans.
func (a *App) Refresh(ctx context.Context) error {
	return errors.Join(a.RefreshNicknames(ctx), a.RefreshBans(ctx))
}

// APIKey shows the masked key, or sets it from args or a prompt.
func (a *App) APIKey(ctx context.Context, args []string) error {
	raw := strings.Join(args, " ")
	if raw == "" {
		a.printf("Current API key: %s\n", a.svc.Settings().MaskedAPIKey())
		in, err := GetSecret(a.reader, "New API key (blank keeps)", a.out)
		if err != nil {
			return a.report(ctx, "set api key", err)
		}
		raw = string(in)
		common.WipeByteArray(in)
		if strings.TrimSpace(raw) == "" {
			return nil
		}
	}

	a.svc.SetAPIKey(raw)
	if err := a.svc.SaveSettings(); err != nil {
		return a.report(ctx, "save settings", err)
	}
	a.printf("API key set: %s\n", a.svc.Settings().MaskedAPIKey())
	return nil
}

// ExePath shows or sets the Steam executable.
func (a *App) ExePath(ctx context.Context, args []string) error {
	p := strings.Join(args, " ")
	if p == "" {
		a.printf("Current Steam executable: %s\n", a.svc.Settings().ExecutablePath)
		in, err := GetSimpleText(a.reader, "New path (blank keeps)", a.out)
		if err != nil {
			return a.report(ctx, "set exe path", err)
		}
		if in == "" {
			return nil
		}
		p = in
	}

	if err := a.svc.SetExecutablePath(p); err != nil {
		return a.report(ctx, "set exe path", err)
	}
	if err := a.svc.SaveSettings(); err != nil {
		return a.report(ctx, "save settings", err)
	}
	exe := a.svc.Settings().ExecutablePath
	if !filex.Exists(exe) {
		a.printf("Warning: %s does not exist yet.\n", exe)
	}
	a.printf("Steam executable set: %s\n", exe)
	return nil
}

func (a *App) Save(ctx context.Context) error {
	if err := a.svc.Save(ctx); err != nil {
		return a.report(ctx, "save", err)
	}
	a.printf("Saved %d accounts.\n", a.svc.Count())
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/steamkeeper/internal/client/models"
	"github.com/dmitrijs2005/steamkeeper/internal/client/services"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/timex"
)

// resolve finds the account named by args, prompting when args is empty.
// A reference is a row number from the last listing, an id or a username.
func (a *App) resolve(args []string) (models.Account, error) {
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		var err error
		ref, err = GetSimpleText(a.reader, "Account (# from list, id or username)", a.out)
		if err != nil {
			return models.Account{}, err
		}
	}
	if ref == "" {
		return models.Account{}, fmt.Errorf("%w: no account given", common.ErrValidation)
	}

	if n, err := strconv.Atoi(ref); err == nil {
		a.mu.Lock()
		ids := a.lastList
		a.mu.Unlock()
		if n >= 1 && n <= len(ids) {
			return a.svc.Get(ids[n-1])
		}
	}

	if acc, err := a.svc.Get(ref); err == nil {
		return acc, nil
	}

	var matches []models.Account
	for _, v := range a.svc.List(a.now()) {
		if strings.EqualFold(v.Username, ref) {
			matches = append(matches, v.Account)
		}
	}
	switch len(matches) {
	case 0:
		return models.Account{}, fmt.Errorf("account %q: %w", ref, common.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Account{}, fmt.Errorf("%w: %d accounts use username %q, use the list number", common.ErrValidation, len(matches), ref)
	}
}

// List prints the sorted roster and remembers the row numbers.
func (a *App) List(ctx context.Context) error {
	views := a.svc.List(a.now())
	a.remember(views)
	if len(views) == 0 {
		a.println("No accounts yet. Use 'add' or 'import'.")
		return nil
	}
	return a.report(ctx, "list", writeTable(a.out, views))
}

// Show prints one account. "--reveal" (or "-r") shows secrets.
func (a *App) Show(ctx context.Context, args []string) error {
	reveal := false
	var rest []string
	for _, arg := range args {
		if arg == "--reveal" || arg == "-r" {
			reveal = true
			continue
		}
		rest = append(rest, arg)
	}

	acc, err := a.resolve(rest)
	if err != nil {
		return a.report(ctx, "show", err)
	}
	return a.report(ctx, "show", writeDetails(a.out, models.NewView(acc, a.now()), reveal))
}

// Add prompts for a new account.
func (a *App) Add(ctx context.Context) error {
	acc, err := a.promptNew()
	if err != nil {
		return a.report(ctx, "add", err)
	}
	added, err := a.svc.Add(acc)
	if err != nil {
		return a.report(ctx, "add", err)
	}
	a.printf("Added %s (%s).\n", added.Nickname, added.Id)
	return nil
}

func (a *App) promptNew() (models.Account, error) {
	var acc models.Account
	var err error

	if acc.Username, err = GetSimpleText(a.reader, "Username", a.out); err != nil {
		return acc, err
	}
	pw, err := GetPassword(a.reader, a.out)
	if err != nil {
		return acc, err
	}
	acc.Password = string(pw)
	common.WipeByteArray(pw)

	if acc.Nickname, err = GetSimpleText(a.reader, "Nickname (blank uses username)", a.out); err != nil {
		return acc, err
	}
	if acc.SteamId64, err = GetSimpleText(a.reader, "SteamID64 (optional)", a.out); err != nil {
		return acc, err
	}
	prime, err := GetConfirmation(a.reader, "Prime?", a.out)
	if err != nil {
		return acc, err
	}
	acc.IsPrime = prime
	if acc.Email, err = GetSimpleText(a.reader, "Email (optional)", a.out); err != nil {
		return acc, err
	}
	if acc.Email != "" {
		epw, err := GetSecret(a.reader, "Email password (optional)", a.out)
		if err != nil {
			return acc, err
		}
		acc.EmailPassword = string(epw)
		common.WipeByteArray(epw)
	}
	return acc, nil
}

// Import reads pasted lines and appends every parsable one.
func (a *App) Import(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Paste accounts, one per line:\n"+
		"  [Label:]username----password[----email[----email password]]\n"+
		"  username,password,nickname", a.out)
	if err != nil {
		return a.report(ctx, "import", err)
	}

	res := a.svc.BatchImport(text)
	for _, le := range res.Errors {
		a.printf("  line %d skipped: %v\n", le.Line, le.Err)
	}
	a.printf("Imported %d, failed %d.\n", res.SuccessCount, res.ErrorCount)
	a.log.Info(ctx, "batch import", "success", res.SuccessCount, "failed", res.ErrorCount)
	return nil
}

// Edit prompts for each editable field; blank input keeps the current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	acc, err := a.resolve(args)
	if err != nil {
		return a.report(ctx, "edit", err)
	}

	patch, err := a.promptPatch(acc)
	if err != nil {
		return a.report(ctx, "edit", err)
	}
	updated, err := a.svc.Update(acc.Id, patch)
	if err != nil {
		return a.report(ctx, "edit", err)
	}
	a.printf("Updated %s.\n", updated.Nickname)
	return nil
}

const clearValue = "-"

func (a *App) promptField(label, current string) (*string, error) {
	v, err := GetSimpleText(a.reader, fmt.Sprintf("%s [%s] (blank keeps, %q clears)", label, current, clearValue), a.out)
	if err != nil {
		return nil, err
	}
	switch v {
	case "":
		return nil, nil
	case clearValue:
		empty := ""
		return &empty, nil
	}
	return &v, nil
}

func (a *App) promptPatch(acc models.Account) (services.AccountPatch, error) {
	var p services.AccountPatch
	var err error

	fields := []struct {
		label   string
		current string
		dst     **string
	}{
		{"Username", acc.Username, &p.Username},
		{"Nickname", acc.Nickname, &p.Nickname},
		{"SteamID64", acc.SteamId64, &p.SteamId64},
		{"Email", acc.Email, &p.Email},
	}
	for _, f := range fields {
		if *f.dst, err = a.promptField(f.label, f.current); err != nil {
			return p, err
		}
	}

	pw, err := GetSecret(a.reader, "New password (blank keeps)", a.out)
	if err != nil {
		return p, err
	}
	if len(pw) > 0 {
		s := string(pw)
		p.Password = &s
	}
	common.WipeByteArray(pw)

	epw, err := GetSecret(a.reader, "New email password (blank keeps)", a.out)
	if err != nil {
		return p, err
	}
	if len(epw) > 0 {
		s := string(epw)
		p.EmailPassword = &s
	}
	common.WipeByteArray(epw)

	current := "no"
	if acc.IsPrime {
		current = "yes"
	}
	prime, err := GetSimpleText(a.reader, fmt.Sprintf("Prime (y/n) [%s]", current), a.out)
	if err != nil {
		return p, err
	}
	switch strings.ToLower(prime) {
	case "y", "yes":
		v := true
		p.IsPrime = &v
	case "n", "no":
		v := false
		p.IsPrime = &v
	}
	return p, nil
}

// Ban sets the ban status by hand.
func (a *App) Ban(ctx context.Context, args []string) error {
	acc, err := a.resolve(args)
	if err != nil {
		return a.report(ctx, "ban", err)
	}

	raw, err := GetSimpleText(a.reader, "Status: (n)ormal, (c)ooldown or (p)ermanent", a.out)
	if err != nil {
		return a.report(ctx, "ban", err)
	}
	choice, ok := models.ParseBanChoice(raw)
	if !ok {
		return a.report(ctx, "ban", fmt.Errorf("%w: unknown status %q", common.ErrValidation, raw))
	}

	now := a.now()
	var expiry *time.Time
	if choice == models.BanChoiceCooldown {
		in, err := GetSimpleText(a.reader, "Cooldown ends (duration like 36h, or YYYY-MM-DD HH:MM:SS local time; blank for 7 days)", a.out)
		if err != nil {
			return a.report(ctx, "ban", err)
		}
		if expiry, err = parseExpiry(in, now); err != nil {
			return a.report(ctx, "ban", err)
		}
	}

	if err := a.svc.SetBanStatus(acc.Id, choice, expiry, now); err != nil {
		return a.report(ctx, "ban", err)
	}
	updated, _ := a.svc.Get(acc.Id)
	a.printf("%s: %s\n", updated.Nickname, models.NewView(updated, now).Status)
	return nil
}

// parseExpiry accepts a Go duration relative to now or an absolute
// timestamp. Blank means the default cooldown.
func parseExpiry(in string, now time.Time) (*time.Time, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return nil, nil
	}
	if d, err := time.ParseDuration(in); err == nil {
		if d <= 0 {
			return nil, fmt.Errorf("%w: duration must be positive", common.ErrValidation)
		}
		t := now.Add(d)
		return &t, nil
	}
	t, err := timex.ParseTimestamp(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return &t, nil
}

// Delete removes an account after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	acc, err := a.resolve(args)
	if err != nil {
		return a.report(ctx, "delete", err)
	}

	ok, err := GetConfirmation(a.reader, fmt.Sprintf("Delete %s (%s)?", acc.Nickname, acc.Username), a.out)
	if err != nil {
		return a.report(ctx, "delete", err)
	}
	if !ok {
		a.println("Kept.")
		return nil
	}
	if err := a.svc.Delete(acc.Id); err != nil {
		return a.report(ctx, "delete", err)
	}
	a.printf("Deleted %s.\n", acc.Nickname)
	return nil
}

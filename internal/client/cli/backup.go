package cli

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/steamkeeper/internal/common"
)

func (a *App) readPassphrase(confirm bool) (string, error) {
	p1, err := GetSecret(a.reader, "Backup passphrase", a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(p1)

	if confirm {
		p2, err := GetSecret(a.reader, "Repeat passphrase", a.out)
		if err != nil {
			return "", err
		}
		defer common.WipeByteArray(p2)
		if !bytes.Equal(p1, p2) {
			return "", fmt.Errorf("%w: passphrases do not match", common.ErrValidation)
		}
	}
	return string(p1), nil
}

// Backup writes an encrypted snapshot of the roster.
func (a *App) Backup(ctx context.Context) error {
	pass, err := a.readPassphrase(true)
	if err != nil {
		return a.report(ctx, "backup", err)
	}
	key, err := a.svc.Backup(ctx, pass)
	if err != nil {
		return a.report(ctx, "backup", err)
	}
	a.printf("Backup %s written to %s.\n", key, a.svc.BackupLocation())
	return nil
}

// Backups lists stored snapshots, newest first.
func (a *App) Backups(ctx context.Context) error {
	keys, err := a.svc.Backups(ctx)
	if err != nil {
		return a.report(ctx, "list backups", err)
	}
	if len(keys) == 0 {
		a.printf("No backups in %s.\n", a.svc.BackupLocation())
		return nil
	}
	for i, k := range keys {
		a.printf("%3d  %s\n", i+1, k)
	}
	return nil
}

// Restore replaces the roster with a snapshot after confirmation and saves
// it. The snapshot is chosen by list number or name.
func (a *App) Restore(ctx context.Context, args []string) error {
	keys, err := a.svc.Backups(ctx)
	if err != nil {
		return a.report(ctx, "restore", err)
	}

	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		if len(keys) == 0 {
			a.printf("No backups in %s.\n", a.svc.BackupLocation())
			return nil
		}
		for i, k := range keys {
			a.printf("%3d  %s\n", i+1, k)
		}
		if ref, err = GetSimpleText(a.reader, "Backup to restore (# or name)", a.out); err != nil {
			return a.report(ctx, "restore", err)
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(keys) {
		ref = keys[n-1]
	}

	ok, err := GetConfirmation(a.reader, fmt.Sprintf("Replace all %d accounts with %s?", a.svc.Count(), ref), a.out)
	if err != nil {
		return a.report(ctx, "restore", err)
	}
	if !ok {
		a.println("Kept.")
		return nil
	}

	pass, err := a.readPassphrase(false)
	if err != nil {
		return a.report(ctx, "restore", err)
	}
	n, err := a.svc.Restore(ctx, ref, pass)
	if err != nil {
		return a.report(ctx, "restore", err)
	}
	a.remember(nil)
	if err := a.svc.Save(ctx); err != nil {
		return a.report(ctx, "save", err)
	}
	a.printf("Restored %d accounts.\n", n)
	return nil
}

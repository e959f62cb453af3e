package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/steamkeeper/internal/client/backup"
	"github.com/dmitrijs2005/steamkeeper/internal/client/config"
	"github.com/dmitrijs2005/steamkeeper/internal/client/models"
	"github.com/dmitrijs2005/steamkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/steamkeeper/internal/client/services"
	"github.com/dmitrijs2005/steamkeeper/internal/client/settings"
	"github.com/dmitrijs2005/steamkeeper/internal/client/steamapi"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/filex"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
)

type App struct {
	config *config.Config
	svc    services.AccountService
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	// lastList maps listing row numbers to account ids.
	mu       sync.Mutex
	lastList []string

	closers []io.Closer
}

// NewApp builds the store, the API client and the backup manager selected
// by c and wires them into an AccountService.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if _, err := filex.EnsureDir(c.DataDir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	if c.StorageDriver == accounts.DriverSQLite {
		if _, err := filex.EnsureDir(filepath.Dir(c.SQLitePath)); err != nil {
			return nil, fmt.Errorf("sqlite dir: %w", err)
		}
	}

	repo, err := accounts.Open(ctx, c.StorageDriver, c.AccountsFile, c.SQLitePath, log)
	if err != nil {
		return nil, err
	}

	backups, err := newBackupManager(ctx, c)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	api := steamapi.NewClient(
		steamapi.WithBaseURL(c.APIBaseURL),
		steamapi.WithTimeout(c.RequestTimeout),
		steamapi.WithRetries(uint64(c.RequestRetries), 500*time.Millisecond),
	)

	svc := services.NewAccountService(services.Deps{
		Accounts: repo,
		Settings: settings.NewFileStore(c.SettingsFile),
		API:      api,
		Backups:  backups,
		Logger:   log,
	})

	a := newApp(c, svc, log, os.Stdin, os.Stdout)
	a.closers = append(a.closers, repo)
	return a, nil
}

func newBackupManager(ctx context.Context, c *config.Config) (*backup.Manager, error) {
	if !c.S3Enabled() {
		return backup.NewManager(backup.NewFileStore(c.BackupDir)), nil
	}
	store, err := backup.NewS3Store(ctx, backup.S3Config{
		Endpoint:  c.BackupS3Endpoint,
		Region:    c.BackupS3Region,
		AccessKey: c.BackupS3AccessKey,
		SecretKey: c.BackupS3SecretKey,
		Bucket:    c.BackupS3Bucket,
		Prefix:    c.BackupS3Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 backup store: %w", err)
	}
	return backup.NewManager(store), nil
}

func newApp(c *config.Config, svc services.AccountService, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		svc:    svc,
		log:    log,
		reader: bufio.NewReader(in),
		out:    out,
		now:    time.Now,
	}
}

// Run loads state, starts the optional auto refresh and blocks in the REPL
// until the user exits. Accounts and settings are saved on the way out.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	if err := a.svc.Load(ctx); err != nil {
		a.log.Error(ctx, "load accounts", "error", err)
		a.printf("Warning: could not load accounts, starting with an empty list: %v\n", err)
	}

	a.printf("Welcome to SteamKeeper (type 'help' for commands). %d accounts loaded.\n", a.svc.Count())

	if a.config != nil && a.config.AutoRefreshInterval > 0 {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.StartAutoRefresh(watchCtx, a.config.AutoRefreshInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func (a *App) getStatus() string {
	return fmt.Sprintf("(%d)", a.svc.Count())
}

// Shutdown is the best-effort save on exit.
func (a *App) Shutdown(ctx context.Context) {
	a.svc.Shutdown(context.WithoutCancel(ctx))
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// report prints err in user terms and logs it.
func (a *App) report(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	a.log.Debug(ctx, op+" failed", "error", err)

	switch {
	case errors.Is(err, io.EOF):
		a.println("Cancelled.")
	case errors.Is(err, common.ErrNotFound):
		a.println("Not found:", err)
	case errors.Is(err, common.ErrValidation):
		a.println("Invalid input:", err)
	case errors.Is(err, common.ErrPrecondition):
		a.println("Cannot", op+":", err)
	case errors.Is(err, common.ErrRemoteFetch):
		a.println("Steam Web API request failed, nothing was changed:", err)
	case errors.Is(err, common.ErrLaunch):
		a.println("Launch failed:", err)
	case errors.Is(err, common.ErrPersistence):
		a.log.Error(ctx, op+" failed", "error", err)
		a.println("Storage error:", err)
	default:
		a.log.Error(ctx, op+" failed", "error", err)
		a.println("Error:", err)
	}
	return err
}

// remember stores the row order of the latest listing.
func (a *App) remember(views []models.AccountView) {
	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.Id
	}
	a.mu.Lock()
	a.lastList = ids
	a.mu.Unlock()
}

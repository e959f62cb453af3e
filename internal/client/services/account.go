// Package services holds the application service behind the CLI: the
// in-memory roster, its persistence, Steam Web API refreshes, session
// launching and encrypted backups.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/steamkeeper/internal/client/backup"
	"github.com/dmitrijs2005/steamkeeper/internal/client/batchimport"
	"github.com/dmitrijs2005/steamkeeper/internal/client/launcher"
	"github.com/dmitrijs2005/steamkeeper/internal/client/models"
	"github.com/dmitrijs2005/steamkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/steamkeeper/internal/client/settings"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/filex"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
)

// AccountService is the roster API used by the CLI. All methods are safe
// for concurrent use; network calls run without holding the roster lock.
type AccountService interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error
	// Shutdown saves accounts and settings, logging failures.
	Shutdown(ctx context.Context)

	List(now time.Time) []models.AccountView
	Count() int
	Get(id string) (models.Account, error)
	Add(a models.Account) (models.Account, error)
	BatchImport(text string) batchimport.Result
	Update(id string, p AccountPatch) (models.Account, error)
	SetBanStatus(id string, choice models.BanChoice, expiry *time.Time, now time.Time) error
	Delete(id string) error

	CanRefresh() bool
	RefreshNicknames(ctx context.Context) (int, error)
	RefreshBans(ctx context.Context) (BanRefresh, error)

	Launch(ctx context.Context, id string) error

	Settings() settings.Settings
	SetAPIKey(raw string) string
	SetExecutablePath(p string) error
	SaveSettings() error

	BackupLocation() string
	Backup(ctx context.Context, passphrase string) (string, error)
	Restore(ctx context.Context, key, passphrase string) (int, error)
	Backups(ctx context.Context) ([]string, error)
}

// SteamAPI is the remote lookup used by the refresh operations.
type SteamAPI interface {
	FetchNicknames(ctx context.Context, ids []string, apiKey string) (map[string]string, error)
	FetchBanInfo(ctx context.Context, ids []string, apiKey string) (map[string]models.BanInfo, error)
}

// SettingsStore persists user preferences.
type SettingsStore interface {
	Load() (settings.Settings, error)
	Save(settings.Settings) error
}

// LaunchFunc starts a client session; launcher.LaunchSession in production.
type LaunchFunc func(ctx context.Context, exePath, username, password string) error

// Deps wires an AccountService. Backups may be nil, which disables the
// backup operations.
type Deps struct {
	Accounts accounts.Repository
	Settings SettingsStore
	API      SteamAPI
	Launch   LaunchFunc
	Backups  *backup.Manager
	Logger   logging.Logger
	NewID    func() string
}

// AccountPatch carries the fields an edit changes; nil leaves a field as is.
type AccountPatch struct {
	Username      *string
	Password      *string
	Nickname      *string
	SteamId64     *string
	Email         *string
	EmailPassword *string
	IsPrime       *bool
}

// BanRefresh summarizes one ban refresh.
type BanRefresh struct {
	Checked int
	Changed int
}

var detectSteamPath = launcher.DetectSteamPath

type accountService struct {
	mu       sync.RWMutex
	roster   []models.Account
	settings settings.Settings

	// loadFailed is set when the stored roster could not be read. dirty
	// tracks edits since the last load or save.
	loadFailed bool
	dirty      bool

	repo     accounts.Repository
	store    SettingsStore
	api      SteamAPI
	launch   LaunchFunc
	backups  *backup.Manager
	log      logging.Logger
	newID    func() string
	importer *batchimport.Parser
}

// NewAccountService returns an AccountService with an empty roster; call
// Load to read persisted state.
func NewAccountService(d Deps) AccountService {
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Launch == nil {
		d.Launch = launcher.LaunchSession
	}
	return &accountService{
		roster:   []models.Account{},
		repo:     d.Accounts,
		store:    d.Settings,
		api:      d.API,
		launch:   d.Launch,
		backups:  d.Backups,
		log:      d.Logger,
		newID:    d.NewID,
		importer: batchimport.NewParser(d.NewID),
	}
}

// Load reads settings and the roster. A failed roster load leaves an empty
// roster in place and returns the error for the caller to report; a failed
// settings load falls back to defaults and is only logged. Blank or repeated
// ids in the stored roster are replaced with fresh ones.
func (s *accountService) Load(ctx context.Context) error {
	st, err := s.store.Load()
	if err != nil {
		s.log.Warn(ctx, "settings unreadable, using defaults", "error", err)
	}

	list, lerr := s.repo.LoadAccounts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = st
	s.dirty = false
	if lerr != nil {
		s.roster = []models.Account{}
		s.loadFailed = true
		return lerr
	}
	s.loadFailed = false
	s.roster = list
	if n := s.ensureIDs(); n > 0 {
		s.dirty = true
		s.log.Warn(ctx, "reassigned blank or duplicate account ids", "count", n)
	}
	s.log.Info(ctx, "accounts loaded", "count", len(list))
	return nil
}

// ensureIDs gives every account a unique non-blank id and returns how many
// were replaced. Must be called with s.mu held.
func (s *accountService) ensureIDs() int {
	seen := make(map[string]struct{}, len(s.roster))
	n := 0
	for i := range s.roster {
		id := strings.TrimSpace(s.roster[i].Id)
		if _, dup := seen[id]; id == "" || dup {
			for {
				id = s.newID()
				if _, taken := seen[id]; id != "" && !taken {
					break
				}
			}
			s.roster[i].Id = id
			n++
		}
		seen[id] = struct{}{}
	}
	return n
}

func (s *accountService) snapshot() []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Account(nil), s.roster...)
}

func (s *accountService) Save(ctx context.Context) error {
	list := s.snapshot()
	if err := s.repo.SaveAccounts(ctx, list); err != nil {
		return err
	}
	s.mu.Lock()
	s.loadFailed = false
	s.dirty = false
	s.mu.Unlock()
	s.log.Debug(ctx, "accounts saved", "count", len(list))
	return nil
}

// keepStored reports whether the stored roster failed to load and nothing
// has been entered since, so writing the empty roster would lose it.
func (s *accountService) keepStored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadFailed && !s.dirty
}

// Shutdown saves the roster and settings. The roster is left on disk as-is
// when it could not be loaded and has not been edited.
func (s *accountService) Shutdown(ctx context.Context) {
	if s.keepStored() {
		s.log.Warn(ctx, "accounts not saved on exit, stored file could not be read")
	} else if err := s.Save(ctx); err != nil {
		s.log.Error(ctx, "save accounts on exit", "error", err)
	}
	if err := s.SaveSettings(); err != nil {
		s.log.Error(ctx, "save settings on exit", "error", err)
	}
}

// List returns sorted views computed against a single now.
func (s *accountService) List(now time.Time) []models.AccountView {
	views := models.NewViews(s.snapshot(), now)
	models.SortViews(views)
	return views
}

func (s *accountService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.roster)
}

// indexOf must be called with s.mu held.
func (s *accountService) indexOf(id string) int {
	for i := range s.roster {
		if s.roster[i].Id == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return fmt.Errorf("account %q: %w", id, common.ErrNotFound)
}

func (s *accountService) Get(id string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Account{}, notFound(id)
	}
	return s.roster[i], nil
}

func normalize(a *models.Account) {
	a.Username = strings.TrimSpace(a.Username)
	a.Nickname = strings.TrimSpace(a.Nickname)
	a.SteamId64 = strings.TrimSpace(a.SteamId64)
	a.Email = strings.TrimSpace(a.Email)
}

// Add stores a single hand-entered account under a fresh id. A blank
// nickname defaults to the username.
func (s *accountService) Add(a models.Account) (models.Account, error) {
	normalize(&a)
	if a.Username == "" {
		return models.Account{}, fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	if a.Nickname == "" {
		a.Nickname = a.Username
	}
	if err := a.Validate(); err != nil {
		return models.Account{}, err
	}
	a.Id = s.newID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = append(s.roster, a)
	s.dirty = true
	return a, nil
}

// BatchImport parses text and appends every accepted record.
func (s *accountService) BatchImport(text string) batchimport.Result {
	res := s.importer.Parse(text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = append(s.roster, res.Accounts...)
	if len(res.Accounts) > 0 {
		s.dirty = true
	}
	return res
}

func (s *accountService) Update(id string, p AccountPatch) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Account{}, notFound(id)
	}

	a := s.roster[i]
	setIf(&a.Username, p.Username)
	setIf(&a.Password, p.Password)
	setIf(&a.Nickname, p.Nickname)
	setIf(&a.SteamId64, p.SteamId64)
	setIf(&a.Email, p.Email)
	setIf(&a.EmailPassword, p.EmailPassword)
	if p.IsPrime != nil {
		a.IsPrime = *p.IsPrime
	}
	normalize(&a)

	if err := a.Validate(); err != nil {
		return models.Account{}, err
	}
	s.roster[i] = a
	s.dirty = true
	return a, nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (s *accountService) SetBanStatus(id string, choice models.BanChoice, expiry *time.Time, now time.Time) error {
	switch choice {
	case models.BanChoiceNormal, models.BanChoiceCooldown, models.BanChoicePermanent:
	default:
		return fmt.Errorf("%w: unknown ban status %q", common.ErrValidation, choice)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	s.roster[i].SetBanStatus(choice, expiry, now)
	s.dirty = true
	return nil
}

func (s *accountService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	s.roster = append(s.roster[:i], s.roster[i+1:]...)
	s.dirty = true
	return nil
}

// CanRefresh reports whether an API key is set and at least one account
// has a SteamID64.
func (s *accountService) CanRefresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.settings.HasAPIKey() {
		return false
	}
	for _, a := range s.roster {
		if a.HasSteamID() {
			return true
		}
	}
	return false
}

// refreshInput captures the key and lookup ids under the lock.
func (s *accountService) refreshInput() (string, []string, error) {
	if s.api == nil {
		return "", nil, fmt.Errorf("%w: steam api client not configured", common.ErrPrecondition)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := strings.TrimSpace(s.settings.APIKey)
	if key == "" {
		return "", nil, fmt.Errorf("%w: steam api key is not set", common.ErrPrecondition)
	}
	var ids []string
	for _, a := range s.roster {
		if a.HasSteamID() {
			ids = append(ids, strings.TrimSpace(a.SteamId64))
		}
	}
	if len(ids) == 0 {
		return "", nil, fmt.Errorf("%w: no account has a SteamID64", common.ErrPrecondition)
	}
	return key, ids, nil
}

// RefreshNicknames replaces nicknames with the current persona names and
// returns how many accounts changed. Accounts are untouched on failure.
func (s *accountService) RefreshNicknames(ctx context.Context) (int, error) {
	key, ids, err := s.refreshInput()
	if err != nil {
		return 0, err
	}

	names, err := s.api.FetchNicknames(ctx, ids, key)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for i := range s.roster {
		a := &s.roster[i]
		name, ok := names[strings.TrimSpace(a.SteamId64)]
		if !ok || name == "" || name == a.Nickname {
			continue
		}
		a.Nickname = name
		updated++
	}
	if updated > 0 {
		s.dirty = true
	}
	s.log.Info(ctx, "nicknames refreshed", "requested", len(ids), "updated", updated)
	return updated, nil
}

// RefreshBans applies the Web API ban reports to every account that has
// one. Accounts are untouched on failure.
func (s *accountService) RefreshBans(ctx context.Context) (BanRefresh, error) {
	key, ids, err := s.refreshInput()
	if err != nil {
		return BanRefresh{}, err
	}

	infos, err := s.api.FetchBanInfo(ctx, ids, key)
	if err != nil {
		return BanRefresh{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var r BanRefresh
	for i := range s.roster {
		a := &s.roster[i]
		info, ok := infos[strings.TrimSpace(a.SteamId64)]
		if !ok {
			continue
		}
		r.Checked++
		if a.ApplyBanInfo(info) {
			r.Changed++
		}
	}
	if r.Changed > 0 {
		s.dirty = true
	}
	s.log.Info(ctx, "bans refreshed", "checked", r.Checked, "changed", r.Changed)
	return r, nil
}

// Launch logs the Steam client in as account id. When the configured
// executable is missing, the detected install is tried instead.
func (s *accountService) Launch(ctx context.Context, id string) error {
	a, err := s.Get(id)
	if err != nil {
		return err
	}

	exe := s.Settings().ExecutablePath
	if !filex.Exists(exe) {
		if detected := detectSteamPath(); detected != "" {
			s.log.Info(ctx, "configured steam path missing, using detected install", "configured", exe, "detected", detected)
			exe = detected
		}
	}

	if err := s.launch(ctx, exe, a.Username, a.Password); err != nil {
		return err
	}
	s.log.Info(ctx, "session launched", "account", a.Id, "username", a.Username)
	return nil
}

func (s *accountService) Settings() settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetAPIKey stores the normalized key and returns it.
func (s *accountService) SetAPIKey(raw string) string {
	key := settings.NormalizeAPIKey(raw)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.APIKey = key
	return key
}

func (s *accountService) SetExecutablePath(p string) error {
	p = strings.Trim(strings.TrimSpace(p), `"`)
	if p == "" {
		return fmt.Errorf("%w: executable path must not be empty", common.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.ExecutablePath = p
	return nil
}

func (s *accountService) SaveSettings() error {
	return s.store.Save(s.Settings())
}

var errNoBackups = fmt.Errorf("%w: backups are not configured", common.ErrPrecondition)

func (s *accountService) BackupLocation() string {
	if s.backups == nil {
		return ""
	}
	return s.backups.Location()
}

func (s *accountService) Backup(ctx context.Context, passphrase string) (string, error) {
	if s.backups == nil {
		return "", errNoBackups
	}
	key, err := s.backups.Backup(ctx, s.snapshot(), passphrase)
	if err != nil {
		return "", err
	}
	s.log.Info(ctx, "backup written", "key", key, "location", s.backups.Location())
	return key, nil
}

// Restore replaces the in-memory roster with the snapshot and returns its
// size. The caller saves when it wants the restore persisted.
func (s *accountService) Restore(ctx context.Context, key, passphrase string) (int, error) {
	if s.backups == nil {
		return 0, errNoBackups
	}
	list, err := s.backups.Restore(ctx, key, passphrase)
	if err != nil {
		if errors.Is(err, backup.ErrWrongPassphrase) {
			return 0, fmt.Errorf("%w: %w", common.ErrValidation, err)
		}
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = list
	s.dirty = true
	if n := s.ensureIDs(); n > 0 {
		s.log.Warn(ctx, "reassigned blank or duplicate account ids", "count", n)
	}
	s.log.Info(ctx, "backup restored", "key", key, "count", len(list))
	return len(list), nil
}

func (s *accountService) Backups(ctx context.Context) ([]string, error) {
	if s.backups == nil {
		return nil, errNoBackups
	}
	return s.backups.List(ctx)
}

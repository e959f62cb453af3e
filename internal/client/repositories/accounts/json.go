package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/steamkeeper/internal/client/models"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/filex"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
	"github.com/dmitrijs2005/steamkeeper/internal/timex"
)

const (
	emptyRoster  = "[]"
	backupSuffix = ".bak"
)

// JSONRepository stores the roster as a JSON array in one file.
type JSONRepository struct {
	path string
	log  logging.Logger

	mu         sync.Mutex
	unreadable bool
}

// JSONOption configures a JSONRepository.
type JSONOption func(*JSONRepository)

// WithLogger sets the logger used for per-record warnings.
func WithLogger(l logging.Logger) JSONOption {
	return func(r *JSONRepository) {
		if l != nil {
			r.log = l
		}
	}
}

// NewJSONRepository returns a repository backed by the file at path.
func NewJSONRepository(path string, opts ...JSONOption) *JSONRepository {
	r := &JSONRepository{path: path, log: logging.Discard()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Path returns the backing file.
func (r *JSONRepository) Path() string { return r.path }

// LoadAccounts reads the file. A missing file is created as "[]" and an
// empty roster is returned. A record whose cooldown expiry cannot be read
// is kept without a cooldown and reported as a warning.
func (r *JSONRepository) LoadAccounts(ctx context.Context) ([]models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if filex.IsNotExist(err) {
		if err := filex.WriteFileAtomic(r.path, []byte(emptyRoster), 0o600); err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", common.ErrPersistence, r.path, err)
		}
		r.setUnreadable(false)
		return []models.Account{}, nil
	}
	if err != nil {
		r.setUnreadable(true)
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrPersistence, r.path, err)
	}

	var accounts []models.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		r.setUnreadable(true)
		return nil, fmt.Errorf("%w: decode %s: %v", common.ErrPersistence, r.path, err)
	}
	r.setUnreadable(false)
	r.warnBadExpiries(ctx, data)

	if accounts == nil {
		accounts = []models.Account{}
	}
	return accounts, nil
}

// SaveAccounts writes the roster as indented JSON, replacing the file
// atomically. If the last load could not read the file, the old file is
// first renamed to <path>.bak.
func (r *JSONRepository) SaveAccounts(ctx context.Context, accounts []models.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", common.ErrPersistence, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unreadable {
		bak := r.path + backupSuffix
		if err := os.Rename(r.path, bak); err != nil && !filex.IsNotExist(err) {
			return fmt.Errorf("%w: move %s aside: %v", common.ErrPersistence, r.path, err)
		}
		r.log.Warn(ctx, "unreadable accounts file moved aside", "path", bak)
		r.unreadable = false
	}

	if err := filex.WriteFileAtomic(r.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: write %s: %v", common.ErrPersistence, r.path, err)
	}
	return nil
}

// Close is a no-op.
func (r *JSONRepository) Close() error { return nil }

func (r *JSONRepository) setUnreadable(v bool) {
	r.mu.Lock()
	r.unreadable = v
	r.mu.Unlock()
}

func (r *JSONRepository) warnBadExpiries(ctx context.Context, data []byte) {
	var raw []struct {
		Id             string  `json:"Id"`
		CooldownExpiry *string `json:"CooldownExpiry"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return
	}
	for _, a := range raw {
		if a.CooldownExpiry == nil {
			continue
		}
		if _, err := timex.ParseTimestamp(*a.CooldownExpiry); err != nil {
			r.log.Warn(ctx, "unreadable cooldown expiry ignored", "id", a.Id, "value", *a.CooldownExpiry)
		}
	}
}

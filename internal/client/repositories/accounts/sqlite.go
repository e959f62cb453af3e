package accounts

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/steamkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/steamkeeper/internal/client/models"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/dbx"
	"github.com/dmitrijs2005/steamkeeper/internal/timex"
)

// SQLiteRepository stores the roster in the accounts table.
type SQLiteRepository struct {
	db        *sql.DB
	closeOnce sync.Once
}

// OpenSQLiteRepository opens (and migrates) the database at dsn.
func OpenSQLiteRepository(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	db, err := dbx.OpenSQLite(ctx, dsn, migrations.Migrations)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return NewSQLiteRepository(db), nil
}

// NewSQLiteRepository wraps an already migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectAccounts = `SELECT id, username, password, nickname, steam_id64, is_prime,
	is_banned, ban_reason, cooldown_expiry, email, email_password
	FROM accounts ORDER BY position`

const insertAccount = `INSERT INTO accounts (id, position, username, password, nickname,
	steam_id64, is_prime, is_banned, ban_reason, cooldown_expiry, email, email_password)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// LoadAccounts returns every row in insertion order.
func (r *SQLiteRepository) LoadAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx, selectAccounts)
	if err != nil {
		return nil, fmt.Errorf("%w: select accounts: %v", common.ErrPersistence, err)
	}
	defer rows.Close()

	result := []models.Account{}
	for rows.Next() {
		var (
			a      models.Account
			reason int
			expiry string
		)
		if err := rows.Scan(&a.Id, &a.Username, &a.Password, &a.Nickname, &a.SteamId64,
			&a.IsPrime, &a.IsBanned, &reason, &expiry, &a.Email, &a.EmailPassword); err != nil {
			return nil, fmt.Errorf("%w: scan account: %v", common.ErrPersistence, err)
		}
		a.BanReason = models.BanReason(reason)
		if a.CooldownExpiry, err = timex.ParseTimestamp(expiry); err != nil {
			return nil, fmt.Errorf("%w: account %s: %v", common.ErrPersistence, a.Id, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate accounts: %v", common.ErrPersistence, err)
	}
	return result, nil
}

// SaveAccounts replaces the table content in a single transaction.
func (r *SQLiteRepository) SaveAccounts(ctx context.Context, accounts []models.Account) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
			return fmt.Errorf("clear accounts: %w", err)
		}
		for i, a := range accounts {
			_, err := tx.ExecContext(ctx, insertAccount,
				a.Id, i, a.Username, a.Password, a.Nickname, a.SteamId64, a.IsPrime,
				a.IsBanned, int(a.BanReason), formatExpiry(a.CooldownExpiry), a.Email, a.EmailPassword)
			if err != nil {
				return fmt.Errorf("insert account %s: %w", a.Id, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return nil
}

// Close closes the underlying database.
func (r *SQLiteRepository) Close() error {
	var err error
	r.closeOnce.Do(func() { err = r.db.Close() })
	return err
}

func formatExpiry(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// Package backup writes and reads passphrase-encrypted roster snapshots.
//
// A snapshot blob is laid out as
//
//	"SKB1" | salt (16) | nonce (12) | AES-GCM ciphertext
//
// where the key is derived from the passphrase and salt with argon2id and
// the magic plus salt are authenticated as additional data. Blobs are kept
// in a Store: a local directory or an S3 bucket.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/steamkeeper/internal/client/models"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/cryptox"
)

const (
	magic     = "SKB1"
	keyPrefix = "steamkeeper-"
	keySuffix = ".skb"
	keyLayout = "20060102T150405.000Z"
)

var (
	ErrBadBlob         = errors.New("not a steamkeeper backup")
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted backup")
)

// Store keeps opaque blobs by key.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get returns common.ErrNotFound for unknown keys.
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
	// Location describes where blobs go, for display.
	Location() string
}

// Encode serializes and encrypts accounts.
func Encode(accounts []models.Account, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: passphrase must not be empty", common.ErrValidation)
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	plain, err := json.Marshal(accounts)
	if err != nil {
		return nil, fmt.Errorf("encode accounts: %w", err)
	}
	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}

	header := append([]byte(magic), salt...)
	key := cryptox.DeriveKey([]byte(passphrase), salt)
	defer common.WipeByteArray(key)

	nonce, ct, err := cryptox.Seal(key, plain, header)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(header) + len(nonce) + len(ct))
	buf.Write(header)
	buf.Write(nonce)
	buf.Write(ct)
	return buf.Bytes(), nil
}

// Decode reverses Encode.
func Decode(blob []byte, passphrase string) ([]models.Account, error) {
	minLen := len(magic) + cryptox.SaltSize + cryptox.NonceSize
	if len(blob) < minLen || string(blob[:len(magic)]) != magic {
		return nil, ErrBadBlob
	}

	header := blob[:len(magic)+cryptox.SaltSize]
	salt := header[len(magic):]
	nonce := blob[len(header):minLen]
	ct := blob[minLen:]

	key := cryptox.DeriveKey([]byte(passphrase), salt)
	defer common.WipeByteArray(key)

	plain, err := cryptox.Open(key, nonce, ct, header)
	if err != nil {
		return nil, ErrWrongPassphrase
	}

	var accounts []models.Account
	if err := json.Unmarshal(plain, &accounts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBlob, err)
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return accounts, nil
}

// KeyFor names the snapshot taken at t.
func KeyFor(t time.Time) string {
	return keyPrefix + t.UTC().Format(keyLayout) + keySuffix
}

// IsBackupKey reports whether key looks like a name produced by KeyFor.
func IsBackupKey(key string) bool {
	return strings.HasPrefix(key, keyPrefix) && strings.HasSuffix(key, keySuffix)
}

// Manager ties snapshot encoding to a Store.
type Manager struct {
	store Store
	now   func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Location reports where the store keeps blobs.
func (m *Manager) Location() string { return m.store.Location() }

// Backup encrypts accounts and stores them under a fresh key.
func (m *Manager) Backup(ctx context.Context, accounts []models.Account, passphrase string) (string, error) {
	blob, err := Encode(accounts, passphrase)
	if err != nil {
		return "", err
	}
	key := KeyFor(m.now())
	if err := m.store.Put(ctx, key, blob); err != nil {
		return "", fmt.Errorf("%w: store backup: %v", common.ErrPersistence, err)
	}
	return key, nil
}

// Restore fetches and decrypts the snapshot stored under key.
func (m *Manager) Restore(ctx context.Context, key, passphrase string) ([]models.Account, error) {
	blob, err := m.store.Get(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return nil, fmt.Errorf("backup %q: %w", key, common.ErrNotFound)
		case errors.Is(err, common.ErrValidation):
			return nil, err
		}
		return nil, fmt.Errorf("%w: read backup: %v", common.ErrPersistence, err)
	}
	return Decode(blob, passphrase)
}

// List returns stored snapshot keys, newest first.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	keys, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list backups: %v", common.ErrPersistence, err)
	}
	out := keys[:0]
	for _, k := range keys {
		if IsBackupKey(k) {
			out = append(out, k)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

package accounts

import (
	"context"

	"github.com/dmitrijs2005/steamkeeper/internal/client/models"
)

// Repository loads and stores the whole roster at once.
type Repository interface {
	// LoadAccounts returns all stored accounts in stored order.
	LoadAccounts(ctx context.Context) ([]models.Account, error)

	// SaveAccounts replaces the stored roster with accounts.
	SaveAccounts(ctx context.Context, accounts []models.Account) error

	// Close releases the backend. It is safe to call more than once.
	Close() error
}

package accounts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
)

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Open returns the backend selected by driver. An empty driver means JSON.
func Open(ctx context.Context, driver, jsonPath, sqliteDSN string, log logging.Logger) (Repository, error) {
	switch driver {
	case "", DriverJSON:
		return NewJSONRepository(jsonPath, WithLogger(log)), nil
	case DriverSQLite:
		return OpenSQLiteRepository(ctx, sqliteDSN)
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", common.ErrValidation, driver)
	}
}

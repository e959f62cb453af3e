// Package accounts persists the account roster.
//
// Two backends implement Repository:
//
//   - JSONRepository keeps the roster in a single indented JSON array, the
//     accounts.json layout. A missing file is created empty on first load.
//   - SQLiteRepository keeps it in a local SQLite database migrated with
//     goose. Saving replaces the full set inside one transaction.
//
// Both backends return the roster in stored order and wrap every failure
// in common.ErrPersistence.
package accounts

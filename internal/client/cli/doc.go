// Package cli provides the interactive SteamKeeper command-line client.
//
// It wires configuration, the account store, the Steam Web API client and
// the backup store into an AccountService and drives it from a REPL.
//
// Commands take an optional account reference: the row number from the
// last listing, an account id, or a username. Without one the command
// prompts for it.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// and then saves accounts and settings.
package cli

// Package models defines the account record managed by SteamKeeper and the
// pure logic derived from it: ban status resolution, sort ranks, manual ban
// edits and folding of Web API ban reports.
package models

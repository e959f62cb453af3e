package models

import "time"

// BanInfo is the per-player ban report returned by the Steam Web API.
type BanInfo struct {
	SteamId          string
	CommunityBanned  bool
	VACBanned        bool
	NumberOfVACBans  int
	DaysSinceLastBan int
	NumberOfGameBans int
	EconomyBan       string
}

// Banned reports whether the API shows a VAC or game ban.
func (b BanInfo) Banned() bool {
	return b.VACBanned || b.NumberOfGameBans > 0
}

// ApplyBanInfo folds an API report into the account and reports whether
// anything changed.
//
// A reported VAC or game ban becomes a permanent ban. A clean report lifts
// a permanent ban. Cooldowns are left alone because the API does not
// report them.
func (a *Account) ApplyBanInfo(info BanInfo) bool {
	if info.Banned() {
		if a.IsBanned && a.BanReason == BanReasonPermanent {
			return false
		}
		a.IsBanned = true
		a.BanReason = BanReasonPermanent
		a.CooldownExpiry = time.Time{}
		return true
	}

	if a.IsBanned && a.BanReason == BanReasonPermanent {
		a.IsBanned = false
		a.BanReason = BanReasonNone
		return true
	}
	return false
}

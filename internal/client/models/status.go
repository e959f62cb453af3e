package models

import (
	"fmt"
	"time"
)

const (
	StatusNormal    = "Normal"
	StatusPermanent = "Permanently banned"
	StatusUnknown   = "Unknown ban"
)

// Sort ranks; lower sorts first.
const (
	RankNormal    = 1
	RankCooldown  = 2
	RankPermanent = 3
	RankUnknown   = 99
)

// ResolveStatus derives the display label and sort rank of an account from
// its raw ban fields. now is passed in so every row of one listing shares
// the same instant.
//
// A cooldown whose expiry is not after now counts as Normal (rank 1), the
// same as an account that was never banned.
func ResolveStatus(isBanned bool, reason BanReason, expiry, now time.Time) (string, int) {
	if !isBanned {
		return StatusNormal, RankNormal
	}

	switch reason {
	case BanReasonPermanent:
		return StatusPermanent, RankPermanent
	case BanReasonCooldown:
		if expiry.After(now) {
			return cooldownLabel(expiry.Sub(now)), RankCooldown
		}
		return StatusNormal, RankNormal
	default:
		return StatusUnknown, RankUnknown
	}
}

func cooldownLabel(left time.Duration) string {
	days := left / (24 * time.Hour)
	hours := (left % (24 * time.Hour)) / time.Hour
	return fmt.Sprintf("In cooldown (%dd %dh remaining)", days, hours)
}

// PrimeRank is the secondary sort key: prime accounts first.
func PrimeRank(isPrime bool) int {
	if isPrime {
		return 1
	}
	return 2
}

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/steamkeeper/internal/timex"
)

// BanReason is the stored cause of a restriction. Values outside the
// declared constants are kept as-is and reported as an unknown ban.
type BanReason int

const (
	BanReasonNone      BanReason = 0
	BanReasonPermanent BanReason = 1
	BanReasonCooldown  BanReason = 2
)

func (r BanReason) String() string {
	switch r {
	case BanReasonNone:
		return "none"
	case BanReasonPermanent:
		return "permanent"
	case BanReasonCooldown:
		return "cooldown"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// DefaultCooldown is applied when a cooldown is set without an expiry.
const DefaultCooldown = 7 * 24 * time.Hour

const profileURLPrefix = "https://steamcommunity.com/profiles/"

// Account is one managed Steam credential set.
//
// JSON keys follow the accounts.json layout written by earlier releases so
// existing files load unchanged. Derived values (status, ranks, profile URL)
// are never serialized; see AccountView.
type Account struct {
	Id             string    `json:"Id"`
	Username       string    `json:"Username"`
	Password       string    `json:"Password"`
	Nickname       string    `json:"Nickname"`
	SteamId64      string    `json:"SteamId64" validate:"omitempty,numeric,len=17"`
	IsPrime        bool      `json:"IsPrime"`
	IsBanned       bool      `json:"IsBanned"`
	BanReason      BanReason `json:"BanReason"`
	CooldownExpiry time.Time `json:"CooldownExpiry"`
	Email          string    `json:"Email" validate:"omitempty,email"`
	EmailPassword  string    `json:"EmailPassword"`
}

// UnmarshalJSON accepts CooldownExpiry either as RFC 3339 or in the
// zone-less form older files contain. An unreadable expiry is dropped so
// the rest of the record still loads.
func (a *Account) UnmarshalJSON(b []byte) error {
	type plain Account
	aux := struct {
		*plain
		CooldownExpiry *string `json:"CooldownExpiry"`
	}{plain: (*plain)(a)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	a.CooldownExpiry = time.Time{}
	if aux.CooldownExpiry != nil {
		if t, err := timex.ParseTimestamp(*aux.CooldownExpiry); err == nil {
			a.CooldownExpiry = t
		}
	}
	return nil
}

// HasSteamID reports whether the account can be looked up on the Web API.
func (a Account) HasSteamID() bool {
	return strings.TrimSpace(a.SteamId64) != ""
}

// ProfileURL is the community profile link, or "" without a SteamID64.
func (a Account) ProfileURL() string {
	if !a.HasSteamID() {
		return ""
	}
	return profileURLPrefix + strings.TrimSpace(a.SteamId64)
}

// BanChoice is what a user picks when editing ban status by hand.
type BanChoice string

const (
	BanChoiceNormal    BanChoice = "normal"
	BanChoiceCooldown  BanChoice = "cooldown"
	BanChoicePermanent BanChoice = "permanent"
)

// ParseBanChoice accepts the choice names and their first letters.
func ParseBanChoice(s string) (BanChoice, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "n":
		return BanChoiceNormal, true
	case "cooldown", "c":
		return BanChoiceCooldown, true
	case "permanent", "p", "vac":
		return BanChoicePermanent, true
	}
	return "", false
}

// SetBanStatus applies a manual ban edit.
//
// Normal clears the ban and reason but leaves a stale expiry in place.
// Permanent stores the zero expiry ("no expiry"). Cooldown uses expiry when
// given, otherwise now+DefaultCooldown.
func (a *Account) SetBanStatus(choice BanChoice, expiry *time.Time, now time.Time) {
	switch choice {
	case BanChoiceNormal:
		a.IsBanned = false
		a.BanReason = BanReasonNone
	case BanChoicePermanent:
		a.IsBanned = true
		a.BanReason = BanReasonPermanent
		a.CooldownExpiry = time.Time{}
	case BanChoiceCooldown:
		a.IsBanned = true
		a.BanReason = BanReasonCooldown
		if expiry != nil {
			a.CooldownExpiry = *expiry
		} else {
			a.CooldownExpiry = now.Add(DefaultCooldown)
		}
	}
}

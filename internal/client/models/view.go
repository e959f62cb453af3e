package models

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AccountView is an Account plus the values derived from it at one instant.
type AccountView struct {
	Account

	Status     string
	StatusRank int
	PrimeRank  int
}

// NewView computes the derived fields of a for the given instant.
func NewView(a Account, now time.Time) AccountView {
	label, rank := ResolveStatus(a.IsBanned, a.BanReason, a.CooldownExpiry, now)
	return AccountView{
		Account:    a,
		Status:     label,
		StatusRank: rank,
		PrimeRank:  PrimeRank(a.IsPrime),
	}
}

// PrimeText is the yes/no column shown in listings.
func (v AccountView) PrimeText() string {
	if v.IsPrime {
		return "yes"
	}
	return "no"
}

// NewViews builds views for all accounts with a single captured now.
func NewViews(accounts []Account, now time.Time) []AccountView {
	views := make([]AccountView, len(accounts))
	for i, a := range accounts {
		views[i] = NewView(a, now)
	}
	return views
}

// SortViews orders by status rank, prime rank, then nickname. Nicknames
// compare with Unicode root collation, ignoring case, so the order does not
// depend on the host locale. Username and id break remaining ties.
func SortViews(views []AccountView) {
	c := collate.New(language.Und, collate.IgnoreCase)

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.StatusRank != b.StatusRank {
			return a.StatusRank < b.StatusRank
		}
		if a.PrimeRank != b.PrimeRank {
			return a.PrimeRank < b.PrimeRank
		}
		if n := c.CompareString(a.Nickname, b.Nickname); n != 0 {
			return n < 0
		}
		if a.Username != b.Username {
			return a.Username < b.Username
		}
		return a.Id < b.Id
	})
}

package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/steamkeeper/internal/common"
)

func TestAccount_JSONRoundTrip(t *testing.T) {
	in := Account{
		Id:             "id-1",
		Username:       "alice",
		Password:       "secret",
		Nickname:       "Alice",
		SteamId64:      "76561198000000001",
		IsPrime:        true,
		IsBanned:       true,
		BanReason:      BanReasonCooldown,
		CooldownExpiry: time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC),
		Email:          "a@mail.com",
		EmailPassword:  "pw2",
	}

	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out Account
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Empty(t, cmp.Diff(in, out))
}

func TestAccount_UnmarshalLegacyFile(t *testing.T) {
	raw := `{
		"Id": "legacy",
		"Nickname": "Old",
		"Username": "old",
		"Password": "pw",
		"SteamId64": null,
		"ProfileUrl": null,
		"IsPrime": false,
		"IsBanned": true,
		"BanReason": 2,
		"CooldownExpiry": "2025-07-01T10:30:00",
		"Email": null,
		"EmailPassword": null
	}`

	var a Account
	require.NoError(t, json.Unmarshal([]byte(raw), &a))

	assert.Equal(t, "legacy", a.Id)
	assert.Equal(t, BanReasonCooldown, a.BanReason)
	assert.True(t, a.CooldownExpiry.Equal(time.Date(2025, 7, 1, 10, 30, 0, 0, time.Local)))
	assert.Empty(t, a.SteamId64)
	assert.Empty(t, a.Email)
}

func TestAccount_UnmarshalMinValueExpiryIsZero(t *testing.T) {
	var a Account
	require.NoError(t, json.Unmarshal([]byte(`{"Id":"x","CooldownExpiry":"0001-01-01T00:00:00"}`), &a))
	assert.True(t, a.CooldownExpiry.IsZero())
}

func TestAccount_UnmarshalBadExpiryKeepsRecord(t *testing.T) {
	var a Account
	raw := `{"Id":"x","Username":"u","IsBanned":true,"BanReason":2,"CooldownExpiry":"someday"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	assert.Equal(t, "x", a.Id)
	assert.Equal(t, "u", a.Username)
	assert.True(t, a.IsBanned)
	assert.True(t, a.CooldownExpiry.IsZero())
}

func TestAccount_DerivedFieldsNotSerialized(t *testing.T) {
	b, err := json.Marshal(Account{Id: "x", SteamId64: "76561198000000001"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "ProfileUrl")
	assert.NotContains(t, string(b), "Status")
}

func TestSetBanStatus(t *testing.T) {
	custom := now.Add(72 * time.Hour)

	t.Run("permanent clears expiry", func(t *testing.T) {
		a := Account{CooldownExpiry: custom}
		a.SetBanStatus(BanChoicePermanent, nil, now)
		assert.True(t, a.IsBanned)
		assert.Equal(t, BanReasonPermanent, a.BanReason)
		assert.True(t, a.CooldownExpiry.IsZero())
	})

	t.Run("cooldown with explicit expiry", func(t *testing.T) {
		var a Account
		a.SetBanStatus(BanChoiceCooldown, &custom, now)
		assert.True(t, a.IsBanned)
		assert.Equal(t, BanReasonCooldown, a.BanReason)
		assert.Equal(t, custom, a.CooldownExpiry)
	})

	t.Run("cooldown defaults to seven days", func(t *testing.T) {
		var a Account
		a.SetBanStatus(BanChoiceCooldown, nil, now)
		assert.Equal(t, now.Add(7*24*time.Hour), a.CooldownExpiry)
	})

	t.Run("normal keeps stale expiry", func(t *testing.T) {
		a := Account{IsBanned: true, BanReason: BanReasonCooldown, CooldownExpiry: custom}
		a.SetBanStatus(BanChoiceNormal, nil, now)
		assert.False(t, a.IsBanned)
		assert.Equal(t, BanReasonNone, a.BanReason)
		assert.Equal(t, custom, a.CooldownExpiry)
	})
}

func TestParseBanChoice(t *testing.T) {
	for in, want := range map[string]BanChoice{
		"normal": BanChoiceNormal, "N": BanChoiceNormal,
		"cooldown": BanChoiceCooldown, " c ": BanChoiceCooldown,
		"permanent": BanChoicePermanent, "VAC": BanChoicePermanent,
	} {
		got, ok := ParseBanChoice(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseBanChoice("banned")
	assert.False(t, ok)
}

func TestApplyBanInfo(t *testing.T) {
	expiry := now.Add(time.Hour)

	tests := []struct {
		name        string
		account     Account
		info        BanInfo
		wantChanged bool
		wantBanned  bool
		wantReason  BanReason
	}{
		{name: "vac marks permanent", info: BanInfo{VACBanned: true}, wantChanged: true, wantBanned: true, wantReason: BanReasonPermanent},
		{name: "game ban marks permanent", info: BanInfo{NumberOfGameBans: 1}, wantChanged: true, wantBanned: true, wantReason: BanReasonPermanent},
		{name: "already permanent unchanged", account: Account{IsBanned: true, BanReason: BanReasonPermanent},
			info: BanInfo{VACBanned: true}, wantBanned: true, wantReason: BanReasonPermanent},
		{name: "clean report lifts permanent", account: Account{IsBanned: true, BanReason: BanReasonPermanent},
			info: BanInfo{}, wantChanged: true, wantBanned: false, wantReason: BanReasonNone},
		{name: "clean report keeps cooldown", account: Account{IsBanned: true, BanReason: BanReasonCooldown, CooldownExpiry: expiry},
			info: BanInfo{}, wantBanned: true, wantReason: BanReasonCooldown},
		{name: "clean report on normal", info: BanInfo{CommunityBanned: true}, wantBanned: false, wantReason: BanReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.account
			changed := a.ApplyBanInfo(tt.info)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantBanned, a.IsBanned)
			assert.Equal(t, tt.wantReason, a.BanReason)
			if a.BanReason == BanReasonPermanent {
				assert.True(t, a.CooldownExpiry.IsZero())
			}
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Account{}.Validate())
	require.NoError(t, Account{SteamId64: "76561198000000001", Email: "a@mail.com"}.Validate())

	err := Account{SteamId64: "123"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	assert.Contains(t, err.Error(), "SteamId64")

	err = Account{Email: "not-an-email"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")

	require.Error(t, Account{SteamId64: "7656119800000000x"}.Validate())
}

package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"3s"`, want: 3 * time.Second},
		{name: "minutes", in: `"15m"`, want: 15 * time.Minute},
		{name: "nanoseconds", in: `1000000000`, want: time.Second},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"", time.Time{}},
		{"2025-03-04T05:06:07Z", time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)},
		{"2025-03-04T05:06:07", time.Date(2025, 3, 4, 5, 6, 7, 0, time.Local)},
		{"2025-03-04T05:06:07.5", time.Date(2025, 3, 4, 5, 6, 7, 500000000, time.Local)},
		{"0001-01-01T00:00:00", time.Time{}},
		{"2025-03-04", time.Date(2025, 3, 4, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.in, got)
	}

	_, err := ParseTimestamp("yesterday")
	require.Error(t, err)
}

func TestParseTimestamp_ZonelessUsesLocalZone(t *testing.T) {
	orig := time.Local
	time.Local = time.FixedZone("UTC+3", 3*60*60)
	t.Cleanup(func() { time.Local = orig })

	got, err := ParseTimestamp("2025-03-04 05:06:07")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 4, 2, 6, 7, 0, time.UTC), got.UTC())

	got, err = ParseTimestamp("2025-03-04T05:06:07+00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC), got.UTC())
}

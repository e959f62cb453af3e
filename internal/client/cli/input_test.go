package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func withTerminal(t *testing.T, term bool, pw []byte, err error) {
	t.Helper()
	oldIs, oldRead := isTerminal, readPassword
	isTerminal = func(int) bool { return term }
	readPassword = func(int) ([]byte, error) { return pw, err }
	t.Cleanup(func() { isTerminal, readPassword = oldIs, oldRead })
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if out.String() != "Name?\n> " {
		t.Fatalf("prompt = %q", out.String())
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}

	if _, err := GetSimpleText(rdr(""), "Name?", &out); err == nil {
		t.Fatal("expected EOF error on empty input")
	}
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "double enter", input: "a\nb\n\n\n", want: "a\nb"},
		{name: "CRLF", input: "a----1\r\nb,2,c\r\n\r\n", want: "a----1\nb,2,c"},
		{name: "EOF without blank line", input: "a\nb", want: "a\nb"},
		{name: "immediate blank", input: "\n", want: ""},
		{name: "spaces kept", input: "  x  \n\n", want: "  x  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tt.input), "Paste", &out)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestGetSecret_Terminal(t *testing.T) {
	withTerminal(t, true, []byte("s3cret"), nil)

	var out bytes.Buffer
	got, err := GetSecret(rdr("ignored\n"), "Passphrase", &out)
	require.NoError(t, err)
	require.Equal(t, "s3cret", string(got))
	require.Equal(t, "Passphrase: \n", out.String())
}

func TestGetSecret_PipedInput(t *testing.T) {
	withTerminal(t, false, nil, errors.New("must not be called"))

	var out bytes.Buffer
	got, err := GetPassword(rdr("hunter2\n"), &out)
	require.NoError(t, err)
	require.Equal(t, "hunter2", string(got))
}

func TestGetSecret_Error(t *testing.T) {
	withTerminal(t, true, nil, errors.New("boom"))

	var out bytes.Buffer
	_, err := GetSecret(rdr(""), "x", &out)
	require.Error(t, err)
}

func TestGetConfirmation(t *testing.T) {
	for in, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "maybe\n": false} {
		var out bytes.Buffer
		got, err := GetConfirmation(rdr(in), "Sure?", &out)
		require.NoError(t, err)
		require.Equal(t, want, got, in)
	}
}

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/steamkeeper/internal/client/models"
)

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// writeTable prints one numbered row per view.
func writeTable(w io.Writer, views []models.AccountView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNICKNAME\tUSERNAME\tSTATUS\tPRIME\tSTEAMID64")
	for i, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, dash(v.Nickname), dash(v.Username), v.Status, v.PrimeText(), dash(v.SteamId64))
	}
	return tw.Flush()
}

func mask(secret string) string {
	if secret == "" {
		return "-"
	}
	return strings.Repeat("*", 8)
}

// writeDetails prints every field of v. Secrets are masked unless reveal.
func writeDetails(w io.Writer, v models.AccountView, reveal bool) error {
	password, emailPassword := mask(v.Password), mask(v.EmailPassword)
	if reveal {
		password, emailPassword = dash(v.Password), dash(v.EmailPassword)
	}

	expiry := "-"
	if !v.CooldownExpiry.IsZero() {
		expiry = v.CooldownExpiry.Local().Format("2006-01-02 15:04")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Id", v.Id},
		{"Nickname", dash(v.Nickname)},
		{"Username", dash(v.Username)},
		{"Password", password},
		{"SteamID64", dash(v.SteamId64)},
		{"Profile", dash(v.ProfileURL())},
		{"Prime", v.PrimeText()},
		{"Status", v.Status},
		{"Ban reason", v.BanReason.String()},
		{"Cooldown until", expiry},
		{"Email", dash(v.Email)},
		{"Email password", emailPassword},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}

//go:build !windows

package launcher

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/dmitrijs2005/steamkeeper/internal/filex"
)

// DefaultExecutablePath is used when discovery finds nothing.
const DefaultExecutablePath = "/usr/bin/steam"

func candidatePaths() []string {
	home, _ := os.UserHomeDir()
	if runtime.GOOS == "darwin" {
		return []string{
			"/Applications/Steam.app/Contents/MacOS/steam_osx",
			filepath.Join(home, "Applications/Steam.app/Contents/MacOS/steam_osx"),
		}
	}
	return []string{
		"/usr/bin/steam",
		"/usr/games/steam",
		filepath.Join(home, ".local/share/Steam/steam.sh"),
		filepath.Join(home, ".steam/steam/steam.sh"),
	}
}

// DetectSteamPath probes the usual install locations and returns the first
// existing one, or "".
func DetectSteamPath() string {
	for _, p := range candidatePaths() {
		if filex.Exists(p) {
			return p
		}
	}
	return ""
}

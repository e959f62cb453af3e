//go:build windows

package launcher

import (
	"path/filepath"

	"golang.org/x/sys/windows/registry"

	"github.com/dmitrijs2005/steamkeeper/internal/filex"
)

// DefaultExecutablePath is used when discovery finds nothing.
const DefaultExecutablePath = `C:\Program Files (x86)\Steam\steam.exe`

const steamKey = `Software\Valve\Steam`

// DetectSteamPath reads the install location from HKCU\Software\Valve\Steam.
// It returns "" when no existing executable is found.
func DetectSteamPath() string {
	k, err := registry.OpenKey(registry.CURRENT_USER, steamKey, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer k.Close()

	if exe, _, err := k.GetStringValue("SteamExe"); err == nil {
		if exe = filepath.Clean(filepath.FromSlash(exe)); filex.Exists(exe) {
			return exe
		}
	}
	if dir, _, err := k.GetStringValue("SteamPath"); err == nil {
		exe := filepath.Join(filepath.FromSlash(dir), "steam.exe")
		if filex.Exists(exe) {
			return exe
		}
	}
	return ""
}

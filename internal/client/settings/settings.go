// Package settings stores the user preferences file: the Steam Web API key
// and the Steam executable path.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/steamkeeper/internal/client/launcher"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/filex"
)

// Settings is the persisted preference set.
type Settings struct {
	APIKey         string `json:"steamApiKey"`
	ExecutablePath string `json:"steamExePath"`
}

// detectSteamPath is a seam for tests.
var detectSteamPath = launcher.DetectSteamPath

// Defaults returns an empty API key and the detected Steam path, or the
// platform default when detection finds nothing.
func Defaults() Settings {
	exe := detectSteamPath()
	if exe == "" {
		exe = launcher.DefaultExecutablePath
	}
	return Settings{ExecutablePath: exe}
}

// Load reads path. A missing or unreadable file yields Defaults and no
// error; the returned error is informational only and never blocks startup.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if filex.IsNotExist(err) {
			return Defaults(), nil
		}
		return Defaults(), fmt.Errorf("%w: read settings: %v", common.ErrPersistence, err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Defaults(), fmt.Errorf("%w: decode settings: %v", common.ErrPersistence, err)
	}
	if strings.TrimSpace(s.ExecutablePath) == "" {
		s.ExecutablePath = Defaults().ExecutablePath
	}
	return s, nil
}

// Save writes s to path atomically.
func Save(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode settings: %v", common.ErrPersistence, err)
	}
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: write settings: %v", common.ErrPersistence, err)
	}
	return nil
}

var apiKeyPattern = regexp.MustCompile(`(?i)[a-f0-9]{32}`)

// NormalizeAPIKey extracts the first 32-hex-digit run from text and
// uppercases it. Text without one is returned trimmed.
func NormalizeAPIKey(text string) string {
	if m := apiKeyPattern.FindString(text); m != "" {
		return strings.ToUpper(m)
	}
	return strings.TrimSpace(text)
}

// HasAPIKey reports whether an API key is set.
func (s Settings) HasAPIKey() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

// MaskedAPIKey shows only the last four characters of the key.
func (s Settings) MaskedAPIKey() string {
	k := strings.TrimSpace(s.APIKey)
	if k == "" {
		return "(not set)"
	}
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return strings.Repeat("*", len(k)-4) + k[len(k)-4:]
}

// FileStore loads and saves Settings at a fixed path.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (Settings, error) { return Load(s.path) }

func (s *FileStore) Save(v Settings) error { return Save(s.path, v) }

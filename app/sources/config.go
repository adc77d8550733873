package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings tunes the per-source fetchers. Loaded from an optional YAML
// file; every field has a working default so the file can be absent or
// partial.
type Settings struct {
	Epic  EpicSettings  `yaml:"epic"`
	Steam SteamSettings `yaml:"steam"`
}

type EpicSettings struct {
	Enabled bool   `yaml:"enabled"`
	Country string `yaml:"country"`
	Locale  string `yaml:"locale"`
}

type SteamSettings struct {
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"`

	// MaxDetails caps how many search-page results are resolved through
	// the appdetails endpoint per cycle; PageDelayMs paces those calls.
	MaxDetails  int `yaml:"max_details"`
	PageDelayMs int `yaml:"page_delay_ms"`
}

func DefaultSettings() Settings {
	return Settings{
		Epic: EpicSettings{
			Enabled: true,
			Country: "UA",
			Locale:  "uk-UA",
		},
		Steam: SteamSettings{
			Enabled:     true,
			Language:    "ukrainian",
			MaxDetails:  10,
			PageDelayMs: 100,
		},
	}
}

// LoadSettings reads the YAML tuning file at path, overlaying it on the
// defaults. A missing file is not an error; a malformed one is.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read sources file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse sources file: %w", err)
	}

	if err := validateSettings(settings); err != nil {
		return settings, fmt.Errorf("invalid sources file %s: %w", path, err)
	}

	return settings, nil
}

func validateSettings(settings Settings) error {
	if settings.Steam.MaxDetails < 0 {
		return fmt.Errorf("steam max_details must be non-negative")
	}
	if settings.Steam.PageDelayMs < 0 {
		return fmt.Errorf("steam page_delay_ms must be non-negative")
	}
	if settings.Epic.Enabled && settings.Epic.Country == "" {
		return fmt.Errorf("epic country is required")
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	UI        UIConfig        `toml:"ui"`
	Discovery DiscoveryConfig `toml:"discovery"`
}

type UIConfig struct {
	PollInterval time.Duration `toml:"poll_interval"`
	Watch        bool          `toml:"watch"`
}

type DiscoveryConfig struct {
	ScanRoots       []string `toml:"scan_roots"`
	ExcludePatterns []string `toml:"exclude_patterns"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		UI: UIConfig{
			PollInterval: 2 * time.Second,
			Watch:        true,
		},
		Discovery: DiscoveryConfig{
			ScanRoots:       []string{expandHome("~/projects")},
			ExcludePatterns: []string{"node_modules", ".git", "vendor", "target"},
		},
	}

	// Try env then default paths if not specified
	if path == "" {
		path = os.Getenv("MILGRIM_CONFIG")
	}
	if path == "" {
		candidates := []string{
			expandHome("~/.config/milgrim/config.toml"),
			"./milgrim.toml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	// Load from file if exists
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, err
			}
		}
	}

	// Expand home directories
	for i, root := range cfg.Discovery.ScanRoots {
		cfg.Discovery.ScanRoots[i] = expandHome(root)
	}

	return cfg, nil
}

func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

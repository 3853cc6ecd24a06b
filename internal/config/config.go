package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Platform maps a display name the UI shows to the domain suffix used
// for site restriction and link filtering.
type Platform struct {
	Name   string `yaml:"name" json:"name"`
	Domain string `yaml:"domain" json:"domain"`
}

type Config struct {
	App struct {
		Port int `yaml:"port" json:"port"`
	} `yaml:"app" json:"app"`

	Platforms []Platform `yaml:"platforms" json:"platforms"`

	Scrape struct {
		DefaultMaxResults int     `yaml:"default_max_results" json:"default_max_results"`
		PageSettleMS      int     `yaml:"page_settle_ms" json:"page_settle_ms"`
		SearchSettleMS    int     `yaml:"search_settle_ms" json:"search_settle_ms"`
		HostRateLimit     float64 `yaml:"host_rate_limit" json:"host_rate_limit"`
		HostBurst         int     `yaml:"host_burst" json:"host_burst"`
	} `yaml:"scrape" json:"scrape"`

	Browser struct {
		Headless          bool   `yaml:"headless" json:"headless"`
		UserAgent         string `yaml:"user_agent" json:"user_agent"`
		NavTimeoutSeconds int    `yaml:"nav_timeout_seconds" json:"nav_timeout_seconds"`
	} `yaml:"browser" json:"browser"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// DomainsFor resolves platform display names (case-insensitive) to
// their domain suffixes. An unknown name is a caller error.
func DomainsFor(cfg Config, names []string) ([]string, error) {
	byName := make(map[string]string, len(cfg.Platforms))
	for _, p := range cfg.Platforms {
		byName[strings.ToLower(p.Name)] = p.Domain
	}

	out := make([]string, 0, len(names))
	for _, n := range names {
		d, ok := byName[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("unknown platform %q", n)
		}
		out = append(out, d)
	}
	return out, nil
}

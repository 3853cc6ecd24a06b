package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a cleaned-up copy of cfg plus anything
// wrong with it. Platforms are trimmed and deduplicated by name.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	seen := map[string]bool{}
	var platforms []Platform
	for _, p := range out.Platforms {
		p.Name = strings.TrimSpace(p.Name)
		p.Domain = strings.ToLower(strings.TrimSpace(p.Domain))
		if p.Name == "" && p.Domain == "" {
			continue
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			res.addWarn("duplicate platform %q dropped", p.Name)
			continue
		}
		seen[key] = true
		platforms = append(platforms, p)
	}
	out.Platforms = platforms

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if len(out.Platforms) == 0 {
		res.addErr("platforms: at least one platform is required")
	}
	for i, p := range out.Platforms {
		if p.Name == "" {
			res.addErr("platforms[%d].name is required", i)
		}
		if p.Domain == "" {
			res.addErr("platforms[%d].domain is required", i)
		}
	}

	if out.Scrape.DefaultMaxResults < 1 {
		res.addErr("scrape.default_max_results must be >= 1")
	}
	if out.Scrape.HostRateLimit < 0 {
		res.addErr("scrape.host_rate_limit must be >= 0")
	}
	if out.Browser.NavTimeoutSeconds <= 0 {
		res.addErr("browser.nav_timeout_seconds must be > 0")
	}

	return out, res
}

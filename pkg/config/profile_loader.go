package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

// EnvironmentProfile is a per-environment override of rate-limit tiers and
// system health posture, loaded from profile_<name>.yaml.
type EnvironmentProfile struct {
	Name         string              `yaml:"name" json:"name"`
	SystemHealth string              `yaml:"system_health,omitempty" json:"system_health,omitempty"`
	Tiers        map[string]TierSpec `yaml:"rate_limit_tiers" json:"rate_limit_tiers"`
}

// TierSpec mirrors security.Tier in a YAML-friendly shape.
type TierSpec struct {
	Base  int `yaml:"base" json:"base"`
	Burst int `yaml:"burst" json:"burst"`
}

// LoadProfile loads a single environment profile YAML by name, searching
// profilesDir for profile_<name>.yaml.
func LoadProfile(profilesDir, name string) (*EnvironmentProfile, error) {
	name = strings.ToLower(name)
	path := filepath.Join(profilesDir, fmt.Sprintf("profile_%s.yaml", name))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", name, err)
	}

	var profile EnvironmentProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile %q: %w", name, err)
	}
	if profile.Name == "" {
		profile.Name = name
	}
	return &profile, nil
}

// LoadAllProfiles loads every profile_*.yaml file in profilesDir.
func LoadAllProfiles(profilesDir string) (map[string]*EnvironmentProfile, error) {
	matches, err := filepath.Glob(filepath.Join(profilesDir, "profile_*.yaml"))
	if err != nil {
		return nil, err
	}

	profiles := make(map[string]*EnvironmentProfile, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var profile EnvironmentProfile
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if profile.Name == "" {
			base := filepath.Base(path)
			profile.Name = strings.TrimSuffix(strings.TrimPrefix(base, "profile_"), ".yaml")
		}
		profiles[profile.Name] = &profile
	}
	return profiles, nil
}

// RateLimitTiers converts the profile's tier overrides into the map shape
// security.NewRateLimiter expects, starting from security.DefaultTiers and
// overlaying any tiers the profile names.
func (p *EnvironmentProfile) RateLimitTiers() map[bizcontext.ActorKind]security.Tier {
	out := security.DefaultTiers()
	for kind, spec := range p.Tiers {
		out[bizcontext.ActorKind(kind)] = security.Tier{Base: spec.Base, Burst: spec.Burst}
	}
	return out
}

// HealthMode maps the profile's system_health string onto security.HealthMode,
// defaulting to ModeNormal when unset or unrecognised.
func (p *EnvironmentProfile) HealthMode() security.HealthMode {
	switch p.SystemHealth {
	case "DEGRADED":
		return security.ModeDegraded
	case "READ_ONLY":
		return security.ModeReadOnly
	default:
		return security.ModeNormal
	}
}

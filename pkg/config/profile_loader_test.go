package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

func TestLoadProfile_Prod(t *testing.T) {
	dir := locateProfiles(t)
	p, err := LoadProfile(dir, "prod")
	if err != nil {
		t.Fatalf("LoadProfile(prod): %v", err)
	}
	if p.Name != "production" {
		t.Errorf("expected name 'production', got %q", p.Name)
	}
	if p.HealthMode() != security.ModeNormal {
		t.Errorf("expected ModeNormal, got %v", p.HealthMode())
	}
	tiers := p.RateLimitTiers()
	if tiers[bizcontext.ActorHuman].Base != 60 {
		t.Errorf("expected HUMAN base 60, got %d", tiers[bizcontext.ActorHuman].Base)
	}
}

func TestLoadProfile_Staging_Degraded(t *testing.T) {
	dir := locateProfiles(t)
	p, err := LoadProfile(dir, "staging")
	if err != nil {
		t.Fatalf("LoadProfile(staging): %v", err)
	}
	if p.HealthMode() != security.ModeDegraded {
		t.Errorf("expected ModeDegraded, got %v", p.HealthMode())
	}
}

func TestLoadAllProfiles(t *testing.T) {
	dir := locateProfiles(t)
	profiles, err := LoadAllProfiles(dir)
	if err != nil {
		t.Fatalf("LoadAllProfiles: %v", err)
	}
	if len(profiles) < 2 {
		t.Errorf("expected at least 2 profiles, got %d", len(profiles))
	}
	for name, p := range profiles {
		if p.Name == "" {
			t.Errorf("profile %s has empty name", name)
		}
	}
}

func TestEnvironmentProfile_RateLimitTiers_OverlaysDefaults(t *testing.T) {
	p := &EnvironmentProfile{
		Tiers: map[string]TierSpec{
			"HUMAN": {Base: 30, Burst: 5},
		},
	}
	tiers := p.RateLimitTiers()
	if tiers[bizcontext.ActorHuman].Base != 30 {
		t.Errorf("expected overridden HUMAN base 30, got %d", tiers[bizcontext.ActorHuman].Base)
	}
	if _, ok := tiers[bizcontext.ActorSystem]; !ok {
		t.Error("expected default SYSTEM tier to survive the overlay")
	}
}

func TestEnvironmentProfile_HealthMode_DefaultsToNormal(t *testing.T) {
	p := &EnvironmentProfile{}
	if p.HealthMode() != security.ModeNormal {
		t.Errorf("expected ModeNormal default, got %v", p.HealthMode())
	}
}

func locateProfiles(t *testing.T) string {
	t.Helper()
	candidates := []string{"profiles", "../config/profiles"}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	wd, _ := os.Getwd()
	p := filepath.Join(wd, "profiles")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	t.Skip("profiles directory not found")
	return ""
}

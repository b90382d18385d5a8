// ABOUTME: Tests for config construction, env layering, and validation
// ABOUTME: Uses t.Setenv; no t.Parallel because of process-wide environment

package config

import (
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every config-relevant variable so host environment
// settings cannot leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvToken, EnvTokenAlt, EnvRetryMax, EnvRetryDelay, EnvSHA256,
		EnvInstallDir, EnvDebug, EnvForce, EnvDryRun, EnvBackup, EnvYes,
	} {
		t.Setenv(name, "")
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := New("/tmp/project")

	if cfg.Owner != DefaultOwner {
		t.Errorf("Owner = %q; want %q", cfg.Owner, DefaultOwner)
	}
	if cfg.Repo != DefaultRepo {
		t.Errorf("Repo = %q; want %q", cfg.Repo, DefaultRepo)
	}
	if cfg.Branch != DefaultBranch {
		t.Errorf("Branch = %q; want %q", cfg.Branch, DefaultBranch)
	}
	if cfg.InstallDir != DefaultInstallDir {
		t.Errorf("InstallDir = %q; want %q", cfg.InstallDir, DefaultInstallDir)
	}
	if cfg.RetryMax != DefaultRetryMax {
		t.Errorf("RetryMax = %d; want %d", cfg.RetryMax, DefaultRetryMax)
	}
	if cfg.RetryDelay != DefaultRetryDelay {
		t.Errorf("RetryDelay = %s; want %s", cfg.RetryDelay, DefaultRetryDelay)
	}
}

func TestNew_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRetryMax, "7")
	t.Setenv(EnvRetryDelay, "5")
	t.Setenv(EnvInstallDir, ".mk")
	t.Setenv(EnvForce, "yes")
	t.Setenv(EnvDebug, "1")

	cfg := New("/tmp/project")

	if cfg.RetryMax != 7 {
		t.Errorf("RetryMax = %d; want 7", cfg.RetryMax)
	}
	if cfg.RetryDelay != 5*time.Second {
		t.Errorf("RetryDelay = %s; want 5s", cfg.RetryDelay)
	}
	if cfg.InstallDir != ".mk" {
		t.Errorf("InstallDir = %q; want %q", cfg.InstallDir, ".mk")
	}
	if !cfg.Force {
		t.Error("expected Force = true from UMF_FORCE=yes")
	}
	if !cfg.Debug {
		t.Error("expected Debug = true from UMF_DEBUG=1")
	}
}

func TestNew_TokenFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvToken, "")
	t.Setenv(EnvTokenAlt, "gh-alt-token")

	cfg := New("/tmp/project")
	if cfg.Token != "gh-alt-token" {
		t.Errorf("Token = %q; want fallback from GH_TOKEN", cfg.Token)
	}
}

func TestNew_TokenPrimaryWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvToken, "primary")
	t.Setenv(EnvTokenAlt, "secondary")

	cfg := New("/tmp/project")
	if cfg.Token != "primary" {
		t.Errorf("Token = %q; want %q", cfg.Token, "primary")
	}
}

func TestNew_BadEnvValuesIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRetryMax, "not-a-number")
	t.Setenv(EnvRetryDelay, "-3")
	t.Setenv(EnvForce, "maybe")

	cfg := New("/tmp/project")

	if cfg.RetryMax != DefaultRetryMax {
		t.Errorf("RetryMax = %d; want default %d for unparsable value", cfg.RetryMax, DefaultRetryMax)
	}
	if cfg.RetryDelay != DefaultRetryDelay {
		t.Errorf("RetryDelay = %s; want default for negative value", cfg.RetryDelay)
	}
	if cfg.Force {
		t.Error("Force should stay false for unparsable value")
	}
}

func TestBoolEnv(t *testing.T) {
	tests := []struct {
		raw   string
		value bool
		ok    bool
	}{
		{"1", true, true},
		{"true", true, true},
		{"TRUE", true, true},
		{"yes", true, true},
		{"Y", true, true},
		{"on", true, true},
		{"0", false, true},
		{"false", false, true},
		{"no", false, true},
		{"off", false, true},
		{"", false, false},
		{"garbage", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("UMF_TEST_BOOL", tt.raw)
			value, ok := boolEnv("UMF_TEST_BOOL")
			if value != tt.value || ok != tt.ok {
				t.Errorf("boolEnv(%q) = (%v, %v); want (%v, %v)", tt.raw, value, ok, tt.value, tt.ok)
			}
		})
	}
}

func TestConfig_Paths(t *testing.T) {
	clearEnv(t)
	cfg := New("/work/proj")

	if got, want := cfg.InstallPath(), filepath.Join("/work/proj", DefaultInstallDir); got != want {
		t.Errorf("InstallPath = %q; want %q", got, want)
	}
	if got, want := cfg.PinPath(), filepath.Join("/work/proj", PinFile); got != want {
		t.Errorf("PinPath = %q; want %q", got, want)
	}
	if got, want := cfg.StampPath(), filepath.Join("/work/proj", DefaultInstallDir, StampFile); got != want {
		t.Errorf("StampPath = %q; want %q", got, want)
	}
	if got, want := cfg.CopyDirPath(), filepath.Join("/work/proj", CopyDirName); got != want {
		t.Errorf("CopyDirPath = %q; want %q", got, want)
	}
}

func TestConfig_RepoURL(t *testing.T) {
	clearEnv(t)
	cfg := New("/work/proj")
	cfg.Owner = "acme"
	cfg.Repo = "toolkit"

	if got, want := cfg.RepoURL(), "https://github.com/acme/toolkit.git"; got != want {
		t.Errorf("RepoURL = %q; want %q", got, want)
	}

	cfg.RemoteURL = "https://git.internal/mirror/toolkit.git"
	if got := cfg.RepoURL(); got != cfg.RemoteURL {
		t.Errorf("RepoURL = %q; want the RemoteURL override", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"empty owner", func(c *Config) { c.Owner = "" }, true},
		{"empty repo", func(c *Config) { c.Repo = "" }, true},
		{"empty install dir", func(c *Config) { c.InstallDir = "" }, true},
		{"absolute install dir", func(c *Config) { c.InstallDir = "/etc/mk" }, true},
		{"zero retries", func(c *Config) { c.RetryMax = 0 }, true},
		{"negative delay", func(c *Config) { c.RetryDelay = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New("/work/proj")
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// ABOUTME: Environment variable names and parsing for config construction
// ABOUTME: Boolean toggles accept shell-style values (1/true/yes/on, case-insensitive)

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables consumed at startup. Flags override all of these.
const (
	EnvToken      = "GITHUB_TOKEN"
	EnvTokenAlt   = "GH_TOKEN"
	EnvRetryMax   = "CURL_RETRY_MAX"
	EnvRetryDelay = "CURL_RETRY_DELAY_SEC"
	EnvSHA256     = "UMF_SHA256"
	EnvInstallDir = "UMF_INSTALL_DIR"
	EnvDebug      = "UMF_DEBUG"
	EnvForce      = "UMF_FORCE"
	EnvDryRun     = "UMF_DRY_RUN"
	EnvBackup     = "UMF_BACKUP"
	EnvYes        = "UMF_YES"
)

// applyEnv layers environment values onto cfg. Unset or unparsable values
// leave the existing field untouched.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	} else if v := os.Getenv(EnvTokenAlt); v != "" {
		cfg.Token = v
	}

	if v := os.Getenv(EnvInstallDir); v != "" {
		cfg.InstallDir = v
	}
	if v := os.Getenv(EnvSHA256); v != "" {
		cfg.ExpectedSHA256 = v
	}

	if n, ok := intEnv(EnvRetryMax); ok && n > 0 {
		cfg.RetryMax = n
	}
	if n, ok := intEnv(EnvRetryDelay); ok && n >= 0 {
		cfg.RetryDelay = time.Duration(n) * time.Second
	}

	if b, ok := boolEnv(EnvDebug); ok {
		cfg.Debug = b
	}
	if b, ok := boolEnv(EnvForce); ok {
		cfg.Force = b
	}
	if b, ok := boolEnv(EnvDryRun); ok {
		cfg.DryRun = b
	}
	if b, ok := boolEnv(EnvBackup); ok {
		cfg.Backup = b
	}
	if b, ok := boolEnv(EnvYes); ok {
		cfg.Yes = b
	}
}

// boolEnv parses a boolean environment variable. Accepts strconv.ParseBool
// forms plus the shell-style yes/y/on spellings.
func boolEnv(name string) (value, ok bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return false, false
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b, true
	}
	switch strings.ToLower(raw) {
	case "yes", "y", "on":
		return true, true
	case "no", "n", "off":
		return false, true
	}
	return false, false
}

// intEnv parses an integer environment variable.
func intEnv(name string) (value int, ok bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

package config

import (
	"os"
	"strings"
	"sync"
)

// AuthConfig is the explicit permission configuration for the service.
// It replaces ambient per-client settings: the process loads it once at
// startup and an admin can trigger Reload after changing the environment
// (e.g. via a settings endpoint).
type AuthConfig struct {
	// GuestDownload controls whether guest sessions may export data.
	GuestDownload bool
	// AccessCodes maps a login access code to a role (admin, finance, guest).
	AccessCodes map[string]string
}

var (
	authConfig   *AuthConfig
	authConfigMu sync.RWMutex
)

func GetAuthConfig() *AuthConfig {
	authConfigMu.RLock()
	cfg := authConfig
	authConfigMu.RUnlock()
	if cfg == nil {
		ReloadAuthConfig()
		authConfigMu.RLock()
		cfg = authConfig
		authConfigMu.RUnlock()
	}
	return cfg
}

// ReloadAuthConfig re-reads the permission configuration from the
// environment. Env:
//   - GUEST_DOWNLOAD_ENABLED (default true)
//   - ADMIN_ACCESS_CODE / FINANCE_ACCESS_CODE / GUEST_ACCESS_CODE
func ReloadAuthConfig() {
	cfg := &AuthConfig{
		GuestDownload: envBool("GUEST_DOWNLOAD_ENABLED", true),
		AccessCodes:   map[string]string{},
	}
	for env, role := range map[string]string{
		"ADMIN_ACCESS_CODE":   "admin",
		"FINANCE_ACCESS_CODE": "finance",
		"GUEST_ACCESS_CODE":   "guest",
	} {
		if code := strings.TrimSpace(os.Getenv(env)); code != "" {
			cfg.AccessCodes[code] = role
		}
	}
	authConfigMu.Lock()
	authConfig = cfg
	authConfigMu.Unlock()
}

// RoleForAccessCode resolves a login access code to a role.
func (c *AuthConfig) RoleForAccessCode(code string) (string, bool) {
	role, ok := c.AccessCodes[strings.TrimSpace(code)]
	return role, ok
}

// CanDownload reports whether the given role may export data.
func (c *AuthConfig) CanDownload(role string) bool {
	if role == "admin" || role == "finance" {
		return true
	}
	return c.GuestDownload
}

// CanIngest reports whether the given role may write to the repository.
func (c *AuthConfig) CanIngest(role string) bool {
	return role == "admin" || role == "finance"
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

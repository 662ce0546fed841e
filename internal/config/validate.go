package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Error detail policies accepted by UIConfig.ErrorDetail.
const (
	ErrorDetailCollapsed = "collapsed"
	ErrorDetailDetailed  = "detailed"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Dictionary.validate(); err != nil {
		return fmt.Errorf("dictionary: %w", err)
	}

	if err := c.Session.validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	switch strings.ToLower(c.UI.ErrorDetail) {
	case ErrorDetailCollapsed, ErrorDetailDetailed:
		c.UI.ErrorDetail = strings.ToLower(c.UI.ErrorDetail)
	default:
		return fmt.Errorf("ui.error_detail must be %q or %q (got %q)", ErrorDetailCollapsed, ErrorDetailDetailed, c.UI.ErrorDetail)
	}

	return nil
}

func (d *DictionaryConfig) validate() error {
	u, err := url.Parse(d.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be an http(s) URL (got %q)", d.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url has no host (got %q)", d.BaseURL)
	}
	d.BaseURL = strings.TrimRight(d.BaseURL, "/")

	if d.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0 (got %v)", d.Timeout)
	}
	return nil
}

func (s *SessionConfig) validate() error {
	if strings.TrimSpace(s.CookieName) == "" {
		return fmt.Errorf("cookie_name is required")
	}
	if s.IdleTTL <= 0 {
		return fmt.Errorf("idle_ttl must be > 0 (got %v)", s.IdleTTL)
	}
	if s.CleanupInterval <= 0 {
		return fmt.Errorf("cleanup_interval must be > 0 (got %v)", s.CleanupInterval)
	}
	return nil
}

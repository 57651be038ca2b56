package config

// GetDefaultConfigTemplate returns a fully commented config template that
// documents every available option.
func GetDefaultConfigTemplate() string {
	return `# indi-fetch Configuration
# Loaded from ~/.config/indi-fetch/config.yml and .indi-fetch/config.yml;
# environment variables with the INDI_FETCH_ prefix override both.

# Credentials (GITHUB_TOKEN / GITLAB_TOKEN env vars take precedence)
github_token: ""                      # Token for api.github.com
gitlab_token: ""                      # Token for salsa.debian.org

# HTTP settings
timeout: 30                           # Per-request timeout in seconds (1-300)

# GitHub rate-limit handling
retry_limit: 0                        # Max waits on the rate-limit reset (0 = unbounded)

# Salsa backoff handling
max_retries: 5                        # Max backoff attempts per request (1-10)
backoff_base: 1                       # First backoff delay in seconds; doubles each retry

# Salsa enumeration
page_size: 100                        # Projects fetched per page (1-100)
concurrency: 0                        # Per-page fan-out bound (0 = page size)

# Ignore list
ignore_file: ""                       # Default ignore-list path (positional arg overrides)
`
}

// Defaults returns the default configuration values.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"github_token": "",
		"gitlab_token": "",
		"timeout":      30,
		// retry_limit: GitHub waits for the advertised reset indefinitely
		// unless a ceiling is configured.
		"retry_limit":  0,
		"max_retries":  5,
		"backoff_base": 1,
		"page_size":    100,
		// concurrency: zero defers to page_size as the fan-out bound.
		"concurrency": 0,
		"ignore_file": "",
	}
}

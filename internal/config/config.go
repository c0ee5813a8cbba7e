package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/versync/versync/internal/domain"
	"github.com/spf13/viper"
)

// ManifestConfig locates one version field: a file path, the key the
// version is assigned to, and the assignment style.
type ManifestConfig struct {
	Path  string `mapstructure:"path"`
	Key   string `mapstructure:"key"`
	Style string `mapstructure:"style"`
}

type Config struct {
	Primary        ManifestConfig `mapstructure:"primary"`
	Secondary      ManifestConfig `mapstructure:"secondary"`
	TagPrefix      string         `mapstructure:"tag_prefix"`
	CommitTemplate string         `mapstructure:"commit_template"`
	GitUserName    string         `mapstructure:"git_user_name"`
	GitUserEmail   string         `mapstructure:"git_user_email"`
	StateDir       string         `mapstructure:"state_dir"`
	GithubToken    string         `mapstructure:"github_token"`
	GithubOwner    string         `mapstructure:"github_owner"`
	GithubRepo     string         `mapstructure:"github_repo"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Primary:        ManifestConfig{Path: "version.go", Key: "Version", Style: string(domain.StyleConstant)},
		Secondary:      ManifestConfig{Path: "pyproject.toml", Key: "version", Style: string(domain.StyleKwarg)},
		TagPrefix:      "v",
		CommitTemplate: "chore(release): %s",
		GitUserName:    "versync[bot]",
		GitUserEmail:   "versync[bot]@users.noreply.github.com",
		StateDir:       ".versync-state",
	}
}

// PrimaryRef returns the manifest reference for the source of truth.
func (c *Config) PrimaryRef() domain.ManifestRef {
	return domain.ManifestRef{Path: c.Primary.Path, Key: c.Primary.Key, Style: domain.ManifestStyle(c.Primary.Style)}
}

// SecondaryRef returns the manifest reference for the mirror.
func (c *Config) SecondaryRef() domain.ManifestRef {
	return domain.ManifestRef{Path: c.Secondary.Path, Key: c.Secondary.Key, Style: domain.ManifestStyle(c.Secondary.Style)}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validateManifest("primary", c.Primary); err != nil {
		return err
	}
	if err := validateManifest("secondary", c.Secondary); err != nil {
		return err
	}
	if !strings.Contains(c.CommitTemplate, "%s") {
		return fmt.Errorf("commit_template must contain a %%s placeholder for the version")
	}
	if c.GitUserName == "" || c.GitUserEmail == "" {
		return fmt.Errorf("git_user_name and git_user_email cannot be empty")
	}
	if strings.Contains(c.StateDir, "..") {
		return fmt.Errorf("state_dir contains invalid path traversal")
	}
	return nil
}

func validateManifest(name string, m ManifestConfig) error {
	if m.Path == "" {
		return fmt.Errorf("%s manifest path cannot be empty", name)
	}
	if strings.Contains(m.Path, "..") {
		return fmt.Errorf("%s manifest path contains invalid path traversal", name)
	}
	if m.Key == "" {
		return fmt.Errorf("%s manifest key cannot be empty", name)
	}
	switch domain.ManifestStyle(m.Style) {
	case domain.StyleConstant, domain.StyleKwarg:
		return nil
	default:
		return fmt.Errorf("%s manifest style must be %q or %q, got %q",
			name, domain.StyleConstant, domain.StyleKwarg, m.Style)
	}
}

// ValidateForGitHubOperations validates that GitHub settings are present for
// operations that require them
func (c *Config) ValidateForGitHubOperations() error {
	if c.GithubToken == "" {
		return fmt.Errorf("github_token is required for GitHub operations")
	}
	if err := ValidateGitHubToken(c.GithubToken); err != nil {
		return fmt.Errorf("invalid github_token: %w", err)
	}
	if err := ValidateGitHubOwnerRepo(c.GithubOwner, c.GithubRepo); err != nil {
		return fmt.Errorf("invalid github configuration: %w", err)
	}
	return nil
}

// ValidateGitHubToken validates GitHub token format (exported for reuse)
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	// Validate token format patterns
	classicPAT := regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	fineGrainedPAT := regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{82}$`)
	appToken := regexp.MustCompile(`^ghs_[a-zA-Z0-9]{36}$`)
	oauthToken := regexp.MustCompile(`^gho_[a-zA-Z0-9]{36}$`)
	if !classicPAT.MatchString(token) &&
		!fineGrainedPAT.MatchString(token) &&
		!appToken.MatchString(token) &&
		!oauthToken.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	validName := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

// LoadConfig reads configuration from the given file, or from
// .versync.yaml in the working directory when path is empty. A missing
// explicit file is an error; a missing default file falls back to
// defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".versync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	// Configure environment variables
	v.SetEnvPrefix("VERSYNC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// BindEnv allows multiple env vars - checked in order
	if err := v.BindEnv("github_token", "GITHUB_TOKEN", "VERSYNC_GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}
	if err := v.BindEnv("github_owner", "GITHUB_OWNER", "VERSYNC_GITHUB_OWNER"); err != nil {
		return nil, fmt.Errorf("failed to bind github_owner env: %w", err)
	}
	if err := v.BindEnv("github_repo", "GITHUB_REPO", "VERSYNC_GITHUB_REPO"); err != nil {
		return nil, fmt.Errorf("failed to bind github_repo env: %w", err)
	}
	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("primary.path", defaults.Primary.Path)
	v.SetDefault("primary.key", defaults.Primary.Key)
	v.SetDefault("primary.style", defaults.Primary.Style)
	v.SetDefault("secondary.path", defaults.Secondary.Path)
	v.SetDefault("secondary.key", defaults.Secondary.Key)
	v.SetDefault("secondary.style", defaults.Secondary.Style)
	v.SetDefault("tag_prefix", defaults.TagPrefix)
	v.SetDefault("commit_template", defaults.CommitTemplate)
	v.SetDefault("git_user_name", defaults.GitUserName)
	v.SetDefault("git_user_email", defaults.GitUserEmail)
	v.SetDefault("state_dir", defaults.StateDir)
	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

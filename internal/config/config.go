package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/boggdan95/photo-to-post/internal/post"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	BaseDir string `toml:"base_dir"`
	LogDir  string `toml:"log_dir"`
}

// Schedule contains configuration for the scheduling engine.
type Schedule struct {
	PostsPerWeek              float64  `toml:"posts_per_week"`
	PreferredTimes            []string `toml:"preferred_times"`
	MaxConsecutiveSameCountry int      `toml:"max_consecutive_same_country"`
	GridMode                  bool     `toml:"grid_mode"`
	GridGroupSize             int      `toml:"grid_group_size"`
}

// Calendar contains configuration for the merged calendar view.
type Calendar struct {
	DiversityWarnThreshold int `toml:"diversity_warn_threshold"`
}

// AutoPublish contains configuration for the auto-publish gate.
type AutoPublish struct {
	MaxDelayHours int `toml:"max_delay_hours"`
}

// Instagram contains configuration for the Meta Graph API publisher.
type Instagram struct {
	APIBaseURL            string `toml:"api_base_url"`
	AccessToken           string `toml:"access_token"`
	UserID                string `toml:"user_id"`
	RequestTimeout        int    `toml:"request_timeout"`
	ContainerPollAttempts int    `toml:"container_poll_attempts"`
	ContainerPollSeconds  int    `toml:"container_poll_seconds"`
}

// Cloudinary contains configuration for image uploads.
type Cloudinary struct {
	CloudName    string `toml:"cloud_name"`
	APIKey       string `toml:"api_key"`
	APISecret    string `toml:"api_secret"`
	UploadFolder string `toml:"upload_folder"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for photopost.
//
// Configuration sections by subsystem:
//   - Paths: stage folders and log directory
//   - Schedule: cadence, preferred times, diversity and grid settings
//   - Calendar: merged-view audit threshold
//   - AutoPublish: lateness tolerance for automatic publishing
//   - Instagram: Meta Graph API publisher settings
//   - Cloudinary: image upload settings
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Schedule    Schedule    `toml:"schedule"`
	Calendar    Calendar    `toml:"calendar"`
	AutoPublish AutoPublish `toml:"autopublish"`
	Instagram   Instagram   `toml:"instagram"`
	Cloudinary  Cloudinary  `toml:"cloudinary"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/photopost/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("photopost.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Stage folder names mirror the pipeline order so directory listings read in
// workflow order.
var stageFolders = map[post.Stage]string{
	post.StageDraft:     "03_drafts",
	post.StageApproved:  "04_approved",
	post.StageScheduled: "05_scheduled",
	post.StagePublished: "06_published",
}

// StageDir returns the directory that holds photo payloads for a stage.
func (c *Config) StageDir(stage post.Stage) string {
	folder, ok := stageFolders[stage]
	if !ok {
		folder = string(stage)
	}
	return filepath.Join(c.Paths.BaseDir, folder)
}

// EnsureDirectories creates the stage folders and log directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	for _, stage := range post.AllStages() {
		dirs = append(dirs, c.StageDir(stage))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

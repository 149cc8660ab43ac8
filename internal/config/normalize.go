package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSchedule()
	c.normalizeInstagram()
	c.normalizeCloudinary()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.BaseDir, err = expandPath(c.Paths.BaseDir); err != nil {
		return fmt.Errorf("paths.base_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSchedule() {
	if len(c.Schedule.PreferredTimes) == 0 {
		c.Schedule.PreferredTimes = defaultPreferredTimes()
	}
	times := make([]string, 0, len(c.Schedule.PreferredTimes))
	for _, value := range c.Schedule.PreferredTimes {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			times = append(times, trimmed)
		}
	}
	c.Schedule.PreferredTimes = times
	if c.Schedule.GridGroupSize == 0 {
		c.Schedule.GridGroupSize = defaultGridGroupSize
	}
}

func (c *Config) normalizeInstagram() {
	c.Instagram.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Instagram.APIBaseURL), "/")
	if c.Instagram.APIBaseURL == "" {
		c.Instagram.APIBaseURL = defaultGraphAPIBaseURL
	}
	if c.Instagram.AccessToken == "" {
		if value, ok := os.LookupEnv("META_ACCESS_TOKEN"); ok {
			c.Instagram.AccessToken = strings.TrimSpace(value)
		}
	}
	if c.Instagram.UserID == "" {
		if value, ok := os.LookupEnv("INSTAGRAM_USER_ID"); ok {
			c.Instagram.UserID = strings.TrimSpace(value)
		}
	}
	if c.Instagram.RequestTimeout <= 0 {
		c.Instagram.RequestTimeout = defaultInstagramTimeout
	}
	if c.Instagram.ContainerPollAttempts <= 0 {
		c.Instagram.ContainerPollAttempts = defaultContainerPollAttempts
	}
	if c.Instagram.ContainerPollSeconds <= 0 {
		c.Instagram.ContainerPollSeconds = defaultContainerPollSeconds
	}
}

func (c *Config) normalizeCloudinary() {
	c.Cloudinary.CloudName = strings.TrimSpace(c.Cloudinary.CloudName)
	if c.Cloudinary.APIKey == "" {
		if value, ok := os.LookupEnv("CLOUDINARY_API_KEY"); ok {
			c.Cloudinary.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Cloudinary.APISecret == "" {
		if value, ok := os.LookupEnv("CLOUDINARY_API_SECRET"); ok {
			c.Cloudinary.APISecret = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Cloudinary.UploadFolder) == "" {
		c.Cloudinary.UploadFolder = defaultCloudinaryFolder
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

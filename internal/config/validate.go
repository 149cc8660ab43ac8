package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSchedule(); err != nil {
		return err
	}
	if err := c.validateCalendar(); err != nil {
		return err
	}
	if err := c.validateAutoPublish(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSchedule() error {
	if c.Schedule.PostsPerWeek <= 0 {
		return errors.New("schedule.posts_per_week must be positive")
	}
	if len(c.Schedule.PreferredTimes) == 0 {
		return errors.New("schedule.preferred_times must include at least one time")
	}
	for _, value := range c.Schedule.PreferredTimes {
		if _, err := time.Parse("15:04", value); err != nil {
			return fmt.Errorf("schedule.preferred_times: %q is not a valid HH:MM time", value)
		}
	}
	if c.Schedule.MaxConsecutiveSameCountry < 0 {
		return errors.New("schedule.max_consecutive_same_country must be >= 0")
	}
	if c.Schedule.GridGroupSize <= 0 {
		return errors.New("schedule.grid_group_size must be positive")
	}
	return nil
}

func (c *Config) validateCalendar() error {
	if c.Calendar.DiversityWarnThreshold < 1 {
		return errors.New("calendar.diversity_warn_threshold must be >= 1")
	}
	return nil
}

func (c *Config) validateAutoPublish() error {
	if c.AutoPublish.MaxDelayHours < 0 {
		return errors.New("autopublish.max_delay_hours must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

package config

const (
	defaultBaseDir                = "~/photo-to-post"
	defaultLogDir                 = "~/.local/share/photopost/logs"
	defaultPostsPerWeek           = 3.0
	defaultMaxConsecutiveCountry  = 3
	defaultGridGroupSize          = 3
	defaultDiversityWarnThreshold = 3
	defaultMaxDelayHours          = 24
	defaultGraphAPIBaseURL        = "https://graph.facebook.com/v21.0"
	defaultInstagramTimeout       = 30
	defaultContainerPollAttempts  = 10
	defaultContainerPollSeconds   = 2
	defaultCloudinaryFolder       = "photo-to-post"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

func defaultPreferredTimes() []string {
	return []string{"07:00", "12:00", "19:00"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BaseDir: defaultBaseDir,
			LogDir:  defaultLogDir,
		},
		Schedule: Schedule{
			PostsPerWeek:              defaultPostsPerWeek,
			PreferredTimes:            defaultPreferredTimes(),
			MaxConsecutiveSameCountry: defaultMaxConsecutiveCountry,
			GridMode:                  false,
			GridGroupSize:             defaultGridGroupSize,
		},
		Calendar: Calendar{
			DiversityWarnThreshold: defaultDiversityWarnThreshold,
		},
		AutoPublish: AutoPublish{
			MaxDelayHours: defaultMaxDelayHours,
		},
		Instagram: Instagram{
			APIBaseURL:            defaultGraphAPIBaseURL,
			RequestTimeout:        defaultInstagramTimeout,
			ContainerPollAttempts: defaultContainerPollAttempts,
			ContainerPollSeconds:  defaultContainerPollSeconds,
		},
		Cloudinary: Cloudinary{
			UploadFolder: defaultCloudinaryFolder,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

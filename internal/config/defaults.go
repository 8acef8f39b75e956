package config

const (
	defaultDownloadDir          = "/music"
	defaultLockFile             = "/tmp/ytsync.lock"
	defaultSourceTimeout        = 30
	defaultPlexTimeout          = 10
	defaultCatalogBaseURL       = "https://itunes.apple.com"
	defaultCatalogTimeout       = 10
	defaultCatalogLimit         = 5
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Source: Source{
			Timeout: defaultSourceTimeout,
		},
		Plex: Plex{
			Timeout: defaultPlexTimeout,
		},
		Catalog: Catalog{
			BaseURL: defaultCatalogBaseURL,
			Timeout: defaultCatalogTimeout,
			Limit:   defaultCatalogLimit,
		},
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			LockFile:    defaultLockFile,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package domain

import "time"

type Config struct {
	Version           string
	ConfigPath        string
	BaseURL           string                     `yaml:"baseURL" env:"BASE_URL"`
	RequestsPerSecond int                        `yaml:"requestsPerSecond" env:"REQUESTS_PER_SECOND"`
	RequestTimeout    int                        `yaml:"requestTimeout" env:"REQUEST_TIMEOUT"` // in milliseconds
	NamingTemplate    string                     `yaml:"namingTemplate" env:"NAMING_TEMPLATE"`
	CheckInterval     int                        `yaml:"checkInterval" env:"CHECK_INTERVAL"`
	MonitoredManga    map[string]*MonitoredManga `yaml:"monitoredManga"`
	Host              string                     `yaml:"host" env:"HOST"`
	Port              int                        `yaml:"port" env:"PORT"`
	LogPath           string                     `yaml:"logPath" env:"LOG_PATH"`
	LogLevel          string                     `yaml:"logLevel" env:"LOG_LEVEL"`
	LogMaxSize        int                        `yaml:"logMaxSize" env:"LOG_MAX_SIZE"` // in megabytes
	LogMaxBackups     int                        `yaml:"logMaxBackups" env:"LOG_MAX_BACKUPS"`
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Millisecond
}

type MonitoredManga struct {
	Manga string `yaml:"manga"`
}

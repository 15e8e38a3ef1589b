package config

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"weebdex/internal/domain"
	"weebdex/internal/logger"

	"github.com/caarlos0/env/v11"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "WEEBDEX__"

var configTemplate = `# config.yaml

# Base URL
# Origin of the Weebdex API
#
# Default: "https://weebdex.org"
#
baseURL: "https://weebdex.org"

# Requests per second
# Maximum number of requests admitted to the API in any second
#
# Default: 4
#
requestsPerSecond: 4

# Request timeout in milliseconds
#
# Default: 15000
#
requestTimeout: 15000

# Naming Template
# This is used to label chapters in text output and monitor logs
# The default will result something like this: Manga Ch. 001 - Chapter Title
#
# Default: {manga:<.>} Ch. {num:3}{title: - <.>}
#
namingTemplate: "{manga:<.>} Ch. {num:3}{title: - <.>}"

# Check interval in minutes
#
# Default: 15
#
checkInterval: 15

# Monitored Manga
# Here you can define which manga you want to watch for new chapters
#
monitoredManga:
  # Custom name you can give the entry to easily distinguish between them
  #
  #One Piece:
    # ID of the manga on Weebdex
    #
    #manga: "one-piece"

# Host and port the serve command listens on
#
# Default: "127.0.0.1" and 7474
#
host: "127.0.0.1"
port: 7474

# weebdex logs file
# If not defined, logs to stderr
# Make sure to use forward slashes and include the filename with extension. e.g. "logs/weebdex.log", "C:/weebdex/logs/weebdex.log"
#
# Optional
#
#logPath: ""

# Log level
#
# Default: "DEBUG"
#
# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"
#
logLevel: "DEBUG"

# Log Max Size
#
# Default: 50
#
# Max log size in megabytes
#
#logMaxSize: 50

# Log Max Backups
#
# Default: 3
#
# Max amount of old log files
#
#logMaxBackups: 3
`

// writeConfig creates configPath and a commented config.yaml in it, unless the file already exists.
func (c *AppConfig) writeConfig(configPath string, configFile string) error {
	cfgPath := filepath.Join(configPath, configFile)

	if err := os.MkdirAll(configPath, os.ModePerm); err != nil {
		return errors.Wrapf(err, "could not create config directory %s", configPath)
	}

	f, err := os.OpenFile(cfgPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "could not create config file %s", cfgPath)
	}
	defer f.Close()

	if _, err := f.WriteString(configTemplate); err != nil {
		return errors.Wrapf(err, "could not write config template to %s", cfgPath)
	}

	return f.Sync()
}

type Config interface {
	UpdateConfig() error
	DynamicReload(log logger.Logger)
}

type AppConfig struct {
	Config *domain.Config
	m      sync.Mutex
}

func New(configPath string, version string) *AppConfig {
	c := &AppConfig{}
	c.defaults()
	c.Config = &domain.Config{
		Version:    version,
		ConfigPath: configPath,
	}

	c.load(configPath)
	if err := c.loadFromEnv(); err != nil {
		log.Printf("env read error: %q", err)
	}
	c.sanitize()

	return c
}

func (c *AppConfig) defaults() {
	viper.SetDefault("baseURL", "https://weebdex.org")
	viper.SetDefault("requestsPerSecond", 4)
	viper.SetDefault("requestTimeout", 15000)
	viper.SetDefault("namingTemplate", "{manga:<.>} Ch. {num:3}{title: - <.>}")
	viper.SetDefault("checkInterval", 15)
	viper.SetDefault("monitoredManga", make(map[string]*domain.MonitoredManga))
	viper.SetDefault("host", "127.0.0.1")
	viper.SetDefault("port", 7474)
	viper.SetDefault("logPath", "")
	viper.SetDefault("logLevel", "DEBUG")
	viper.SetDefault("logMaxSize", 50)
	viper.SetDefault("logMaxBackups", 3)
}

// loadFromEnv overrides file values with WEEBDEX__ prefixed environment variables.
func (c *AppConfig) loadFromEnv() error {
	return env.ParseWithOptions(c.Config, env.Options{Prefix: envPrefix})
}

// sanitize replaces values that would leave the client unusable with their defaults.
func (c *AppConfig) sanitize() {
	c.Config.BaseURL = strings.TrimRight(c.Config.BaseURL, "/")
	if c.Config.BaseURL == "" {
		c.Config.BaseURL = "https://weebdex.org"
	}
	if c.Config.RequestsPerSecond <= 0 {
		c.Config.RequestsPerSecond = 4
	}
	if c.Config.RequestTimeout <= 0 {
		c.Config.RequestTimeout = 15000
	}
	if c.Config.CheckInterval <= 0 {
		c.Config.CheckInterval = 15
	}
	if c.Config.MonitoredManga == nil {
		c.Config.MonitoredManga = make(map[string]*domain.MonitoredManga)
	}
}

func (c *AppConfig) load(configPath string) {
	viper.SetConfigType("yaml")

	if configPath != "" {
		// clean trailing slash from configPath
		configPath = path.Clean(configPath)

		// check if path and file exists
		// if not, create path and file
		if err := c.writeConfig(configPath, "config.yaml"); err != nil {
			log.Printf("write error: %q", err)
		}

		viper.SetConfigFile(path.Join(configPath, "config.yaml"))
	} else {
		viper.SetConfigName("config")

		// Search config in directories
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/weebdex")
		viper.AddConfigPath("$HOME/.weebdex")
	}

	// read config
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("config read error: %q", err)
		}
	}

	if err := viper.Unmarshal(c.Config); err != nil {
		log.Fatalf("Could not unmarshal config file: %v: err %q", viper.ConfigFileUsed(), err)
	}
}

func (c *AppConfig) DynamicReload(log logger.Logger) {
	viper.WatchConfig()

	viper.OnConfigChange(func(_ fsnotify.Event) {
		c.m.Lock()
		defer c.m.Unlock()

		logLevel := viper.GetString("logLevel")
		c.Config.LogLevel = logLevel
		log.SetLogLevel(c.Config.LogLevel)

		logPath := viper.GetString("logPath")
		c.Config.LogPath = logPath

		log.Debug().Msg("config file reloaded!")
	})
}

// UpdateConfig writes the effective client and log settings back to config.yaml,
// so values repaired by sanitize show up in the file.
func (c *AppConfig) UpdateConfig() error {
	if c.Config.ConfigPath == "" {
		return nil
	}

	filePath := path.Join(c.Config.ConfigPath, "config.yaml")

	f, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "could not read config file %s", filePath)
	}

	c.m.Lock()
	lines := c.processLines(strings.Split(string(f), "\n"))
	c.m.Unlock()

	if err := os.WriteFile(filePath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return errors.Wrapf(err, "could not write config file %s", filePath)
	}

	return nil
}

// managedKey is a top level config.yaml entry that UpdateConfig keeps in sync.
type managedKey struct {
	key   string
	title string
	// value renders the yaml value; an empty result leaves the line commented out
	value func(cfg *domain.Config) string
}

var managedKeys = []managedKey{
	{key: "baseURL", title: "Base URL", value: func(cfg *domain.Config) string { return strconv.Quote(cfg.BaseURL) }},
	{key: "requestsPerSecond", title: "Requests per second", value: func(cfg *domain.Config) string { return strconv.Itoa(cfg.RequestsPerSecond) }},
	{key: "requestTimeout", title: "Request timeout in milliseconds", value: func(cfg *domain.Config) string { return strconv.Itoa(cfg.RequestTimeout) }},
	{key: "checkInterval", title: "Check interval in minutes", value: func(cfg *domain.Config) string { return strconv.Itoa(cfg.CheckInterval) }},
	{key: "logLevel", title: "Log level", value: func(cfg *domain.Config) string { return strconv.Quote(cfg.LogLevel) }},
	{key: "logPath", title: "Log Path", value: func(cfg *domain.Config) string {
		if cfg.LogPath == "" {
			return ""
		}
		return strconv.Quote(cfg.LogPath)
	}},
}

func (k managedKey) render(cfg *domain.Config) string {
	if v := k.value(cfg); v != "" {
		return k.key + ": " + v
	}
	return "#" + k.key + `: ""`
}

// matches reports whether line sets k at the top level, commented out or not.
func (k managedKey) matches(line string) bool {
	if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
		return false
	}
	return strings.HasPrefix(strings.TrimLeft(line, "#"), k.key+":")
}

func (c *AppConfig) processLines(lines []string) []string {
	for _, k := range managedKeys {
		found := false

		for i, line := range lines {
			if k.matches(line) {
				lines[i] = k.render(c.Config)
				found = true
				break
			}
		}

		// keys missing from older files are appended at the bottom
		if !found {
			lines = append(lines, "", "# "+k.title, "#", k.render(c.Config))
		}
	}

	return lines
}

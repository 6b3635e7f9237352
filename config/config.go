package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/AndreeJait/email-storm/account"
	"github.com/AndreeJait/email-storm/configw"
	"github.com/AndreeJait/email-storm/emailw"
	"github.com/AndreeJait/email-storm/license"
	"github.com/AndreeJait/email-storm/loggerw"
	"github.com/AndreeJait/email-storm/redisw"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

const (
	ModeLocal      configw.ConfigMode = "local"
	ModeProduction configw.ConfigMode = "production"

	AppDirName = "mailstorm"

	StoreFile  = "file"
	StoreRedis = "redis"
)

type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Logger   LoggerConfig   `json:"logger" yaml:"logger"`
	DataDir  string         `json:"data_dir" yaml:"data_dir"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Campaign CampaignConfig `json:"campaign" yaml:"campaign"`
	License  license.Config `json:"license" yaml:"license"`
	Email    emailw.Config  `json:"email" yaml:"email"`
}

type ServerConfig struct {
	Host          string        `json:"host" yaml:"host"`
	Port          int           `json:"port" yaml:"port"`
	ShutdownGrace time.Duration `json:"shutdown_grace" yaml:"shutdown_grace"`
	AccessLog     bool          `json:"access_log" yaml:"access_log"`
	// BodyLimit caps request bodies, e.g. "32M".
	BodyLimit string `json:"body_limit" yaml:"body_limit"`
}

func (s ServerConfig) Address() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

type LoggerConfig struct {
	Level      loggerw.Level     `json:"level" yaml:"level"`
	Formatter  loggerw.Formatter `json:"formatter" yaml:"formatter"`
	FileName   string            `json:"file_name" yaml:"file_name"`
	MaxSize    int               `json:"max_size" yaml:"max_size"`
	MaxBackups int               `json:"max_backups" yaml:"max_backups"`
	MaxAge     int               `json:"max_age" yaml:"max_age"`
	Compress   bool              `json:"compress" yaml:"compress"`
}

type StoreConfig struct {
	Driver   string             `json:"driver" yaml:"driver"`
	FileName string             `json:"file_name" yaml:"file_name"`
	Redis    redisw.RedisConfig `json:"redis" yaml:"redis"`
	RedisKey string             `json:"redis_key" yaml:"redis_key"`
}

type CampaignConfig struct {
	PacingMin   time.Duration `json:"pacing_min" yaml:"pacing_min"`
	PacingMax   time.Duration `json:"pacing_max" yaml:"pacing_max"`
	SendTimeout time.Duration `json:"send_timeout" yaml:"send_timeout"`
	// Concurrent sends through distinct accounts in parallel, at most
	// MaxWorkers at a time (0 means one per account).
	Concurrent bool `json:"concurrent" yaml:"concurrent"`
	MaxWorkers int  `json:"max_workers" yaml:"max_workers"`
	// PersistentRotation carries the account position over between campaigns.
	PersistentRotation bool `json:"persistent_rotation" yaml:"persistent_rotation"`
}

// Default is the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:          "127.0.0.1",
			Port:          8000,
			ShutdownGrace: 5 * time.Second,
			AccessLog:     true,
			BodyLimit:     "64M",
		},
		Logger: LoggerConfig{
			Level:      loggerw.Info,
			Formatter:  loggerw.TextFormatter,
			FileName:   "app.log",
			MaxSize:    5,
			MaxBackups: 5,
		},
		DataDir: DefaultDataDir(),
		Store: StoreConfig{
			Driver:   StoreFile,
			FileName: account.DefaultFileName,
			RedisKey: account.DefaultRedisKey,
		},
		Campaign: CampaignConfig{
			SendTimeout: 60 * time.Second,
		},
		License: license.Config{
			ActivationURL: license.DefaultActivationURL,
			AppName:       license.DefaultAppName,
			Timeout:       license.DefaultTimeout,
			TokenTTL:      24 * time.Hour,
		},
	}
}

// DefaultDataDir is LOCALAPPDATA/mailstorm on Windows and
// XDG_DATA_HOME/mailstorm (or ~/.local/share/mailstorm) elsewhere.
func DefaultDataDir() string {
	return dataDir(runtime.GOOS, os.Getenv, os.UserHomeDir)
}

func dataDir(goos string, getenv func(string) string, home func() (string, error)) string {
	base := ""
	if goos == "windows" {
		base = getenv("LOCALAPPDATA")
		if base == "" {
			if h, err := home(); err == nil {
				base = filepath.Join(h, "AppData", "Local")
			}
		}
	} else {
		base = getenv("XDG_DATA_HOME")
		if base == "" {
			if h, err := home(); err == nil {
				base = filepath.Join(h, ".local", "share")
			}
		}
	}
	return filepath.Join(base, AppDirName)
}

// Locations maps a mode to its YAML file under dir.
func Locations(dir string) configw.LocationMap {
	return configw.LocationMap{
		ModeLocal:      filepath.Join(dir, "config.local.yaml"),
		ModeProduction: filepath.Join(dir, "config.production.yaml"),
	}
}

// Load reads .env files, the YAML file of the mode named by APP_MODE (when
// it exists) and finally the environment overrides.
func Load(dir string) (Config, error) {
	if err := configw.LoadEnvFile(filepath.Join(dir, ".env")); err != nil {
		return Config{}, err
	}

	mode := configw.ConfigMode(os.Getenv("APP_MODE"))
	if mode == "" {
		mode = ModeLocal
	}

	cfg := Default()
	cfgw := configw.New[Config](Locations(dir), mode)
	if cfgw.Exists() {
		if err := cfgw.LoadInto(&cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	err := configw.ApplyEnv(
		configw.Bind("FASTAPI_HOST", &cfg.Server.Host),
		configw.Bind("FASTAPI_PORT", &cfg.Server.Port),
		configw.Bind("HTTP_HOST", &cfg.Server.Host),
		configw.Bind("HTTP_PORT", &cfg.Server.Port),
		configw.Bind("DATA_DIR", &cfg.DataDir),
		configw.Bind("LOG_LEVEL", (*string)(&cfg.Logger.Level)),
		configw.Bind("STORE_DRIVER", &cfg.Store.Driver),
		configw.Bind("ACTIVATION_API_URL", &cfg.License.ActivationURL),
		configw.Bind("LICENSE_SECRET", &cfg.License.Secret),
		configw.Bind("LICENSE_ENFORCE", &cfg.License.Enforce),
		configw.Bind("SEND_TIMEOUT", &cfg.Campaign.SendTimeout),
	)
	if err != nil {
		return err
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		if err = cfg.Store.Redis.SetAddr(addr); err != nil {
			return errors.Wrap(err, "env REDIS_ADDR")
		}
	}
	return nil
}

func (c Config) Validate() error {
	return validation.Errors{
		"data_dir":             validation.Validate(c.DataDir, validation.Required),
		"server.port":          validation.Validate(c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		"store.driver":         validation.Validate(c.Store.Driver, validation.Required, validation.In(StoreFile, StoreRedis)),
		"campaign.pacing_min":  validation.Validate(c.Campaign.PacingMin, validation.Min(time.Duration(0))),
		"campaign.pacing_max":  validation.Validate(c.Campaign.PacingMax, validation.Min(c.Campaign.PacingMin)),
		"campaign.max_workers": validation.Validate(c.Campaign.MaxWorkers, validation.Min(0)),
	}.Filter()
}

// LogOption turns the logger section into loggerw options. A relative file
// name lands in the data dir; an empty one disables the file sink.
func (c Config) LogOption() *loggerw.Option {
	path := c.Logger.FileName
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(c.DataDir, path)
	}
	return &loggerw.Option{
		Level:       c.Logger.Level,
		LogFilePath: path,
		Formatter:   c.Logger.Formatter,
		MaxSize:     c.Logger.MaxSize,
		MaxBackups:  c.Logger.MaxBackups,
		MaxAge:      c.Logger.MaxAge,
		Compress:    c.Logger.Compress,
	}
}

// StorePath is where the file store keeps sender accounts.
func (c Config) StorePath() string {
	if filepath.IsAbs(c.Store.FileName) {
		return c.Store.FileName
	}
	return filepath.Join(c.DataDir, c.Store.FileName)
}

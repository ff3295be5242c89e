package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`

	// AllowedOrigins - browser origins besides the socket's own host that may open /ws.
	AllowedOrigins []string `yaml:"allowed-origins" env:"ALLOWED_ORIGINS" env-separator:","`

	Storage Storage `yaml:"storage"`
	Redis   Redis   `yaml:"redis"`
	Metrics Metrics `yaml:"metrics"`
}

type Storage struct {
	Driver  string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	GameTTL time.Duration `yaml:"game-ttl" env:"GAME_TTL" env-default:"24h"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Metrics struct {
	Disabled bool   `yaml:"disabled" env:"METRICS_DISABLED"`
	Path     string `yaml:"path" env:"METRICS_PATH" env-default:"/metrics"`
}

var (
	ErrUnknownStorage  = errors.New("unknown storage driver")
	ErrUnknownLogLevel = errors.New("unknown log level")
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// MustLoad - load all configurations in config.yml file, or from the
// environment alone when the file does not exist.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	if _, ok := logLevels[that.LogLevel]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, that.LogLevel)
	}

	switch that.Storage.Driver {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, that.Storage.Driver)
	}

	if that.Storage.GameTTL <= 0 {
		return fmt.Errorf("game ttl must be positive, got %s", that.Storage.GameTTL)
	}

	return nil
}

// Level - slog level of LogLevel, info when it is unknown.
func (that *Config) Level() slog.Level {
	level, ok := logLevels[that.LogLevel]
	if !ok {
		return slog.LevelInfo
	}

	return level
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

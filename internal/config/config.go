package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"` // local, s3, r2
	LocalDir  string `mapstructure:"local_dir"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type ResolverConfig struct {
	Providers        []string      `mapstructure:"providers"`
	TargetHeight     int           `mapstructure:"target_height"`
	ResolveTimeout   time.Duration `mapstructure:"resolve_timeout"`
	InvidiousBaseURL string        `mapstructure:"invidious_base_url"`
	PipedBaseURL     string        `mapstructure:"piped_base_url"`
	YtDlpPath        string        `mapstructure:"ytdlp_path"`
}

type ExtractConfig struct {
	Mode            string        `mapstructure:"mode"` // remote, download, auto
	FFmpegPath      string        `mapstructure:"ffmpeg_path"`
	ClipTimeout     time.Duration `mapstructure:"clip_timeout"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	TempDir         string        `mapstructure:"temp_dir"`
}

type JobsConfig struct {
	Retention     time.Duration `mapstructure:"retention"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/jobs.db")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_dir", "./clips")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.bucket", "clips")
	v.SetDefault("storage.public_url", "http://localhost:8080/clips")
	v.SetDefault("resolver.providers", []string{"invidious", "piped", "ytdlp"})
	v.SetDefault("resolver.target_height", 720)
	v.SetDefault("resolver.resolve_timeout", 30*time.Second)
	v.SetDefault("resolver.invidious_base_url", "https://yewtu.be")
	v.SetDefault("resolver.piped_base_url", "https://pipedapi.kavin.rocks")
	v.SetDefault("resolver.ytdlp_path", "yt-dlp")
	v.SetDefault("extract.mode", "auto")
	v.SetDefault("extract.ffmpeg_path", "ffmpeg")
	v.SetDefault("extract.clip_timeout", 5*time.Minute)
	v.SetDefault("extract.download_timeout", 20*time.Minute)
	v.SetDefault("extract.temp_dir", "")
	v.SetDefault("jobs.retention", 10*time.Minute)
	v.SetDefault("jobs.sweep_interval", time.Minute)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.dsn", "DATABASE_DSN")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")
	v.BindEnv("resolver.invidious_base_url", "INVIDIOUS_BASE_URL")
	v.BindEnv("resolver.piped_base_url", "PIPED_BASE_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// DSNString returns the connection string for the configured driver.
func (c *DatabaseConfig) DSNString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return c.Path
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Session   SessionConfig   `mapstructure:"session"`
	Google    GoogleConfig    `mapstructure:"google"`
	Media     MediaConfig     `mapstructure:"media"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	AllowOrigins    []string      `mapstructure:"allow_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, console
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	Path            string        `mapstructure:"path"` // sqlite only
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN 返回 postgres 连接串
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode)
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // 用户快照缓存
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type SessionConfig struct {
	CookieName string `mapstructure:"cookie_name"`
	Domain     string `mapstructure:"domain"`
	Secure     bool   `mapstructure:"secure"`
	SameSite   string `mapstructure:"same_site"` // lax, strict, none
}

type GoogleConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	Verifier     string        `mapstructure:"verifier"` // tokeninfo, jwks
	TokenInfoURL string        `mapstructure:"tokeninfo_url"`
	JWKSURL      string        `mapstructure:"jwks_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type MediaConfig struct {
	Driver             string        `mapstructure:"driver"` // local, s3, gcs
	LocalDir           string        `mapstructure:"local_dir"`
	PublicBaseURL      string        `mapstructure:"public_base_url"`
	S3Region           string        `mapstructure:"s3_region"`
	S3Bucket           string        `mapstructure:"s3_bucket"`
	GCSBucket          string        `mapstructure:"gcs_bucket"`
	GCSCredentialsFile string        `mapstructure:"gcs_credentials_file"`
	MaxDimension       int           `mapstructure:"max_dimension"`
	MaxSourceBytes     int64         `mapstructure:"max_source_bytes"`
	MaxSourcePixels    int64         `mapstructure:"max_source_pixels"`
	FetchTimeout       time.Duration `mapstructure:"fetch_timeout"`
	AllowPrivateHosts  bool          `mapstructure:"allow_private_hosts"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Load 读取 config.yaml 并允许 MOMENTS_ 前缀的环境变量覆盖
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom 从指定文件加载配置，path 为空时按默认路径查找
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MOMENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验必须项
func (c *Config) Validate() error {
	if c.JWT.Secret == "" && c.Server.Mode == "release" {
		return errors.New("jwt.secret is required in release mode")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Media.Driver {
	case "local", "s3", "gcs":
	default:
		return fmt.Errorf("unsupported media driver %q", c.Media.Driver)
	}
	switch c.Google.Verifier {
	case "tokeninfo", "jwks":
	default:
		return fmt.Errorf("unsupported google verifier %q", c.Google.Verifier)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", 10<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "moments")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "moments.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.cache_ttl", 5*time.Minute)

	v.SetDefault("jwt.ttl", 24*time.Hour)

	v.SetDefault("session.cookie_name", "__moments_token")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.same_site", "lax")

	v.SetDefault("google.verifier", "tokeninfo")
	v.SetDefault("google.tokeninfo_url", "https://oauth2.googleapis.com/tokeninfo")
	v.SetDefault("google.jwks_url", "https://www.googleapis.com/oauth2/v3/certs")
	v.SetDefault("google.timeout", 10*time.Second)

	v.SetDefault("media.driver", "local")
	v.SetDefault("media.local_dir", "./uploads")
	v.SetDefault("media.public_base_url", "http://localhost:4000/uploads")
	v.SetDefault("media.max_dimension", 2048)
	v.SetDefault("media.max_source_bytes", 10<<20)
	v.SetDefault("media.max_source_pixels", 40_000_000)
	v.SetDefault("media.allow_private_hosts", false)
	v.SetDefault("media.fetch_timeout", 15*time.Second)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 300)
	v.SetDefault("rate_limit.burst", 50)

	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.service_name", "moments")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

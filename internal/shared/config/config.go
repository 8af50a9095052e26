package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ALPHADASH_JWT_SECRET.
const EnvPrefix = "ALPHADASH"

// Record store backends
const (
	BackendFirestore = "firestore"
	BackendLocal     = "local"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Store        StoreConfig        `mapstructure:"store"`
	Firebase     FirebaseConfig     `mapstructure:"firebase"`
	OAuth        OAuthConfig        `mapstructure:"oauth"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
	Messages     MessagesConfig     `mapstructure:"messages"`
	TLS          TLSConfig          `mapstructure:"tls"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	Host         string   `mapstructure:"host"`
	HostURL      string   `mapstructure:"host_url"`
	AllowedHosts []string `mapstructure:"allowed_hosts"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Migrate         bool          `mapstructure:"migrate"`
}

type StoreConfig struct {
	Backend   string `mapstructure:"backend"`
	LocalPath string `mapstructure:"local_path"`
}

type FirebaseConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// Enabled reports whether enough is configured to open a Firebase app.
func (c FirebaseConfig) Enabled() bool {
	return c.ProjectID != "" || c.CredentialsFile != ""
}

type OAuthConfig struct {
	Google GoogleOAuthConfig `mapstructure:"google"`
}

type GoogleOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	CallbackURL  string `mapstructure:"callback_url"`
	FrontendURL  string `mapstructure:"frontend_url"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type SchedulerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	DigestCron   string        `mapstructure:"digest_cron"`
	WorkerCount  int           `mapstructure:"worker_count"`
	JobDelay     time.Duration `mapstructure:"job_delay"`
	QueueSize    int           `mapstructure:"queue_size"`
	RunOnStartup bool          `mapstructure:"run_on_startup"`
}

type SubscriptionConfig struct {
	VerifyDelay time.Duration `mapstructure:"verify_delay"`
}

type MessagesConfig struct {
	Path string `mapstructure:"path"`
}

type TLSConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	CertPath     string `mapstructure:"cert_path"`
	KeyPath      string `mapstructure:"key_path"`
	RedirectHTTP bool   `mapstructure:"redirect_http"`
}

type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// Load reads configuration from the YAML file at path, falling back to
// ALPHADASH_CONFIG when path is empty. Without a file only defaults and
// environment overrides apply.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOffline is Load for tools that never serve HTTP. Only the store
// settings are validated, so no JWT secret is needed.
func LoadOffline(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateStore(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Server.AllowedHosts = cleanList(cfg.Server.AllowedHosts)
	if cfg.OAuth.Google.CallbackURL == "" && cfg.Server.HostURL != "" {
		cfg.OAuth.Google.CallbackURL = strings.TrimRight(cfg.Server.HostURL, "/") + "/api/auth/oauth/callback"
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.host_url", "")
	v.SetDefault("server.allowed_hosts", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "alphadash")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "alphadash")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.migrate", true)

	v.SetDefault("store.backend", BackendLocal)
	v.SetDefault("store.local_path", "~/.alphadash")

	v.SetDefault("firebase.project_id", "")
	v.SetDefault("firebase.credentials_file", "")

	v.SetDefault("oauth.google.client_id", "")
	v.SetDefault("oauth.google.client_secret", "")
	v.SetDefault("oauth.google.callback_url", "")
	v.SetDefault("oauth.google.frontend_url", "/")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", "24h")

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.digest_cron", "0 0 21 * * *")
	v.SetDefault("scheduler.worker_count", 5)
	v.SetDefault("scheduler.job_delay", "1s")
	v.SetDefault("scheduler.queue_size", 100)
	v.SetDefault("scheduler.run_on_startup", false)

	v.SetDefault("subscription.verify_delay", "2s")

	v.SetDefault("messages.path", "")

	v.SetDefault("tls.enabled", false)
	v.SetDefault("tls.cert_path", "")
	v.SetDefault("tls.key_path", "")
	v.SetDefault("tls.redirect_http", false)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "alphadash-api")
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4317")
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret (%s_JWT_SECRET) is required", EnvPrefix)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("jwt.ttl must be positive")
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	if c.TLS.Enabled {
		if c.TLS.CertPath == "" {
			return fmt.Errorf("tls.cert_path is required when tls.enabled=true")
		}
		if c.TLS.KeyPath == "" {
			return fmt.Errorf("tls.key_path is required when tls.enabled=true")
		}
	}

	if c.Scheduler.WorkerCount < 1 {
		return fmt.Errorf("scheduler.worker_count must be at least 1")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendLocal:
	case BackendFirestore:
		if !c.Firebase.Enabled() {
			return fmt.Errorf("firebase.project_id or firebase.credentials_file is required for the firestore backend")
		}
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendFirestore, BackendLocal, c.Store.Backend)
	}
	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

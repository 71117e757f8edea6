package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/tasker/auth"
	"github.com/sagarc03/tasker/database"
	taskerhttp "github.com/sagarc03/tasker/http"
	"github.com/sagarc03/tasker/objectstore"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "TASKER"

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for tasker.
type Config struct {
	Env         string                `mapstructure:"env" validate:"required,oneof=dev prod"`
	Server      ServerConfig          `mapstructure:"server"`
	Database    database.Config       `mapstructure:"database"`
	Auth        AuthConfig            `mapstructure:"auth"`
	Attachments AttachmentsConfig     `mapstructure:"attachments"`
	CORS        taskerhttp.CORSConfig `mapstructure:"cors"`
	Metrics     MetricsConfig         `mapstructure:"metrics"`
	Log         LogConfig             `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration. Timeouts are in seconds.
type ServerConfig struct {
	Port         int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeout  int `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout int `mapstructure:"write_timeout" validate:"min=0"`
	IdleTimeout  int `mapstructure:"idle_timeout" validate:"min=0"`
}

// AuthConfig holds the identity provider trust settings.
type AuthConfig struct {
	// Certificate is an inline PEM certificate or public key.
	Certificate string `mapstructure:"certificate"`
	// CertificateFile is read when Certificate is empty.
	CertificateFile string `mapstructure:"certificate_file"`
	Issuer          string `mapstructure:"issuer"`
	Audience        string `mapstructure:"audience"`
}

// CertificatePEM returns the trusted PEM, preferring the inline value.
func (a AuthConfig) CertificatePEM() ([]byte, error) {
	if strings.TrimSpace(a.Certificate) != "" {
		return []byte(a.Certificate), nil
	}
	if a.CertificateFile == "" {
		return nil, errors.New("auth: one of auth.certificate or auth.certificate_file is required")
	}
	data, err := os.ReadFile(a.CertificateFile)
	if err != nil {
		return nil, fmt.Errorf("auth: read certificate file: %w", err)
	}
	return data, nil
}

// NewAuthorizer loads the trusted certificate and builds the authorizer with
// the configured issuer and audience pins. Empty pins are not enforced.
func (a AuthConfig) NewAuthorizer(logger *slog.Logger) (*auth.Authorizer, error) {
	pemData, err := a.CertificatePEM()
	if err != nil {
		return nil, err
	}

	authorizer, err := auth.NewAuthorizerFromPEM(pemData, logger,
		auth.WithIssuer(a.Issuer),
		auth.WithAudience(a.Audience),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	return authorizer, nil
}

// AttachmentsConfig holds object store configuration for task attachments.
type AttachmentsConfig struct {
	Backend       string `mapstructure:"backend" validate:"required,oneof=s3 stowry local"`
	Bucket        string `mapstructure:"bucket" validate:"required"`
	URLExpiration int    `mapstructure:"url_expiration" validate:"min=1,max=604800"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint" validate:"omitempty,url"`
	UsePathStyle  bool   `mapstructure:"use_path_style"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	LocalPath     string `mapstructure:"local_path" validate:"required_if=Backend local"`
}

// Expiration returns URLExpiration as a duration.
func (a AttachmentsConfig) Expiration() time.Duration {
	return time.Duration(a.URLExpiration) * time.Second
}

// SignerConfig converts the settings for objectstore.New.
func (a AttachmentsConfig) SignerConfig() objectstore.Config {
	return objectstore.Config{
		Backend:      a.Backend,
		Bucket:       a.Bucket,
		Region:       a.Region,
		Endpoint:     a.Endpoint,
		UsePathStyle: a.UsePathStyle,
		AccessKey:    a.AccessKey,
		SecretKey:    a.SecretKey,
	}
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":   "database.type",
	"db-dsn":    "database.dsn",
	"port":      "server.port",
	"log-level": "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok {
			return
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance. Every key has
// a default so that AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.idle_timeout", 60)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "tasker.db")
	v.SetDefault("database.tables.tasks", "tasks")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.certificate", "")
	v.SetDefault("auth.certificate_file", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")

	v.SetDefault("attachments.backend", "local")
	v.SetDefault("attachments.bucket", "attachments")
	v.SetDefault("attachments.url_expiration", 300)
	v.SetDefault("attachments.region", "us-east-1")
	v.SetDefault("attachments.endpoint", "")
	v.SetDefault("attachments.use_path_style", false)
	v.SetDefault("attachments.access_key", "")
	v.SetDefault("attachments.secret_key", "")
	v.SetDefault("attachments.local_path", "./data")

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("cors.exposed_headers", []string{})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.Database.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. SITE_ODOO_PASSWORD
const EnvPrefix = "SITE"

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Odoo      OdooConfig
	Mail      MailConfig
	Registry  RegistryConfig
	Anthropic AnthropicConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
	// SiteURL is the public website, linked from emails
	SiteURL string
	// Brand is the company name shown in emails
	Brand string
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	MaxBodySize     int64
	// RequestTimeout bounds the upstream calls of a single request
	RequestTimeout time.Duration

	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitBurst    int
	// Form endpoints (contact, onboarding, provisioning) get a stricter limit
	FormRateLimitRequests int
	FormRateLimitWindow   time.Duration

	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
	HSTSEnabled      bool
}

// OdooConfig holds the Odoo external API settings. An empty URL disables it.
type OdooConfig struct {
	URL          string
	Database     string
	Username     string
	Password     string
	Timeout      time.Duration
	AuthAttempts int
	RetryDelay   time.Duration
	// LoginURL is sent in welcome emails, defaults to URL + /web/login
	LoginURL string
}

// Enabled reports whether Odoo is configured
func (o OdooConfig) Enabled() bool {
	return o.URL != ""
}

// MailConfig holds transactional email settings
type MailConfig struct {
	Provider  string // sendgrid, emailjs, log
	FromName  string
	FromEmail string
	Timeout   time.Duration

	SalesInbox      string
	OnboardingInbox string

	SendGridAPIKey     string
	SendGridHost       string
	SendGridCategories []string

	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSTemplates  map[string]string
	EmailJSPublicKey  string
	EmailJSPrivateKey string
	EmailJSBaseURL    string
}

// RegistryConfig holds the openapi.ro settings. An empty API key disables lookups.
type RegistryConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Enabled reports whether CUI lookups are configured
func (r RegistryConfig) Enabled() bool {
	return r.APIKey != ""
}

// AnthropicConfig holds the translation scoring model settings.
// An empty API key disables the translation endpoints.
type AnthropicConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int64
	Timeout    time.Duration
	MaxRetries int
}

// Enabled reports whether the model is configured
func (a AnthropicConfig) Enabled() bool {
	return a.APIKey != ""
}

// TelemetryConfig holds OpenTelemetry and Prometheus configuration
type TelemetryConfig struct {
	Enabled           bool    // Export traces over OTLP
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool // Plaintext gRPC, development only

	MetricsEnabled bool
	MetricsPath    string
	// MetricsNamespace prefixes every Prometheus metric name
	MetricsNamespace string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SITE_ prefix (e.g., SITE_ODOO_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	return fromViper(v)
}

// LoadFile loads configuration from an explicit file plus the environment
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			SiteURL: v.GetString("app.site_url"),
			Brand:   v.GetString("app.brand"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:       v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			RequestTimeout:        v.GetDuration("http.request_timeout"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			RateLimitBurst:        v.GetInt("http.rate_limit_burst"),
			FormRateLimitRequests: v.GetInt("http.form_rate_limit_requests"),
			FormRateLimitWindow:   v.GetDuration("http.form_rate_limit_window"),
			CORSAllowOrigins:      stringSlice(v, "http.cors_allow_origins"),
			CORSAllowMethods:      stringSlice(v, "http.cors_allow_methods"),
			CORSAllowHeaders:      stringSlice(v, "http.cors_allow_headers"),
			TrustedProxies:        stringSlice(v, "http.trusted_proxies"),
			HSTSEnabled:           v.GetBool("http.hsts_enabled"),
		},
		Odoo: OdooConfig{
			URL:          v.GetString("odoo.url"),
			Database:     v.GetString("odoo.database"),
			Username:     v.GetString("odoo.username"),
			Password:     v.GetString("odoo.password"),
			Timeout:      v.GetDuration("odoo.timeout"),
			AuthAttempts: v.GetInt("odoo.auth_attempts"),
			RetryDelay:   v.GetDuration("odoo.retry_delay"),
			LoginURL:     v.GetString("odoo.login_url"),
		},
		Mail: MailConfig{
			Provider:           v.GetString("mail.provider"),
			FromName:           v.GetString("mail.from_name"),
			FromEmail:          v.GetString("mail.from_email"),
			Timeout:            v.GetDuration("mail.timeout"),
			SalesInbox:         v.GetString("mail.sales_inbox"),
			OnboardingInbox:    v.GetString("mail.onboarding_inbox"),
			SendGridAPIKey:     v.GetString("mail.sendgrid_api_key"),
			SendGridHost:       v.GetString("mail.sendgrid_host"),
			SendGridCategories: stringSlice(v, "mail.sendgrid_categories"),
			EmailJSServiceID:   v.GetString("mail.emailjs_service_id"),
			EmailJSTemplateID:  v.GetString("mail.emailjs_template_id"),
			EmailJSTemplates:   v.GetStringMapString("mail.emailjs_templates"),
			EmailJSPublicKey:   v.GetString("mail.emailjs_public_key"),
			EmailJSPrivateKey:  v.GetString("mail.emailjs_private_key"),
			EmailJSBaseURL:     v.GetString("mail.emailjs_base_url"),
		},
		Registry: RegistryConfig{
			BaseURL: v.GetString("registry.base_url"),
			APIKey:  v.GetString("registry.api_key"),
			Timeout: v.GetDuration("registry.timeout"),
		},
		Anthropic: AnthropicConfig{
			APIKey:     v.GetString("anthropic.api_key"),
			BaseURL:    v.GetString("anthropic.base_url"),
			Model:      v.GetString("anthropic.model"),
			MaxTokens:  v.GetInt64("anthropic.max_tokens"),
			Timeout:    v.GetDuration("anthropic.timeout"),
			MaxRetries: v.GetInt("anthropic.max_retries"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsPath:       v.GetString("telemetry.metrics_path"),
			MetricsNamespace:  v.GetString("telemetry.metrics_namespace"),
		},
	}

	// Booleans that default to true cannot be told apart from an unset false
	if !v.IsSet("http.rate_limit_enabled") {
		cfg.HTTP.RateLimitEnabled = true
	}
	if !v.IsSet("telemetry.metrics_enabled") {
		cfg.Telemetry.MetricsEnabled = true
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stringSlice also accepts comma separated environment values
func stringSlice(v *viper.Viper, key string) []string {
	values := v.GetStringSlice(key)
	if len(values) != 1 || !strings.Contains(values[0], ",") {
		return values
	}
	var out []string
	for _, part := range strings.Split(values[0], ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "erp-website"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3001"
	}
	if cfg.App.Brand == "" {
		cfg.App.Brand = "ERP"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// Provisioning makes several sequential Odoo calls
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 2 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.RequestTimeout == 0 {
		cfg.HTTP.RequestTimeout = 90 * time.Second
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 120
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 20
	}
	if cfg.HTTP.FormRateLimitRequests == 0 {
		cfg.HTTP.FormRateLimitRequests = 5
	}
	if cfg.HTTP.FormRateLimitWindow == 0 {
		cfg.HTTP.FormRateLimitWindow = time.Minute
	}
	// No default origins: cross-origin requests are refused until configured
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Accept", "Origin", "X-Request-ID"}
	}

	if cfg.Odoo.LoginURL == "" && cfg.Odoo.URL != "" {
		cfg.Odoo.LoginURL = strings.TrimRight(cfg.Odoo.URL, "/") + "/web/login"
	}

	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "log"
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = cfg.App.Brand
	}
	if cfg.Mail.FromEmail == "" && !cfg.App.IsProduction() {
		cfg.Mail.FromEmail = "noreply@localhost.localdomain"
	}
	if cfg.Mail.SalesInbox == "" {
		cfg.Mail.SalesInbox = cfg.Mail.FromEmail
	}
	if cfg.Mail.OnboardingInbox == "" {
		cfg.Mail.OnboardingInbox = cfg.Mail.SalesInbox
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsPath == "" {
		cfg.Telemetry.MetricsPath = "/metrics"
	}
	if cfg.Telemetry.MetricsNamespace == "" {
		cfg.Telemetry.MetricsNamespace = "site"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Mail.Provider {
	case "sendgrid", "emailjs", "log":
	default:
		return fmt.Errorf("mail.provider must be one of sendgrid, emailjs, log, got %q", c.Mail.Provider)
	}
	for name, addr := range map[string]string{
		"mail.from_email":       c.Mail.FromEmail,
		"mail.sales_inbox":      c.Mail.SalesInbox,
		"mail.onboarding_inbox": c.Mail.OnboardingInbox,
	} {
		if addr == "" {
			return fmt.Errorf("%s is required", name)
		}
		if _, err := mail.ParseAddress(addr); err != nil {
			return fmt.Errorf("%s is not a valid email address: %w", name, err)
		}
	}

	if c.Odoo.Enabled() {
		if c.Odoo.Database == "" || c.Odoo.Username == "" || c.Odoo.Password == "" {
			return fmt.Errorf("odoo.database, odoo.username and odoo.password are required when odoo.url is set")
		}
		if c.Odoo.AuthAttempts < 0 {
			return fmt.Errorf("odoo.auth_attempts cannot be negative")
		}
	}

	if c.HTTP.RateLimitRequests <= 0 || c.HTTP.FormRateLimitRequests <= 0 {
		return fmt.Errorf("http rate limits must be positive")
	}

	if c.App.IsProduction() {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Mail.Provider == "log" {
			return fmt.Errorf("mail.provider cannot be 'log' in production")
		}
		if c.Log.Format != "json" {
			return fmt.Errorf("log.format must be 'json' in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	return nil
}

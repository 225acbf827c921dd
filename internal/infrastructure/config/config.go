// Package config loads generator and naming service settings from config.toml
// and ORDERGEN_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ORDERGEN_NAMING_BASE_URL
const EnvPrefix = "ORDERGEN"

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	Generator GeneratorConfig
	Naming    NamingConfig
	Export    ExportConfig
	Storage   StorageConfig
	Printing  PrintingConfig
	HTTP      HTTPConfig
	LLM       LLMConfig
	Metrics   MetricsConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string `validate:"oneof=development testing production"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `validate:"oneof=debug info warn error"`
	Format     string `validate:"oneof=json console"`
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

// GeneratorConfig holds the per-run generation settings
type GeneratorConfig struct {
	Products int `validate:"min=1,max=10"`
	Orders   int `validate:"min=1,max=50"`
	// Seed drives every random draw; 0 picks a random seed
	Seed            uint64
	MinItems        int `validate:"min=1,max=5"`
	MaxItems        int `validate:"gtefield=MinItems,max=5"`
	IdentifierDraws int `validate:"min=1"`
}

// NamingConfig configures the client of the product naming service
type NamingConfig struct {
	BaseURL       string        `validate:"required,url"`
	Timeout       time.Duration `validate:"gt=0"`
	RatePerSecond float64       `validate:"gte=0"`
	Burst         int           `validate:"gte=0"`
}

// ExportConfig controls where tables are written and how they are previewed
type ExportConfig struct {
	// OutDir is the root of the local store
	OutDir      string `validate:"required"`
	DataDir     string
	PreviewRows int  `validate:"gte=0"`
	Preview     bool // print table previews to stdout
}

// StorageConfig holds object storage settings
type StorageConfig struct {
	Driver            string `validate:"oneof=local s3"`
	Bucket            string
	Prefix            string
	Region            string
	Endpoint          string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// PrintingConfig holds confirmation rendering settings
type PrintingConfig struct {
	Engine          string `validate:"oneof=chromedp wkhtmltopdf none"`
	OutputDir       string
	TemplatePath    string
	PaperSize       string        `validate:"oneof=LETTER A4"`
	Timeout         time.Duration `validate:"gt=0"`
	ChromeURL       string
	ChromeNoSandbox bool
	WkhtmltopdfPath string
}

// HTTPConfig holds naming service HTTP server configuration
type HTTPConfig struct {
	Port            string `validate:"required"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodySize     int64
}

// LLMConfig configures the completion backend of the naming service
type LLMConfig struct {
	Host        string        `validate:"required,url"`
	Model       string        `validate:"required"`
	Temperature float64       `validate:"gte=0,lte=2"`
	Timeout     time.Duration `validate:"gt=0"`
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled bool
	// Addr is the listen address of the generator's metrics endpoint; empty disables it
	Addr string
	Path string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64 `validate:"gte=0,lte=1"`
	ServiceName       string
	Insecure          bool
}

// Load loads configuration from ./config.toml (if present) and the environment.
// Priority (highest to lowest):
// 1. Environment variables with ORDERGEN_ prefix (e.g., ORDERGEN_STORAGE_DRIVER)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from path. An empty path searches for
// config.toml in the working directory and /etc/ordergen; a missing file is
// not an error in that case.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/ordergen")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Zero is meaningful for these keys, so they get viper defaults instead of
	// applyDefaults.
	v.SetDefault("generator.seed", 42)
	v.SetDefault("export.preview", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("storage.use_path_style", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			TimeFormat: v.GetString("log.time_format"),
		},
		Generator: GeneratorConfig{
			Products:        v.GetInt("generator.products"),
			Orders:          v.GetInt("generator.orders"),
			Seed:            v.GetUint64("generator.seed"),
			MinItems:        v.GetInt("generator.min_items"),
			MaxItems:        v.GetInt("generator.max_items"),
			IdentifierDraws: v.GetInt("generator.identifier_draws"),
		},
		Naming: NamingConfig{
			BaseURL:       v.GetString("naming.base_url"),
			Timeout:       v.GetDuration("naming.timeout"),
			RatePerSecond: v.GetFloat64("naming.rate_per_second"),
			Burst:         v.GetInt("naming.burst"),
		},
		Export: ExportConfig{
			OutDir:      v.GetString("export.out_dir"),
			DataDir:     v.GetString("export.data_dir"),
			PreviewRows: v.GetInt("export.preview_rows"),
			Preview:     v.GetBool("export.preview"),
		},
		Storage: StorageConfig{
			Driver:            v.GetString("storage.driver"),
			Bucket:            v.GetString("storage.bucket"),
			Prefix:            v.GetString("storage.prefix"),
			Region:            v.GetString("storage.region"),
			Endpoint:          v.GetString("storage.endpoint"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Printing: PrintingConfig{
			Engine:          v.GetString("printing.engine"),
			OutputDir:       v.GetString("printing.output_dir"),
			TemplatePath:    v.GetString("printing.template_path"),
			PaperSize:       strings.ToUpper(v.GetString("printing.paper_size")),
			Timeout:         v.GetDuration("printing.timeout"),
			ChromeURL:       v.GetString("printing.chrome_url"),
			ChromeNoSandbox: v.GetBool("printing.chrome_no_sandbox"),
			WkhtmltopdfPath: v.GetString("printing.wkhtmltopdf_path"),
		},
		HTTP: HTTPConfig{
			Port:            v.GetString("http.port"),
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxBodySize:     v.GetInt64("http.max_body_size"),
		},
		LLM: LLMConfig{
			Host:        v.GetString("llm.host"),
			Model:       v.GetString("llm.model"),
			Temperature: v.GetFloat64("llm.temperature"),
			Timeout:     v.GetDuration("llm.timeout"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Addr:    v.GetString("metrics.addr"),
			Path:    v.GetString("metrics.path"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "ordergen"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Generator.Products == 0 {
		cfg.Generator.Products = 5
	}
	if cfg.Generator.Orders == 0 {
		cfg.Generator.Orders = 20
	}
	if cfg.Generator.MinItems == 0 {
		cfg.Generator.MinItems = 1
	}
	if cfg.Generator.MaxItems == 0 {
		cfg.Generator.MaxItems = 5
	}
	if cfg.Generator.IdentifierDraws == 0 {
		cfg.Generator.IdentifierDraws = 32
	}
	if cfg.Naming.BaseURL == "" {
		cfg.Naming.BaseURL = "http://localhost:8000"
	}
	if cfg.Naming.Timeout == 0 {
		cfg.Naming.Timeout = 10 * time.Second
	}
	if cfg.Export.OutDir == "" {
		cfg.Export.OutDir = "."
	}
	if cfg.Export.DataDir == "" {
		cfg.Export.DataDir = "data"
	}
	if cfg.Export.PreviewRows == 0 {
		cfg.Export.PreviewRows = 5
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "local"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
	if cfg.Printing.Engine == "" {
		cfg.Printing.Engine = "chromedp"
	}
	if cfg.Printing.OutputDir == "" {
		cfg.Printing.OutputDir = "output"
	}
	if cfg.Printing.PaperSize == "" {
		cfg.Printing.PaperSize = "LETTER"
	}
	if cfg.Printing.Timeout == 0 {
		cfg.Printing.Timeout = 30 * time.Second
	}
	if cfg.HTTP.Port == "" {
		cfg.HTTP.Port = "8000"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// LLM completions are slow; the write timeout has to outlast llm.timeout.
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 90 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.LLM.Host == "" {
		cfg.LLM.Host = "http://localhost:11434"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "mistral:7b-instruct-v0.3-q4_0"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.8
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
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
}

// Validate checks field constraints and the cross-field rules tags cannot express
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid configuration: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Storage.Driver == "s3" {
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 driver")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("storage.access_key and storage.secret_key are required for the s3 driver")
		}
	}
	if c.Metrics.Path != "" && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/'")
	}
	return nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

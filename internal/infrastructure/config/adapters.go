package config

import (
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/llm"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/naming"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/printing"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/storage"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// StoreConfig returns the object store settings; the local driver is rooted at export.out_dir
func (c *Config) StoreConfig() storage.Config {
	return storage.Config{
		Driver: c.Storage.Driver,
		Root:   c.Export.OutDir,
		S3: storage.S3Config{
			Bucket:            c.Storage.Bucket,
			Prefix:            c.Storage.Prefix,
			Region:            c.Storage.Region,
			Endpoint:          c.Storage.Endpoint,
			AccessKey:         c.Storage.AccessKey,
			SecretKey:         c.Storage.SecretKey,
			UseSSL:            c.Storage.UseSSL,
			UsePathStyle:      c.Storage.UsePathStyle,
			PresignExpiration: c.Storage.PresignExpiration,
		},
	}
}

// NamingClientConfig returns the naming client settings
func (c NamingConfig) NamingClientConfig() naming.Config {
	return naming.Config{
		BaseURL:       c.BaseURL,
		Timeout:       c.Timeout,
		RatePerSecond: c.RatePerSecond,
		Burst:         c.Burst,
	}
}

// OllamaConfig returns the LLM client settings
func (c LLMConfig) OllamaConfig() llm.OllamaConfig {
	return llm.OllamaConfig{
		Host:        c.Host,
		Model:       c.Model,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}
}

// RendererConfig returns the PDF renderer settings
func (c PrintingConfig) RendererConfig(logger *zap.Logger) *printing.RendererConfig {
	return &printing.RendererConfig{
		Engine:          c.Engine,
		Timeout:         c.Timeout,
		ChromeURL:       c.ChromeURL,
		ChromeNoSandbox: c.ChromeNoSandbox,
		WkhtmltopdfPath: c.WkhtmltopdfPath,
		Logger:          logger,
	}
}

// TracerConfig returns the OpenTelemetry settings for a service build
func (c TelemetryConfig) TracerConfig(version string) telemetry.Config {
	return telemetry.Config{
		Enabled:           c.Enabled,
		CollectorEndpoint: c.CollectorEndpoint,
		SamplingRatio:     c.SamplingRatio,
		ServiceName:       c.ServiceName,
		ServiceVersion:    version,
		Insecure:          c.Insecure,
	}
}

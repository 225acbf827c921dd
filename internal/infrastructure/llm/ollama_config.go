package llm

import (
	"errors"
	"net/url"
	"time"
)

const (
	DefaultHost        = "http://localhost:11434"
	DefaultModel       = "mistral:7b-instruct-v0.3-q4_0"
	DefaultTemperature = 0.8
	DefaultTimeout     = 60 * time.Second
)

// OllamaConfig configures the Ollama completion client
type OllamaConfig struct {
	Host        string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// DefaultOllamaConfig returns the configuration used when nothing is set
func DefaultOllamaConfig() OllamaConfig {
	return OllamaConfig{
		Host:        DefaultHost,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
	}
}

// Validate checks the configuration
func (c OllamaConfig) Validate() error {
	if c.Host == "" {
		return errors.New("ollama: host is required")
	}
	u, err := url.Parse(c.Host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("ollama: host must be an absolute URL")
	}
	if c.Model == "" {
		return errors.New("ollama: model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ollama: temperature must be between 0 and 2")
	}
	if c.Timeout <= 0 {
		return errors.New("ollama: timeout must be positive")
	}
	return nil
}

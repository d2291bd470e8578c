package config

import "time"

// IdentityConfig contains configuration for the hosted identity provider
// backing the password sign-in flow.
type IdentityConfig struct {
	// BaseURL is the provider REST endpoint, e.g.
	// "https://identity.example.com/v1".
	BaseURL string `env:"BASE_URL"`

	// APIKey is the project API key appended to every provider call.
	APIKey string `env:"API_KEY"`

	// ServiceEmail and ServicePassword identify the service account used to
	// mint bearer tokens for backend API calls.
	ServiceEmail    string `env:"SERVICE_EMAIL"`
	ServicePassword string `env:"SERVICE_PASSWORD"`

	// Timeout bounds each provider HTTP call.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to identity configuration values.
func (i *IdentityConfig) Sanitize() {
	if i.Timeout <= 0 {
		i.Timeout = 10 * time.Second
	}
}

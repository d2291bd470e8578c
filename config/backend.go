package config

import "time"

// BackendConfig contains configuration for the rental backend REST API that
// owns houses, bookings, reviews, and the user directory.
type BackendConfig struct {
	// BaseURL is the root of the backend API, e.g. "http://localhost:3000/api".
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:3000/api"`

	// ErrorMessagePath is a JMESPath expression evaluated against error
	// response bodies to extract a human-readable message.
	ErrorMessagePath string `env:"ERROR_MESSAGE_PATH" envDefault:"message"`

	// Timeout bounds each backend HTTP call.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	if b.Timeout <= 0 {
		b.Timeout = 15 * time.Second
	}
}

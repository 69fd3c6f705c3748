package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// DefaultPort is the port the persistence/proxy server listens on.
const DefaultPort = 8787

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: DefaultPort,
			Bind: "loopback",
		},
		Webhook: WebhookConfig{
			TimeoutSeconds: 120,
		},
		Store: StoreConfig{
			Driver: "sqlite",
		},
		Client: ClientConfig{
			BaseURL: fmt.Sprintf("http://127.0.0.1:%d", DefaultPort),
			Domain:  "transformers",
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}

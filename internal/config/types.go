package config

// Config is the root configuration for EnerChat.
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	Webhook WebhookConfig `yaml:"webhook,omitempty"`
	Store   StoreConfig   `yaml:"store,omitempty"`
	Client  ClientConfig  `yaml:"client,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// ServerConfig controls the persistence/proxy HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port,omitempty"`
	Bind           string   `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string   `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// WebhookConfig points at the external response-generation endpoint.
type WebhookConfig struct {
	URL            string `yaml:"url,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"`
}

// StoreConfig selects the server-side persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver,omitempty"` // "sqlite" | "memory"
	Path   string `yaml:"path,omitempty"`   // sqlite file; defaults to <data>/enerchat.db
}

// ClientConfig configures the chat client (the `enerchat chat` command).
type ClientConfig struct {
	BaseURL string `yaml:"baseUrl,omitempty"` // persistence endpoint base URL
	Domain  string `yaml:"domain,omitempty"`  // default knowledge domain
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}

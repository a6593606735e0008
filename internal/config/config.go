// Package config provides configuration management for the raiaccept tool
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/alexbotov/raiaccept/pkg/raiaccept"
)

// Config holds all configuration for the raiaccept tool
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Gateway GatewayConfig `toml:"gateway"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig holds webhook receiver configuration
type ServerConfig struct {
	Port         string        `toml:"port"`
	WebhookPath  string        `toml:"webhook_path"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// GatewayConfig holds the RaiAccept endpoints and merchant credentials
type GatewayConfig struct {
	AuthURL        string        `toml:"auth_url"`
	APIURL         string        `toml:"api_url"`
	AuthScheme     string        `toml:"auth_scheme"`
	LoginPath      string        `toml:"login_path"`
	CertFile       string        `toml:"cert_file"`
	KeyFile        string        `toml:"key_file"`
	PKCS12File     string        `toml:"pkcs12_file"`
	PKCS12Password string        `toml:"pkcs12_password"`
	Username       string        `toml:"username"`
	Password       string        `toml:"password"`
	Timeout        time.Duration `toml:"timeout"`
}

// LogConfig holds logging configuration. Format is auto, console or json.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			WebhookPath:  "/webhook/raiaccept",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Gateway: GatewayConfig{
			AuthURL:    raiaccept.DefaultAuthURL,
			APIURL:     raiaccept.DefaultAPIURL,
			AuthScheme: string(raiaccept.AuthSchemeMTLS),
			LoginPath:  raiaccept.DefaultLoginPath,
			Timeout:    30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load builds the configuration from defaults, a .env file in the working
// directory, the TOML file named by RAIACCEPT_CONFIG and RAIACCEPT_*
// environment variables, in that order of precedence from lowest to highest.
func Load() (*Config, error) {
	godotenv.Load()
	return LoadFile(os.Getenv("RAIACCEPT_CONFIG"))
}

// LoadFile is Load without the .env step. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = getEnv("RAIACCEPT_PORT", c.Server.Port)
	c.Server.WebhookPath = getEnv("RAIACCEPT_WEBHOOK_PATH", c.Server.WebhookPath)

	g := &c.Gateway
	g.AuthURL = getEnv("RAIACCEPT_AUTH_URL", g.AuthURL)
	g.APIURL = getEnv("RAIACCEPT_API_URL", g.APIURL)
	g.AuthScheme = getEnv("RAIACCEPT_AUTH_SCHEME", g.AuthScheme)
	g.LoginPath = getEnv("RAIACCEPT_LOGIN_PATH", g.LoginPath)
	g.CertFile = getEnv("RAIACCEPT_CERT_FILE", g.CertFile)
	g.KeyFile = getEnv("RAIACCEPT_KEY_FILE", g.KeyFile)
	g.PKCS12File = getEnv("RAIACCEPT_PKCS12_FILE", g.PKCS12File)
	g.PKCS12Password = getEnv("RAIACCEPT_PKCS12_PASSWORD", g.PKCS12Password)
	g.Username = getEnv("RAIACCEPT_USERNAME", g.Username)
	g.Password = getEnv("RAIACCEPT_PASSWORD", g.Password)
	if v := os.Getenv("RAIACCEPT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RAIACCEPT_TIMEOUT: %w", err)
		}
		g.Timeout = d
	}

	c.Log.Level = getEnv("RAIACCEPT_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("RAIACCEPT_LOG_FORMAT", c.Log.Format)
	return nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if !raiaccept.AuthScheme(c.Gateway.AuthScheme).Valid() {
		return fmt.Errorf("unknown auth scheme %q", c.Gateway.AuthScheme)
	}
	if c.Gateway.PKCS12File == "" && (c.Gateway.CertFile == "") != (c.Gateway.KeyFile == "") {
		return fmt.Errorf("cert_file and key_file must be set together")
	}
	switch strings.ToLower(c.Log.Format) {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if !strings.HasPrefix(c.Server.WebhookPath, "/") {
		return fmt.Errorf("webhook path must start with /")
	}
	return nil
}

// ClientConfig converts the gateway section into a client configuration,
// loading the client certificate when one is configured.
func (g GatewayConfig) ClientConfig(logger raiaccept.Logger) (*raiaccept.ClientConfig, error) {
	cfg := &raiaccept.ClientConfig{
		AuthURL:    g.AuthURL,
		APIURL:     g.APIURL,
		AuthScheme: raiaccept.AuthScheme(g.AuthScheme),
		LoginPath:  g.LoginPath,
		Timeout:    g.Timeout,
		Logger:     logger,
	}

	var err error
	switch {
	case g.PKCS12File != "":
		cfg.Certificate, cfg.PrivateKey, err = raiaccept.LoadPKCS12(g.PKCS12File, g.PKCS12Password)
	case g.CertFile != "":
		cfg.Certificate, cfg.PrivateKey, err = raiaccept.LoadKeyPair(g.CertFile, g.KeyFile)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/upflare/tracker/internal/statspub"
)

type NATSConfig struct {
	// Empty disables publishing.
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

type RateLimitConfig struct {
	// Zero disables limiting.
	MessagesPerSecond float64 `yaml:"messages_per_second"`
	Burst             int     `yaml:"burst"`
}

// Config is the server configuration, as read from YAML and then overridden by flags.
type Config struct {
	ListenAddr        string          `yaml:"listen_addr"`
	WebsocketPath     string          `yaml:"websocket_path"`
	GeoIPFile         string          `yaml:"geoip_file"`
	StatsInterval     time.Duration   `yaml:"stats_interval"`
	Debug             bool            `yaml:"debug"`
	TrustForwardedFor bool            `yaml:"trust_forwarded_for"`
	NATS              NATSConfig      `yaml:"nats"`
	RateLimit         RateLimitConfig `yaml:"rate_limit"`
	PingInterval      time.Duration   `yaml:"ping_interval"`
	AllowedOrigins    []string        `yaml:"allowed_origins"`
	ShutdownTimeout   time.Duration   `yaml:"shutdown_timeout"`
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:    ":8080",
		WebsocketPath: "/ws",
		StatsInterval: 10 * time.Second,
		NATS: NATSConfig{
			Subject: statspub.DefaultSubject,
		},
		RateLimit: RateLimitConfig{
			MessagesPerSecond: 20,
			Burst:             40,
		},
		PingInterval:    25 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// LoadConfig reads the YAML file at filePath over the defaults.
func LoadConfig(filePath string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("unmarshalling config YAML: %w", err)
	}
	return cfg, nil
}

// Command-line flags. Those that are set override the config file.
type Flags struct {
	Config            string         `arg:"-c,--config" help:"YAML config file"`
	Addr              *string        `help:"HTTP listen address"`
	WebsocketPath     *string        `help:"path browsers connect to"`
	GeoipFile         *string        `arg:"--geoip-file" help:"CSV of IP ranges and their locations"`
	StatsInterval     *time.Duration `help:"how often statistics are logged, 0 to disable"`
	Debug             *bool          `help:"log queries and reports"`
	TrustForwardedFor *bool          `help:"take peer IPs from X-Forwarded-For"`
	NatsUrl           *string        `help:"publish statistics to this NATS server"`
	NatsSubject       *string        `help:"NATS subject for statistics"`
	AllowedOrigin     []string       `help:"browser origins allowed to connect, all if none"`
}

func (f Flags) apply(cfg *Config) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cfg.ListenAddr, f.Addr)
	set(&cfg.WebsocketPath, f.WebsocketPath)
	set(&cfg.GeoIPFile, f.GeoipFile)
	set(&cfg.NATS.URL, f.NatsUrl)
	set(&cfg.NATS.Subject, f.NatsSubject)
	if f.StatsInterval != nil {
		cfg.StatsInterval = *f.StatsInterval
	}
	if f.Debug != nil {
		cfg.Debug = *f.Debug
	}
	if f.TrustForwardedFor != nil {
		cfg.TrustForwardedFor = *f.TrustForwardedFor
	}
	if len(f.AllowedOrigin) != 0 {
		cfg.AllowedOrigins = f.AllowedOrigin
	}
}

func (f Flags) config() (cfg Config, err error) {
	if f.Config == "" {
		cfg = DefaultConfig()
	} else {
		cfg, err = LoadConfig(f.Config)
		if err != nil {
			return
		}
	}
	f.apply(&cfg)
	return
}

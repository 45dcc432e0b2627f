package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gearlink/gearlink-go/pkg/discovery"
	"github.com/gearlink/gearlink-go/pkg/lan"
	"github.com/gearlink/gearlink-go/pkg/transport"
	"github.com/gearlink/gearlink-go/pkg/wire"
)

// EnvPrefix prefixes environment overrides, e.g. GEARLINK_CLIENT_NAME.
const EnvPrefix = "GEARLINK"

// DefaultChannel is the channel the interactive session sends on.
const DefaultChannel = 104

// Config holds the application configuration.
type Config struct {
	Client    ClientConfig    `mapstructure:"client" yaml:"client"`
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`
	Transport TransportConfig `mapstructure:"transport" yaml:"transport"`
	Accessory AccessoryConfig `mapstructure:"accessory" yaml:"accessory"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	History   HistoryConfig   `mapstructure:"history" yaml:"history"`
}

// ClientConfig holds host-side settings.
type ClientConfig struct {
	Name             string        `mapstructure:"name" yaml:"name"`
	Profiles         []string      `mapstructure:"profiles" yaml:"profiles"`
	Codec            string        `mapstructure:"codec" yaml:"codec"`
	DefaultMessageID string        `mapstructure:"default_message_id" yaml:"default_message_id"`
	Channel          int           `mapstructure:"channel" yaml:"channel"`
	DialTimeout      time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
}

// DiscoveryConfig holds mDNS settings.
type DiscoveryConfig struct {
	Interface     string        `mapstructure:"interface" yaml:"interface"`
	BrowseTimeout time.Duration `mapstructure:"browse_timeout" yaml:"browse_timeout"`
	TTL           time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// TransportConfig holds link settings.
type TransportConfig struct {
	MaxMessageSize int             `mapstructure:"max_message_size" yaml:"max_message_size"`
	WriteTimeout   time.Duration   `mapstructure:"write_timeout" yaml:"write_timeout"`
	KeepAlive      KeepAliveConfig `mapstructure:"keepalive" yaml:"keepalive"`
}

// KeepAliveConfig holds ping/pong settings.
type KeepAliveConfig struct {
	Disabled       bool          `mapstructure:"disabled" yaml:"disabled"`
	PingInterval   time.Duration `mapstructure:"ping_interval" yaml:"ping_interval"`
	PongTimeout    time.Duration `mapstructure:"pong_timeout" yaml:"pong_timeout"`
	MaxMissedPongs int           `mapstructure:"max_missed_pongs" yaml:"max_missed_pongs"`
}

// AccessoryConfig holds settings for the simulated accessory.
type AccessoryConfig struct {
	Name       string `mapstructure:"name" yaml:"name"`
	Profile    string `mapstructure:"profile" yaml:"profile"`
	DeviceType string `mapstructure:"device_type" yaml:"device_type"`
	ID         string `mapstructure:"id" yaml:"id"`
	Address    string `mapstructure:"address" yaml:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level        string `mapstructure:"level" yaml:"level"`
	Format       string `mapstructure:"format" yaml:"format"`
	ProtocolFile string `mapstructure:"protocol_file" yaml:"protocol_file"`
}

// HistoryConfig holds connection history settings.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// Default returns the default configuration.
func Default() Config {
	ka := transport.DefaultKeepAliveConfig()
	return Config{
		Client: ClientConfig{
			Name:             hostname(),
			Profiles:         []string{"/gearlink/watch"},
			Codec:            wire.JSONCodec{}.Name(),
			DefaultMessageID: "data",
			Channel:          DefaultChannel,
			DialTimeout:      lan.DefaultDialTimeout,
		},
		Discovery: DiscoveryConfig{
			BrowseTimeout: lan.DefaultBrowseTimeout,
			TTL:           discovery.DefaultTTL,
		},
		Transport: TransportConfig{
			MaxMessageSize: transport.DefaultMaxMessageSize,
			WriteTimeout:   transport.DefaultConnConfig().WriteTimeout,
			KeepAlive: KeepAliveConfig{
				PingInterval:   ka.PingInterval,
				PongTimeout:    ka.PongTimeout,
				MaxMissedPongs: ka.MaxMissedPongs,
			},
		},
		Accessory: AccessoryConfig{
			Name:       "gearlink-accessory",
			Profile:    "/gearlink/watch",
			DeviceType: "WATCH",
			Address:    fmt.Sprintf(":%d", discovery.DefaultPort),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		History: HistoryConfig{
			Path: filepath.Join(dataDir(), "history.db"),
		},
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error

	if len(c.Client.Profiles) == 0 {
		errs = append(errs, errors.New("client.profiles: at least one profile is required"))
	}
	if _, err := wire.CodecByName(c.Client.Codec); err != nil {
		errs = append(errs, fmt.Errorf("client.codec: %w", err))
	}
	if c.Client.DefaultMessageID == "" {
		errs = append(errs, errors.New("client.default_message_id: must not be empty"))
	}
	if c.Client.Channel < 0 || c.Client.Channel > int(transport.MaxDataChannel) {
		errs = append(errs, fmt.Errorf("client.channel: %d out of range", c.Client.Channel))
	}
	if c.Client.DialTimeout <= 0 {
		errs = append(errs, errors.New("client.dial_timeout: must be positive"))
	}
	if c.Discovery.BrowseTimeout <= 0 {
		errs = append(errs, errors.New("discovery.browse_timeout: must be positive"))
	}
	if c.Transport.MaxMessageSize <= 0 {
		errs = append(errs, errors.New("transport.max_message_size: must be positive"))
	}
	if ka := c.Transport.KeepAlive; !ka.Disabled && (ka.PingInterval <= 0 || ka.PongTimeout <= 0 || ka.MaxMissedPongs <= 0) {
		errs = append(errs, errors.New("transport.keepalive: interval, timeout and missed pongs must be positive"))
	}
	if c.Accessory.Profile == "" {
		errs = append(errs, errors.New("accessory.profile: must not be empty"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, errors.New("history.path: required when history is enabled"))
	}

	return errors.Join(errs...)
}

// ConnConfig returns the transport link configuration.
func (c Config) ConnConfig() transport.ConnConfig {
	cc := transport.DefaultConnConfig()
	cc.MaxMessageSize = uint32(c.Transport.MaxMessageSize)
	cc.WriteTimeout = c.Transport.WriteTimeout
	cc.KeepAlive = transport.KeepAliveConfig{
		Disabled:       c.Transport.KeepAlive.Disabled,
		PingInterval:   c.Transport.KeepAlive.PingInterval,
		PongTimeout:    c.Transport.KeepAlive.PongTimeout,
		MaxMissedPongs: c.Transport.KeepAlive.MaxMissedPongs,
	}
	return cc
}

// Load reads configuration from defaults, the YAML file at path (optional)
// and GEARLINK_ environment variables, in increasing precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(configHome(), "gearlink"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Dump renders c as YAML.
func Dump(c Config) (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown level %q", s)
	}
	return level, nil
}

// setDefaults registers every key so environment overrides resolve.
func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("client.name", c.Client.Name)
	v.SetDefault("client.profiles", c.Client.Profiles)
	v.SetDefault("client.codec", c.Client.Codec)
	v.SetDefault("client.default_message_id", c.Client.DefaultMessageID)
	v.SetDefault("client.channel", c.Client.Channel)
	v.SetDefault("client.dial_timeout", c.Client.DialTimeout)

	v.SetDefault("discovery.interface", c.Discovery.Interface)
	v.SetDefault("discovery.browse_timeout", c.Discovery.BrowseTimeout)
	v.SetDefault("discovery.ttl", c.Discovery.TTL)

	v.SetDefault("transport.max_message_size", c.Transport.MaxMessageSize)
	v.SetDefault("transport.write_timeout", c.Transport.WriteTimeout)
	v.SetDefault("transport.keepalive.disabled", c.Transport.KeepAlive.Disabled)
	v.SetDefault("transport.keepalive.ping_interval", c.Transport.KeepAlive.PingInterval)
	v.SetDefault("transport.keepalive.pong_timeout", c.Transport.KeepAlive.PongTimeout)
	v.SetDefault("transport.keepalive.max_missed_pongs", c.Transport.KeepAlive.MaxMissedPongs)

	v.SetDefault("accessory.name", c.Accessory.Name)
	v.SetDefault("accessory.profile", c.Accessory.Profile)
	v.SetDefault("accessory.device_type", c.Accessory.DeviceType)
	v.SetDefault("accessory.id", c.Accessory.ID)
	v.SetDefault("accessory.address", c.Accessory.Address)

	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("log.protocol_file", c.Log.ProtocolFile)

	v.SetDefault("history.enabled", c.History.Enabled)
	v.SetDefault("history.path", c.History.Path)
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "gearlink-host"
	}
	return name
}

func configHome() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "gearlink")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "gearlink")
}

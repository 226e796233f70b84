package cheetah

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	// Config is the connection configuration and the declarative models
	// of a database.
	Config struct {
		Host        string        `mapstructure:"host"`
		Port        int           `mapstructure:"port"`
		Path        string        `mapstructure:"path"`
		DialTimeout time.Duration `mapstructure:"dial_timeout"`
		Debug       bool          `mapstructure:"debug"`
		Models      []ModelConfig `mapstructure:"models"`
	}

	// ModelConfig declares a model; Columns is a list of column
	// definitions with a "name" key, see ParseSchema.
	ModelConfig struct {
		Name    string        `mapstructure:"name"`
		Columns []interface{} `mapstructure:"columns"`
	}
)

// DefaultConfig returns the configuration of a local q process listening on
// port 5001.
func DefaultConfig() *Config {
	return &Config{
		Host:        "127.0.0.1",
		Port:        5001,
		Path:        "/",
		DialTimeout: 5 * time.Second,
	}
}

// LoadConfig reads a configuration file (YAML, JSON or TOML, by extension).
// Values can be overridden by CHEETAH_HOST, CHEETAH_PORT, CHEETAH_PATH,
// CHEETAH_DIAL_TIMEOUT and CHEETAH_DEBUG. An empty path reads the
// environment only.
func LoadConfig(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	d := DefaultConfig()
	v := viper.New()
	v.SetDefault("host", d.Host)
	v.SetDefault("port", d.Port)
	v.SetDefault("path", d.Path)
	v.SetDefault("dial_timeout", d.DialTimeout)
	v.SetDefault("debug", d.Debug)
	v.SetEnvPrefix("cheetah")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// URL is the websocket endpoint, for example "ws://127.0.0.1:5001/".
func (c *Config) URL() string {
	path := c.Path
	if path == "" {
		path = "/"
	}
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   path,
	}
	return u.String()
}

// Schemas parses the declared models in order.
func (c *Config) Schemas() ([]string, []*Schema, error) {
	names := make([]string, 0, len(c.Models))
	schemas := make([]*Schema, 0, len(c.Models))
	for _, m := range c.Models {
		if err := ValidateName(m.Name); err != nil {
			return nil, nil, err
		}
		s, err := ParseSchema(normalizeColumns(m.Columns))
		if err != nil {
			return nil, nil, fmt.Errorf("model %s: %w", m.Name, err)
		}
		names = append(names, m.Name)
		schemas = append(schemas, s)
	}
	return names, schemas, nil
}

// normalizeColumns converts the map types produced by the config decoders
// to map[string]interface{}.
func normalizeColumns(columns []interface{}) []interface{} {
	out := make([]interface{}, len(columns))
	for i, c := range columns {
		switch m := c.(type) {
		case map[interface{}]interface{}:
			n := make(map[string]interface{}, len(m))
			for k, v := range m {
				n[fmt.Sprint(k)] = v
			}
			out[i] = n
		default:
			out[i] = c
		}
	}
	return out
}

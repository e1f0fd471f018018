package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultListenAddr           = ":3000"
	DefaultStaticDir            = "./static"
	DefaultSessionTimeout       = 15 * time.Minute
	DefaultSessionWarningLead   = 2 * time.Minute
	DefaultSessionCheckInterval = 30 * time.Second
)

type MySQLConfig struct {
	Dsn             string `mapstructure:"dsn"`
	ReplicaDsn      string `mapstructure:"replicaDsn"`
	TablePrefix     string `mapstructure:"tablePrefix"`
	MaxIdleConns    int    `mapstructure:"maxIdleConns"`
	MaxOpenConns    int    `mapstructure:"maxOpenConns"`
	ConnMaxIdleTime int    `mapstructure:"connMaxIdleTime"`
	ConnMaxLifetime int    `mapstructure:"connMaxLifetime"`
}

type SessionConfig struct {
	TimeoutMinutes  int    `mapstructure:"timeoutMinutes"`  // inactivity timeout, minutes
	WarningMinutes  int    `mapstructure:"warningMinutes"`  // idle warning lead time, minutes
	CheckIntervalMs int    `mapstructure:"checkIntervalMs"` // idle monitor poll interval, milliseconds
	CookieName      string `mapstructure:"cookieName"`
	CookieHttpOnly  bool   `mapstructure:"cookieHttpOnly"`
	CookieSecure    bool   `mapstructure:"cookieSecure"`
}

// Timeout returns the configured inactivity timeout as a duration.
func (c *SessionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

func (c *SessionConfig) WarningLead() time.Duration {
	return time.Duration(c.WarningMinutes) * time.Minute
}

func (c *SessionConfig) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalMs) * time.Millisecond
}

type RedisConfig struct {
	URL         string `mapstructure:"url"`
	PoolSize    int    `mapstructure:"poolSize"`
	ClusterMode bool   `mapstructure:"clusterMode"`
}

type Config struct {
	Debug        bool          `mapstructure:"debug"`
	SiteName     string        `mapstructure:"siteName"`
	BaseURL      string        `mapstructure:"baseURL"`
	ListenAddr   string        `mapstructure:"listenAddr"`
	StaticDir    string        `mapstructure:"staticDir"`
	TemplateDir  string        `mapstructure:"templateDir"`
	AllowOrigins []string      `mapstructure:"allowOrigins"`
	Redis        RedisConfig   `mapstructure:"redis"`
	Session      SessionConfig `mapstructure:"session"`
	MySQL        MySQLConfig   `mapstructure:"mysql"`
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.StaticDir == "" {
		c.StaticDir = DefaultStaticDir
	}
	if c.SiteName == "" {
		c.SiteName = "coopfarm"
	}
	if c.Session.TimeoutMinutes <= 0 {
		c.Session.TimeoutMinutes = int(DefaultSessionTimeout.Minutes())
	}
	if c.Session.WarningMinutes <= 0 {
		c.Session.WarningMinutes = int(DefaultSessionWarningLead.Minutes())
	}
	if c.Session.CheckIntervalMs <= 0 {
		c.Session.CheckIntervalMs = int(DefaultSessionCheckInterval.Milliseconds())
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "sid"
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigFile(filename)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}

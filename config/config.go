package config

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	viperOnce sync.Once
	v         *viper.Viper
)

const (
	DefaultInterval  = 300
	DefaultStateFile = "state.yml"
)

// GetConfig returns the process wide viper instance. An empty file searches
// the default locations for config.yml.
func GetConfig(file string) *viper.Viper {
	viperOnce.Do(func() {
		v = viper.New()
		setDefaults(v)
		if file != "" {
			v.SetConfigFile(file)
		} else {
			v.SetConfigName("config")
			v.SetConfigType("yml")
			v.AddConfigPath(".")
			v.AddConfigPath("/etc/" + AppName)
			v.AddConfigPath("$HOME/." + AppName)
		}

		if err := v.ReadInConfig(); err != nil {
			log.Panic(err)
		}
	})

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LogLevel", "info")
	v.SetDefault("Interval", DefaultInterval)
	v.SetDefault("Concurrent", 4)
	v.SetDefault("StateFile", DefaultStateFile)
	v.SetDefault("Address.Source", "web")
	v.SetDefault("Address.Networks", []string{"tcp4"})
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	c := new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %d", c.Interval)
	}
	if c.Concurrent <= 0 {
		c.Concurrent = 1
	}
	if c.Address == nil {
		return errors.New("address section is missing")
	}
	if len(c.Address.Networks) == 0 {
		return errors.New("no address network configured")
	}
	for _, n := range c.Address.Networks {
		if n != "tcp4" && n != "tcp6" {
			return fmt.Errorf("unsupported network %q", n)
		}
	}
	if len(c.Accounts) == 0 {
		return errors.New("no account configured")
	}

	seen := make(map[string]bool)
	for i, a := range c.Accounts {
		if a.Description == "" {
			return fmt.Errorf("account %d: description is empty", i)
		}
		if seen[a.Description] {
			return fmt.Errorf("account %q: duplicate description", a.Description)
		}
		seen[a.Description] = true
		if a.Service == "" {
			return fmt.Errorf("account %q: service is empty", a.Description)
		}
		if a.ForceInterval < 0 {
			return fmt.Errorf("account %q: negative force interval", a.Description)
		}
	}

	if c.Notify != nil && c.Notify.Enable && c.Notify.Provider == "" {
		return errors.New("notify is enabled without a provider")
	}
	return nil
}

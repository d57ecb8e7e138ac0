// Package config loads the siakit command line configuration from a TOML
// or YAML file.
package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/suffix-labs/siakit/pkg/builder"
	"github.com/suffix-labs/siakit/pkg/types"
)

// Fee policy kinds accepted in the configuration.
const (
	FeeKindPerByte = "perbyte"
	FeeKindFixed   = "fixed"
)

// Default values applied by Load.
const (
	DefaultLogLevel = 4 // info
	DefaultNetwork  = "mainnet"
)

// LogConfig controls log output.
type LogConfig struct {
	Level uint32 `toml:"level" yaml:"level"`
	JSON  bool   `toml:"json" yaml:"json"`
	Color bool   `toml:"color" yaml:"color"`
}

// NetworkConfig names the network transactions are built for.
type NetworkConfig struct {
	Name string `toml:"name" yaml:"name"`
}

// FeeConfig describes the fee policy hint used when building transactions.
// Amount is a decimal number of hastings.
type FeeConfig struct {
	Kind   string `toml:"kind" yaml:"kind"`
	Amount string `toml:"amount" yaml:"amount"`
}

// SigningConfig holds the signing key seed and fee settings.
type SigningConfig struct {
	Seed string    `toml:"seed" yaml:"seed"`
	Fee  FeeConfig `toml:"fee" yaml:"fee"`
}

// Config is the complete configuration.
type Config struct {
	Log     LogConfig     `toml:"log" yaml:"log"`
	Network NetworkConfig `toml:"network" yaml:"network"`
	Signing SigningConfig `toml:"signing" yaml:"signing"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:     LogConfig{Level: DefaultLogLevel},
		Network: NetworkConfig{Name: DefaultNetwork},
	}
}

// Load reads and validates the configuration at path. The format is picked
// from the file extension: .toml, .yaml or .yml. Values missing from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	config := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, errors.Wrapf(err, "decode toml config %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, errors.Wrapf(err, "decode yaml config %s", path)
		}
	default:
		return nil, errors.Errorf("unsupported config format %q", ext)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return config, nil
}

// Validate checks the configuration for values that cannot be used.
func (c *Config) Validate() error {
	if c.Log.Level > 6 {
		return errors.Errorf("log level %d out of range [0, 6]", c.Log.Level)
	}
	if c.Network.Name == "" {
		return errors.New("network name is empty")
	}
	if c.Signing.Seed != "" {
		if _, err := c.SigningKey(); err != nil {
			return err
		}
	}
	if _, err := c.FeePolicy(); err != nil {
		return err
	}
	return nil
}

// HasSigningKey reports whether a seed is configured.
func (c *Config) HasSigningKey() bool {
	return c.Signing.Seed != ""
}

// SigningKey derives the private key from the configured hex seed.
func (c *Config) SigningKey() (types.PrivateKey, error) {
	seed, err := hex.DecodeString(c.Signing.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "decode signing seed")
	}
	sk, err := types.NewPrivateKeyFromSeed(seed)
	if err != nil {
		return nil, errors.Wrap(err, "signing seed")
	}
	return sk, nil
}

// FeePolicy returns the configured fee policy, or nil if none is set.
func (c *Config) FeePolicy() (*builder.FeePolicy, error) {
	if c.Signing.Fee.Kind == "" {
		return nil, nil
	}
	amount, err := types.ParseCurrency(c.Signing.Fee.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "fee amount")
	}
	var fp builder.FeePolicy
	switch c.Signing.Fee.Kind {
	case FeeKindPerByte:
		fp = builder.FeePolicyHastingsPerByte(amount)
	case FeeKindFixed:
		fp = builder.FeePolicyFixed(amount)
	default:
		return nil, errors.Errorf("unknown fee kind %q", c.Signing.Fee.Kind)
	}
	return &fp, nil
}

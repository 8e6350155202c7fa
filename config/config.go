// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads and validates the bridge verifier configuration.
// All keys may be provided via config file, environment variable, or
// command line flag; flags take precedence over the file.
package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/luxfi/ids"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ValidatorSetConfig is the trusted genesis commitment of one validator
// set generation.
type ValidatorSetConfig struct {
	ID   uint64 `mapstructure:"id" json:"id"`
	Len  uint32 `mapstructure:"len" json:"len"`
	Root string `mapstructure:"root" json:"root"`
}

// NetworkConfig selects and parameterizes the verifier engine for one
// remote network.
type NetworkConfig struct {
	NetworkID string `mapstructure:"network-id" json:"network-id"`
	Engine    string `mapstructure:"engine" json:"engine"`

	// Beefy engine genesis.
	StartBlock          uint32              `mapstructure:"start-block" json:"start-block"`
	CurrentValidatorSet *ValidatorSetConfig `mapstructure:"current-validator-set" json:"current-validator-set"`
	NextValidatorSet    *ValidatorSetConfig `mapstructure:"next-validator-set" json:"next-validator-set"`

	// Multisig engine genesis: hex-encoded compressed secp256k1 keys.
	Peers []string `mapstructure:"peers" json:"peers"`
}

// Config is the top-level verifier configuration.
type Config struct {
	LogLevel    string          `mapstructure:"log-level" json:"log-level"`
	MetricsPort uint16          `mapstructure:"metrics-port" json:"metrics-port"`
	Networks    []NetworkConfig `mapstructure:"networks" json:"networks"`
}

// NewConfig builds and validates the configuration from v.
func NewConfig(v *viper.Viper) (Config, error) {
	cfg, err := buildConfig(v)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("failed to validate configuration: %w", err)
	}
	return cfg, nil
}

// BuildViper binds flags and environment variables and reads the config
// file named by ConfigFileKey.
func BuildViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	// Flags are capitalized, and hyphens are replaced with underscores,
	// to produce the matching env var names.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if !v.IsSet(ConfigFileKey) {
		return nil, fmt.Errorf("config file not set")
	}

	v.SetConfigFile(v.GetString(ConfigFileKey))
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return v, nil
}

func setDefaultConfigValues(v *viper.Viper) {
	v.SetDefault(LogLevelKey, defaultLogLevel)
	v.SetDefault(MetricsPortKey, defaultMetricsPort)
}

func buildConfig(v *viper.Viper) (Config, error) {
	setDefaultConfigValues(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal viper config: %w", err)
	}
	return cfg, nil
}

// Validate checks every network entry for a usable engine definition.
func (c *Config) Validate() error {
	seen := make(map[ids.ID]struct{}, len(c.Networks))
	for i, network := range c.Networks {
		networkID, err := network.ParseNetworkID()
		if err != nil {
			return fmt.Errorf("network %d: %w", i, err)
		}
		if _, ok := seen[networkID]; ok {
			return fmt.Errorf("network %d: duplicate network id %s", i, networkID)
		}
		seen[networkID] = struct{}{}

		switch network.Engine {
		case EngineBeefy:
			if network.CurrentValidatorSet == nil || network.NextValidatorSet == nil {
				return fmt.Errorf("network %s: beefy engine requires current and next validator sets", networkID)
			}
			if network.NextValidatorSet.ID != network.CurrentValidatorSet.ID+1 {
				return fmt.Errorf("network %s: next validator set id must follow current", networkID)
			}
			for _, vs := range []*ValidatorSetConfig{network.CurrentValidatorSet, network.NextValidatorSet} {
				if vs.Len == 0 {
					return fmt.Errorf("network %s: empty committee", networkID)
				}
				if _, err := parseHash(vs.Root); err != nil {
					return fmt.Errorf("network %s: invalid validator set root: %w", networkID, err)
				}
			}
		case EngineMultisig:
			if len(network.Peers) == 0 {
				return fmt.Errorf("network %s: multisig engine requires at least one peer", networkID)
			}
			for _, peer := range network.Peers {
				if _, err := parsePeerKey(peer); err != nil {
					return fmt.Errorf("network %s: invalid peer key: %w", networkID, err)
				}
			}
		default:
			return fmt.Errorf("network %s: unknown engine %q", networkID, network.Engine)
		}
	}
	return nil
}

// ParseNetworkID decodes the network identifier.
func (n *NetworkConfig) ParseNetworkID() (ids.ID, error) {
	id, err := ids.FromString(n.NetworkID)
	if err != nil {
		return ids.Empty, fmt.Errorf("invalid network id %q: %w", n.NetworkID, err)
	}
	return id, nil
}

func parseHash(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

func parsePeerKey(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, err
	}
	if len(b) != 33 {
		return nil, fmt.Errorf("expected 33 bytes, got %d", len(b))
	}
	return b, nil
}

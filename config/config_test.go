// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luxfi/ids"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const (
	testRoot    = "0x36ee7c9903f810b22f7e6fca82c1c0cd6a151eca01f087683d92333094d94dc1"
	testPeerKey = "0x02" + "36ee7c9903f810b22f7e6fca82c1c0cd6a151eca01f087683d92333094d94dc1"
)

func beefyNetwork() NetworkConfig {
	return NetworkConfig{
		NetworkID:  ids.GenerateTestID().String(),
		Engine:     EngineBeefy,
		StartBlock: 100,
		CurrentValidatorSet: &ValidatorSetConfig{
			ID:   7,
			Len:  37,
			Root: testRoot,
		},
		NextValidatorSet: &ValidatorSetConfig{
			ID:   8,
			Len:  37,
			Root: testRoot,
		},
	}
}

func multisigNetwork() NetworkConfig {
	return NetworkConfig{
		NetworkID: ids.GenerateTestID().String(),
		Engine:    EngineMultisig,
		Peers:     []string{testPeerKey},
	}
}

func TestNewConfigFromFile(t *testing.T) {
	cfg := Config{
		LogLevel: "debug",
		Networks: []NetworkConfig{beefyNetwork(), multisigNetwork()},
	}
	b, err := json.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(ConfigFileKey, "", "")
	require.NoError(t, fs.Parse([]string{"--" + ConfigFileKey, path}))

	v, err := BuildViper(fs)
	require.NoError(t, err)

	parsed, err := NewConfig(v)
	require.NoError(t, err)
	require.Equal(t, "debug", parsed.LogLevel)
	require.Equal(t, uint16(defaultMetricsPort), parsed.MetricsPort)
	require.Len(t, parsed.Networks, 2)
	require.Equal(t, cfg.Networks[0].NetworkID, parsed.Networks[0].NetworkID)
	require.Equal(t, uint64(7), parsed.Networks[0].CurrentValidatorSet.ID)
	require.Equal(t, cfg.Networks[1].Peers, parsed.Networks[1].Peers)
}

func TestBuildViperRequiresConfigFile(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, fs.Parse(nil))

	_, err := BuildViper(fs)
	require.ErrorContains(t, err, "config file not set")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name: "invalid network id",
			mutate: func(c *Config) {
				c.Networks[0].NetworkID = "not a network id"
			},
			wantErr: "invalid network id",
		},
		{
			name: "duplicate network id",
			mutate: func(c *Config) {
				c.Networks[1].NetworkID = c.Networks[0].NetworkID
			},
			wantErr: "duplicate network id",
		},
		{
			name: "unknown engine",
			mutate: func(c *Config) {
				c.Networks[0].Engine = "optimistic"
			},
			wantErr: "unknown engine",
		},
		{
			name: "beefy missing validator sets",
			mutate: func(c *Config) {
				c.Networks[0].NextValidatorSet = nil
			},
			wantErr: "requires current and next validator sets",
		},
		{
			name: "beefy non-consecutive set ids",
			mutate: func(c *Config) {
				c.Networks[0].NextValidatorSet.ID = c.Networks[0].CurrentValidatorSet.ID + 2
			},
			wantErr: "next validator set id must follow current",
		},
		{
			name: "beefy empty committee",
			mutate: func(c *Config) {
				c.Networks[0].CurrentValidatorSet.Len = 0
			},
			wantErr: "empty committee",
		},
		{
			name: "beefy malformed root",
			mutate: func(c *Config) {
				c.Networks[0].CurrentValidatorSet.Root = "0x1234"
			},
			wantErr: "invalid validator set root",
		},
		{
			name: "multisig no peers",
			mutate: func(c *Config) {
				c.Networks[1].Peers = nil
			},
			wantErr: "requires at least one peer",
		},
		{
			name: "multisig malformed peer key",
			mutate: func(c *Config) {
				c.Networks[1].Peers = []string{strings.TrimPrefix(testRoot, "0x")}
			},
			wantErr: "invalid peer key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				LogLevel:    defaultLogLevel,
				MetricsPort: defaultMetricsPort,
				Networks:    []NetworkConfig{beefyNetwork(), multisigNetwork()},
			}
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	// Command line option keys
	ConfigFileKey = "config-file"
	VersionKey    = "version"
	HelpKey       = "help"

	// Top-level configuration keys
	LogLevelKey    = "log-level"
	MetricsPortKey = "metrics-port"
	NetworksKey    = "networks"
)

const (
	defaultLogLevel    = "info"
	defaultMetricsPort = 9090
)

// Engine kinds selectable per network.
const (
	EngineBeefy    = "beefy"
	EngineMultisig = "multisig"
)

// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
	"github.com/spf13/cobra"

	"github.com/luxfi/bridge"
	"github.com/luxfi/bridge/beefy"
	"github.com/luxfi/bridge/config"
	"github.com/luxfi/bridge/mmr"
	"github.com/luxfi/bridge/multisig"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bridgecli",
	Short: "Bridge verifier CLI",
	Long: `Bridge verifier CLI provides offline tools around the trust-verification
core: threshold and subset-selection inspection, MMR proof checking, and
validation of verifier network configurations.`,
	Version: fmt.Sprintf("%s (built %s)", version, buildDate),
}

func init() {
	rootCmd.AddCommand(thresholdCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(verifyMMRCmd)
	rootCmd.AddCommand(networksCmd)

	selectCmd.Flags().String("seed", "", "32-byte hex seed")
	selectCmd.Flags().String("claimed", "", "comma-separated claimed signer indices")
	selectCmd.Flags().Uint32("length", 0, "committee size")

	verifyMMRCmd.Flags().String("root", "", "32-byte hex MMR root")
	verifyMMRCmd.Flags().String("leaf-hash", "", "32-byte hex leaf hash")
	verifyMMRCmd.Flags().String("items", "", "comma-separated hex sibling hashes")
	verifyMMRCmd.Flags().Uint64("order", 0, "proof order bitfield")

	networksCmd.Flags().String(config.ConfigFileKey, "", "path to the JSON configuration file")
}

var thresholdCmd = &cobra.Command{
	Use:   "threshold [committee-size]",
	Short: "Print the signature threshold for a committee size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid committee size: %w", err)
		}
		fmt.Printf("committee %d: threshold %d\n", n, bridge.SignatureThreshold(uint32(n)))
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Reproduce a randomized signature subset selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := hashFlag(cmd, "seed")
		if err != nil {
			return err
		}
		length, _ := cmd.Flags().GetUint32("length")
		indices, err := indicesFlag(cmd, "claimed")
		if err != nil {
			return err
		}

		claimed, err := bridge.NewBitField(indices, length)
		if err != nil {
			return err
		}
		selected, err := bridge.SelectRandomBits(seed, claimed, bridge.SignatureThreshold(length))
		if err != nil {
			return err
		}
		fmt.Printf("selected positions: %s\n", selected)
		return nil
	},
}

var verifyMMRCmd = &cobra.Command{
	Use:   "verify-mmr",
	Short: "Check a simplified MMR inclusion proof",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := hashFlag(cmd, "root")
		if err != nil {
			return err
		}
		leafHash, err := hashFlag(cmd, "leaf-hash")
		if err != nil {
			return err
		}
		order, _ := cmd.Flags().GetUint64("order")

		itemsFlag, _ := cmd.Flags().GetString("items")
		var items []common.Hash
		for _, s := range splitNonEmpty(itemsFlag) {
			item, err := parseHash(s)
			if err != nil {
				return fmt.Errorf("invalid proof item %q: %w", s, err)
			}
			items = append(items, item)
		}

		ok := mmr.Verify(root, leafHash, mmr.Proof{
			MerkleProofItems:         items,
			MerkleProofOrderBitField: order,
		})
		if !ok {
			return fmt.Errorf("proof verification failed")
		}
		fmt.Println("proof verified")
		return nil
	},
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "Validate a verifier configuration and initialize its networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.BuildViper(cmd.Flags())
		if err != nil {
			return err
		}
		cfg, err := config.NewConfig(v)
		if err != nil {
			return err
		}

		logger := log.NewNoOpLogger()
		store := bridge.NewMemStore()
		registry := bridge.NewRegistry()

		lightClient, err := beefy.New(beefy.Config{
			Log:        logger,
			Store:      store,
			Randomness: bridge.CryptoRandomness{},
		})
		if err != nil {
			return err
		}
		peerVerifier, err := multisig.New(multisig.Config{
			Log:   logger,
			Store: store,
		})
		if err != nil {
			return err
		}

		ctx := context.Background()
		for _, network := range cfg.Networks {
			networkID, err := network.ParseNetworkID()
			if err != nil {
				return err
			}
			switch network.Engine {
			case config.EngineBeefy:
				current, err := validatorSet(network.CurrentValidatorSet)
				if err != nil {
					return err
				}
				next, err := validatorSet(network.NextValidatorSet)
				if err != nil {
					return err
				}
				if err := lightClient.Initialize(ctx, networkID, network.StartBlock, current, next); err != nil {
					return err
				}
				if err := registry.Register(networkID, lightClient); err != nil {
					return err
				}
			case config.EngineMultisig:
				peers := make([]bridge.PeerKey, 0, len(network.Peers))
				for _, s := range network.Peers {
					raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
					if err != nil {
						return err
					}
					key, err := bridge.PeerKeyFromBytes(raw)
					if err != nil {
						return err
					}
					peers = append(peers, key)
				}
				if err := peerVerifier.Initialize(ctx, networkID, peers); err != nil {
					return err
				}
				if err := registry.Register(networkID, peerVerifier); err != nil {
					return err
				}
			}
			fmt.Printf("network %s: %s engine initialized\n", networkID, network.Engine)
		}
		fmt.Printf("%d network(s) configured\n", len(cfg.Networks))
		return nil
	},
}

func validatorSet(cfg *config.ValidatorSetConfig) (bridge.ValidatorSet, error) {
	root, err := parseHash(cfg.Root)
	if err != nil {
		return bridge.ValidatorSet{}, fmt.Errorf("invalid validator set root: %w", err)
	}
	return bridge.ValidatorSet{
		ID:   cfg.ID,
		Len:  cfg.Len,
		Root: root,
	}, nil
}

func hashFlag(cmd *cobra.Command, name string) (common.Hash, error) {
	s, _ := cmd.Flags().GetString(name)
	h, err := parseHash(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return h, nil
}

func parseHash(s string) (common.Hash, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return common.Hash{}, err
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("expected %d bytes, got %d", common.HashLength, len(b))
	}
	return common.BytesToHash(b), nil
}

func indicesFlag(cmd *cobra.Command, name string) ([]uint32, error) {
	s, _ := cmd.Flags().GetString(name)
	var indices []uint32
	for _, part := range splitNonEmpty(s) {
		i, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q: %w", part, err)
		}
		indices = append(indices, uint32(i))
	}
	return indices, nil
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Package config loads RecoveryConfig values via Viper, layering defaults,
// an optional YAML file, and environment variables.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/go-forensics/hfsrecover/internal/types"
)

// Load returns a RecoveryConfig built from defaults, an optional
// hfsrecover.yaml, HFSR_-prefixed environment variables, and finally
// overrides - in increasing order of precedence, matching Viper's documented
// flag > env > file > default resolution.
func Load(overrides types.RecoveryConfig) (types.RecoveryConfig, error) {
	v := viper.New()
	v.SetConfigName("hfsrecover")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.hfsrecover")
	v.AddConfigPath("/etc/hfsrecover")

	v.SetDefault("sector_size", 512)
	v.SetDefault("block_size", 4096)
	v.SetDefault("buffer_size", 4096)
	v.SetDefault("catalog_node_size", 4096)
	v.SetDefault("extent_node_size", 4096)
	v.SetDefault("stop_block", 0)
	v.SetDefault("permissive", false)
	v.SetDefault("dedup", false)

	v.SetEnvPrefix("HFSR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.RecoveryConfig{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := types.RecoveryConfig{
		SectorSize:      v.GetInt64("sector_size"),
		BlockSize:       v.GetInt64("block_size"),
		BufferSize:      v.GetInt64("buffer_size"),
		CatalogNodeSize: v.GetInt64("catalog_node_size"),
		ExtentNodeSize:  v.GetInt64("extent_node_size"),
		StopBlock:       v.GetInt64("stop_block"),
		Permissive:      v.GetBool("permissive"),
		Dedup:           v.GetBool("dedup"),
	}

	applyOverrides(&cfg, overrides)
	return cfg, nil
}

// applyOverrides copies every non-zero field of overrides onto cfg - these
// come from explicit CLI flags, which always win.
func applyOverrides(cfg *types.RecoveryConfig, overrides types.RecoveryConfig) {
	if overrides.SectorSize != 0 {
		cfg.SectorSize = overrides.SectorSize
	}
	if overrides.BlockSize != 0 {
		cfg.BlockSize = overrides.BlockSize
	}
	if overrides.BufferSize != 0 {
		cfg.BufferSize = overrides.BufferSize
	}
	if overrides.CatalogNodeSize != 0 {
		cfg.CatalogNodeSize = overrides.CatalogNodeSize
	}
	if overrides.ExtentNodeSize != 0 {
		cfg.ExtentNodeSize = overrides.ExtentNodeSize
	}
	if overrides.StopBlock != 0 {
		cfg.StopBlock = overrides.StopBlock
	}
	if overrides.Permissive {
		cfg.Permissive = true
	}
	if overrides.Dedup {
		cfg.Dedup = true
	}
}

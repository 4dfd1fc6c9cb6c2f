// Package config provides the configuration system for unistr.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← UNISTR_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← unistr.toml or unistr.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Layers 1 to 3 are merged by Load; flags are applied by the caller on the
// returned Config before calling Validate.
//
// # Basic Usage
//
//	cfg, err := config.Load("unistr.toml")
//	if err != nil {
//	    return err
//	}
//	delim := cfg.Input.Delimiter
package config

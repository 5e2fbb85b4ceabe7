// Package config provides loading and environment overlay for snaptail
// configuration. It exposes a Default() baseline, Load for JSON or YAML
// files, and FromEnv for SNAPTAIL_* variables. Validation runs before the
// core starts; the core itself assumes a valid Config.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/snaptail.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil { /* reject before startup */ }
package config

// Package config loads bring-up settings.
//
// Settings are resolved in this order:
//   - built-in defaults
//   - a YAML file (optional)
//   - BRINGUP_* environment variables, which may come from a dotenv file
//
// The result is validated before it is returned.
//
// Usage:
//
//	cfg, err := config.Load("configs/bringup.yaml")
//	if err != nil {
//	    log.Fatalf("%+v", err)
//	}
//	opts, err := cfg.BringupOptions()
package config

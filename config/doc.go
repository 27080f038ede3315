// Package config loads and validates service configuration.
//
// LoadConfig reads a YAML file found under cmd/<service>/ or config/, a
// matching .env file, and the process environment, and unmarshals them with
// Viper. Load does the same for Config and then applies defaults and
// validates every section with struct tags.
//
//	cfg, err := config.Load("locatordemo")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	locking := cfg.Locator.LockingStrategy()
package config

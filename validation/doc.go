// Package validation checks configuration structs and request input.
//
// Struct tag validation uses the go-playground validator and reports fields
// by their config key:
//
//	type LocatorConfig struct {
//	    Locking string `mapstructure:"locking" validate:"oneof=mutex semaphore queue"`
//	}
//	err := validation.Struct(cfg)
//
// Programmatic checks collect every failure before reporting:
//
//	err := validation.New().
//	    Required("tenant", claims.Tenant).
//	    MaxLength("tenant", claims.Tenant, 64).
//	    Validate()
package validation

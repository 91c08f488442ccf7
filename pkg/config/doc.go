// Package config provides unified configuration management for the Prism
// table engine and its data sources.
//
// # Key Features
//
// - Options: single configuration structure consumed by the engine, sources, and CLI
// - Structured sections: Engine, Source, Render, Observability, Memory
// - Environment variable substitution with ${VAR_NAME} syntax
// - Automatic defaults and validation
//
// # Usage
//
// Basic configuration loading:
//
//	opts := config.NewOptions()
//	err := config.Load("prism.yaml", opts)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := opts.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// The engine never reads a mutable package-level default for element types.
// Construction paths that need a type when the caller gave none (empty-table
// creation, NA-filled columns) receive it from Options.Engine explicitly.
//
// # Environment Variable Substitution
//
// Configuration files may reference environment variables:
//
//	source:
//	  delimiter: "${PRISM_DELIMITER}"
//
// References are replaced before YAML parsing, so unset variables become
// empty strings.
package config

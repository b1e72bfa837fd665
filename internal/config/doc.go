// Package config provides configuration management for sitegauge.
//
// Configuration flows from three sources, later ones winning:
//  1. Built-in defaults (NewConfig)
//  2. An optional YAML file (.sitegauge.yaml, found via FindConfigFile)
//  3. CLI flags
//
// The resulting Config is passed through the application by explicit
// dependency injection. There is no global configuration state, which
// keeps audits independently testable and safe to run concurrently.
package config

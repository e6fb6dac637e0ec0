// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Variables may come from the process environment or from an optional .env
// file loaded with LoadDotEnv before Load is called.
package config

// Package config loads and validates the application configuration from
// environment variables (LEXIKON_ prefix) and an optional config file.
package config

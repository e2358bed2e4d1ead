// Package config loads typed configuration structs from environment
// variables, with an optional .env file for local development. Each
// component declares its own config struct with env tags; nothing here
// knows about specific settings.
package config

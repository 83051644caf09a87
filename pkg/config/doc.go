// Package config loads typed configuration from environment variables.
//
// Load reads an optional .env file through github.com/joho/godotenv and then
// parses struct tags with github.com/caarlos0/env/v11. Each package in this
// module declares its own Config struct; the server composes them into one
// struct and loads it once at startup.
//
// Tests pass variables with WithEnvironment instead of mutating the process
// environment.
package config

// Package config loads typed configuration structs from environment
// variables using caarlos0/env field tags, with an optional .env file read
// once at process start via godotenv.
//
// Each configuration type is parsed once per process and cached; required
// variables that are absent make Load fail, which MustLoad turns into a
// panic so misconfigured deployments stop before serving traffic.
package config

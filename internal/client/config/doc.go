// Package config loads runtime configuration for the feedhub inbox client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected with -c / -config or the
//     FEEDHUB_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the feedhub API
//	-u string   username
//	-i int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "username": "alice",
//	  "request_timeout": "10s"
//	}
package config

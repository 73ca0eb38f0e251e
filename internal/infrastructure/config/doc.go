// Package config provides YAML configuration loading for graynode.
//
// Configuration is layered:
//
//  1. Built-in defaults
//  2. The YAML file (path from the command line or GRAYNODE_CONFIG)
//  3. Environment variable overrides (GRAYNODE_SECTION_KEY)
//
// Connection credentials (SSID, passphrases, broker accounts) deliberately do
// not live here; they are resolved by internal/credentials from its own
// chain. This file only says where that chain looks.
package config

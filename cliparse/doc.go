// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cliparse resolves runtime configuration from command-line
// flags, environment variables, and an optional YAML file. Flags win
// over environment variables, which win over the file.
package cliparse

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package middleware provides HTTP middleware and response helpers:
// request logging, CORS, JSON encoding, and the mapping from domain
// errors to HTTP status codes.
package middleware

package config

import "errors"

var (
	errInvalidPrecision   = errors.New("precision must be -1 (auto) or a non-negative integer")
	errInvalidIdleTimeout = errors.New("idleTimeoutMs must be positive")
)

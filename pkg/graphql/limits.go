package graphql

import (
	"fmt"
)

// LimitConfig bounds list results and query shape.
type LimitConfig struct {
	DefaultLimit int // Default limit when no limit specified
	MaxLimit     int // Maximum allowed limit
	MaxDepth     int // Maximum selection depth, 0 disables the check
}

// DefaultLimitConfig returns the limits used by the HTTP server.
func DefaultLimitConfig() *LimitConfig {
	return &LimitConfig{
		DefaultLimit: 50,
		MaxLimit:     500,
		MaxDepth:     6,
	}
}

// ValidateLimitConfig validates the limit configuration
func ValidateLimitConfig(config *LimitConfig) error {
	if config.MaxLimit <= 0 {
		return fmt.Errorf("max limit must be greater than 0, got %d", config.MaxLimit)
	}
	if config.DefaultLimit <= 0 {
		return fmt.Errorf("default limit must be greater than 0, got %d", config.DefaultLimit)
	}
	if config.DefaultLimit > config.MaxLimit {
		return fmt.Errorf("default limit (%d) cannot exceed max limit (%d)", config.DefaultLimit, config.MaxLimit)
	}
	if config.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", config.MaxDepth)
	}
	return nil
}

// applyLimit maps a requested limit onto the configured bounds.
// Negative means unspecified; zero yields an empty list.
func applyLimit(requested int, config *LimitConfig) int {
	switch {
	case requested < 0:
		return config.DefaultLimit
	case requested > config.MaxLimit:
		return config.MaxLimit
	default:
		return requested
	}
}

package common

import "time"

const (
	DefaultTopK        = 3
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.5

	DefaultProviderTimeout = 30 * time.Second

	ContextSeparator = "\n\n"

	RequestIDHeader = "X-Request-Id"
)

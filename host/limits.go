package host

import (
	"fmt"
	"time"
)

// wasmPageSize is the WebAssembly linear-memory page size.
const wasmPageSize = 64 * 1024

// Default buffer capacities for boundary calls. The guest reports the true
// required length, so these only set the first attempt; a truncated call is
// retried with the reported size.
const (
	defaultDescribeCapacity = 16 * 1024
	defaultInvokeCapacity   = 64 * 1024
)

// parseMemoryLimit parses a declared memory ceiling such as "5MB" or "1GB"
// into bytes.
func parseMemoryLimit(limit string) (uint64, error) {
	var value uint64
	var unit string

	if _, err := fmt.Sscanf(limit, "%d%s", &value, &unit); err != nil {
		return 0, fmt.Errorf("invalid memory limit %q: %w", limit, err)
	}

	switch unit {
	case "KB":
		return value * 1024, nil
	case "MB":
		return value * 1024 * 1024, nil
	case "GB":
		return value * 1024 * 1024 * 1024, nil
	default:
		return 0, fmt.Errorf("invalid memory limit %q: unsupported unit %s", limit, unit)
	}
}

// memoryLimitPages converts a declared ceiling to linear-memory pages,
// rounding up so the declared amount always fits.
func memoryLimitPages(limit string) (uint32, error) {
	bytes, err := parseMemoryLimit(limit)
	if err != nil {
		return 0, err
	}
	pages := bytes / wasmPageSize
	if bytes%wasmPageSize != 0 {
		pages++
	}
	return uint32(pages), nil
}

// callTimeout converts the manifest's millisecond timeout to a duration.
// Zero means no timeout.
func callTimeout(timeoutMS int) time.Duration {
	if timeoutMS <= 0 {
		return 0
	}
	return time.Duration(timeoutMS) * time.Millisecond
}

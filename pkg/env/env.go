package env

import (
	"os"
	"strings"
)

// Get reads an environment variable, falling back when it is unset or
// holds only whitespace.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return fallback
	}
	return val
}

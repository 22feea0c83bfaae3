package env

import "os"

// GetEnv returns the value of envVar, or defaultValue when unset/empty.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

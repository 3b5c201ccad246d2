// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/anonymoushlmnop/matrix-discovery/logger"
)

// LoadEnv reads the given dotenv files (".env" when none) into the process
// environment. Variables already set are not overridden; a missing file is
// not an error.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.Debug("no .env file loaded, using system environment", "err", err)
	}
}

// GetEnvString returns the value of key, or defaultValue when unset.
func GetEnvString(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	return value
}

// GetEnvFloat returns key parsed as float64, or defaultValue when unset or
// unparseable.
func GetEnvFloat(key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.Warn("ignoring non-numeric environment value", "key", key, "value", value)
		return defaultValue
	}

	return f
}

// LookupEnvFloat parses key as float64. ok is false when key is unset; err
// is non-nil when it is set but not a number.
func LookupEnvFloat(key string) (value float64, ok bool, err error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return 0, false, nil
	}
	value, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%s=%q: not a number", key, raw)
	}

	return value, true, nil
}

// LookupEnvInt parses key as int, like LookupEnvFloat.
func LookupEnvInt(key string) (value int, ok bool, err error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return 0, false, nil
	}
	value, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%s=%q: not an integer", key, raw)
	}

	return value, true, nil
}

// GetEnvInt returns key parsed as int, or defaultValue when unset or unparseable.
func GetEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn("ignoring non-integer environment value", "key", key, "value", value)
		return defaultValue
	}

	return n
}

// GetEnvBool accepts "true" and "false"; anything else yields defaultValue.
func GetEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if value == "true" || value == "false" {
		return value == "true"
	}

	return defaultValue
}

// GetEnvDuration returns key parsed by time.ParseDuration, or defaultValue.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn("ignoring invalid duration in environment", "key", key, "value", value)
		return defaultValue
	}

	return d
}

package utils

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/yungbote/mrkr-backend/internal/logger"
)

func GetEnv(key, defaultVal string, log *logger.Logger) string {
	if log != nil {
		log = log.With("env_var", key)
	}
	val, ok := os.LookupEnv(key)
	if !ok {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", defaultVal)
		}
		return defaultVal
	}
	if log != nil {
		log.Debug("Environment variable found, using environment", "environment", val)
	}
	return val
}

func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
	if log != nil {
		log = log.With("env_var", key)
	}
	valStr, ok := os.LookupEnv(key)
	if !ok {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", defaultVal)
		}
		return defaultVal
	}
	i, err := strconv.Atoi(valStr)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable could not be parsed as int, using default", "providedVal", valStr, "defaultVal", defaultVal, "error", err)
		}
		return defaultVal
	}
	if log != nil {
		log.Debug("Environment variable found, using it", "value", i)
	}
	return i
}

var placeholderPattern = regexp.MustCompile(`{{(\w+)}}`)

// ResolveString replaces every {{VAR_NAME}} placeholder in s with the value
// of the corresponding environment variable. An unset variable is an error;
// resolution fails before the string is used for any I/O.
func ResolveString(s string) (string, error) {
	var missing string
	out := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		val, ok := os.LookupEnv(name)
		if !ok {
			if missing == "" {
				missing = name
			}
			return match
		}
		return val
	})
	if missing != "" {
		return "", fmt.Errorf("environment variable '%s' not set", missing)
	}
	return out, nil
}
